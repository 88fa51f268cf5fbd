package shiftview

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func renderModal(t *testing.T, m Modal) string {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderModalOOB(m).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRenderModalOOB(t *testing.T) {
	got := renderModal(t, Alert("Notice updated."))

	for _, want := range []string{
		`<div id="modal" hx-swap-oob="innerHTML">`,
		`class="modal modal-alert"`,
		`<p class="modal-content">Notice updated.</p>`,
		`>OK</button>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %s", want, got)
		}
	}
	if strings.Count(got, "modal-button") != 1 {
		t.Errorf("want exactly one button: %s", got)
	}
}

func TestRenderModalOOBDismissURL(t *testing.T) {
	got := renderModal(t, Alert("Saved").WithButton("Close").DismissTo("/shops/s1?tab=notices&x=1"))

	if !strings.Contains(got, `<a class="modal-button" href="/shops/s1?tab=notices&amp;x=1">Close</a>`) {
		t.Errorf("dismiss link not rendered: %s", got)
	}
	if strings.Contains(got, "<button") {
		t.Error("link modal should not render a button")
	}
}

func TestRenderModalOOBEscaping(t *testing.T) {
	got := renderModal(t, Modal{Kind: `x"><script>`, Content: "<b>pay</b> & go"})

	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Errorf("unescaped content: %s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;pay&lt;/b&gt; &amp; go") {
		t.Errorf("content not escaped: %s", got)
	}
	if !strings.Contains(got, ">OK</button>") {
		t.Error("empty button label should default to OK")
	}
}

func TestParseModalFromHTML(t *testing.T) {
	body := `<form></form>` + renderModal(t, ErrorModal("Fill in <all> fields").DismissTo("/back"))

	m := parseModalFromHTML(body)
	if m == nil {
		t.Fatal("expected modal")
	}
	want := Modal{Kind: ModalError, Content: "Fill in <all> fields", Button: "OK", DismissURL: "/back"}
	if *m != want {
		t.Errorf("parsed %+v, want %+v", *m, want)
	}

	if parseModalFromHTML(`<div>no modal</div>`) != nil {
		t.Error("expected nil without modal")
	}
}

func TestModalContainer(t *testing.T) {
	var buf bytes.Buffer
	if err := ModalContainer().Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `<div id="modal" class="modal-container"></div>` {
		t.Errorf("container = %q", buf.String())
	}
}
