package shiftview

import (
	"errors"
	"testing"
)

type resultProps struct {
	NoticeID string
}

func TestResultOK(t *testing.T) {
	r := OK(resultProps{NoticeID: "n1"})

	if r.GetProps().NoticeID != "n1" {
		t.Errorf("props = %+v", r.GetProps())
	}
	if r.GetErr() != nil || r.GetRedirect() != "" || r.GetModal() != nil || r.ShouldSkip() {
		t.Errorf("OK result carries unexpected state: %+v", r)
	}
	if r.GetStatus() != 0 {
		t.Errorf("status = %d, want 0 (default)", r.GetStatus())
	}
}

func TestResultErr(t *testing.T) {
	cause := errors.New("backend down")
	r := Err(resultProps{}, cause)

	if !errors.Is(r.GetErr(), cause) {
		t.Errorf("GetErr() = %v", r.GetErr())
	}
}

func TestResultSkipAndRedirect(t *testing.T) {
	if !Skip[resultProps]().ShouldSkip() {
		t.Error("Skip should set skip")
	}
	if got := Redirect[resultProps]("/login").GetRedirect(); got != "/login" {
		t.Errorf("redirect = %q", got)
	}
}

func TestResultModal(t *testing.T) {
	r := OK(resultProps{}).
		Modal(ErrorModal("first")).
		Modal(Alert("Notice updated."))

	m := r.GetModal()
	if m == nil {
		t.Fatal("expected modal")
	}
	if m.Content != "Notice updated." || m.Kind != ModalAlert {
		t.Errorf("modal = %+v, want the last one set", m)
	}
}

func TestResultTrigger(t *testing.T) {
	r := OK(resultProps{}).Trigger("application:changed", map[string]any{"id": "a1"})

	if r.GetTrigger() != "application:changed" {
		t.Errorf("trigger = %q", r.GetTrigger())
	}
	if r.GetTriggerData()["id"] != "a1" {
		t.Errorf("trigger data = %v", r.GetTriggerData())
	}
}

func TestResultHeadersAndStatus(t *testing.T) {
	r := OK(resultProps{}).
		Header("X-Notice", "n1").
		Header("HX-Push-Url", "/notices/n1").
		Status(201)

	h := r.GetHeaders()
	if h["X-Notice"] != "n1" || h["HX-Push-Url"] != "/notices/n1" {
		t.Errorf("headers = %v", h)
	}
	if r.GetStatus() != 201 {
		t.Errorf("status = %d", r.GetStatus())
	}
}

func TestResultIsValue(t *testing.T) {
	base := OK(resultProps{})
	_ = base.Header("X-A", "1").Modal(Alert("x"))

	if base.GetModal() != nil {
		t.Error("chaining must not mutate the receiver's modal")
	}
}
