package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/form"
	"github.com/pthm/shiftview/lib/resource"
)

// noticeKey identifies a notice. Either half missing means no notice.
type noticeKey struct{ ShopID, NoticeID string }

func (k noticeKey) Empty() bool { return k.ShopID == "" || k.NoticeID == "" }

// submitted carries the outcome of an apply or cancel.
type submitted struct {
	view   uint64
	action string
	app    api.Application
	modal  shiftview.Modal
	err    error
}

const signInHint = "Sign in first: shiftview-tui login -email you@example.com"

// detailView shows one notice and lets an employee apply or cancel.
type detailView struct {
	d    *deps
	id   uint64
	key  noticeKey
	back int

	ctx    context.Context
	cancel context.CancelFunc

	notice *resource.Fetcher[noticeKey, api.Notice]
	apply  *form.Controller[struct{}]

	// applicationID is authoritative once decided is set by an apply or
	// cancel; before that the fetched notice reports it.
	applicationID string
	decided       bool
	modal         *shiftview.Modal
}

func newDetailView(d *deps, key noticeKey, back int) *detailView {
	v := &detailView{d: d, id: d.nextID(), key: key, back: back}
	v.ctx, v.cancel = context.WithCancel(context.Background())
	v.notice = resource.NewFetcher(func(ctx context.Context, k noticeKey) (api.Notice, error) {
		return d.api.GetNotice(ctx, d.cred, k.ShopID, k.NoticeID)
	},
		resource.OnChange(func() { d.post(changed{view: v.id}) }),
		resource.WithContext(v.ctx),
		resource.WithLogger(d.logger, "notice"),
	)
	v.apply = form.New(struct{}{})
	return v
}

func (v *detailView) Init() tea.Cmd {
	v.notice.Set(v.key)
	return nil
}

func (v *detailView) Close() {
	v.cancel()
	v.notice.Close()
}

func (v *detailView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case submitted:
		if msg.view == v.id {
			v.finish(msg)
		}
	case tea.KeyMsg:
		return v, v.onKey(msg.String())
	}
	return v, nil
}

func (v *detailView) onKey(k string) tea.Cmd {
	if v.modal != nil {
		switch k {
		case "enter", "esc", " ":
			v.modal = nil
		}
		return nil
	}
	switch k {
	case "esc", "backspace", "left", "h":
		return navigate(openList{offset: v.back})
	case "r":
		v.notice.Reload()
	case "a":
		if v.canApply() {
			return v.submit("apply")
		}
	case "c":
		if v.application() != "" {
			return v.submit("cancel")
		}
	}
	return nil
}

func (v *detailView) canApply() bool {
	st := v.notice.State()
	return st.Present && !st.Data.Closed && !st.Data.Past(v.d.now()) && v.application() == ""
}

// application is the visitor's live application on this notice.
func (v *detailView) application() string {
	if v.decided {
		return v.applicationID
	}
	st := v.notice.State()
	if a := st.Data.CurrentApplication; st.Present && a != nil && a.Status != api.StatusCanceled {
		return a.ID
	}
	return ""
}

// submit runs the action off the event loop. A second submit while one is
// in flight is refused by the form controller.
func (v *detailView) submit(action string) tea.Cmd {
	var (
		ctx   = v.ctx
		d     = v.d
		key   = v.key
		id    = v.id
		ctrl  = v.apply
		appID = v.application()
	)
	success := "Your application was submitted."
	if action == "cancel" {
		success = "Your application was canceled."
	}
	return func() tea.Msg {
		var app api.Application
		m, err := ctrl.Submit(ctx, struct{}{}, func(ctx context.Context, _ struct{}) error {
			var err error
			if action == "cancel" {
				ref := api.ApplicationRef{ShopID: key.ShopID, NoticeID: key.NoticeID, ApplicationID: appID}
				app, err = d.api.UpdateApplicationStatus(ctx, d.cred, ref, api.StatusCanceled)
			} else {
				app, err = d.api.Apply(ctx, d.cred, key.ShopID, key.NoticeID)
			}
			return err
		})
		if err == nil {
			m.Content = success
		}
		return submitted{view: id, action: action, app: app, modal: m, err: err}
	}
}

func (v *detailView) finish(msg submitted) {
	if errors.Is(msg.err, form.ErrBusy) {
		return
	}
	// The next submission starts from a fresh controller.
	v.apply = form.New(struct{}{})

	switch {
	case errors.Is(msg.err, api.ErrMissingCredential), api.StatusCode(msg.err) == http.StatusUnauthorized:
		m := shiftview.ErrorModal(signInHint)
		v.modal = &m
		return
	case msg.err != nil:
		v.d.logger.Warn("application_event", "event", msg.action+"_failed", "notice", v.key.NoticeID, "error", msg.err)
		m := shiftview.ErrorModal(api.Message(msg.err))
		v.modal = &m
		return
	}

	v.d.logger.Info("application_event", "event", msg.action, "notice", v.key.NoticeID, "application", msg.app.ID)
	v.decided = true
	if msg.action == "cancel" {
		v.applicationID = ""
	} else {
		v.applicationID = msg.app.ID
	}
	v.modal = &msg.modal
}

func (v *detailView) View() string {
	var b strings.Builder
	b.WriteString(v.body())
	if v.modal != nil {
		fmt.Fprintf(&b, "\n\n%s", modalStyle.Render(v.modal.Content+"\n\n[ "+v.modal.Button+" ]"))
	}
	return b.String()
}

func (v *detailView) body() string {
	st := v.notice.State()
	switch {
	case st.Failed() && !st.Present:
		return errorStyle.Render(api.Message(st.Err)) + "\n\n" + dimStyle.Render("esc back · r retry")
	case !st.Present:
		return dimStyle.Render("Loading…")
	}

	n := st.Data
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", dimStyle.Render(n.Shop.Category), titleStyle.Render(n.Shop.Name))
	fmt.Fprintf(&b, "Pay      %s%s\n", won(n.HourlyPay), increase(n))
	fmt.Fprintf(&b, "When     %s\n", schedule(n.StartsAt, n.WorkHour, v.d.loc))
	fmt.Fprintf(&b, "Where    %s\n\n", strings.TrimSpace(n.Shop.Address1+" "+n.Shop.Address2))
	if n.Description != "" {
		b.WriteString(n.Description + "\n\n")
	}
	if st.Failed() {
		b.WriteString(errorStyle.Render(api.Message(st.Err)) + "\n")
	}
	b.WriteString(dimStyle.Render(v.help(n)))
	return b.String()
}

func (v *detailView) help(n api.Notice) string {
	switch {
	case n.Closed:
		return "closed · esc back"
	case n.Past(v.d.now()):
		return "expired · esc back"
	case v.application() != "":
		return "applied · c cancel · esc back"
	}
	return "a apply · r reload · esc back"
}
