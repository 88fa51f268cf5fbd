package shiftview

import "github.com/a-h/templ"

// Modal kinds.
const (
	ModalAlert = "alert"
	ModalError = "error"
)

// Modal is a dismissible dialog with a message and a single button.
//
// Modals are rendered as an out-of-band swap that replaces the contents of
// the #modal container, so at most one is visible. Dismissing clears the
// container; when DismissURL is set the button navigates there instead
// (used after a successful edit to leave the form).
//
//	return shiftview.OK(props).Modal(shiftview.Alert("Notice updated.").DismissTo("/shops/s1"))
type Modal struct {
	Kind       string
	Content    string
	Button     string
	DismissURL string
}

// Alert returns an informational modal with an "OK" button.
func Alert(content string) Modal {
	return Modal{Kind: ModalAlert, Content: content, Button: "OK"}
}

// ErrorModal returns an error modal with an "OK" button.
func ErrorModal(content string) Modal {
	return Modal{Kind: ModalError, Content: content, Button: "OK"}
}

// WithButton changes the button label.
func (m Modal) WithButton(label string) Modal {
	m.Button = label
	return m
}

// DismissTo makes the button navigate to url.
func (m Modal) DismissTo(url string) Modal {
	m.DismissURL = url
	return m
}

func (m Modal) kind() string {
	if m.Kind == "" {
		return ModalAlert
	}
	return m.Kind
}

func (m Modal) button() string {
	if m.Button == "" {
		return "OK"
	}
	return m.Button
}

// RenderModalOOB renders m as an OOB swap into the #modal container.
func RenderModalOOB(m Modal) templ.Component {
	return modalOOB(m)
}
