package components

import (
	"net/http"
	"testing"
	"time"

	"github.com/pthm/shiftview"
	"github.com/pthm/shiftview/lib/api/apitest"
)

const noticePath = "/shops/s1/notices/n1"

func editProps() NoticeEditProps {
	return NoticeEditProps{ShopID: apitest.ShopID, NoticeID: apitest.FirstNoticeID}
}

func validForm() map[string]string {
	return map[string]string{
		"hourlyPay":   "15000",
		"startsAt":    "2030-03-01T10:00",
		"workhour":    "5",
		"description": "Weekend morning shift.",
	}
}

func TestNoticeEditPopulates(t *testing.T) {
	set, _ := setup(t)

	res, err := shiftview.TestRenderWithContext(employer(), set.NoticeEdit, editProps())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{`name="hourlyPay" type="number" value="11000"`, `value="2030-01-02T09:00"`, `name="workhour" type="number" value="4"`, "Shift 1 at the **bakery**.</textarea>"}
	if !res.HTMLContainsAll(want...) {
		t.Errorf("HTML missing one of %q:\n%s", want, res.HTML)
	}
}

func TestNoticeEditPopulatesOnce(t *testing.T) {
	set, _ := setup(t)

	props := editProps()
	props.Populated = apitest.ShopID + "/" + apitest.FirstNoticeID
	res, err := shiftview.TestRenderWithContext(employer(), set.NoticeEdit, props)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.HTMLContains(`value="11000"`) {
		t.Errorf("already populated form must not be refilled:\n%s", res.HTML)
	}
}

func TestNoticeEditSave(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestCallWithContext(employer(), set.NoticeEdit, set.NoticeEdit.Call("save", editProps()), validForm())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !res.IsOK() {
		t.Fatalf("status = %d: %s", res.StatusCode, res.HTML)
	}
	if res.Modal == nil || res.Modal.Content != "Notice updated." || res.Modal.DismissURL != "/shops/s1" {
		t.Errorf("modal = %+v", res.Modal)
	}
	if !res.HasEvent(EventNoticeUpdated) {
		t.Errorf("events = %v", res.TriggeredEvents)
	}

	n := srv.Notice(apitest.FirstNoticeID)
	if n.HourlyPay != 15000 || n.WorkHour != 5 || n.Description != "Weekend morning shift." {
		t.Errorf("stored notice = %+v", n)
	}
	if want := time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC); !n.StartsAt.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", n.StartsAt, want)
	}
}

func TestNoticeEditValidation(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"missing pay", "hourlyPay", "", "This field is required."},
		{"missing description", "description", "  ", "This field is required."},
		{"missing start", "startsAt", "", "This field is required."},
		{"pay not a number", "hourlyPay", "lots", "Enter a valid value."},
		{"zero hours", "workhour", "0", "Enter a valid value."},
		{"bad start", "startsAt", "next tuesday", "Enter a valid value."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, srv := setup(t)

			form := validForm()
			form[tt.field] = tt.value
			res, err := shiftview.TestCallWithContext(employer(), set.NoticeEdit, set.NoticeEdit.Call("save", editProps()), form)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if !res.IsOK() {
				t.Errorf("status = %d, want 200 so the form is swapped in", res.StatusCode)
			}
			if !res.HTMLContainsAll(`id="`+tt.field+`"`, `aria-invalid="true"`, `<p class="field-error">`+tt.message+`</p>`) {
				t.Errorf("want %q next to %s:\n%s", tt.message, tt.field, res.HTML)
			}
			if res.Modal != nil {
				t.Errorf("validation failures show no modal, got %+v", res.Modal)
			}
			if got := srv.Count(http.MethodPut, noticePath); got != 0 {
				t.Errorf("PUT requests = %d, want 0", got)
			}
		})
	}
}

func TestNoticeEditKeepsInputOnFailure(t *testing.T) {
	set, srv := setup(t)
	srv.Fail(http.MethodPut, noticePath, http.StatusInternalServerError, "try again later")

	res, err := shiftview.TestCallWithContext(employer(), set.NoticeEdit, set.NoticeEdit.Call("save", editProps()), validForm())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Modal == nil || res.Modal.Kind != shiftview.ModalError || res.Modal.Content != "try again later" {
		t.Errorf("modal = %+v", res.Modal)
	}
	if !res.HTMLContainsAll(`value="15000"`, "Weekend morning shift.</textarea>") {
		t.Errorf("typed values should survive the failure:\n%s", res.HTML)
	}
	if res.HasEvent(EventNoticeUpdated) {
		t.Error("failed save must not announce an update")
	}
}

func TestNoticeEditRequiresSignIn(t *testing.T) {
	set, srv := setup(t)

	res, err := shiftview.TestCallWithContext(anonymous(), set.NoticeEdit, set.NoticeEdit.Call("save", editProps()), validForm())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !res.RedirectedTo(LoginURL) {
		t.Errorf("redirect = %q, want %s", res.RedirectURL, LoginURL)
	}
	if got := srv.Count(http.MethodPut, noticePath); got != 0 {
		t.Errorf("PUT requests = %d, want 0", got)
	}
}
