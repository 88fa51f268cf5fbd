package form

import (
	"context"
	"errors"
	"testing"

	"github.com/pthm/shiftview"
)

type noticeForm struct {
	HourlyPay   int    `json:"hourlyPay" validate:"required"`
	StartsAt    string `json:"startsAt" validate:"required"`
	WorkHour    int    `json:"workhour" validate:"required"`
	Description string `json:"description"`
}

func filled() noticeForm {
	return noticeForm{HourlyPay: 12000, StartsAt: "2026-11-01T09:00", WorkHour: 4, Description: "weekend shift"}
}

func TestSubmitBlocksMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(f *noticeForm)
		fields []string
	}{
		{"hourly pay", func(f *noticeForm) { f.HourlyPay = 0 }, []string{"hourlyPay"}},
		{"start", func(f *noticeForm) { f.StartsAt = "" }, []string{"startsAt"}},
		{"all", func(f *noticeForm) { *f = noticeForm{} }, []string{"hourlyPay", "startsAt", "workhour"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(noticeForm{})
			values := filled()
			tt.edit(&values)

			called := false
			_, err := c.Submit(context.Background(), values, func(ctx context.Context, v noticeForm) error {
				called = true
				return nil
			})

			if called {
				t.Fatal("submit function called for invalid input")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(ve.Fields) != len(tt.fields) {
				t.Errorf("fields = %+v, want %v", ve.Fields, tt.fields)
			}
			for _, f := range tt.fields {
				if !ve.Has(f) {
					t.Errorf("missing %q in %+v", f, ve.Fields)
				}
			}
			if c.State() != Editing {
				t.Errorf("state = %v, want editing", c.State())
			}
			if c.Values() != values {
				t.Error("input not retained")
			}
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	c := New(noticeForm{}, WithSuccess("Notice updated."), DismissTo("/shops/s1"))

	var got noticeForm
	m, err := c.Submit(context.Background(), filled(), func(ctx context.Context, v noticeForm) error {
		got = v
		if c.State() != Submitting {
			t.Errorf("state during submit = %v", c.State())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got != filled() {
		t.Errorf("submitted %+v", got)
	}
	want := shiftview.Modal{Kind: shiftview.ModalAlert, Content: "Notice updated.", Button: "OK", DismissURL: "/shops/s1"}
	if m != want {
		t.Errorf("modal = %+v, want %+v", m, want)
	}
	if c.State() != Succeeded || c.Err() != nil {
		t.Errorf("state = %v err = %v", c.State(), c.Err())
	}
}

func TestSubmitFailureRetainsInput(t *testing.T) {
	c := New(noticeForm{})
	boom := errors.New("server said no")

	values := filled()
	_, err := c.Submit(context.Background(), values, func(ctx context.Context, v noticeForm) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if c.State() != Editing || !errors.Is(c.Err(), boom) {
		t.Errorf("state = %v err = %v, want editing with the error", c.State(), c.Err())
	}
	if c.Values() != values {
		t.Error("input lost after failure")
	}

	values.WorkHour = 6
	c.Update(values)
	if c.State() != Editing || c.Values().WorkHour != 6 {
		t.Errorf("after Update: state = %v values = %+v", c.State(), c.Values())
	}

	if _, err := c.Submit(context.Background(), c.Values(), func(ctx context.Context, v noticeForm) error {
		return nil
	}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if c.State() != Succeeded || c.Err() != nil {
		t.Errorf("after resubmit: state = %v err = %v", c.State(), c.Err())
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	c := New(noticeForm{})
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := c.Submit(context.Background(), filled(), func(ctx context.Context, v noticeForm) error {
			close(entered)
			<-release
			return nil
		})
		done <- err
	}()

	<-entered
	_, err := c.Submit(context.Background(), filled(), func(ctx context.Context, v noticeForm) error {
		t.Error("second submission ran")
		return nil
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("first submission: %v", err)
	}
}

func TestPopulateOncePerKey(t *testing.T) {
	c := New(noticeForm{})

	first := filled()
	if !c.Populate("n1", first) {
		t.Fatal("first Populate ignored")
	}

	typed := first
	typed.HourlyPay = 15000
	c.Update(typed)

	refetched := first
	refetched.Description = "changed on the server"
	if c.Populate("n1", refetched) {
		t.Error("second Populate for the same key applied")
	}
	if c.Values() != typed {
		t.Errorf("user input overwritten: %+v", c.Values())
	}

	if !c.Populate("n2", refetched) || c.Values() != refetched {
		t.Error("Populate for a new key ignored")
	}
	if c.PopulatedKey() != "n2" {
		t.Errorf("PopulatedKey() = %q", c.PopulatedKey())
	}
}

func TestPopulatedOption(t *testing.T) {
	c := New(filled(), Populated("n1"))
	if c.Populate("n1", noticeForm{}) {
		t.Error("restored key should block Populate")
	}
	if c.Populate("", noticeForm{}) {
		t.Error("empty key should be ignored")
	}
}
