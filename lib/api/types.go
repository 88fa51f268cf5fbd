package api

import (
	"math"
	"time"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusCanceled = "canceled"
)

// User types.
const (
	UserEmployee = "employee"
	UserEmployer = "employer"
)

// Credential is the bearer token used for authenticated calls. It is read
// from the session store by the caller and passed explicitly.
type Credential struct {
	Token  string
	UserID string
}

// Empty reports whether c carries no token.
func (c Credential) Empty() bool { return c.Token == "" }

// Page selects a window of a list endpoint.
type Page struct {
	Offset int `url:"offset,omitempty"`
	Limit  int `url:"limit,omitempty"`
}

// Shop is the shop summary embedded in notices and users.
type Shop struct {
	ID                string `json:"id" validate:"required"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Address1          string `json:"address1"`
	Address2          string `json:"address2"`
	Description       string `json:"description"`
	ImageURL          string `json:"imageUrl"`
	OriginalHourlyPay int    `json:"originalHourlyPay"`
}

// Notice is a job posting.
type Notice struct {
	ID          string    `json:"id" validate:"required"`
	HourlyPay   int       `json:"hourlyPay" validate:"gte=0"`
	StartsAt    time.Time `json:"startsAt"`
	WorkHour    int       `json:"workhour" validate:"gte=0"`
	Description string    `json:"description"`
	Closed      bool      `json:"closed"`

	// Shop is zero in shop-scoped listings, which omit it.
	Shop Shop `json:"-" validate:"-"`

	// CurrentApplication is the signed-in user's application, when the
	// backend includes it.
	CurrentApplication *Application `json:"-" validate:"-"`
}

// IncreasePercent is how much HourlyPay exceeds the shop's original hourly
// pay, rounded to a whole percent. It is 0 when the original is unknown.
func (n Notice) IncreasePercent() int {
	original := n.Shop.OriginalHourlyPay
	if original <= 0 {
		return 0
	}
	return int(math.Round(float64(n.HourlyPay-original) / float64(original) * 100))
}

// EndsAt is StartsAt plus WorkHour hours.
func (n Notice) EndsAt() time.Time {
	return n.StartsAt.Add(time.Duration(n.WorkHour) * time.Hour)
}

// Past reports whether the notice started before now.
func (n Notice) Past(now time.Time) bool {
	return !n.StartsAt.IsZero() && n.StartsAt.Before(now)
}

// Application is a user's application to a notice.
type Application struct {
	ID        string    `json:"id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=pending accepted rejected canceled"`
	CreatedAt time.Time `json:"createdAt"`

	ShopID    string `json:"-" validate:"-"`
	NoticeID  string `json:"-" validate:"-"`
	Applicant User   `json:"-" validate:"-"`
}

// Ref returns the identifiers needed to update the application.
func (a Application) Ref() ApplicationRef {
	return ApplicationRef{ShopID: a.ShopID, NoticeID: a.NoticeID, ApplicationID: a.ID}
}

// ApplicationRef identifies an application for a status update.
type ApplicationRef struct {
	ShopID        string `validate:"required"`
	NoticeID      string `validate:"required"`
	ApplicationID string `validate:"required"`
}

// User is a registered employee or employer.
type User struct {
	ID      string `json:"id" validate:"required"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Bio     string `json:"bio"`

	Shop *Shop `json:"-" validate:"-"`
}

// NoticeInput is the editable part of a notice.
type NoticeInput struct {
	HourlyPay   int       `json:"hourlyPay" validate:"required,gt=0"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	WorkHour    int       `json:"workhour" validate:"required,gt=0"`
	Description string    `json:"description" validate:"required"`
}

// Auth is the result of a successful sign-in.
type Auth struct {
	Token string
	User  User
}

// List is one page of a list endpoint.
type List[T any] struct {
	Offset  int
	Limit   int
	Count   int
	HasNext bool
	Items   []T
}
