package components

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/pthm/shiftview/lib/form"
)

// markdown renders notice and profile text. Raw HTML in the source is
// dropped.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

func renderMarkdown(src string) templ.Component {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return templ.Raw("", fmt.Errorf("markdown: %w", err))
	}
	return templ.Raw(buf.String())
}

// won formats an hourly pay, e.g. 12000 -> "12,000원".
func won(n int) string {
	return humanize.Comma(int64(n)) + "원"
}

// schedule formats a shift as "2030-01-02 09:00~13:00 (4 hours)".
func schedule(start time.Time, hours int, loc *time.Location) string {
	if start.IsZero() {
		return ""
	}
	start = start.In(loc)
	end := start.Add(time.Duration(hours) * time.Hour)
	return fmt.Sprintf("%s~%s (%d hours)", start.Format("2006-01-02 15:04"), end.Format("15:04"), hours)
}

func invalidAttrs(ve *form.ValidationError, field string) templ.Attributes {
	if ve != nil && ve.Has(field) {
		return templ.Attributes{"aria-invalid": "true"}
	}
	return nil
}

// fieldMessage is the error shown under field, or "" when it passed.
func fieldMessage(ve *form.ValidationError, field string) string {
	if ve == nil || !ve.Has(field) {
		return ""
	}
	for _, f := range ve.Fields {
		if f.Field == field && f.Tag != "required" {
			return "Enter a valid value."
		}
	}
	return "This field is required."
}

// Page URLs.

func NoticeURL(shopID, noticeID string) string {
	return "/notices/" + url.PathEscape(shopID) + "/" + url.PathEscape(noticeID)
}

func ShopURL(shopID string) string {
	return "/shops/" + url.PathEscape(shopID)
}

func EditNoticeURL(shopID, noticeID string) string {
	return ShopURL(shopID) + "/notices/" + url.PathEscape(noticeID) + "/edit"
}

func ProfileURL(userID string) string {
	return "/users/" + url.PathEscape(userID)
}

const LoginURL = "/login"
