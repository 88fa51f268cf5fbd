package shiftview

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// IsHTMX reports whether r was sent by HTMX. Pages use it to answer a
// redirect with HX-Redirect instead of a 303.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// BuildTriggerHeader builds the HX-Trigger header value for an event.
//
// An event without data is sent as its bare name; with data it becomes a
// JSON object keyed by the event so HTMX sets evt.detail:
//
//	"application:changed"                 -> application:changed
//	"notice:saved" + {"id": "n1"}         -> {"notice:saved":{"id":"n1"}}
func BuildTriggerHeader(trigger string, data map[string]any) string {
	if trigger == "" {
		return ""
	}
	if data == nil {
		return trigger
	}
	encoded, err := json.Marshal(map[string]any{trigger: data})
	if err != nil {
		return trigger
	}
	return string(encoded)
}
