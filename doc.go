// Package shiftview provides the component layer of the shift job board
// front-end: server-rendered views of remote resources (notices, applicant
// lists, shop listings, profiles) built with Templ and HTMX.
//
// A view is a self-contained unit with its own template, fetch and
// actions. Views are strongly typed via Go generics over their Props.
//
// # Core Concepts
//
// Views embed *Component[P] where P is the Props type. Props carry only
// identifiers and view state (shop ID, notice ID, window index); the remote
// resource is fetched again during hydration.
//
//	type NoticeDetail struct {
//	    *shiftview.Component[Props]
//	    api *api.Client
//	}
//
// The lifecycle is formalized through two interfaces:
//   - Hydrater[P]: Hydrate(ctx, *P) fetches the resource named by props
//   - Renderer[P]: Render(ctx, P) produces the templ.Component output
//
// Hydrate runs before any handler, so every render sees fresh data. Render
// is called automatically after successful actions.
//
// # Actions and Routing
//
// Actions are registered with semantic names using c.Action():
//
//	c.Action("apply", c.handleApply)
//	c.Action("slide", c.handleSlide).Method(http.MethodGet)
//
// Templates address them with Call, which encodes the props:
//
//	c.Call("apply", props).Target("#notice").Confirm("Apply?").Attrs()
//
// Each component receives a unique URL prefix based on its name and source
// location hash. The registry prevents prefix collisions at registration time.
//
// # Security Model
//
// Props are encoded in URLs using one of two modes:
//   - Signed (default): HMAC-authenticated msgpack, visible but tamper-proof
//   - Encrypted: AES-GCM encrypted, opaque to clients (use .Sensitive())
//
// Mutating methods (POST/PUT/DELETE/PATCH) require the HX-Request: true
// header that HTMX sends. Credentials never travel in props; handlers read
// them from the session attached to the request context.
//
// # Feedback
//
// Handlers report outcomes in two ways:
//
//	// Events for loose coupling between views:
//	return shiftview.OK(props).Trigger("application:changed")
//
//	// A single dismissible modal:
//	return shiftview.OK(props).Modal(shiftview.Alert("Notice updated."))
//
// # Registration
//
//	reg := shiftview.NewRegistry(encryptionKey)
//	reg.Add(noticeDetail, applicantList, carousel)
//	http.Handle("/_c/", reg.Handler())
//
// # Templates
//
// Views are written in .templ files next to their Go code. The generated
// *_templ.go files are committed; regenerate them after editing a
// template.
package shiftview

//go:generate templ generate -path .
