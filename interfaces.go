package shiftview

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// Hydrater is implemented by views to fetch their remote state from the
// identifiers carried in props. Called automatically before any handler
// (including GET/render).
//
// Hydration is where a view binds its props to the backend: the shop and
// notice IDs in props become a fetched notice, applicant list or profile.
// Fetch failures should normally be stored on props as an error state
// (see lib/resource) so the view degrades instead of failing the request:
//
//	func (c *NoticeDetail) Hydrate(ctx context.Context, props *Props) error {
//	    props.Notice = resource.Load(ctx, func(ctx context.Context) (api.Notice, error) {
//	        return c.api.GetNotice(ctx, session.Credential(ctx), props.ShopID, props.NoticeID)
//	    })
//	    return nil
//	}
//
// A non-nil error is reserved for failures the view cannot render around;
// it is wrapped with ErrHydrationFailed and passed to the registry's OnError.
type Hydrater[P any] interface {
	Hydrate(ctx context.Context, props *P) error
}

// Renderer is implemented by views to produce templ output.
// Called for GET requests and automatically after successful action handlers.
//
// Render receives fully-hydrated props and should be pure - it reads props
// and produces HTML without side effects.
type Renderer[P any] interface {
	Render(ctx context.Context, props P) templ.Component
}

// View is the pair of lifecycle methods every mounted component implements.
type View[P any] interface {
	Hydrater[P]
	Renderer[P]
}

// HXComponent is the request-serving side of a mounted component.
//
// Components get this for free by embedding *Component[P]: HXPrefix
// returns the unique URL prefix, HXServeHTTP decodes props, runs Hydrate,
// routes to the action handler and renders the Result.
type HXComponent interface {
	HXPrefix() string
	HXServeHTTP(w http.ResponseWriter, r *http.Request)
}

// mountable is satisfied by any struct embedding *Component[P]; the
// registry uses it to hand over the encoder and the concrete view.
type mountable interface {
	HXComponent
	mount(enc *Encoder, parent any, onError ErrorHandler) error
}

// ErrorHandler writes the response for a failed component request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
