package api

// The backend wraps every resource as {"item": ..., "href": ...} and every
// list as {"offset", "limit", "count", "hasNext", "items": [{"item": ...}]}.
// The wire types below mirror that shape and are flattened into the
// exported types before they leave the package.

type itemOf[T any] struct {
	Item T      `json:"item"`
	Href string `json:"href,omitempty"`
}

type listOf[T any] struct {
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
	Count   int         `json:"count"`
	HasNext bool        `json:"hasNext"`
	Items   []itemOf[T] `json:"items"`
}

type noticeWire struct {
	Notice
	Shop                   *itemOf[Shop]            `json:"shop"`
	CurrentUserApplication *itemOf[applicationWire] `json:"currentUserApplication"`
}

func (w noticeWire) flatten() Notice {
	n := w.Notice
	if w.Shop != nil {
		n.Shop = w.Shop.Item
	}
	if w.CurrentUserApplication != nil {
		app := w.CurrentUserApplication.Item.flatten()
		if app.NoticeID == "" {
			app.NoticeID = n.ID
		}
		if app.ShopID == "" {
			app.ShopID = n.Shop.ID
		}
		n.CurrentApplication = &app
	}
	return n
}

type applicationWire struct {
	Application
	User   *itemOf[userWire] `json:"user"`
	Shop   *itemOf[Shop]     `json:"shop"`
	Notice *itemOf[Notice]   `json:"notice"`
}

func (w applicationWire) flatten() Application {
	a := w.Application
	if w.User != nil {
		a.Applicant = w.User.Item.flatten()
	}
	if w.Shop != nil {
		a.ShopID = w.Shop.Item.ID
	}
	if w.Notice != nil {
		a.NoticeID = w.Notice.Item.ID
	}
	return a
}

type userWire struct {
	User
	Shop *itemOf[Shop] `json:"shop"`
}

func (w userWire) flatten() User {
	u := w.User
	if w.Shop != nil {
		shop := w.Shop.Item
		u.Shop = &shop
	}
	return u
}

type tokenWire struct {
	Token string           `json:"token"`
	User  itemOf[userWire] `json:"user"`
}

type statusBody struct {
	Status string `json:"status"`
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func flattenList[W any, T any](l listOf[W], conv func(W) T) List[T] {
	out := List[T]{
		Offset:  l.Offset,
		Limit:   l.Limit,
		Count:   l.Count,
		HasNext: l.HasNext,
		Items:   make([]T, 0, len(l.Items)),
	}
	for _, it := range l.Items {
		out.Items = append(out.Items, conv(it.Item))
	}
	return out
}
