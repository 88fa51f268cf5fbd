package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetUser fetches a user's profile.
func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var out itemOf[userWire]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/users/%s", escape(userID)...),
	}, &out)
	if err != nil {
		return User{}, err
	}
	u := out.Item.flatten()
	if err := c.check(u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate exchanges an email and password for a token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (Auth, error) {
	var out itemOf[tokenWire]
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/token",
		body:   credentialsBody{Email: email, Password: password},
	}, &out)
	if err != nil {
		return Auth{}, err
	}
	if out.Item.Token == "" {
		return Auth{}, fmt.Errorf("%w: token missing", ErrInvalidPayload)
	}
	u := out.Item.User.Item.flatten()
	if err := c.check(u); err != nil {
		return Auth{}, err
	}
	return Auth{Token: out.Item.Token, User: u}, nil
}
