package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

const (
	pathLogin = "/api/auth/login"
	pathMe    = "/api/auth/me"
)

// LoginRequest and LoginResponse are the backend's sign-in contract.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      domain.User `json:"user"`
}

// Authenticator signs in against the backend and keeps the bearer token in
// the credential holder.
type Authenticator struct {
	client *Client
}

func NewAuthenticator(client *Client) *Authenticator {
	return &Authenticator{client: client}
}

var _ domain.Authenticator = (*Authenticator)(nil)

func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	var resp LoginResponse
	err := a.client.Request(ctx, http.MethodPost, pathLogin, LoginRequest{Email: email, Password: password}, &resp)
	switch status := StatusOf(err); {
	case err == nil:
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	default:
		return domain.User{}, err
	}

	if resp.Token == "" {
		return domain.User{}, errors.New("login response carried no token")
	}
	if err := a.client.holder.Save(ctx, resp.Token); err != nil {
		return domain.User{}, fmt.Errorf("save credential: %w", err)
	}
	return resp.User, nil
}

// Resume asks the backend who the stored token belongs to. An expired token
// is not an error; the 401 path has already cleared it.
func (a *Authenticator) Resume(ctx context.Context) (domain.User, bool, error) {
	token, err := a.client.holder.Token(ctx)
	if err != nil {
		return domain.User{}, false, err
	}
	if token == "" {
		return domain.User{}, false, nil
	}

	var user domain.User
	err = a.client.Request(ctx, http.MethodGet, pathMe, nil, &user)
	if errors.Is(err, ErrAuthExpired) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

func (a *Authenticator) Logout(ctx context.Context) error {
	return a.client.holder.Clear(ctx)
}
