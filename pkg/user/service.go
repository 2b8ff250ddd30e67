package user

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"photoshare/pkg/api"
)

const (
	msgUserCreated    = "User successfully created"
	msgEmailConfirmed = "Email confirmed"
	msgCheckEmail     = "Check your email for confirmation."
)

var ErrNoToken = errors.New("login response carries no access token")

type Service struct {
	API api.Backend
}

func NewService(backend api.Backend) *Service {
	return &Service{API: backend}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type detailResponse struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tokens TokenPair
	if err := s.API.PostForm(ctx, "auth/login", form, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &tokens, nil
}

func (s *Service) Signup(ctx context.Context, username, email, password string) (string, error) {
	var resp detailResponse
	err := s.API.PostJSON(ctx, "auth/signup", nil, signupRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return firstNonEmpty(resp.Detail, msgUserCreated), nil
}

func (s *Service) ConfirmEmail(ctx context.Context, token string) (string, error) {
	var resp detailResponse
	if err := s.API.Get(ctx, "auth/confirmed_email/"+url.PathEscape(token), nil, &resp); err != nil {
		return "", err
	}
	return firstNonEmpty(resp.Message, msgEmailConfirmed), nil
}

func (s *Service) RequestEmail(ctx context.Context, email string) (string, error) {
	var resp detailResponse
	if err := s.API.PostJSON(ctx, "auth/request_email", nil, map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return firstNonEmpty(resp.Message, msgCheckEmail), nil
}

func (s *Service) Me(ctx context.Context) (*User, error) {
	var u User
	if err := s.API.Get(ctx, "profile/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) UpdateAvatar(ctx context.Context, avatar api.File) (*User, error) {
	avatar.Field = "file"

	var u User
	if err := s.API.Multipart(ctx, http.MethodPatch, "avatar", nil, nil, []api.File{avatar}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
