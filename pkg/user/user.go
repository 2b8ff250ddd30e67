package user

import (
	"context"

	"photoshare/pkg/api"
)

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
}

// TokenPair is what the backend returns on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type ServiceInterface interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Signup(ctx context.Context, username, email, password string) (string, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
	RequestEmail(ctx context.Context, email string) (string, error)
	Me(ctx context.Context) (*User, error)
	UpdateAvatar(ctx context.Context, avatar api.File) (*User, error)
}
