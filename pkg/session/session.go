package session

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "token"
	RefreshCookie = "refresh_token"
)

// Session is the token pair the browser holds between requests.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Lookup reports the access token a request carries, or "" when there is none.
type Lookup interface {
	AccessToken(r *http.Request) string
}

type Store interface {
	Lookup
	Set(w http.ResponseWriter, accessToken, refreshToken string) (*Session, error)
	RefreshToken(r *http.Request) string
	Clear(w http.ResponseWriter)
}
