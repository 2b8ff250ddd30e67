package session

import (
	"net/http"
	"time"
)

var _ Store = (*CookieStore)(nil)

// CookieStore keeps the session in two browser cookies. The access token
// cookie expires together with the token itself.
type CookieStore struct {
	Path   string
	Secure bool
}

func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{Path: "/", Secure: secure}
}

func (s *CookieStore) Set(w http.ResponseWriter, accessToken, refreshToken string) (*Session, error) {
	expiresAt, err := ExpiryOf(accessToken)
	if err != nil {
		return nil, err
	}

	access := s.cookie(AccessCookie, accessToken)
	access.Expires = expiresAt
	http.SetCookie(w, access)
	http.SetCookie(w, s.cookie(RefreshCookie, refreshToken))

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *CookieStore) AccessToken(r *http.Request) string {
	return value(r, AccessCookie)
}

func (s *CookieStore) RefreshToken(r *http.Request) string {
	return value(r, RefreshCookie)
}

func (s *CookieStore) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		c := s.cookie(name, "")
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (s *CookieStore) cookie(name, val string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    val,
		Path:     s.Path,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func value(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
