package middleware

import (
	"net/http"

	"photoshare/pkg/claims"
	"photoshare/pkg/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

var (
	// PublicPaths are the auth-flow pages. They are reachable only without a session.
	PublicPaths = map[string]struct{}{
		"/login":           {},
		"/signup":          {},
		"/confirm-email":   {},
		"/forgot-password": {},
		"/reset-password":  {},
	}
)

func IsPublic(path string) bool {
	_, ok := PublicPaths[path]
	return ok
}

// Guard redirects before the page handler runs: protected pages need a
// session, public pages are closed once a session exists. Only the presence
// of the token is checked; the backend validates it.
func Guard(sessions session.Lookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loggedIn := sessions.AccessToken(r) != ""
			public := IsPublic(r.URL.Path)

			switch {
			case !public && !loggedIn:
				http.Redirect(w, r, LoginPath, http.StatusFound)
			case public && loggedIn:
				http.Redirect(w, r, HomePath, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Session puts the request's access token on its context, where the API
// client picks it up.
func Session(sessions session.Lookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessions.AccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(claims.WithToken(r.Context(), token)))
		})
	}
}
