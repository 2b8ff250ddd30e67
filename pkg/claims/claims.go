package claims

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

type contextKey string

const (
	TokenContextKey contextKey = "token"
)

// Claims is the payload the backend signs into access tokens. Numeric dates
// may carry a fraction, so they are kept as json.Number.
type Claims struct {
	Subject   string      `json:"sub,omitempty"`
	Scope     string      `json:"scope,omitempty"`
	IssuedAt  json.Number `json:"iat,omitempty"`
	ExpiresAt json.Number `json:"exp,omitempty"`
}

// Expiry returns exp truncated to whole seconds. ok is false when exp is
// absent or not a positive number.
func (c *Claims) Expiry() (exp time.Time, ok bool) {
	if c.ExpiresAt == "" {
		return time.Time{}, false
	}
	f, err := strconv.ParseFloat(string(c.ExpiresAt), 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) || f > math.MaxInt64 {
		return time.Time{}, false
	}
	return time.Unix(int64(f), 0).UTC(), true
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenContextKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(TokenContextKey).(string)
	return token
}
