package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"photoshare/pkg/claims"
)

var ErrMalformedToken = errors.New("malformed access token")

// ExpiryOf reads the exp claim from the payload segment of a token. Neither
// the header nor the signature is looked at: the result is only a hint for
// cookie lifetime and the backend still decides whether the token is valid.
func ExpiryOf(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: want 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	c := &claims.Claims{}
	if err := json.Unmarshal(payload, c); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, ok := c.Expiry()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing exp", ErrMalformedToken)
	}
	return exp, nil
}
