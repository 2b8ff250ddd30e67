package notify

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSessionName = "photoshare_flash"

var kinds = []Kind{KindError, KindSuccess, KindInfo}

// Flasher stores undelivered messages in a signed cookie so they survive a
// redirect and are shown once on the next rendered page.
type Flasher struct {
	store sessions.Store
}

func NewFlasher(store sessions.Store) *Flasher {
	return &Flasher{store: store}
}

func NewCookieFlasher(key []byte, secure bool) *Flasher {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return NewFlasher(store)
}

func (f *Flasher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithQueue(r.Context(), &Queue{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Persist moves the queued messages into the flash cookie. It must run
// before the response headers are written.
func (f *Flasher) Persist(w http.ResponseWriter, r *http.Request) error {
	msgs := FromContext(r.Context()).Drain()
	if len(msgs) == 0 {
		return nil
	}

	sess, err := f.store.Get(r, flashSessionName)
	if err != nil && sess == nil {
		return fmt.Errorf("flash session: %w", err)
	}
	for _, m := range msgs {
		key := string(m.Kind)
		stored, _ := sess.Values[key].([]string)
		sess.Values[key] = append(stored, m.Text)
	}
	return sess.Save(r, w)
}

// Collect returns the flashes stored by a previous request followed by the
// messages queued during this one, and clears the stored flashes.
func (f *Flasher) Collect(w http.ResponseWriter, r *http.Request) ([]Message, error) {
	queued := FromContext(r.Context()).Drain()

	sess, err := f.store.Get(r, flashSessionName)
	if err != nil && sess == nil {
		return queued, fmt.Errorf("flash session: %w", err)
	}

	var msgs []Message
	found := false
	for _, kind := range kinds {
		stored, ok := sess.Values[string(kind)].([]string)
		if !ok {
			continue
		}
		found = true
		delete(sess.Values, string(kind))
		for _, text := range stored {
			msgs = append(msgs, Message{Kind: kind, Text: text})
		}
	}
	msgs = append(msgs, queued...)

	if found {
		if err := sess.Save(r, w); err != nil {
			return msgs, fmt.Errorf("flash save: %w", err)
		}
	}
	return msgs, nil
}
