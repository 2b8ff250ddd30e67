// Package notify collects short user-facing messages produced while a request
// is handled and carries them across redirects as flash messages.
package notify

import (
	"context"
	"sync"
)

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

type Message struct {
	Kind Kind
	Text string
}

// Queue holds the messages of a single request.
type Queue struct {
	mu   sync.Mutex
	msgs []Message
}

func (q *Queue) Add(kind Kind, text string) {
	if q == nil || text == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, Message{Kind: kind, Text: text})
}

// Drain returns the queued messages and empties the queue.
func (q *Queue) Drain() []Message {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	msgs := q.msgs
	q.msgs = nil
	return msgs
}

type contextKey string

const queueContextKey contextKey = "notify"

func WithQueue(ctx context.Context, q *Queue) context.Context {
	return context.WithValue(ctx, queueContextKey, q)
}

// FromContext returns the request queue, or nil when none is attached.
// A nil queue silently drops messages.
func FromContext(ctx context.Context) *Queue {
	q, _ := ctx.Value(queueContextKey).(*Queue)
	return q
}

func Error(ctx context.Context, text string) {
	FromContext(ctx).Add(KindError, text)
}

func Success(ctx context.Context, text string) {
	FromContext(ctx).Add(KindSuccess, text)
}

func Info(ctx context.Context, text string) {
	FromContext(ctx).Add(KindInfo, text)
}
