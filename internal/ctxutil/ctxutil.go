package ctxutil

import (
	"context"
	"time"
)

type key int

const (
	keyRequestID key = iota
	keyActor
	keyOpName
)

// WithRequestID / RequestID carry the API request id into core logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok && v != ""
}

// WithActor / Actor: the staff member on whose behalf the call runs.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, keyActor, actor)
}

func Actor(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyActor).(string)
	return v, ok && v != ""
}

func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyOpName).(string)
	return v, ok
}

var (
	DefaultDBTimeout = 5 * time.Second
)

func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout bounds a storage round-trip; a shorter parent deadline wins.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
