// Package ctxkeys defines typed context keys for request-scoped values.
// Typed keys prevent collisions with other packages writing to the same
// context.
package ctxkeys

import "context"

// Key is the private type backing all context keys in this package.
type Key string

// Subject identifies the authenticated caller (JWT subject or "token" for
// static access tokens).
const Subject Key = "subject"

// WithValue returns a new context carrying value under key.
func WithValue(ctx context.Context, key Key, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// Value returns the string stored under key, if any.
func Value(ctx context.Context, key Key) (string, bool) {
	v, ok := ctx.Value(key).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
