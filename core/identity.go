package core

import "context"

// Identity is the caller identity of one inbound chat turn. It is never
// threaded through tool signatures; tools read it from the request context.
type Identity struct {
	UserID   string
	ThreadID string
}

// identityKey is unexported so only this package can install identities,
// which keeps concurrent turns from ever observing each other's caller.
type identityKey struct{}

// WithIdentity returns a context carrying the caller identity for the
// duration of one turn.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the ambient caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
