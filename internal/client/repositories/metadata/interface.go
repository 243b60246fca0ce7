// Package metadata is a small key/value store for client-side state that is
// not binder-scoped: the saved session, last selected binder and similar.
package metadata

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
