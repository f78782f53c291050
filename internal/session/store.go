// Package session holds the authenticated console's per-browser key-value storage:
// the backend bearer token and the signed-in user's email under fixed keys.
package session

import (
	"context"
	"errors"
)

// Fixed storage keys.
const (
	KeyToken = "inventory.access_token"
	KeyEmail = "inventory.user_email"
)

var ErrNotFound = errors.New("session: key not found")

// Store is a per-session key-value store.
type Store interface {
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid string, keys ...string) error
}
