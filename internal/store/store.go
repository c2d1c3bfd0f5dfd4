// Package store provides durable key-value persistence for the client's
// identity material (bearer token and guest id). The session container is
// the only writer; everything else reads through the session.
package store

// Well-known identity keys.
const (
	KeyToken   = "token"
	KeyGuestID = "guest_id"
)

// Store is a named key-value adapter. Implementations must treat a missing
// key as a non-error: Get returns ok=false, Remove is a no-op.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
