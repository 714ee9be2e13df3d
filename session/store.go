package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a slot has no value and by Load when
// no session is persisted.
var ErrNotFound = errors.New("session slot not found")

// ErrStoreUnavailable wraps backend failures (Redis down, filesystem error).
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store is the durable key-value boundary that holds the established
// session. Writes are all-or-nothing: Save either persists every slot of
// the session (overwriting any prior session entirely) or persists nothing.
// Values survive process restarts until overwritten or cleared; no TTL
// exists at this layer.
type Store interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, key string) (string, error)
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// fromSlots rebuilds a Session from raw slot values. Shared by backends.
func fromSlots(slots map[string]string) (*Session, error) {
	sess := &Session{
		Authority: slots[KeyRole],
		Token:     slots[KeyToken],
	}
	for _, key := range IdentifierKeys() {
		if slots[key] == "" {
			continue
		}
		sess.SubjectID = slots[key]
		sess.IdentifierKey = key
	}
	if sess.Authority == "" && sess.Token == "" && sess.SubjectID == "" {
		return nil, ErrNotFound
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return sess, nil
}
