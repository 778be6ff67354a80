package store

import (
	"strings"

	"github.com/google/uuid"
)

const anonPrefix = "anon:"

// Identity is who a cache entry belongs to: an authenticated user or an anonymous session.
type Identity struct {
	UserID    string
	SessionID string
}

func User(userID string) Identity { return Identity{UserID: userID} }

func Anonymous(sessionID string) Identity { return Identity{SessionID: sessionID} }

func (id Identity) Anonymous() bool { return id.UserID == "" }

// Key is the identity part of cache keys: the user id, or "anon:<session id>".
func (id Identity) Key() string {
	if id.Anonymous() {
		return anonPrefix + id.SessionID
	}
	return id.UserID
}

func (id Identity) String() string { return id.Key() }

// TempPrefix marks ids assigned to entities whose create call has not returned yet.
const TempPrefix = "tmp-"

func TempID() string { return TempPrefix + uuid.NewString() }

func IsTemp(id string) bool { return strings.HasPrefix(id, TempPrefix) }

// persisted reports whether id names a stored row. Seed ids ("tl1", "np1") and temporary ids
// do not.
func persisted(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
