package domain

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"chat-core/errors"
)

// User is a chat identity. The ID is derived from the normalized username and
// never changes once assigned; only the online flag mutates, so a *User may be
// shared freely between rooms and callers.
type User struct {
	ID       string
	Username string
	JoinedAt time.Time

	online atomic.Bool
}

// NewUser creates a user from a display name. The name is trimmed and must
// contain at least one alphanumeric character.
func NewUser(username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", errors.ErrInvalidArgument)
	}
	id := deriveID(username)
	if id == "" {
		return nil, fmt.Errorf("%w: username %q has no usable characters", errors.ErrInvalidArgument, username)
	}
	u := &User{
		ID:       id,
		Username: username,
		JoinedAt: time.Now(),
	}
	u.online.Store(true)
	return u, nil
}

// deriveID folds the username to lower case and keeps only [a-z0-9], so
// "Alice" and "alice!" map to the same stable identifier.
func deriveID(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (u *User) Online() bool {
	return u.online.Load()
}

func (u *User) SetOnline(online bool) {
	u.online.Store(online)
}

func (u *User) String() string {
	return fmt.Sprintf("User[%s, ID: %s, Online: %t]", u.Username, u.ID, u.Online())
}
