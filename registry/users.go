package registry

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"chat-core/domain"
	"chat-core/errors"
)

// UserRegistry hands out stable *User records keyed by the normalized name
// (trimmed, case-folded). The central property: two concurrent GetOrCreate
// calls for the same logical name yield the same instance.
type UserRegistry struct {
	log *slog.Logger

	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRegistry(log *slog.Logger) *UserRegistry {
	return &UserRegistry{
		log:   log,
		users: make(map[string]*domain.User),
	}
}

// GetOrCreate returns the user registered under the normalized name, creating
// it first if needed. The double-checked write under the lock guarantees a
// single winner on duplicate-name races.
func (r *UserRegistry) GetOrCreate(username string) (*domain.User, error) {
	key := normalize(username)
	if key == "" {
		return nil, fmt.Errorf("%w: empty username", errors.ErrInvalidArgument)
	}

	r.mu.RLock()
	u, ok := r.users[key]
	r.mu.RUnlock()
	if ok {
		return u, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok = r.users[key]; ok {
		return u, nil
	}
	u, err := domain.NewUser(username)
	if err != nil {
		return nil, err
	}
	r.users[key] = u
	r.log.Info("New user created", "user", u.ID)
	return u, nil
}

// Find is lookup-only; it never creates.
func (r *UserRegistry) Find(username string) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[normalize(username)]
	return u, ok
}

func (r *UserRegistry) Exists(username string) bool {
	_, ok := r.Find(username)
	return ok
}

// Remove drops the user from the live set and marks it offline. The User
// value stays valid for anyone still holding it.
func (r *UserRegistry) Remove(username string) bool {
	key := normalize(username)
	r.mu.Lock()
	u, ok := r.users[key]
	delete(r.users, key)
	r.mu.Unlock()
	if !ok {
		return false
	}
	u.SetOnline(false)
	r.log.Info("User removed", "user", u.ID)
	return true
}

func (r *UserRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
