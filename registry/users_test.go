package registry

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-core/domain"
	"chat-core/errors"
)

func TestUserRegistry_GetOrCreate_CaseFoldsName(t *testing.T) {
	req := require.New(t)
	users := NewUserRegistry(slog.Default())

	alice, err := users.GetOrCreate("Alice")
	req.NoError(err)
	again, err := users.GetOrCreate("  alice ")
	req.NoError(err)

	req.Same(alice, again)
	req.Equal(alice.ID, again.ID)
	req.Equal(1, users.Count())
	// Display name keeps the original casing of the first call.
	req.Equal("Alice", alice.Username)
}

func TestUserRegistry_GetOrCreate_Validation(t *testing.T) {
	users := NewUserRegistry(slog.Default())

	_, err := users.GetOrCreate("   ")
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestUserRegistry_ConcurrentGetOrCreateSameInstance(t *testing.T) {
	req := require.New(t)
	users := NewUserRegistry(slog.Default())

	const callers = 32
	results := make([]*domain.User, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := users.GetOrCreate("Alice")
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = u
		}(i)
	}
	wg.Wait()

	req.Equal(1, users.Count())
	for _, u := range results {
		req.Same(results[0], u)
	}
}

func TestUserRegistry_FindAndExists(t *testing.T) {
	req := require.New(t)
	users := NewUserRegistry(slog.Default())

	_, ok := users.Find("Bob")
	req.False(ok)
	req.False(users.Exists("Bob"))

	bob, err := users.GetOrCreate("Bob")
	req.NoError(err)

	found, ok := users.Find("BOB")
	req.True(ok)
	req.Same(bob, found)
	req.True(users.Exists("bob"))
	// Find never creates.
	req.Equal(1, users.Count())
}

func TestUserRegistry_RemoveMarksOffline(t *testing.T) {
	req := require.New(t)
	users := NewUserRegistry(slog.Default())

	bob, err := users.GetOrCreate("Bob")
	req.NoError(err)
	req.True(bob.Online())

	req.True(users.Remove("bob"))
	req.False(users.Remove("bob"))
	req.False(users.Exists("Bob"))
	// The record stays valid for holders, just offline.
	req.False(bob.Online())
}
