package domain

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-core/errors"
)

// captureObserver records every event it receives.
type captureObserver struct {
	mu       sync.Mutex
	events   []string
	messages []Message
}

func (c *captureObserver) OnMessageReceived(_ *Room, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "message")
	c.messages = append(c.messages, m)
	return nil
}

func (c *captureObserver) OnPrivateMessageReceived(_ *Room, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "private")
	c.messages = append(c.messages, m)
	return nil
}

func (c *captureObserver) OnUserJoined(_ *Room, u *User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "joined:"+u.ID)
	return nil
}

func (c *captureObserver) OnUserLeft(_ *Room, u *User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "left:"+u.ID)
	return nil
}

func (c *captureObserver) Events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	copy(out, c.events)
	return out
}

func (c *captureObserver) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// orderedObserver appends its name to a shared list on every message.
type orderedObserver struct {
	name  string
	mu    *sync.Mutex
	order *[]string
}

func (o *orderedObserver) OnMessageReceived(*Room, Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	*o.order = append(*o.order, o.name)
	return nil
}

func (o *orderedObserver) OnPrivateMessageReceived(*Room, Message) error { return nil }
func (o *orderedObserver) OnUserJoined(*Room, *User) error               { return nil }
func (o *orderedObserver) OnUserLeft(*Room, *User) error                 { return nil }

type failingObserver struct{}

func (failingObserver) OnMessageReceived(*Room, Message) error {
	return fmt.Errorf("subscriber is down")
}
func (failingObserver) OnPrivateMessageReceived(*Room, Message) error { return nil }
func (failingObserver) OnUserJoined(*Room, *User) error               { return nil }
func (failingObserver) OnUserLeft(*Room, *User) error                 { return nil }

type panickyObserver struct{}

func (panickyObserver) OnMessageReceived(*Room, Message) error        { panic("boom") }
func (panickyObserver) OnPrivateMessageReceived(*Room, Message) error { panic("boom") }
func (panickyObserver) OnUserJoined(*Room, *User) error               { panic("boom") }
func (panickyObserver) OnUserLeft(*Room, *User) error                 { panic("boom") }

func newTestUser(t *testing.T, name string) *User {
	t.Helper()
	u, err := NewUser(name)
	require.NoError(t, err)
	return u
}

func TestNewRoom_AdminIsMember(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")

	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)
	req.True(room.IsMember(alice))
	req.Equal(1, room.UserCount())
	req.Equal(alice, room.Admin)
}

func TestNewRoom_Validation(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")

	_, err := NewRoom("", alice, nil, slog.Default())
	req.ErrorIs(err, errors.ErrInvalidArgument)

	_, err = NewRoom("lobby", nil, nil, slog.Default())
	req.ErrorIs(err, errors.ErrInvalidArgument)
}

func TestRoom_Join_IsIdempotent(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	bob := newTestUser(t, "Bob")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	handle := &captureObserver{}
	req.NoError(room.Join(bob, handle))
	req.NoError(room.Join(bob, handle))

	req.Equal(2, room.UserCount())
	// One join notification, delivered to bob's own handle as well: the
	// handle registers before the notification goes out.
	req.Equal([]string{"joined:" + bob.ID}, handle.Events())

	msg, err := NewMessage(alice, "hello")
	req.NoError(err)
	req.NoError(room.Broadcast(msg))
	// No duplicate registration: a single delivery for the broadcast.
	req.Equal([]string{"joined:" + bob.ID, "message"}, handle.Events())
}

func TestRoom_Join_NilUser(t *testing.T) {
	alice := newTestUser(t, "Alice")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	require.NoError(t, err)
	require.ErrorIs(t, room.Join(nil, nil), errors.ErrInvalidArgument)
}

func TestRoom_Leave_RemovesMemberAndHandle(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	bob := newTestUser(t, "Bob")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	watcher := &captureObserver{}
	room.AddObserver(watcher)
	handle := &captureObserver{}
	req.NoError(room.Join(bob, handle))

	room.Leave(bob)
	req.False(room.IsMember(bob))
	req.Contains(watcher.Events(), "left:"+bob.ID)
	// The departed handle no longer receives anything.
	req.NotContains(handle.Events(), "left:"+bob.ID)

	// Leaving again is a no-op.
	before := watcher.Events()
	room.Leave(bob)
	req.Equal(before, watcher.Events())
}

func TestRoom_Broadcast_RejectsNonMember(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	mallory := newTestUser(t, "Mallory")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	watcher := &captureObserver{}
	room.AddObserver(watcher)

	msg, err := NewMessage(mallory, "let me in")
	req.NoError(err)
	req.ErrorIs(room.Broadcast(msg), errors.ErrNotAMember)
	req.Empty(watcher.Events())
}

func TestRoom_Broadcast_FanoutInRegistrationOrder(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		room.AddObserver(&orderedObserver{name: name, mu: &mu, order: &order})
	}

	msg, err := NewMessage(alice, "hello")
	req.NoError(err)
	req.NoError(room.Broadcast(msg))
	req.Equal([]string{"first", "second", "third"}, order)
}

func TestRoom_Broadcast_ObserverFailuresAreIsolated(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	before := &captureObserver{}
	after := &captureObserver{}
	room.AddObserver(before)
	room.AddObserver(failingObserver{})
	room.AddObserver(panickyObserver{})
	room.AddObserver(after)

	msg, err := NewMessage(alice, "still delivered")
	req.NoError(err)
	req.NoError(room.Broadcast(msg))

	req.Equal([]string{"message"}, before.Events())
	req.Equal([]string{"message"}, after.Events())
}

func TestRoom_Broadcast_AppliesContentFilter(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	mask := func(content string) string {
		return strings.ReplaceAll(content, "secret", "******")
	}
	room, err := NewRoom("lobby", alice, mask, slog.Default())
	req.NoError(err)

	watcher := &captureObserver{}
	room.AddObserver(watcher)

	msg, err := NewMessage(alice, "the secret plan")
	req.NoError(err)
	req.NoError(room.Broadcast(msg))

	messages := watcher.Messages()
	req.Len(messages, 1)
	req.Equal("the ****** plan", messages[0].Content)
}

func TestRoom_SendPrivate_RequiresRecipient(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	public, err := NewMessage(alice, "not private")
	req.NoError(err)
	req.ErrorIs(room.SendPrivate(public), errors.ErrInvalidArgument)
}

func TestRoom_SendPrivate_RequiresBothMembers(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	bob := newTestUser(t, "Bob")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	// Bob has not joined.
	pm, err := NewPrivateMessage(alice, "psst", bob)
	req.NoError(err)
	req.ErrorIs(room.SendPrivate(pm), errors.ErrNotAMember)

	req.NoError(room.Join(bob, nil))
	req.NoError(room.SendPrivate(pm))

	// Sender outside the room fails too.
	room.Leave(alice)
	req.ErrorIs(room.SendPrivate(pm), errors.ErrNotAMember)
}

func TestRoom_SendPrivate_ReachesEveryObserver(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	bob := newTestUser(t, "Bob")
	carol := newTestUser(t, "Carol")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	carolHandle := &captureObserver{}
	req.NoError(room.Join(bob, nil))
	req.NoError(room.Join(carol, carolHandle))

	pm, err := NewPrivateMessage(alice, "for bob only", bob)
	req.NoError(err)
	req.NoError(room.SendPrivate(pm))

	// Delivery filtering is observer-side: carol's handle still fires.
	req.Contains(carolHandle.Events(), "private")
}

func TestRoom_AddObserver_IsIdempotent(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	watcher := &captureObserver{}
	room.AddObserver(watcher)
	room.AddObserver(watcher)

	msg, err := NewMessage(alice, "once")
	req.NoError(err)
	req.NoError(room.Broadcast(msg))
	req.Equal([]string{"message"}, watcher.Events())

	room.RemoveObserver(watcher)
	room.RemoveObserver(watcher)
	req.NoError(room.Broadcast(msg))
	req.Equal([]string{"message"}, watcher.Events())
}

func TestRoom_ConcurrentJoinsAndBroadcasts(t *testing.T) {
	req := require.New(t)
	alice := newTestUser(t, "Alice")
	room, err := NewRoom("lobby", alice, nil, slog.Default())
	req.NoError(err)

	const users = 32
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &User{ID: fmt.Sprintf("user%d", i), Username: fmt.Sprintf("User %d", i)}
			if err := room.Join(u, &captureObserver{}); err != nil {
				t.Error(err)
				return
			}
			msg, err := NewMessage(u, "hello from "+u.ID)
			if err != nil {
				t.Error(err)
				return
			}
			if err := room.Broadcast(msg); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	req.Equal(users+1, room.UserCount())
}
