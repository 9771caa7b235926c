package domain

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"chat-core/errors"
)

// Room is the subject of the observer pattern: it owns the member set and the
// ordered observer list, and fans events out synchronously.
//
// Every operation reads membership and observers through a point-in-time
// snapshot taken under the room lock. A join or leave racing with an in-flight
// broadcast may miss that broadcast's fanout, but is visible to the next
// operation (snapshot-read isolation, not linearizability).
type Room struct {
	ID        string
	Admin     *User
	CreatedAt time.Time

	log    *slog.Logger
	filter ContentFilter

	mu        sync.RWMutex
	members   map[string]*User
	observers []Observer
	handles   map[string]Observer // per-member delivery handle, removed on leave
}

// NewRoom creates a room and joins the admin immediately, so the admin is a
// member from the first instant the room is visible to anyone.
func NewRoom(id string, admin *User, filter ContentFilter, log *slog.Logger) (*Room, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty room id", errors.ErrInvalidArgument)
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: admin is nil", errors.ErrInvalidArgument)
	}
	r := &Room{
		ID:        id,
		Admin:     admin,
		CreatedAt: time.Now(),
		log:       log,
		filter:    filter,
		members:   map[string]*User{admin.ID: admin},
		handles:   make(map[string]Observer),
	}
	r.log.Info("Chat room created", "room", id, "admin", admin.ID)
	return r, nil
}

// Join adds the user and registers its delivery handle (nil for none). It is
// idempotent: joining twice changes nothing. The handle is registered before
// the join notification goes out, so the joining user observes its own join.
func (r *Room) Join(user *User, handle Observer) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", errors.ErrInvalidArgument)
	}
	r.mu.Lock()
	if _, ok := r.members[user.ID]; ok {
		r.mu.Unlock()
		return nil
	}
	r.members[user.ID] = user
	if handle != nil {
		r.registerLocked(handle)
		r.handles[user.ID] = handle
	}
	observers := r.snapshotLocked()
	r.mu.Unlock()

	r.fanout(observers, "user joined", func(o Observer) error {
		return o.OnUserJoined(r, user)
	})
	r.log.Info("User joined room", "room", r.ID, "user", user.ID)
	return nil
}

// Leave removes the user and its delivery handle, then notifies the remaining
// observers. Leaving a room the user is not in is a no-op.
func (r *Room) Leave(user *User) {
	if user == nil {
		return
	}
	r.mu.Lock()
	if _, ok := r.members[user.ID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.members, user.ID)
	if handle, ok := r.handles[user.ID]; ok {
		delete(r.handles, user.ID)
		r.unregisterLocked(handle)
	}
	observers := r.snapshotLocked()
	r.mu.Unlock()

	r.fanout(observers, "user left", func(o Observer) error {
		return o.OnUserLeft(r, user)
	})
	r.log.Info("User left room", "room", r.ID, "user", user.ID)
}

// Broadcast delivers a public message to every registered observer in
// registration order. The sender must be a current member; on failure no
// observer is notified and no state changes.
func (r *Room) Broadcast(message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	r.mu.RLock()
	_, member := r.members[message.SenderID]
	observers := r.snapshotLocked()
	r.mu.RUnlock()
	if !member {
		return fmt.Errorf("%w: sender %q is not in room %q", errors.ErrNotAMember, message.SenderID, r.ID)
	}
	if r.filter != nil {
		message.Content = r.filter(message.Content)
	}
	r.fanout(observers, "message received", func(o Observer) error {
		return o.OnMessageReceived(r, message)
	})
	r.log.Info("Message broadcast", "room", r.ID, "sender", message.SenderID)
	return nil
}

// SendPrivate delivers a private message. Both sender and recipient must be
// current members. Every observer receives the event, not just the recipient:
// delivery filtering is the observer's responsibility, and this fanout is not
// a confidentiality boundary.
func (r *Room) SendPrivate(message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	if !message.IsPrivate() {
		return fmt.Errorf("%w: message has no recipient", errors.ErrInvalidArgument)
	}
	r.mu.RLock()
	_, senderIn := r.members[message.SenderID]
	_, recipientIn := r.members[message.RecipientID]
	observers := r.snapshotLocked()
	r.mu.RUnlock()
	if !senderIn || !recipientIn {
		return fmt.Errorf("%w: both %q and %q must be in room %q",
			errors.ErrNotAMember, message.SenderID, message.RecipientID, r.ID)
	}
	if r.filter != nil {
		message.Content = r.filter(message.Content)
	}
	r.fanout(observers, "private message", func(o Observer) error {
		return o.OnPrivateMessageReceived(r, message)
	})
	r.log.Info("Private message sent", "room", r.ID,
		"sender", message.SenderID, "recipient", message.RecipientID)
	return nil
}

// AddObserver registers an observer. Each observer is registered at most once
// per room; re-adding is a no-op.
func (r *Room) AddObserver(o Observer) {
	if o == nil {
		return
	}
	r.mu.Lock()
	r.registerLocked(o)
	r.mu.Unlock()
}

// RemoveObserver deregisters an observer; absent observers are a no-op.
func (r *Room) RemoveObserver(o Observer) {
	if o == nil {
		return
	}
	r.mu.Lock()
	r.unregisterLocked(o)
	r.mu.Unlock()
}

func (r *Room) registerLocked(o Observer) {
	for _, existing := range r.observers {
		if existing == o {
			return
		}
	}
	r.observers = append(r.observers, o)
}

func (r *Room) unregisterLocked(o Observer) {
	for i, existing := range r.observers {
		if existing == o {
			r.observers = append(r.observers[:i:i], r.observers[i+1:]...)
			return
		}
	}
}

// snapshotLocked copies the observer list so an in-flight fanout never sees
// concurrent registration changes.
func (r *Room) snapshotLocked() []Observer {
	out := make([]Observer, len(r.observers))
	copy(out, r.observers)
	return out
}

// fanout delivers one event to each observer. A failing or panicking observer
// is logged and skipped; it must never block delivery to the others.
func (r *Room) fanout(observers []Observer, event string, deliver func(Observer) error) {
	for _, o := range observers {
		r.deliverOne(o, event, deliver)
	}
}

func (r *Room) deliverOne(o Observer, event string, deliver func(Observer) error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Observer panicked during fanout", "room", r.ID, "event", event, "panic", rec)
		}
	}()
	if err := deliver(o); err != nil {
		r.log.Error("Observer failed during fanout", "room", r.ID, "event", event, "error", err)
	}
}

// Members returns a point-in-time copy of the member set.
func (r *Room) Members() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.members)
}

func (r *Room) IsMember(user *User) bool {
	if user == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[user.ID]
	return ok
}

func (r *Room) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Room) String() string {
	return fmt.Sprintf("ChatRoom[ID: %s, Users: %d, Admin: %s]", r.ID, r.UserCount(), r.Admin.Username)
}
