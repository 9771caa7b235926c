// Package registry holds the process-wide room and user directories.
// Registries are constructed once in main and passed by handle; they replace
// lazily-initialized singletons while keeping single-instance semantics.
package registry

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"

	"chat-core/domain"
	"chat-core/errors"
	"chat-core/history"
)

// RoomRegistry creates and resolves rooms by id. Every room it creates gets
// the history recorder plus the registry-wide observers attached, and the
// registry's content filter wired in.
type RoomRegistry struct {
	log       *slog.Logger
	recorder  *history.Recorder
	filter    domain.ContentFilter
	observers []domain.Observer

	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewRoomRegistry builds the directory. filter may be nil; observers are
// attached to each room at creation, in the given order, after the recorder.
func NewRoomRegistry(log *slog.Logger, hist *history.Service, filter domain.ContentFilter, observers ...domain.Observer) *RoomRegistry {
	return &RoomRegistry{
		log:       log,
		recorder:  history.NewRecorder(hist, log),
		filter:    filter,
		observers: observers,
		rooms:     make(map[string]*domain.Room),
	}
}

// CreateRoom builds the room, joins the admin, attaches the recorder and the
// registry-wide observers, then publishes it under id. Publication is atomic:
// a concurrent lookup either misses the room or sees it fully built, and
// exactly one of two concurrent creations for the same id wins.
func (r *RoomRegistry) CreateRoom(id string, admin *domain.User) (*domain.Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty room id", errors.ErrInvalidArgument)
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: admin is nil", errors.ErrInvalidArgument)
	}
	if r.Exists(id) {
		return nil, fmt.Errorf("%w: room %q", errors.ErrAlreadyExists, id)
	}

	room, err := domain.NewRoom(id, admin, r.filter, r.log)
	if err != nil {
		return nil, err
	}
	room.AddObserver(r.recorder)
	for _, o := range r.observers {
		room.AddObserver(o)
	}

	r.mu.Lock()
	if _, taken := r.rooms[id]; taken {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: room %q", errors.ErrAlreadyExists, id)
	}
	r.rooms[id] = room
	r.mu.Unlock()

	r.log.Info("Room registered", "room", id, "admin", admin.ID)
	return room, nil
}

// Room resolves a room by id. A miss is an ok-bool, never an error.
func (r *RoomRegistry) Room(id string) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[strings.TrimSpace(id)]
	return room, ok
}

// Rooms returns a stable snapshot of the registered rooms.
func (r *RoomRegistry) Rooms() []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.rooms)
}

// Remove drops the room and reports whether it existed. Its history is left
// in place until explicitly cleared.
func (r *RoomRegistry) Remove(id string) bool {
	id = strings.TrimSpace(id)
	r.mu.Lock()
	_, ok := r.rooms[id]
	delete(r.rooms, id)
	r.mu.Unlock()
	if ok {
		r.log.Info("Room removed", "room", id)
	}
	return ok
}

func (r *RoomRegistry) Exists(id string) bool {
	_, ok := r.Room(id)
	return ok
}

func (r *RoomRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
