//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-core/domain"
)

// Transport is a delivery channel driven by the presentation layer: console,
// websocket, anything that can carry already-validated events to a client.
// Implementations own their connection state and must never propagate
// failures back into the core.
type Transport interface {
	Connect() error
	Disconnect() error
	Connected() bool
	Send(message domain.Message) error
	NotifyJoin(user *domain.User, roomID string) error
	NotifyLeave(user *domain.User, roomID string) error
	SystemMessage(text string) error
}

// IRoomRegistry is the process-wide room directory.
type IRoomRegistry interface {
	CreateRoom(id string, admin *domain.User) (*domain.Room, error)
	Room(id string) (*domain.Room, bool)
	Rooms() []*domain.Room
	Remove(id string) bool
	Exists(id string) bool
	Count() int
}

// IUserRegistry hands out stable User records by name.
type IUserRegistry interface {
	GetOrCreate(username string) (*domain.User, error)
	Find(username string) (*domain.User, bool)
	Exists(username string) bool
	Remove(username string) bool
	Count() int
}

// IHistoryService is the bounded per-room message ledger.
type IHistoryService interface {
	Append(roomID string, message domain.Message) error
	Recent(roomID string, n int) []domain.Message
	All(roomID string) []domain.Message
	Count(roomID string) int
	Clear(roomID string)
	TotalMessages() int
	RoomCount() int
}
