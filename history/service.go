package history

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"chat-core/domain"
	"chat-core/errors"
)

// Service owns one Log per room id. Logs are created lazily on the first
// append and live independently of the Room itself, so history survives a
// removed room until cleared. Each Log carries its own lock; operations on
// different rooms never contend.
type Service struct {
	log      *slog.Logger
	capacity int

	mu   sync.RWMutex
	logs map[string]*Log
}

func NewService(log *slog.Logger, capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{
		log:      log,
		capacity: capacity,
		logs:     make(map[string]*Log),
	}
}

// Append saves the message at the tail of the room ledger.
func (s *Service) Append(roomID string, message domain.Message) error {
	if strings.TrimSpace(roomID) == "" {
		return fmt.Errorf("%w: empty room id", errors.ErrInvalidArgument)
	}
	if err := message.Validate(); err != nil {
		return err
	}
	s.roomLog(roomID).Append(message)
	s.log.Debug("Message saved", "room", roomID, "message", message.ID)
	return nil
}

// roomLog returns the room ledger, creating it on first use.
func (s *Service) roomLog(roomID string) *Log {
	s.mu.RLock()
	l, ok := s.logs[roomID]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.logs[roomID]; ok {
		return l
	}
	l = NewLog(s.capacity)
	s.logs[roomID] = l
	return l
}

func (s *Service) lookup(roomID string) (*Log, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[roomID]
	return l, ok
}

// Recent returns up to n messages for the room, newest first. Unknown rooms
// and n <= 0 yield nil, never an error.
func (s *Service) Recent(roomID string, n int) []domain.Message {
	if l, ok := s.lookup(roomID); ok {
		return l.Recent(n)
	}
	return nil
}

// All returns the full ledger for the room, newest first.
func (s *Service) All(roomID string) []domain.Message {
	if l, ok := s.lookup(roomID); ok {
		return l.All()
	}
	return nil
}

func (s *Service) Count(roomID string) int {
	if l, ok := s.lookup(roomID); ok {
		return l.Count()
	}
	return 0
}

// Clear drops the room ledger entirely.
func (s *Service) Clear(roomID string) {
	s.mu.Lock()
	_, ok := s.logs[roomID]
	delete(s.logs, roomID)
	s.mu.Unlock()
	if ok {
		s.log.Info("Message history cleared", "room", roomID)
	}
}

// TotalMessages counts messages across every room ledger.
func (s *Service) TotalMessages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, l := range s.logs {
		total += l.Count()
	}
	return total
}

// RoomCount counts rooms that currently hold history.
func (s *Service) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}
