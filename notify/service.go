// Package notify contains observer implementations at the presentation
// boundary: event announcements with running counters, and the bridge from
// room events onto a Transport.
package notify

import (
	"log/slog"
	"sync/atomic"

	"chat-core/domain"
)

// Service announces room activity and keeps running counters. It implements
// domain.Observer and tolerates concurrent fanout from many rooms.
type Service struct {
	log *slog.Logger

	messageCount  atomic.Int64
	activityCount atomic.Int64
}

func NewService(log *slog.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) OnMessageReceived(room *domain.Room, message domain.Message) error {
	s.messageCount.Add(1)
	s.log.Info("New message",
		"room", room.ID, "sender", message.SenderID, "content", truncate(message.Content))
	return nil
}

func (s *Service) OnPrivateMessageReceived(room *domain.Room, message domain.Message) error {
	s.messageCount.Add(1)
	// Content stays out of the announcement on purpose.
	s.log.Info("Private message",
		"room", room.ID, "sender", message.SenderID, "recipient", message.RecipientID)
	return nil
}

func (s *Service) OnUserJoined(room *domain.Room, user *domain.User) error {
	s.activityCount.Add(1)
	s.log.Info("User joined", "room", room.ID, "user", user.ID, "total", room.UserCount())
	return nil
}

func (s *Service) OnUserLeft(room *domain.Room, user *domain.User) error {
	s.activityCount.Add(1)
	s.log.Info("User left", "room", room.ID, "user", user.ID, "remaining", room.UserCount())
	return nil
}

func (s *Service) Messages() int64 {
	return s.messageCount.Load()
}

func (s *Service) Activities() int64 {
	return s.activityCount.Load()
}

func (s *Service) Total() int64 {
	return s.messageCount.Load() + s.activityCount.Load()
}

func (s *Service) Reset() {
	s.messageCount.Store(0)
	s.activityCount.Store(0)
}

func truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= 50 {
		return content
	}
	return string(runes[:47]) + "..."
}
