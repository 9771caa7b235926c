// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chat-core/errors"
)

// Message represents an immutable chat event, public or private.
// A message is private exactly when RecipientID is set.
// Two messages are the same message when their IDs match.
type Message struct {
	ID          uuid.UUID // unique identifier
	SenderID    string
	RecipientID string // empty for public messages
	Content     string
	CreatedAt   time.Time
}

// NewMessage builds a public message. Content is trimmed and must not be empty.
func NewMessage(sender *User, content string) (Message, error) {
	return newMessage(sender, content, "")
}

// NewPrivateMessage builds a message addressed to a single recipient.
func NewPrivateMessage(sender *User, content string, recipient *User) (Message, error) {
	if recipient == nil {
		return Message{}, fmt.Errorf("%w: recipient is nil", errors.ErrInvalidArgument)
	}
	return newMessage(sender, content, recipient.ID)
}

func newMessage(sender *User, content, recipientID string) (Message, error) {
	if sender == nil {
		return Message{}, fmt.Errorf("%w: sender is nil", errors.ErrInvalidArgument)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, fmt.Errorf("%w: empty message content", errors.ErrInvalidArgument)
	}
	return Message{
		ID:          uuid.New(),
		SenderID:    sender.ID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now(),
	}, nil
}

func (m Message) IsPrivate() bool {
	return m.RecipientID != ""
}

// Validate rejects zero-value or hand-built messages missing required fields.
func (m Message) Validate() error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("%w: message has no id", errors.ErrInvalidArgument)
	}
	if m.SenderID == "" {
		return fmt.Errorf("%w: message has no sender", errors.ErrInvalidArgument)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("%w: empty message content", errors.ErrInvalidArgument)
	}
	return nil
}

// Equal identifies messages by ID, not by payload.
func (m Message) Equal(other Message) bool {
	return m.ID == other.ID
}

func (m Message) String() string {
	if m.IsPrivate() {
		return fmt.Sprintf("PrivateMessage[%s -> %s: %s]", m.SenderID, m.RecipientID, m.Content)
	}
	return fmt.Sprintf("Message[%s: %s]", m.SenderID, m.Content)
}
