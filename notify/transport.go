package notify

import (
	"log/slog"

	"chat-core/contract"
	"chat-core/domain"
)

// TransportObserver forwards room events to a Transport. With an owner set,
// private messages are forwarded only when the owner is the sender or the
// recipient; without one, the adapter mirrors the room's full fanout. Rooms
// deliberately fan private messages to every observer, so owner filtering is
// the place where a deployment scopes private delivery.
type TransportObserver struct {
	transport contract.Transport
	owner     string // user id, "" forwards everything
	log       *slog.Logger
}

func NewTransportObserver(transport contract.Transport, log *slog.Logger) *TransportObserver {
	return &TransportObserver{transport: transport, log: log}
}

// WithOwner returns a copy of the observer that drops private messages not
// addressed to or sent by ownerID.
func (t *TransportObserver) WithOwner(ownerID string) *TransportObserver {
	return &TransportObserver{transport: t.transport, owner: ownerID, log: t.log}
}

func (t *TransportObserver) OnMessageReceived(_ *domain.Room, message domain.Message) error {
	return t.transport.Send(message)
}

func (t *TransportObserver) OnPrivateMessageReceived(_ *domain.Room, message domain.Message) error {
	if t.owner != "" && message.SenderID != t.owner && message.RecipientID != t.owner {
		t.log.Debug("Private message filtered out",
			"owner", t.owner, "sender", message.SenderID, "recipient", message.RecipientID)
		return nil
	}
	return t.transport.Send(message)
}

func (t *TransportObserver) OnUserJoined(room *domain.Room, user *domain.User) error {
	return t.transport.NotifyJoin(user, room.ID)
}

func (t *TransportObserver) OnUserLeft(room *domain.Room, user *domain.User) error {
	return t.transport.NotifyLeave(user, room.ID)
}
