package history

import (
	"log/slog"

	"chat-core/domain"
)

// Recorder is the observer that feeds room traffic into the history service.
// Public and private messages are recorded; join and leave events are not.
// One Recorder serves every room, keyed by the room id.
type Recorder struct {
	service *Service
	log     *slog.Logger
}

func NewRecorder(service *Service, log *slog.Logger) *Recorder {
	return &Recorder{service: service, log: log}
}

func (r *Recorder) OnMessageReceived(room *domain.Room, message domain.Message) error {
	return r.service.Append(room.ID, message)
}

func (r *Recorder) OnPrivateMessageReceived(room *domain.Room, message domain.Message) error {
	return r.service.Append(room.ID, message)
}

func (r *Recorder) OnUserJoined(*domain.Room, *domain.User) error { return nil }

func (r *Recorder) OnUserLeft(*domain.Room, *domain.User) error { return nil }
