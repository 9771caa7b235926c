package transport

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat-core/domain"
)

const DefaultEndpoint = "ws://localhost:8080/chat"

// Websocket pushes chat events as JSON frames over a websocket connection.
// Writes are serialized; gorilla connections allow one concurrent writer.
type Websocket struct {
	endpoint string
	log      *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// frame is the wire shape of every event the adapter emits.
type frame struct {
	Type      string `json:"type"`
	Room      string `json:"room,omitempty"`
	User      string `json:"user,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func NewWebsocket(endpoint string, log *slog.Logger) *Websocket {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Websocket{endpoint: endpoint, log: log}
}

func (w *Websocket) Connect() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		return nil
	}
	conn, _, err := websocket.DefaultDialer.Dial(w.endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.endpoint, err)
	}
	w.conn = conn
	w.log.Info("Websocket transport connected", "endpoint", w.endpoint)
	return nil
}

func (w *Websocket) Disconnect() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if closeErr := w.conn.Close(); err == nil {
		err = closeErr
	}
	w.conn = nil
	w.log.Info("Websocket transport disconnected", "endpoint", w.endpoint)
	return err
}

func (w *Websocket) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

func (w *Websocket) Send(message domain.Message) error {
	kind := "message"
	if message.IsPrivate() {
		kind = "private_message"
	}
	return w.writeFrame(frame{
		Type:      kind,
		User:      message.SenderID,
		Recipient: message.RecipientID,
		Content:   message.Content,
		Timestamp: message.CreatedAt.UnixMilli(),
	})
}

func (w *Websocket) NotifyJoin(user *domain.User, roomID string) error {
	return w.writeFrame(frame{
		Type:      "user_joined",
		Room:      roomID,
		User:      user.ID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (w *Websocket) NotifyLeave(user *domain.User, roomID string) error {
	return w.writeFrame(frame{
		Type:      "user_left",
		Room:      roomID,
		User:      user.ID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (w *Websocket) SystemMessage(text string) error {
	return w.writeFrame(frame{
		Type:      "system_message",
		Content:   text,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (w *Websocket) writeFrame(f frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		w.log.Warn("Dropping frame, websocket transport disconnected", "type", f.Type)
		return nil
	}
	return w.conn.WriteJSON(f)
}
