// Package transport provides delivery adapters. Adapters receive events that
// already passed room validation; they own their connection state, log their
// own failures, and never call back into the core.
package transport

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/gookit/color"

	"chat-core/domain"
)

const timeFormat = "15:04:05"

// Console renders chat traffic on a terminal. Safe for concurrent use.
type Console struct {
	log     *slog.Logger
	colours bool

	mu        sync.Mutex
	out       io.Writer
	connected bool
}

// NewConsole writes to out (os.Stdout when nil). Colours are optional so the
// output stays assertable in tests and readable in dumb terminals.
func NewConsole(out io.Writer, colours bool, log *slog.Logger) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{log: log, colours: colours, out: out}
}

func (c *Console) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	c.log.Info("Console transport connected")
	return nil
}

func (c *Console) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.log.Info("Console transport disconnected")
	return nil
}

func (c *Console) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Console) Send(message domain.Message) error {
	ts := message.CreatedAt.Format(timeFormat)
	if message.IsPrivate() {
		return c.writeLine(color.Magenta, fmt.Sprintf("[%s] PRIVATE %s -> %s: %s",
			ts, message.SenderID, message.RecipientID, message.Content))
	}
	return c.writeLine(color.Green, fmt.Sprintf("[%s] %s: %s",
		ts, message.SenderID, message.Content))
}

func (c *Console) NotifyJoin(user *domain.User, roomID string) error {
	return c.writeLine(color.Cyan, fmt.Sprintf(">> %s joined room %s", user.Username, roomID))
}

func (c *Console) NotifyLeave(user *domain.User, roomID string) error {
	return c.writeLine(color.Yellow, fmt.Sprintf("<< %s left room %s", user.Username, roomID))
}

func (c *Console) SystemMessage(text string) error {
	return c.writeLine(color.Gray, fmt.Sprintf("** %s", text))
}

func (c *Console) writeLine(col color.Color, line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		c.log.Warn("Dropping output, console transport disconnected")
		return nil
	}
	if c.colours {
		line = col.Render(line)
	}
	_, err := fmt.Fprintln(c.out, line)
	return err
}
