// Package history keeps a bounded, append-only message ledger per room.
// Eviction is FIFO: once a log reaches capacity, the oldest entry goes first.
package history

import (
	"sync"

	"chat-core/domain"
)

// DefaultCapacity bounds each room ledger unless configured otherwise.
const DefaultCapacity = 1000

// Log is a fixed-capacity ring buffer of messages. Appending is O(1); the
// insertion order is preserved. The zero value is not usable, construct with
// NewLog.
type Log struct {
	mu    sync.Mutex
	buf   []domain.Message
	start int
	size  int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{buf: make([]domain.Message, capacity)}
}

// Append adds the message at the tail, evicting the oldest entry when full.
func (l *Log) Append(m domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.size == len(l.buf) {
		l.buf[l.start] = m
		l.start = (l.start + 1) % len(l.buf)
		return
	}
	l.buf[(l.start+l.size)%len(l.buf)] = m
	l.size++
}

// Recent returns up to n messages, newest first. n <= 0 yields nil.
func (l *Log) Recent(n int) []domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentLocked(n)
}

// All returns the complete ledger, newest first.
func (l *Log) All() []domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentLocked(l.size)
}

func (l *Log) recentLocked(n int) []domain.Message {
	if n <= 0 || l.size == 0 {
		return nil
	}
	if n > l.size {
		n = l.size
	}
	out := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, l.buf[(l.start+l.size-1-i)%len(l.buf)])
	}
	return out
}

func (l *Log) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.start = 0
	l.size = 0
}
