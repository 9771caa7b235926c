//go:generate go run go.uber.org/mock/mockgen -source=observer.go -destination=../mocks/mock_observer.go -package=mocks
package domain

// Observer receives room events. Implementations must tolerate concurrent
// calls from multiple rooms. A returned error (or a panic) is logged by the
// room and never aborts delivery to the remaining observers.
type Observer interface {
	OnMessageReceived(room *Room, message Message) error
	OnPrivateMessageReceived(room *Room, message Message) error
	OnUserJoined(room *Room, user *User) error
	OnUserLeft(room *Room, user *User) error
}

// ContentFilter rewrites message content on its way to the observers.
// Used as the moderation hook; nil disables filtering.
type ContentFilter func(content string) string
