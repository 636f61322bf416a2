// Package chat provides the message feed the widget consumes: the message
// model, the Feed/Sender/History contracts, and an in-process Room that
// implements them on top of a Store.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Defaults applied to messages that arrive without an author or origin.
const (
	AnonymousAuthor = "Anonymous"
	DefaultOrigin   = "en"
	DefaultLang     = "en"
)

var (
	// ErrEmptyMessage is returned when the text is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong is returned when the text exceeds the room limit.
	ErrMessageTooLong = errors.New("message too long")
	// ErrRoomClosed is returned by operations on a closed room.
	ErrRoomClosed = errors.New("room closed")
)

// Message is a single chat line.
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	Lang      string    `json:"lang"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// Normalize fills the author and origin defaults.
func (m Message) Normalize() Message {
	if strings.TrimSpace(m.Author) == "" {
		m.Author = AnonymousAuthor
	}
	if m.Origin == "" {
		m.Origin = DefaultOrigin
	}
	if m.Lang == "" {
		m.Lang = DefaultLang
	}
	return m
}

// Attachment is an opaque file reference sent alongside a message.
type Attachment struct {
	Name string
	Data []byte
}

// Identity describes who is sending from a given widget.
type Identity struct {
	ID       string
	Nickname string
	Origin   string
}

// Feed exposes the ordered message list and a per-message callback.
// Delivery is at-least-once and in arrival order.
type Feed interface {
	Messages() []Message
	Subscribe(fn func(Message)) (cancel func())
}

// Sender posts a message on behalf of a bound identity. It returns a
// validation or transport error.
type Sender interface {
	Send(ctx context.Context, text, lang string, attachments []Attachment) error
}

// History loads the current message history for a language.
type History interface {
	History(ctx context.Context, lang string) ([]Message, error)
}
