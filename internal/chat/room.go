package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"charm.land/log/v2"
	"github.com/google/uuid"
)

// DefaultMaxLength is the default message length limit in runes.
const DefaultMaxLength = 500

// DefaultHistoryLimit is the default number of messages loaded as history.
const DefaultHistoryLimit = 200

// RoomOptions configures a Room.
type RoomOptions struct {
	MaxLength    int
	HistoryLimit int
	Logger       *log.Logger
	// Now is the clock used for message timestamps.
	Now func() time.Time
}

// Room is a shared chat room. Every widget attached to it sees the same
// ordered message stream. Safe for concurrent use.
type Room struct {
	store Store
	opts  RoomOptions
	log   *log.Logger

	// postMu serializes posts so subscribers observe arrival order.
	postMu sync.Mutex

	mu       sync.RWMutex
	messages []Message
	subs     map[int]func(Message)
	nextSub  int
	closed   bool
}

// NewRoom opens a room backed by store and preloads its recent history.
func NewRoom(ctx context.Context, store Store, opts RoomOptions) (*Room, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	recent, err := store.Recent(ctx, "", opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return &Room{
		store:    store,
		opts:     opts,
		log:      logger.With("component", "room"),
		messages: recent,
		subs:     make(map[int]func(Message)),
	}, nil
}

// Post validates and appends a message from the given identity, then
// delivers it to every subscriber. Subscribers must not call Post.
func (r *Room) Post(ctx context.Context, from Identity, text, lang string, attachments []Attachment) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(text); n > r.opts.MaxLength {
		return Message{}, fmt.Errorf("%w: %d runes, limit %d", ErrMessageTooLong, n, r.opts.MaxLength)
	}

	r.postMu.Lock()
	defer r.postMu.Unlock()

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return Message{}, ErrRoomClosed
	}

	msg := Message{
		ID:        uuid.New().String(),
		Author:    from.Nickname,
		AuthorID:  from.ID,
		Text:      text,
		Lang:      lang,
		Origin:    from.Origin,
		Timestamp: r.opts.Now(),
	}.Normalize()

	if err := r.store.Append(ctx, msg); err != nil {
		return Message{}, fmt.Errorf("store message: %w", err)
	}

	r.mu.Lock()
	r.messages = append(r.messages, msg)
	if over := len(r.messages) - r.opts.HistoryLimit; over > 0 {
		r.messages = append([]Message(nil), r.messages[over:]...)
	}
	subs := make([]func(Message), 0, len(r.subs))
	for i := 0; i < r.nextSub; i++ {
		if fn, ok := r.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	r.mu.Unlock()

	if len(attachments) > 0 {
		r.log.Debug("attachments ignored", "count", len(attachments), "id", msg.ID)
	}
	r.log.Debug("message posted", "id", msg.ID, "author", msg.Author, "lang", msg.Lang)

	for _, fn := range subs {
		fn(msg)
	}
	return msg, nil
}

// Messages implements Feed.
func (r *Room) Messages() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Message(nil), r.messages...)
}

// Subscribe implements Feed. The callback runs on the posting goroutine.
func (r *Room) Subscribe(fn func(Message)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// History implements History.
func (r *Room) History(ctx context.Context, lang string) ([]Message, error) {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return nil, ErrRoomClosed
	}
	msgs, err := r.store.Recent(ctx, lang, r.opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return msgs, nil
}

// Subscribers returns the number of active subscriptions.
func (r *Room) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Close stops accepting posts and closes the store.
func (r *Room) Close() error {
	r.postMu.Lock()
	defer r.postMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.subs = make(map[int]func(Message))
	r.mu.Unlock()

	return r.store.Close()
}

// Client binds an identity to the room so the widget can use the plain
// Sender contract.
func (r *Room) Client(id Identity) *Client {
	if id.ID == "" {
		id.ID = uuid.New().String()
	}
	return &Client{room: r, identity: id}
}

// Client is a room handle for one participant.
type Client struct {
	room     *Room
	identity Identity
}

// Identity returns the bound identity.
func (c *Client) Identity() Identity { return c.identity }

// Send implements Sender.
func (c *Client) Send(ctx context.Context, text, lang string, attachments []Attachment) error {
	_, err := c.room.Post(ctx, c.identity, text, lang, attachments)
	return err
}

// Messages implements Feed.
func (c *Client) Messages() []Message { return c.room.Messages() }

// Subscribe implements Feed.
func (c *Client) Subscribe(fn func(Message)) func() { return c.room.Subscribe(fn) }

// History implements History.
func (c *Client) History(ctx context.Context, lang string) ([]Message, error) {
	return c.room.History(ctx, lang)
}

var (
	_ Feed    = (*Room)(nil)
	_ History = (*Room)(nil)
	_ Feed    = (*Client)(nil)
	_ Sender  = (*Client)(nil)
	_ History = (*Client)(nil)
)
