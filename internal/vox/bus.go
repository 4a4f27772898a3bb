package vox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	log "log/slog"

	"github.com/gorilla/websocket"
)

const (
	KindCommand  = "command"
	KindQuestion = "question"
	KindReply    = "reply"
)

// ErrMalformed marks a frame that was read but could not be decoded.
var ErrMalformed = errors.New("malformed bus message")

type Bus struct {
	url    string
	reconn time.Duration

	writeMu sync.Mutex
	connMu  sync.Mutex
	conn    *websocket.Conn
}

type BusMessage struct {
	ID      string `json:"id,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// NewBus dials wsURL. reconn is the pause between reconnect attempts.
func NewBus(wsURL string, reconn time.Duration) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", wsURL)
	return &Bus{url: u.String(), reconn: reconn, conn: conn}, nil
}

func (b *Bus) current() *websocket.Conn {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.conn
}

func (b *Bus) Read() (*BusMessage, error) {
	_, msg, err := b.current().ReadMessage()
	if err != nil {
		return nil, err
	}

	var m BusMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &m, nil
}

func (b *Bus) Write(m *BusMessage) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.current().WriteMessage(websocket.TextMessage, data)
}

// Reconnect dials until it succeeds or ctx is done. The current
// connection is only replaced while ctx is still live.
func (b *Bus) Reconnect(ctx context.Context) error {
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
		if err == nil {
			b.connMu.Lock()
			// Run closes the bus once ctx is done; a conn swapped in after
			// that would never be closed.
			if ctx.Err() != nil {
				b.connMu.Unlock()
				conn.Close()
				return ctx.Err()
			}
			old := b.conn
			b.conn = conn
			b.connMu.Unlock()
			old.Close()
			return nil
		}

		log.Debug("Reconnect failed", "url", b.url, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.reconn):
		}
	}
}

func (b *Bus) Close() error {
	return b.current().Close()
}

// IsClosed reports whether err means the peer closed the connection.
func IsClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
