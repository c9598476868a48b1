// Package notify streams upload notifications from the gallery server so
// fresh photos appear at the top of the wall without a refetch.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/lbuchert/photowall/internal/photo"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EventUploaded is the only event type the wall reacts to.
const EventUploaded = "photo.uploaded"

// Event is one server-pushed notification.
type Event struct {
	Type  string     `json:"type"`
	Photo photo.Item `json:"photo"`
}

// Listener maintains the notification connection and forwards uploaded
// photos to Events.
type Listener struct {
	url    string
	token  string
	logger *slog.Logger

	events chan photo.Item
}

// NewListener prepares a listener for the given websocket endpoint.
func NewListener(url, token string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		url:    url,
		token:  token,
		logger: logger,
		events: make(chan photo.Item, 16),
	}
}

// Events delivers uploaded photos, newest first as they arrive. The channel
// closes when Run returns.
func (l *Listener) Events() <-chan photo.Item {
	return l.events
}

// Run connects and pumps events until ctx is cancelled or the connection
// drops. The caller decides whether to reconnect.
func (l *Listener) Run(ctx context.Context) error {
	defer close(l.events)

	header := http.Header{}
	if l.token != "" {
		header.Set("Authorization", "Bearer "+l.token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, header)
	if err != nil {
		return fmt.Errorf("dialing notification stream: %w", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go l.keepAlive(ctx, conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("reading notification: %w", err)
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			l.logger.Warn("dropping malformed notification", "error", err)
			continue
		}
		if event.Type != EventUploaded {
			l.logger.Debug("ignoring notification", "type", event.Type)
			continue
		}

		select {
		case l.events <- event.Photo:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// keepAlive pings the server and closes the connection on cancellation so
// the read loop unblocks.
func (l *Listener) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
			return
		}
	}
}
