package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// streamMessage is one frame of the log streaming protocol. The backend
// sends entries until the job reaches a terminal state, then a final frame
// with done set.
type streamMessage struct {
	Entry *LogEntry `json:"entry,omitempty"`
	Done  bool      `json:"done"`
	Error *string   `json:"error,omitempty"`
}

// StreamTrainingLogs follows a job's training output over a websocket.
// The onEntry callback is invoked per log line. Return an error from onEntry
// to abort the stream. Returns nil when the backend closes the stream after
// the job finishes.
func (c *Client) StreamTrainingLogs(ctx context.Context, id int64, onEntry func(entry LogEntry) error) error {
	// Convert the HTTP base URL to a websocket endpoint
	wsEndpoint := c.baseURL + fmt.Sprintf("/training-jobs/%d/logs/stream", id)
	wsEndpoint = strings.Replace(wsEndpoint, "http://", "ws://", 1)
	wsEndpoint = strings.Replace(wsEndpoint, "https://", "wss://", 1)

	u, err := url.Parse(wsEndpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}

	// Track connection state for proper cleanup
	var mu sync.Mutex
	closed := false
	closeConn := func() {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			conn.Close()
		}
	}
	defer closeConn()

	// Close the connection when the context is cancelled so the read loop
	// unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-done:
		}
	}()

	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		if msg.Error != nil {
			return fmt.Errorf("stream error: %s", *msg.Error)
		}

		if msg.Entry != nil {
			if err := onEntry(*msg.Entry); err != nil {
				return err
			}
		}

		if msg.Done {
			return nil
		}
	}
}
