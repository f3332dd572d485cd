package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamServer(t *testing.T, serve func(conn *websocket.Conn)) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/training-jobs/7/logs/stream", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(server.Close)
	return NewWithTimeout(server.URL, 2*time.Second)
}

func TestStreamTrainingLogs(t *testing.T) {
	client := streamServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(streamMessage{Entry: &LogEntry{Message: "step 1/100"}})
		_ = conn.WriteJSON(streamMessage{Entry: &LogEntry{Message: "step 2/100"}})
		_ = conn.WriteJSON(streamMessage{Done: true})
	})

	var got []string
	err := client.StreamTrainingLogs(context.Background(), 7, func(entry LogEntry) error {
		got = append(got, entry.Message)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"step 1/100", "step 2/100"}, got)
}

func TestStreamTrainingLogsServerError(t *testing.T) {
	client := streamServer(t, func(conn *websocket.Conn) {
		msg := "log collector unavailable"
		_ = conn.WriteJSON(streamMessage{Error: &msg})
	})

	err := client.StreamTrainingLogs(context.Background(), 7, func(LogEntry) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log collector unavailable")
}

func TestStreamTrainingLogsCallbackAborts(t *testing.T) {
	client := streamServer(t, func(conn *websocket.Conn) {
		for i := 0; i < 10; i++ {
			if conn.WriteJSON(streamMessage{Entry: &LogEntry{Message: "line"}}) != nil {
				return
			}
		}
		_ = conn.WriteJSON(streamMessage{Done: true})
	})

	stop := errors.New("enough")
	seen := 0
	err := client.StreamTrainingLogs(context.Background(), 7, func(LogEntry) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, seen)
}
