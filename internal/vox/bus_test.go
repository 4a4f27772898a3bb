package vox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconnect_CancelledDuringDial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var dials atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if dials.Add(1) > 1 {
			// shutdown lands while the reconnect dial is in flight
			cancel()
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	bus, err := NewBus("ws"+strings.TrimPrefix(srv.URL, "http"), time.Minute)
	require.NoError(t, err)
	defer bus.Close()
	first := bus.current()

	done := make(chan error, 1)
	go func() { done <- bus.Reconnect(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Reconnect did not return")
	}
	assert.Same(t, first, bus.current())
	assert.EqualValues(t, 2, dials.Load())
}

func TestReconnect_ReplacesConnection(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	bus, err := NewBus("ws"+strings.TrimPrefix(srv.URL, "http"), 10*time.Millisecond)
	require.NoError(t, err)
	defer bus.Close()
	first := bus.current()

	require.NoError(t, bus.Reconnect(context.Background()))
	assert.NotSame(t, first, bus.current())

	_, _, err = first.ReadMessage()
	assert.Error(t, err)
}
