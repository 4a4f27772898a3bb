package vox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor map[string]string

func (f fakeExecutor) Execute(_ context.Context, name string) string {
	if msg, ok := f[name]; ok {
		return msg
	}
	return "unknown " + name
}

type fakeAsker struct {
	answer string
	err    error
}

func (f fakeAsker) Ask(context.Context, string) (string, error) {
	return f.answer, f.err
}

func TestHandle(t *testing.T) {
	v := NewVox("vox", nil, fakeExecutor{"lights off": "Lights are off."}, fakeAsker{answer: "42"})
	ctx := context.Background()

	resp := v.Handle(ctx, &BusMessage{ID: "m1", From: "hub", To: "vox", Kind: KindCommand, Content: "lights off"})
	require.NotNil(t, resp)
	assert.Equal(t, "Lights are off.", resp.Content)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Equal(t, "hub", resp.To)
	assert.Equal(t, "vox", resp.From)
	assert.Equal(t, "m1", resp.ReplyTo)
	assert.NotEmpty(t, resp.ID)
	assert.NotEqual(t, "m1", resp.ID)

	resp = v.Handle(ctx, &BusMessage{From: "hub", Kind: KindQuestion, Content: "meaning of life"})
	require.NotNil(t, resp)
	assert.Equal(t, "42", resp.Content)

	assert.Nil(t, v.Handle(ctx, &BusMessage{From: "hub", To: "other", Kind: KindCommand, Content: "lights off"}))
	assert.Nil(t, v.Handle(ctx, &BusMessage{From: "hub", Kind: KindReply, Content: "ok"}))
}

func TestHandle_Questions(t *testing.T) {
	ctx := context.Background()
	q := &BusMessage{From: "hub", Kind: KindQuestion, Content: "hi"}

	v := NewVox("vox", nil, fakeExecutor{}, nil)
	assert.Equal(t, noQuestions, v.Handle(ctx, q).Content)

	v = NewVox("vox", nil, fakeExecutor{}, fakeAsker{err: errors.New("down")})
	assert.Equal(t, questionFailed, v.Handle(ctx, q).Content)
}

func TestRun_RoundTrip(t *testing.T) {
	replies := make(chan BusMessage, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte("garbage"))
		_ = conn.WriteJSON(BusMessage{ID: "x1", From: "hub", To: "vox", Kind: KindCommand, Content: "lights off"})

		var m BusMessage
		if err := conn.ReadJSON(&m); err == nil {
			replies <- m
		}
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	bus, err := NewBus("ws"+strings.TrimPrefix(srv.URL, "http"), 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	v := NewVox("vox", bus, fakeExecutor{"lights off": "Lights are off."}, nil)
	go func() { done <- v.Run(ctx) }()

	select {
	case m := <-replies:
		assert.Equal(t, "Lights are off.", m.Content)
		assert.Equal(t, "x1", m.ReplyTo)
		assert.Equal(t, "hub", m.To)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed(&websocket.CloseError{Code: websocket.CloseGoingAway}))
	assert.False(t, IsClosed(errors.New("boom")))
}
