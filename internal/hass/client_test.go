package hass

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/states/sensor.temp", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`{"state":"21"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", srv.Client())
	resp, err := c.Get(context.Background(), "/api/states/sensor.temp")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"state":"21"}`, resp.Text())
}

func TestClient_CallService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/services/climate/turn_on", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"entity_id":"climate.office"}`, string(body))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such service\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	resp, err := c.CallService(context.Background(), http.MethodPut, "climate", "turn_on", []byte(`{"entity_id":"climate.office"}`))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "no such service", resp.Text())
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "secret", nil)
	_, err := c.Get(context.Background(), "/api/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send GET request")
}

func TestClient_BadVerb(t *testing.T) {
	c := NewClient("http://localhost", "secret", nil)
	_, err := c.CallService(context.Background(), "BAD VERB", "light", "turn_on", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to construct")
}
