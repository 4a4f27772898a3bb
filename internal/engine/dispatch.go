package engine

import (
	"context"
	"fmt"
	"strings"

	log "log/slog"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"homevox/internal/command"
)

// Payload builds the service call body: entity_id first, then every data
// field in declaration order. A data field may replace entity_id.
func Payload(d command.Descriptor) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "entity_id", d.EntityID)
	if err != nil {
		return nil, fmt.Errorf("set entity_id: %w", err)
	}
	for _, f := range d.Data {
		if f.Key == "" {
			return nil, fmt.Errorf("data: empty key")
		}
		body, err = sjson.SetBytes(body, payloadKey(f.Key), f.Value)
		if err != nil {
			return nil, fmt.Errorf("set data.%s: %w", f.Key, err)
		}
	}
	return body, nil
}

// payloadKey turns a data key into a single literal sjson path component.
func payloadKey(key string) string {
	if strings.Trim(key, "0123456789") == "" {
		// force an object key instead of an array index
		return ":" + key
	}
	k := gjson.Escape(key)
	if strings.HasPrefix(k, ":") {
		k = `\` + k
	}
	return k
}

func (e *Executor) dispatch(ctx context.Context, name string, d command.Descriptor) error {
	verb, ok := d.Method.HTTP()
	if !ok {
		return &command.ConfigError{Command: name, Field: "method", Reason: "missing or unsupported"}
	}

	payload, err := Payload(d)
	if err != nil {
		return err
	}

	resp, err := e.client.CallService(ctx, verb, d.Domain(), d.Action, payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &StatusError{Status: resp.Status, Body: resp.Text()}
	}

	log.Info("Command executed", "cmd", name, "status", resp.Status)
	log.Debug("Service response", "cmd", name, "body", resp.Text())
	return nil
}
