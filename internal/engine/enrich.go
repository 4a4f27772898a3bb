package engine

import (
	"context"
	"errors"
	"strings"

	log "log/slog"

	"github.com/tidwall/gjson"

	"homevox/internal/command"
	"homevox/internal/jsonpath"
)

var errInvalidJSON = errors.New("response is not valid JSON")

// enrich runs the get lookups of d in order, appending a fragment per
// lookup to the descriptor message. Failed lookups append a diagnostic
// instead and are returned so the caller can report them again.
func (e *Executor) enrich(ctx context.Context, d command.Descriptor) (string, []*LookupError) {
	var (
		msg    strings.Builder
		failed []*LookupError
	)
	msg.WriteString(d.Message)

	for _, sub := range d.AdditionalData {
		if sub.Type != command.LookupGet {
			log.Debug("Skipping lookup", "type", sub.Type, "url", sub.URL)
			continue
		}

		fragment, err := e.lookup(ctx, sub)
		if err != nil {
			lerr := &LookupError{URL: sub.URL, Err: err}
			log.Warn("Lookup failed", "url", sub.URL, "err", err)
			msg.WriteString(" (" + lerr.Error() + ")")
			failed = append(failed, lerr)
			continue
		}
		msg.WriteString(fragment)
	}

	return msg.String(), failed
}

func (e *Executor) lookup(ctx context.Context, sub command.SubRequest) (string, error) {
	resp, err := e.client.Get(ctx, sub.URL)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", &StatusError{Status: resp.Status, Body: resp.Text()}
	}
	if !gjson.ValidBytes(resp.Body) {
		return "", errInvalidJSON
	}

	root := gjson.ParseBytes(resp.Body)
	bindings := make(map[string]jsonpath.Value, len(sub.DataKeys))
	for name, path := range sub.DataKeys {
		v := jsonpath.Get(root, path)
		if v.Absent() {
			log.Debug("Binding absent", "name", name, "path", path, "url", sub.URL)
		}
		bindings[name] = v
	}

	return Render(sub.MessageTemplate, bindings), nil
}
