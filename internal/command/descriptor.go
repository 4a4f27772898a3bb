package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMessage is spoken when a descriptor does not define its own.
const DefaultMessage = "Action completed."

// LookupGet is the only subsidiary request type that is executed.
const LookupGet = "get"

// Descriptor describes how one named command is carried out.
type Descriptor struct {
	EntityID       string
	Action         string
	Method         Method
	Data           Data
	Message        string
	AdditionalData []SubRequest
}

// Domain is the entity_id segment before the first dot.
func (d Descriptor) Domain() string {
	domain, _, _ := strings.Cut(d.EntityID, ".")
	return domain
}

// Validate checks the invariants that must hold before any network call.
func (d Descriptor) Validate(name string) error {
	if d.EntityID == "" {
		return &ConfigError{Command: name, Field: "entity_id", Reason: "missing"}
	}
	if !strings.Contains(d.EntityID, ".") || d.Domain() == "" {
		return &ConfigError{Command: name, Field: "entity_id", Reason: fmt.Sprintf("%q is not of the form <domain>.<name>", d.EntityID)}
	}
	if d.Action == "" {
		return &ConfigError{Command: name, Field: "action", Reason: "missing"}
	}
	if _, ok := d.Method.HTTP(); !ok {
		return &ConfigError{Command: name, Field: "method", Reason: "missing or unsupported"}
	}
	for _, f := range d.Data {
		if f.Key == "" {
			return &ConfigError{Command: name, Field: "data", Reason: "empty key"}
		}
		if _, err := json.Marshal(f.Value); err != nil {
			return &ConfigError{Command: name, Field: "data." + f.Key, Reason: fmt.Sprintf("not representable as JSON: %v", err)}
		}
	}
	for i, sub := range d.AdditionalData {
		if sub.Type == LookupGet && sub.URL == "" {
			return &ConfigError{Command: name, Field: fmt.Sprintf("additional_data[%d].url", i), Reason: "missing"}
		}
	}
	return nil
}

// SubRequest is a read performed before the primary call to enrich the
// result message.
type SubRequest struct {
	Type            string            `yaml:"type"`
	URL             string            `yaml:"url"`
	DataKeys        map[string]string `yaml:"data_keys"`
	MessageTemplate string            `yaml:"message_template"`
}

// Field is one key of the descriptor data payload.
type Field struct {
	Key   string
	Value any
}

// Data keeps the payload fields in the order they were declared.
type Data []Field

func (d *Data) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*d = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: data must be a mapping", node.Line)
	}

	out := make(Data, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line %d: data.%s: %w", node.Content[i].Line, node.Content[i].Value, err)
		}
		out = append(out, Field{Key: node.Content[i].Value, Value: v})
	}
	*d = out
	return nil
}
