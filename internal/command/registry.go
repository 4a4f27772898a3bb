package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry maps command names to descriptors. It is filled once and never
// modified afterwards, so it is safe for concurrent readers.
type Registry struct {
	commands map[string]Descriptor
}

type descriptorFile struct {
	EntityID       string       `yaml:"entity_id"`
	Action         string       `yaml:"action"`
	Method         string       `yaml:"method"`
	Data           Data         `yaml:"data"`
	Message        *string      `yaml:"message"`
	AdditionalData []SubRequest `yaml:"additional_data"`
}

// NewRegistry validates every descriptor and takes a private copy of the map.
func NewRegistry(commands map[string]Descriptor) (*Registry, error) {
	r := &Registry{commands: make(map[string]Descriptor, len(commands))}
	for name, d := range commands {
		if err := d.Validate(name); err != nil {
			return nil, err
		}
		r.commands[name] = d
	}
	return r, nil
}

// Load reads a registry from a YAML or JSON file.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open commands: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a mapping of command name to descriptor.
func Parse(in io.Reader) (*Registry, error) {
	var raw map[string]descriptorFile
	if err := yaml.NewDecoder(in).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode commands: %w", err)
	}

	commands := make(map[string]Descriptor, len(raw))
	for name, rd := range raw {
		if rd.Method == "" {
			return nil, &ConfigError{Command: name, Field: "method", Reason: "missing"}
		}
		m, err := ParseMethod(rd.Method)
		if err != nil {
			return nil, &ConfigError{Command: name, Field: "method", Reason: err.Error()}
		}

		msg := DefaultMessage
		if rd.Message != nil {
			msg = *rd.Message
		}

		commands[name] = Descriptor{
			EntityID:       rd.EntityID,
			Action:         rd.Action,
			Method:         m,
			Data:           rd.Data,
			Message:        msg,
			AdditionalData: rd.AdditionalData,
		}
	}
	return NewRegistry(commands)
}

// Resolve looks up name with an exact, case-sensitive match.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, ok := r.commands[name]
	if !ok {
		return Descriptor{}, ErrNotFound
	}
	return d, nil
}

// Names lists the registered commands in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.commands)
}
