package command

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Resolve for names missing from the registry.
var ErrNotFound = errors.New("command not found")

// ConfigError reports a malformed descriptor.
type ConfigError struct {
	Command string
	Field   string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("command %q: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("command %q: %s: %s", e.Command, e.Field, e.Reason)
}
