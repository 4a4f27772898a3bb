// Package engine executes named commands against Home Assistant.
//
// An invocation resolves the descriptor, runs its lookups in order to
// enrich the result message, then performs the primary service call.
// Every outcome, failures included, ends up as text for the user.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "log/slog"

	"homevox/internal/command"
	"homevox/internal/hass"
)

// Commands resolves a command name to its descriptor.
type Commands interface {
	Resolve(name string) (command.Descriptor, error)
}

// Service is the remote side of an invocation.
type Service interface {
	Get(ctx context.Context, path string) (*hass.Response, error)
	CallService(ctx context.Context, verb, domain, action string, payload []byte) (*hass.Response, error)
}

// Executor holds no per-invocation state and may be shared between goroutines.
type Executor struct {
	commands Commands
	client   Service
}

func NewExecutor(commands Commands, client Service) *Executor {
	return &Executor{commands: commands, client: client}
}

// Run executes name and returns the result message. Errors are one of
// command.ErrNotFound, *command.ConfigError or *DispatchError.
func (e *Executor) Run(ctx context.Context, name string) (string, error) {
	d, err := e.commands.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := d.Validate(name); err != nil {
		return "", err
	}

	msg, lookups := e.enrich(ctx, d)

	if err := e.dispatch(ctx, name, d); err != nil {
		var cfgErr *command.ConfigError
		if errors.As(err, &cfgErr) {
			return "", err
		}
		return "", &DispatchError{Command: name, Err: err, Lookups: lookups}
	}

	if msg == "" {
		msg = command.DefaultMessage
	}
	return msg, nil
}

// Execute is Run with every error turned into a message for the user.
func (e *Executor) Execute(ctx context.Context, name string) string {
	msg, err := e.Run(ctx, name)
	if err != nil {
		return Describe(name, err)
	}
	return msg
}

// Describe renders an error returned by Run.
func Describe(name string, err error) string {
	if errors.Is(err, command.ErrNotFound) {
		log.Info("Unknown command", "cmd", name)
		return fmt.Sprintf("Command %q is not recognized.", name)
	}

	var cfgErr *command.ConfigError
	if errors.As(err, &cfgErr) {
		log.Error("Command misconfigured", "cmd", name, "err", err)
		if cfgErr.Field == "" {
			return fmt.Sprintf("Command %q is misconfigured: %s.", name, cfgErr.Reason)
		}
		return fmt.Sprintf("Command %q is misconfigured: %s %s.", name, cfgErr.Field, cfgErr.Reason)
	}

	var dispErr *DispatchError
	if !errors.As(err, &dispErr) {
		log.Error("Command failed", "cmd", name, "err", err)
		return fmt.Sprintf("Command %q failed: %v", name, err)
	}

	log.Error("Command failed", "cmd", name, "err", dispErr.Err)

	var b strings.Builder
	var statusErr *StatusError
	if errors.As(dispErr.Err, &statusErr) {
		fmt.Fprintf(&b, "Command %q failed with status %d: %s", name, statusErr.Status, statusErr.Body)
	} else {
		fmt.Fprintf(&b, "Command %q failed: %v", name, dispErr.Err)
	}
	for _, l := range dispErr.Lookups {
		b.WriteString(" (" + l.Error() + ")")
	}
	return b.String()
}
