// Package homevox wires configuration into the running services shared by
// the daemon and the bus shard.
package homevox

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "log/slog"

	"github.com/lmittmann/tint"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"homevox/internal/chat"
	"homevox/internal/command"
	"homevox/internal/config"
	"homevox/internal/engine"
	"homevox/internal/hass"
	"homevox/internal/ipc"
	"homevox/internal/proxy"
	"homevox/internal/vox"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// SetupLogger installs a tint handler on stdout as the default logger.
func SetupLogger(level string) {
	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[level],
	})))
}

type Services struct {
	Commands  *command.Registry
	Executor  *engine.Executor
	Assistant *chat.Assistant // nil when questions are disabled
}

// Build loads the command registry and creates the clients described by cfg.
func Build(cfg config.Config) (*Services, error) {
	httpClient, err := proxy.NewHTTPClient(cfg.SocksProxy, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("proxy %s: %w", cfg.SocksProxy, err)
	}

	commands, err := command.Load(cfg.CommandsFile)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded commands", "file", cfg.CommandsFile, "count", commands.Len())

	s := &Services{
		Commands: commands,
		Executor: engine.NewExecutor(commands, hass.NewClient(cfg.BaseURL, cfg.Token, httpClient)),
	}

	if cfg.ChatEnabled() {
		client := openai.NewClient(
			option.WithAPIKey(cfg.OpenAIKey),
			option.WithHTTPClient(httpClient),
		)
		s.Assistant = chat.NewAssistant(client, cfg.ChatModel)
		log.Debug("Questions enabled", "model", cfg.ChatModel)
	}

	return s, nil
}

// Asker returns the assistant as a vox.Asker, or a nil interface when
// questions are disabled.
func (s *Services) Asker() vox.Asker {
	if s.Assistant == nil {
		return nil
	}
	return s.Assistant
}

// ControlHandler answers homevox-ctl requests.
func (s *Services) ControlHandler(ctx context.Context) ipc.Handler {
	return func(msg ipc.ControlMessage) ipc.Reply {
		log.Info("Control message", "cmd", msg.Cmd, "arg", msg.Arg)

		switch msg.Cmd {
		case ipc.CmdExec:
			return ipc.Reply{OK: true, Text: s.Executor.Execute(ctx, msg.Arg)}
		case ipc.CmdList:
			return ipc.Reply{OK: true, Text: strings.Join(s.Commands.Names(), "\n")}
		case ipc.CmdAsk:
			asker := s.Asker()
			if asker == nil {
				return ipc.Reply{OK: false, Text: "questions are disabled, set OPENAI_API_KEY"}
			}
			answer, err := asker.Ask(ctx, msg.Arg)
			if err != nil {
				log.Error("Question failed", "err", err)
				return ipc.Reply{OK: false, Text: err.Error()}
			}
			return ipc.Reply{OK: true, Text: answer}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{OK: false, Text: fmt.Sprintf("unknown control command %q", msg.Cmd)}
		}
	}
}
