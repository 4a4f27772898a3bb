package vox

import (
	"context"
	"errors"

	log "log/slog"

	"github.com/google/uuid"
)

const (
	noQuestions    = "Questions are not available."
	questionFailed = "Failed to answer the question."
)

type Executor interface {
	Execute(ctx context.Context, name string) string
}

type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Vox is a bus shard answering command and question messages.
type Vox struct {
	name string
	bus  *Bus
	exec Executor
	chat Asker
}

// NewVox wires a shard. chat may be nil when questions are disabled.
func NewVox(name string, bus *Bus, exec Executor, chat Asker) *Vox {
	return &Vox{name: name, bus: bus, exec: exec, chat: chat}
}

// Handle returns the reply for msg, or nil when the message is not for us.
func (v *Vox) Handle(ctx context.Context, msg *BusMessage) *BusMessage {
	if msg.To != "" && msg.To != v.name {
		return nil
	}

	var content string
	switch msg.Kind {
	case KindCommand:
		content = v.exec.Execute(ctx, msg.Content)
	case KindQuestion:
		content = v.answer(ctx, msg.Content)
	default:
		return nil
	}

	return &BusMessage{
		ID:      uuid.NewString(),
		ReplyTo: msg.ID,
		From:    v.name,
		To:      msg.From,
		Kind:    KindReply,
		Content: content,
	}
}

func (v *Vox) answer(ctx context.Context, question string) string {
	if v.chat == nil {
		return noQuestions
	}
	answer, err := v.chat.Ask(ctx, question)
	if err != nil {
		log.Error("Question failed", "err", err)
		return questionFailed
	}
	return answer
}

// Run serves the bus until ctx is done, reconnecting when the connection drops.
func (v *Vox) Run(ctx context.Context) error {
	log.Info("Vox ready", "name", v.name)

	go func() {
		<-ctx.Done()
		v.bus.Close()
	}()

	for {
		msg, err := v.bus.Read()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrMalformed) {
				log.Warn("Skipping bus message", "err", err)
				continue
			}
			log.Warn("Bus read failed, reconnecting", "url", v.bus.url, "closed", IsClosed(err), "err", err)
			if err := v.bus.Reconnect(ctx); err != nil {
				return nil
			}
			log.Info("Successfully reconnected")
			continue
		}

		resp := v.Handle(ctx, msg)
		if resp == nil {
			continue
		}

		log.Info("Replying", "to", resp.To, "kind", msg.Kind, "reply_to", resp.ReplyTo)
		if err := v.bus.Write(resp); err != nil {
			log.Error("Failed to send response", "err", err)
		}
	}
}
