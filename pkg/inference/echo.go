package inference

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// EchoEngine is an offline engine that parrots the last prompt message back,
// taking TimePerCharacter per rune to simulate a model producing output. It
// backs the offline demo mode and tests.
type EchoEngine struct {
	TimePerCharacter time.Duration
}

func NewEchoEngine() *EchoEngine {
	return &EchoEngine{
		TimePerCharacter: 10 * time.Millisecond,
	}
}

var _ Engine = (*EchoEngine)(nil)

func (e *EchoEngine) Complete(ctx context.Context, messages []Message, cfg Config) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no input")
	}

	text := messages[len(messages)-1].Content
	for range text {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(e.TimePerCharacter):
		}
	}

	return text, nil
}
