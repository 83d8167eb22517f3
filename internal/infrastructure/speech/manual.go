package speech

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	domainspeech "github.com/johnquangdev/standup-assistant/internal/domain/speech"
)

// ManualChannel renders prompts as text and takes typed answers.
// It has no recognition, so answers are only finalized by the operator.
type ManualChannel struct {
	out    io.Writer
	outMu  sync.Mutex
	logger *zap.Logger
	listen listener
}

// NewManualChannel creates a manual channel. out may be nil when prompts are
// only read back through snapshots.
func NewManualChannel(out io.Writer, logger *zap.Logger) *ManualChannel {
	return &ManualChannel{out: out, logger: logger}
}

// Speak writes the line and completes immediately
func (c *ManualChannel) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.out != nil {
		c.outMu.Lock()
		_, err := fmt.Fprintf(c.out, "🗣️  %s\n", text)
		c.outMu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to render prompt: %w", err)
		}
	}
	if c.logger != nil {
		c.logger.Debug("manual speak", zap.String("text", text))
	}
	return nil
}

// Listen opens the typed-input handle
func (c *ManualChannel) Listen(ctx context.Context, onFragment domainspeech.FragmentFunc) (domainspeech.StopFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.listen.open(onFragment), nil
}

// Deliver implements speech.Feeder
func (c *ManualChannel) Deliver(f domainspeech.Fragment) bool {
	return c.listen.deliver(f)
}

// Capabilities implements speech.Channel
func (c *ManualChannel) Capabilities() domainspeech.Capabilities {
	return domainspeech.Capabilities{}
}
