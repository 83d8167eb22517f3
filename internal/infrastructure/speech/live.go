package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainspeech "github.com/johnquangdev/standup-assistant/internal/domain/speech"
)

// Data topics used on the room
const (
	TopicControl = "standup.control"
)

// ErrSpeakTimeout is returned when no client confirmed playback in time
var ErrSpeakTimeout = errors.New("speech playback was not acknowledged")

// DataSender publishes reliable data packets to a room
type DataSender interface {
	SendData(ctx context.Context, roomName, topic string, data []byte) error
}

// controlMessage is what browser clients in the room receive
type controlMessage struct {
	Type     string `json:"type"`
	SpeechID string `json:"speech_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

// LiveChannel drives speech through clients joined to a LiveKit room. Prompts are
// broadcast for the client to synthesize; the client acknowledges playback and
// posts recognized fragments back over HTTP.
type LiveChannel struct {
	sender  DataSender
	room    string
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	pending map[string]chan struct{}
	listen  listener
}

// NewLiveChannel creates a channel bound to one room
func NewLiveChannel(sender DataSender, room string, timeout time.Duration, logger *zap.Logger) *LiveChannel {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LiveChannel{
		sender:  sender,
		room:    room,
		timeout: timeout,
		logger:  logger,
		pending: make(map[string]chan struct{}),
	}
}

// Room returns the bound room name
func (c *LiveChannel) Room() string { return c.room }

// Speak broadcasts the line and waits for a client acknowledgment
func (c *LiveChannel) Speak(ctx context.Context, text string) error {
	id := uuid.NewString()
	done := make(chan struct{})

	c.mu.Lock()
	c.pending[id] = done
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.publish(ctx, controlMessage{Type: "speak", SpeechID: id, Text: text}); err != nil {
		return err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		if c.logger != nil {
			c.logger.Warn("⚠️ Speech not acknowledged",
				zap.String("room", c.room),
				zap.String("speech_id", id),
			)
		}
		return ErrSpeakTimeout
	}
}

// Ack implements speech.Acknowledger
func (c *LiveChannel) Ack(speechID string) bool {
	c.mu.Lock()
	done, ok := c.pending[speechID]
	if ok {
		delete(c.pending, speechID)
	}
	c.mu.Unlock()

	if ok {
		close(done)
	}
	return ok
}

// Listen tells clients to start recognition and opens the handle
func (c *LiveChannel) Listen(ctx context.Context, onFragment domainspeech.FragmentFunc) (domainspeech.StopFunc, error) {
	if err := c.publish(ctx, controlMessage{Type: "listen"}); err != nil {
		return nil, err
	}
	stop := c.listen.open(onFragment)

	return func() {
		stop()
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.publish(sendCtx, controlMessage{Type: "stop_listening"}); err != nil && c.logger != nil {
				c.logger.Warn("⚠️ Failed to broadcast stop", zap.String("room", c.room), zap.Error(err))
			}
		}()
	}, nil
}

// Deliver implements speech.Feeder
func (c *LiveChannel) Deliver(f domainspeech.Fragment) bool {
	return c.listen.deliver(f)
}

// Capabilities implements speech.Channel
func (c *LiveChannel) Capabilities() domainspeech.Capabilities {
	return domainspeech.Capabilities{ASR: true, TTS: true}
}

func (c *LiveChannel) publish(ctx context.Context, msg controlMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode control message: %w", err)
	}
	if err := c.sender.SendData(ctx, c.room, TopicControl, data); err != nil {
		return fmt.Errorf("failed to send %s message: %w", msg.Type, err)
	}
	return nil
}
