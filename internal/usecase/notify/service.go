package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/summary"
)

// Delivery channels
const (
	ChannelChat  = "chat"
	ChannelEmail = "email"
)

// Sender delivers one message
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// Service sends standup summaries. Delivery is attempted once; failures are
// reported to the caller and never touch session state.
type Service struct {
	chat    Sender
	email   Sender
	builder *summary.Builder
	logger  *zap.Logger
}

// NewService creates a notifier. A nil sender disables that channel.
func NewService(chat, email Sender, builder *summary.Builder, logger *zap.Logger) *Service {
	if builder == nil {
		builder = summary.NewBuilder(nil)
	}
	return &Service{chat: chat, email: email, builder: builder, logger: logger}
}

// Deliver renders the session for channel and sends it
func (s *Service) Deliver(ctx context.Context, channel string, session *entities.StandupSession) error {
	exp := s.builder.Build(session)

	var (
		sender  Sender
		subject string
		body    string
	)
	switch channel {
	case ChannelChat:
		sender, body = s.chat, summary.RenderChat(exp)
	case ChannelEmail:
		sender, body = s.email, summary.RenderText(exp)
		subject = fmt.Sprintf("Standup summary: %s (%s)", session.TeamID, session.StartedAt.Format("2006-01-02"))
	default:
		return fmt.Errorf("%w: channel %q", usecaseErrors.ErrInvalidInput, channel)
	}
	if sender == nil {
		return usecaseErrors.ErrChannelDisabled
	}

	if err := sender.Send(ctx, subject, body); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Summary delivery failed",
				zap.String("channel", channel),
				zap.String("team_id", session.TeamID),
				zap.Error(err),
			)
		}
		return fmt.Errorf("%w: %v", usecaseErrors.ErrDeliveryFailed, err)
	}

	if s.logger != nil {
		s.logger.Info("📨 Summary delivered", zap.String("channel", channel), zap.String("team_id", session.TeamID))
	}
	return nil
}
