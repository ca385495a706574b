package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful
// for development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"role":          event.Role,
		"auth_provider": event.AuthProvider,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent(topicUserRegistered, event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserLoggedIn logs user.logged_in events.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"auth_provider": event.AuthProvider,
		"logged_in_at":  event.LoggedInAt,
		"metadata":      event.Metadata,
	}
	p.logEvent(topicUserLoggedIn, event.UserID, event.LoggedInAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
