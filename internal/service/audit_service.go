package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/events"
)

// AuditService records auth lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleInfo)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handleInfo)
	a.dispatcher.Subscribe(events.EventLogout, a.handleInfo)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleSecurity)
	a.dispatcher.Subscribe(events.EventRefreshDenied, a.handleSecurity)
	a.dispatcher.Subscribe(events.EventTokenMisuse, a.handleSecurity)
}

func (a *AuditService) handleInfo(ctx context.Context, event events.Event) error {
	a.logger.Info("audit", a.fields(event)...)
	return nil
}

// handleSecurity also forwards to the webhook since these may signal an attack.
func (a *AuditService) handleSecurity(ctx context.Context, event events.Event) error {
	a.logger.Warn("audit", a.fields(event)...)
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) fields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
}

func (a *AuditService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
