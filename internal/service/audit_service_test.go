package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/events"
)

func TestAuditService_LogsBySeverity(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	audit := NewAuditService(dispatcher, zap.New(core), config.AuditConfig{WebhookURL: "https://audit.example.com/hook"})
	audit.RegisterHandlers()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "e1", Type: events.EventLoginSucceeded, SubjectID: "u1", Timestamp: now}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "e2", Type: events.EventTokenMisuse, Timestamp: now}))

	audits := logs.FilterMessage("audit").All()
	require.Len(t, audits, 2)
	assert.Equal(t, zapcore.InfoLevel, audits[0].Level)
	assert.Equal(t, "login_succeeded", audits[0].ContextMap()["event_type"])
	assert.Equal(t, zapcore.WarnLevel, audits[1].Level)

	webhook := logs.FilterMessage("sendWebhookStub").All()
	require.Len(t, webhook, 1)
	assert.Equal(t, "e2", webhook[0].ContextMap()["event_id"])
}

func TestAuditService_NoWebhookConfigured(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core), config.AuditConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e1", Type: events.EventLoginFailed}))
	assert.Equal(t, 1, logs.FilterMessage("audit").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookStub").Len())
}
