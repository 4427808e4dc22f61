package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/events"
	"github.com/spec-kit/token-service/internal/service"
)

func TestStartAuditWorker(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()

	StartAuditWorker(service.NewAuditService(dispatcher, zap.New(core), config.AuditConfig{}))
	StartAuditWorker(nil)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e1", Type: events.EventLogout}))
	assert.Equal(t, 1, logs.FilterMessage("audit").Len())
}
