package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/token-service/internal/config"
)

func TestNewRedis_Reachable(t *testing.T) {
	mr := miniredis.RunT(t)
	core, logs := observer.New(zap.InfoLevel)

	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.New(core))
	defer r.Close()

	assert.NoError(t, r.Ping(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("connected to redis").Len())
}

func TestNewRedis_UnreachableIsNotFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	core, logs := observer.New(zap.InfoLevel)

	r := NewRedis(context.Background(), config.RedisConfig{Addr: addr}, zap.New(core))
	defer r.Close()

	assert.Error(t, r.Ping(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("revocation store unreachable").Len())
}
