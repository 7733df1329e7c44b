package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
	"salespulse/internal/sheet"
	"salespulse/pkg/contracts/domain"
)

type emptyTableLoader struct{}

func (emptyTableLoader) Load(_ context.Context) domain.Table { return domain.Table{} }

func TestHealthCheckReportsOK(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cache := sheet.NewCachedLoader(emptyTableLoader{}, time.Minute, nil, logger)
	service := NewHealthService("1.2.3", "https://example.com/export?format=csv", cache, logger)

	status := service.HealthCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.NotEmpty(t, status.Uptime)
	require.NotNil(t, status.Sheet)
	assert.Equal(t, "https://example.com/export?format=csv", status.Sheet["url"])
}

func TestHealthCheckWithoutCache(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	service := NewHealthService("dev", "", nil, logger)

	status := service.HealthCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Nil(t, status.Sheet)
}

func TestLivenessCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	service := NewHealthService("dev", "", nil, logger)

	assert.Equal(t, map[string]string{"status": "alive"}, service.LivenessCheck(context.Background()))
}
