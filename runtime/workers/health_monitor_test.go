package workers

import (
	"log/slog"
	"teamchat/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHealthMonitor_Sample(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	registry.EXPECT().Count().Return(3)

	p, err := currentProcess()
	req.NoError(err)

	health, err := NewHealthMonitor(slog.Default(), registry, time.Second).Sample(p)
	req.NoError(err)
	req.Equal(3, health.Subscriptions)
	req.NotZero(health.RSS)
	req.GreaterOrEqual(health.CPUPercent, 0.0)
}
