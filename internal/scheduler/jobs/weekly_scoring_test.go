package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/internal/engineconfig"
	"github.com/wonny/pdie/internal/feed"
	"github.com/wonny/pdie/internal/portfolio"
)

type recordingPublisher struct {
	mu    sync.Mutex
	kinds []string
}

func (p *recordingPublisher) Publish(kind string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kinds = append(p.kinds, kind)
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Load(context.Context) ([]contracts.SignalRecord, error) {
	return nil, errors.New("feed unavailable")
}

func newService(t *testing.T, src contracts.SignalSource) *portfolio.Service {
	t.Helper()
	a, err := portfolio.NewAnalyzer(engineconfig.Default(), nil)
	require.NoError(t, err)
	return portfolio.NewService(a, src, nil)
}

func TestWeeklyScoringJob_Run(t *testing.T) {
	svc := newService(t, feed.NewSynthetic(40, 8, 42))
	pub := &recordingPublisher{}
	job := NewWeeklyScoringJob(svc, pub, nil, "0 0 6 * * MON", nil)

	assert.Equal(t, "weekly_scoring", job.Name())
	assert.Equal(t, "0 0 6 * * MON", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{EventSnapshot, EventQueue, EventImpact}, pub.kinds)
	assert.False(t, svc.RefreshedAt().IsZero())
}

func TestWeeklyScoringJob_FeedFailure(t *testing.T) {
	pub := &recordingPublisher{}
	job := NewWeeklyScoringJob(newService(t, failingSource{}), pub, nil, "@weekly", nil)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed unavailable")
	assert.Empty(t, pub.kinds)
}
