package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func TestScheduler_AddAndRemove(t *testing.T) {
	s := New(nil, Options{})

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 0 6 * * MON"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a cron"}))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.Jobs())
}

func TestScheduler_RunNowRetries(t *testing.T) {
	s := New(nil, Options{MaxRetries: 3, RetryDelay: time.Millisecond})
	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	res, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Attempts)
	assert.Empty(t, res.Error)

	history, err := s.History("flaky")
	require.NoError(t, err)
	require.Len(t, history, 1)

	stats := s.Stats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
	require.NotNil(t, stats.LastRun)
}

func TestScheduler_LogsEachRetry(t *testing.T) {
	var buf bytes.Buffer
	s := New(logger.NewWithWriter(&buf, "debug"), Options{MaxRetries: 3, RetryDelay: time.Millisecond})
	require.NoError(t, s.AddJob(&fakeJob{name: "flaky", schedule: "@daily", failures: 2}))

	_, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "retrying in 1ms"))
	assert.Contains(t, out, "attempt 2 of 4")
	assert.Contains(t, out, "attempt 3 of 4")
}

func TestScheduler_RunNowExhaustsRetries(t *testing.T) {
	s := New(nil, Options{MaxRetries: 1, RetryDelay: time.Millisecond})
	require.NoError(t, s.AddJob(&fakeJob{name: "broken", schedule: "@daily", failures: 10}))

	res, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, "transient", res.Error)
	assert.Equal(t, 1, s.Stats()["broken"].FailureCount)

	_, err = s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestScheduler_CancelStopsRetrying(t *testing.T) {
	s := New(nil, Options{MaxRetries: 5, RetryDelay: time.Hour})
	job := &fakeJob{name: "slow", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.RunNow(ctx, "slow")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int32(1), job.calls.Load())
	assert.Equal(t, context.Canceled.Error(), res.Error)
}

func TestJobHistory_Limit(t *testing.T) {
	h := &JobHistory{}
	for i := range 150 {
		h.AddResult(JobResult{Attempts: i, Success: i%2 == 0})
	}
	assert.Len(t, h.Results, historyLimit)
	assert.Equal(t, 50, h.Results[0].Attempts)
	assert.Equal(t, 0.5, h.SuccessRate())
	assert.Len(t, h.Latest(3), 3)
	assert.Empty(t, (&JobHistory{}).Latest(5))
}
