package downloader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtfetch/pkg/logger"
	"adtfetch/pkg/ratelimit"
)

// stubProcessor returns scripted outcomes per ID
type stubProcessor struct {
	mu       sync.Mutex
	outcomes map[int]Outcome
	calls    []int
}

func (s *stubProcessor) ProcessTile(ctx context.Context, id int) Outcome {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	s.mu.Unlock()

	if out, ok := s.outcomes[id]; ok {
		return out
	}
	return Outcome{Status: StatusOK, Name: "kalimdor_0_0.adt", Size: 10}
}

func collectResults(pool *WorkerPool) map[int]Result {
	results := make(map[int]Result)
	for r := range pool.Results() {
		results[r.Job.ID] = r
	}
	return results
}

func TestPoolProcessesAllJobs(t *testing.T) {
	proc := &stubProcessor{}
	pool := NewWorkerPool(context.Background(), 3, proc, ratelimit.NewInterval(0), logger.NewTestLogger())
	pool.Start()

	done := make(chan map[int]Result)
	go func() { done <- collectResults(pool) }()

	for i := 1; i <= 10; i++ {
		require.NoError(t, pool.Submit(Job{Index: i, Total: 10, ID: i}))
	}
	pool.Stop()

	results := <-done
	assert.Len(t, results, 10)
	for id, r := range results {
		assert.Equal(t, StatusOK, r.Status, "id %d", id)
	}
}

func TestPoolCarriesOutcomeFields(t *testing.T) {
	proc := &stubProcessor{outcomes: map[int]Outcome{
		1: {Status: StatusOK, Name: "kalimdor_1_2.adt", Size: 128},
		2: {Status: StatusOK, Name: "kalimdor_1_3.adt", AlreadyPresent: true},
		3: {Status: StatusMissing},
		4: {Status: StatusSkipped, Name: "readme.adt"},
		5: {Status: StatusFailed, Err: errors.New("disk full")},
	}}
	pool := NewWorkerPool(context.Background(), 2, proc, nil, logger.NewTestLogger())
	pool.Start()

	done := make(chan map[int]Result)
	go func() { done <- collectResults(pool) }()

	for id := 1; id <= 5; id++ {
		require.NoError(t, pool.Submit(Job{Index: id, Total: 5, ID: id}))
	}
	pool.Stop()

	results := <-done
	assert.Equal(t, 128, results[1].Size)
	assert.True(t, results[2].AlreadyPresent)
	assert.Equal(t, StatusMissing, results[3].Status)
	assert.Equal(t, StatusSkipped, results[4].Status)
	assert.Equal(t, StatusFailed, results[5].Status)
	assert.EqualError(t, results[5].Err, "disk full")
}

func TestSubmitFailsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc := &stubProcessor{}
	pool := NewWorkerPool(ctx, 1, proc, nil, logger.NewTestLogger())
	pool.Start()

	done := make(chan map[int]Result)
	go func() { done <- collectResults(pool) }()

	cancel()

	// Fill the buffered queue until cancellation is observed
	var submitErr error
	for i := 0; i < 100; i++ {
		if submitErr = pool.Submit(Job{ID: i}); submitErr != nil {
			break
		}
	}
	assert.Error(t, submitErr)

	pool.Stop()
	<-done
}
