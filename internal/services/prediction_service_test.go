package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"prediction-api/internal/config"
	"prediction-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST FAKES
// ============================================================================

type fakeJobGetter struct {
	jobs map[int64]*models.Job
}

func (f *fakeJobGetter) GetByID(_ context.Context, id int64) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("not_found: job not found: %d", id)
	}
	return job, nil
}

type fakeDispatcher struct {
	calls      []int64
	thresholds []float64
	err        error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, jobID int64, threshold float64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, jobID)
	f.thresholds = append(f.thresholds, threshold)
	return nil
}

func newDispatchTestService(jobs map[int64]*models.Job, dispatcher *fakeDispatcher) *PredictionService {
	cfg := &config.APIConfig{MaxRowLimit: 1000}
	return NewPredictionService(nil, nil, nil, &fakeJobGetter{jobs: jobs}, dispatcher, nil, cfg)
}

func pendingJob(id int64) *models.Job {
	return &models.Job{ID: id, Status: models.JobPending}
}

// ============================================================================
// TEST SUITE 1: DISPATCH
// ============================================================================

func TestDispatch_TriggersEachJob(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service := newDispatchTestService(map[int64]*models.Job{
		1: pendingJob(1),
		2: pendingJob(2),
	}, dispatcher)

	results, err := service.Dispatch(context.Background(), models.DispatchRequest{JobIDs: []int64{1, 2}})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []int64{1, 2}, dispatcher.calls)
	assert.Equal(t, "dispatched", results[0].Message)
}

func TestDispatch_DefaultThreshold(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service := newDispatchTestService(map[int64]*models.Job{1: pendingJob(1)}, dispatcher)

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{JobIDs: []int64{1}})

	require.NoError(t, err)
	require.Len(t, dispatcher.thresholds, 1)
	assert.Equal(t, 0.33, dispatcher.thresholds[0])
}

func TestDispatch_ExplicitThreshold(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service := newDispatchTestService(map[int64]*models.Job{1: pendingJob(1)}, dispatcher)
	threshold := 0.8

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{
		JobIDs:               []int64{1},
		ProbabilityThreshold: &threshold,
	})

	require.NoError(t, err)
	assert.Equal(t, []float64{0.8}, dispatcher.thresholds)
}

func TestDispatch_CompletedJobBlocksWholeBatch(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service := newDispatchTestService(map[int64]*models.Job{
		1: pendingJob(1),
		2: {ID: 2, Status: models.JobCompleted},
	}, dispatcher)

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{JobIDs: []int64{1, 2}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict")
	assert.Empty(t, dispatcher.calls, "no job should be dispatched when any job already completed")
}

func TestDispatch_UnknownJob(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service := newDispatchTestService(map[int64]*models.Job{}, dispatcher)

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{JobIDs: []int64{99}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
	assert.Empty(t, dispatcher.calls)
}

func TestDispatch_EmptyJobIDs(t *testing.T) {
	service := newDispatchTestService(nil, &fakeDispatcher{})

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

func TestDispatch_InvalidThreshold(t *testing.T) {
	service := newDispatchTestService(map[int64]*models.Job{1: pendingJob(1)}, &fakeDispatcher{})
	threshold := 1.5

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{
		JobIDs:               []int64{1},
		ProbabilityThreshold: &threshold,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

func TestDispatch_DispatcherFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: fmt.Errorf("workflow returned status 404")}
	service := newDispatchTestService(map[int64]*models.Job{1: pendingJob(1)}, dispatcher)

	_, err := service.Dispatch(context.Background(), models.DispatchRequest{JobIDs: []int64{1}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to dispatch job 1")
}

// ============================================================================
// TEST SUITE 2: LIMITS AND DAY WINDOWS
// ============================================================================

func TestClampLimit(t *testing.T) {
	service := newDispatchTestService(nil, &fakeDispatcher{})

	assert.Equal(t, 1000, service.clampLimit(0))
	assert.Equal(t, 1000, service.clampLimit(-5))
	assert.Equal(t, 1000, service.clampLimit(5000))
	assert.Equal(t, 200, service.clampLimit(200))
	assert.Equal(t, 1000, service.clampLimit(1000))
}

func TestStartOfUTCDay(t *testing.T) {
	// 2024-03-02T15:45:10Z
	ts := time.Date(2024, 3, 2, 15, 45, 10, 0, time.UTC).Unix()

	start := startOfUTCDay(ts)

	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), start)

	// Midnight stays put.
	midnight := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, start, startOfUTCDay(midnight))
}
