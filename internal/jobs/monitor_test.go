package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry records every call and serves canned responses. listFn, when
// set, is invoked with the 1-based list call number.
type fakeRegistry struct {
	mu        sync.Mutex
	calls     []string
	listCalls int

	listJobs  []TrainingJob
	listTotal int
	listErr   error
	listFn    func(call int) ([]TrainingJob, int, error)

	stopErr   error
	deleteErr error
	batchErr  error
}

func (f *fakeRegistry) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRegistry) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeRegistry) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeRegistry) ListTrainingJobs(ctx context.Context) ([]TrainingJob, int, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.mu.Unlock()
	f.record("list")

	if f.listFn != nil {
		return f.listFn(call)
	}
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listJobs, f.listTotal, nil
}

func (f *fakeRegistry) StopTrainingJob(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("stop %d", id))
	return f.stopErr
}

func (f *fakeRegistry) DeleteTrainingJob(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("delete %d", id))
	return f.deleteErr
}

func (f *fakeRegistry) BatchDeleteTrainingJobs(ctx context.Context, ids []int64) error {
	f.record(fmt.Sprintf("batch-delete %v", ids))
	return f.batchErr
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (n *recordingNotifier) Errorf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Infof(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.errors))
	copy(out, n.errors)
	return out
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	reg := &fakeRegistry{
		listJobs: []TrainingJob{
			{ID: 1, Status: StatusRunning},
			{ID: 2, Status: StatusCompleted},
		},
		listTotal: 2,
	}
	m := NewMonitor(reg, &recordingNotifier{})

	require.NoError(t, m.Refresh(context.Background()))

	got := m.Jobs()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 2, m.Total())
	assert.False(t, m.FetchedAt().IsZero())

	// The snapshot is replaced wholesale, not merged.
	reg.listJobs = []TrainingJob{{ID: 3, Status: StatusPending}}
	reg.listTotal = 1
	require.NoError(t, m.Refresh(context.Background()))

	got = m.Jobs()
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, 1, m.Total())
}

func TestRefreshFailureKeepsSnapshotAndNotifiesOnce(t *testing.T) {
	reg := &fakeRegistry{
		listJobs:  []TrainingJob{{ID: 1, Status: StatusRunning}},
		listTotal: 1,
	}
	notifier := &recordingNotifier{}
	m := NewMonitor(reg, notifier)

	require.NoError(t, m.Refresh(context.Background()))

	reg.listErr = errors.New("connection refused")
	err := m.Refresh(context.Background())
	require.Error(t, err)

	// Previous snapshot untouched, exactly one notification raised.
	got := m.Jobs()
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 1, m.Total())
	assert.Len(t, notifier.Errors(), 1)
}

func TestRefreshJobsReturnsCopy(t *testing.T) {
	reg := &fakeRegistry{
		listJobs:  []TrainingJob{{ID: 1, Status: StatusRunning}},
		listTotal: 1,
	}
	m := NewMonitor(reg, &recordingNotifier{})
	require.NoError(t, m.Refresh(context.Background()))

	got := m.Jobs()
	got[0].Status = StatusFailed

	fresh := m.Jobs()
	assert.Equal(t, StatusRunning, fresh[0].Status, "mutating a returned slice must not affect the snapshot")
}

func TestOverlappingRefreshStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	reg := &fakeRegistry{
		listFn: func(call int) ([]TrainingJob, int, error) {
			if call == 1 {
				// First fetch is slow and resolves last.
				<-release
				return []TrainingJob{{ID: 1, Status: StatusRunning}}, 1, nil
			}
			return []TrainingJob{{ID: 1, Status: StatusCompleted}}, 1, nil
		},
	}
	m := NewMonitor(reg, &recordingNotifier{})

	first := make(chan error, 1)
	go func() { first <- m.Refresh(context.Background()) }()

	// Wait for the slow fetch to be in flight.
	deadline := time.Now().Add(2 * time.Second)
	for {
		reg.mu.Lock()
		started := reg.listCalls >= 1
		reg.mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first refresh never started")
		}
		time.Sleep(time.Millisecond)
	}

	// A newer refresh completes while the first is still suspended.
	require.NoError(t, m.Refresh(context.Background()))

	close(release)
	require.NoError(t, <-first)

	// The stale response must not have overwritten the newer snapshot.
	got := m.Jobs()
	require.Len(t, got, 1)
	assert.Equal(t, StatusCompleted, got[0].Status)
}

func TestJobLookup(t *testing.T) {
	reg := &fakeRegistry{
		listJobs: []TrainingJob{
			{ID: 7, Status: StatusPending},
			{ID: 9, Status: StatusRunning},
		},
		listTotal: 2,
	}
	m := NewMonitor(reg, &recordingNotifier{})
	require.NoError(t, m.Refresh(context.Background()))

	job, ok := m.Job(9)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, job.Status)

	_, ok = m.Job(404)
	assert.False(t, ok)
}
