package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConfirm approves or declines without prompting and records what it saw.
type stubConfirm struct {
	approve   bool
	confirmed []int64
}

func (s *stubConfirm) ConfirmDelete(job TrainingJob) (bool, error) {
	s.confirmed = append(s.confirmed, job.ID)
	return s.approve, nil
}

func (s *stubConfirm) ConfirmBatchDelete(selected []TrainingJob) (bool, error) {
	for _, job := range selected {
		s.confirmed = append(s.confirmed, job.ID)
	}
	return s.approve, nil
}

// seedDispatcher builds a monitor+dispatcher over a fake registry serving the
// given snapshot, with call recording reset after the seeding refresh.
func seedDispatcher(t *testing.T, snapshot []TrainingJob, confirm Confirmer) (*fakeRegistry, *Monitor, *Dispatcher, *recordingNotifier) {
	t.Helper()

	reg := &fakeRegistry{listJobs: snapshot, listTotal: len(snapshot)}
	notifier := &recordingNotifier{}
	m := NewMonitor(reg, notifier)
	require.NoError(t, m.Refresh(context.Background()))
	reg.resetCalls()

	d := NewDispatcher(reg, m, confirm, notifier)
	return reg, m, d, notifier
}

func TestStopIssuesStopThenRefresh(t *testing.T) {
	reg, _, d, _ := seedDispatcher(t, []TrainingJob{{ID: 7, Status: StatusRunning}}, nil)

	require.NoError(t, d.Stop(context.Background(), 7))

	// Exactly one stop then exactly one refresh, in that order.
	assert.Equal(t, []string{"stop 7", "list"}, reg.Calls())
}

func TestStopRejectsNonRunning(t *testing.T) {
	reg, _, d, _ := seedDispatcher(t, []TrainingJob{{ID: 7, Status: StatusPending}}, nil)

	err := d.Stop(context.Background(), 7)
	require.ErrorIs(t, err, ErrJobNotRunning)
	assert.Empty(t, reg.Calls(), "no request may be sent for a non-running job")
}

func TestStopUnknownJob(t *testing.T) {
	reg, _, d, _ := seedDispatcher(t, nil, nil)

	err := d.Stop(context.Background(), 42)
	require.ErrorIs(t, err, ErrJobNotFound)
	assert.Empty(t, reg.Calls())
}

func TestStopBackendRejectionSurfaces(t *testing.T) {
	reg, _, d, notifier := seedDispatcher(t, []TrainingJob{{ID: 7, Status: StatusRunning}}, nil)
	reg.stopErr = errors.New("job not running")

	err := d.Stop(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job not running")
	// The backend call is authoritative: no refresh after a rejected stop,
	// and the failure is surfaced once.
	assert.Equal(t, []string{"stop 7"}, reg.Calls())
	assert.Len(t, notifier.Errors(), 1)
}

func TestDeleteRunningRejectedBeforeNetwork(t *testing.T) {
	reg, _, d, _ := seedDispatcher(t, []TrainingJob{{ID: 7, Status: StatusRunning}}, nil)

	err := d.Delete(context.Background(), 7)

	var notDeletable *NotDeletableError
	require.ErrorAs(t, err, &notDeletable)
	assert.Equal(t, []int64{7}, notDeletable.IDs)
	assert.Empty(t, reg.Calls(), "precondition violations must not reach the network")
}

func TestDeleteTerminalJob(t *testing.T) {
	confirm := &stubConfirm{approve: true}
	reg, _, d, _ := seedDispatcher(t, []TrainingJob{{ID: 7, Status: StatusFailed, ModelName: "llama-7b"}}, confirm)

	require.NoError(t, d.Delete(context.Background(), 7))

	assert.Equal(t, []int64{7}, confirm.confirmed, "confirmation must run before deletion")
	assert.Equal(t, []string{"delete 7", "list"}, reg.Calls())
}

func TestDeleteDeclinedConfirmation(t *testing.T) {
	confirm := &stubConfirm{approve: false}
	reg, _, d, _ := seedDispatcher(t, []TrainingJob{{ID: 7, Status: StatusCompleted}}, confirm)

	require.NoError(t, d.Delete(context.Background(), 7))
	assert.Empty(t, reg.Calls(), "declining the confirmation must not send a request")
}

func TestBatchDeleteRejectsMixedSelection(t *testing.T) {
	snapshot := []TrainingJob{
		{ID: 1, Status: StatusCompleted},
		{ID: 2, Status: StatusRunning},
	}
	reg, _, d, _ := seedDispatcher(t, snapshot, &stubConfirm{approve: true})

	err := d.BatchDelete(context.Background(), []int64{1, 2})

	var notDeletable *NotDeletableError
	require.ErrorAs(t, err, &notDeletable)
	assert.Equal(t, []int64{2}, notDeletable.IDs, "the error must name the offending id")
	assert.Contains(t, err.Error(), "2")
	assert.Empty(t, reg.Calls(), "a rejected batch performs zero deletions")
}

func TestBatchDeleteAllTerminal(t *testing.T) {
	snapshot := []TrainingJob{
		{ID: 1, Status: StatusCompleted},
		{ID: 2, Status: StatusStopped},
		{ID: 3, Status: StatusFailed},
	}
	confirm := &stubConfirm{approve: true}
	reg, _, d, _ := seedDispatcher(t, snapshot, confirm)

	require.NoError(t, d.BatchDelete(context.Background(), []int64{1, 2, 3}))

	assert.Equal(t, []int64{1, 2, 3}, confirm.confirmed)
	assert.Equal(t, []string{"batch-delete [1 2 3]", "list"}, reg.Calls())
}

func TestBatchDeleteUnknownIDRejected(t *testing.T) {
	reg, _, d, _ := seedDispatcher(t, []TrainingJob{{ID: 1, Status: StatusCompleted}}, &stubConfirm{approve: true})

	err := d.BatchDelete(context.Background(), []int64{1, 99})

	var notDeletable *NotDeletableError
	require.ErrorAs(t, err, &notDeletable)
	assert.Equal(t, []int64{99}, notDeletable.IDs)
	assert.Empty(t, reg.Calls())
}

func TestBatchDeleteEmptySelection(t *testing.T) {
	reg, _, d, _ := seedDispatcher(t, nil, nil)

	require.NoError(t, d.BatchDelete(context.Background(), nil))
	assert.Empty(t, reg.Calls())
}
