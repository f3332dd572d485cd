package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrJobNotFound is returned when an action references an id absent from the
// last-known snapshot.
var ErrJobNotFound = errors.New("training job not found")

// ErrJobNotRunning is returned when a stop is requested for a job whose
// last-known status is not running.
var ErrJobNotRunning = errors.New("training job is not running")

// NotDeletableError rejects a delete or batch delete naming every selected
// job that is not in a terminal state. No request has been sent when this is
// returned.
type NotDeletableError struct {
	IDs []int64
}

func (e *NotDeletableError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("jobs not in a terminal state, cannot delete: %s", strings.Join(ids, ", "))
}

// Confirmer gates destructive actions behind explicit user approval. The
// prompt must surface the job id, model name, and an irreversible-action
// warning before proceeding.
type Confirmer interface {
	ConfirmDelete(job TrainingJob) (bool, error)
	ConfirmBatchDelete(jobs []TrainingJob) (bool, error)
}

// AutoConfirm approves every action without prompting (--force).
type AutoConfirm struct{}

func (AutoConfirm) ConfirmDelete(TrainingJob) (bool, error)        { return true, nil }
func (AutoConfirm) ConfirmBatchDelete([]TrainingJob) (bool, error) { return true, nil }

// Dispatcher issues mutating requests against the registry. Every mutation
// follows a two-phase protocol: request, then on success a full refresh.
// New state is never inferred locally without a confirmed refetch.
type Dispatcher struct {
	registry Registry
	monitor  *Monitor
	confirm  Confirmer
	notifier Notifier
}

// NewDispatcher wires a dispatcher to the monitor it refreshes after each
// successful mutation. A nil confirmer auto-approves, a nil notifier logs.
func NewDispatcher(registry Registry, monitor *Monitor, confirm Confirmer, notifier Notifier) *Dispatcher {
	if confirm == nil {
		confirm = AutoConfirm{}
	}
	if notifier == nil {
		notifier = SlogNotifier{}
	}
	return &Dispatcher{registry: registry, monitor: monitor, confirm: confirm, notifier: notifier}
}

// Stop requests that a running job be stopped, then refreshes. The
// last-known status must be running; if the job already transitioned
// server-side, the backend rejection is surfaced verbatim rather than
// guessing a new status.
func (d *Dispatcher) Stop(ctx context.Context, id int64) error {
	job, ok := d.monitor.Job(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrJobNotFound, id)
	}
	if !job.Status.CanStop() {
		return fmt.Errorf("%w: job %d is %s", ErrJobNotRunning, id, job.Status)
	}

	if err := d.registry.StopTrainingJob(ctx, id); err != nil {
		d.notifier.Errorf("failed to stop job %d: %v", id, err)
		return fmt.Errorf("stop job %d: %w", id, err)
	}

	d.notifier.Infof("stop requested for job %d", id)
	return d.monitor.Refresh(ctx)
}

// Delete removes a terminal job after confirmation, then refreshes. The
// precondition is checked locally before any network call; pending and
// running jobs are rejected without a round trip.
func (d *Dispatcher) Delete(ctx context.Context, id int64) error {
	job, ok := d.monitor.Job(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrJobNotFound, id)
	}
	if !job.Status.CanDelete() {
		return &NotDeletableError{IDs: []int64{id}}
	}

	ok, err := d.confirm.ConfirmDelete(job)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		d.notifier.Infof("delete of job %d cancelled", id)
		return nil
	}

	if err := d.registry.DeleteTrainingJob(ctx, id); err != nil {
		d.notifier.Errorf("failed to delete job %d: %v", id, err)
		return fmt.Errorf("delete job %d: %w", id, err)
	}

	d.notifier.Infof("deleted job %d", id)
	return d.monitor.Refresh(ctx)
}

// BatchDelete removes a set of terminal jobs in one all-or-nothing request.
// If any selected job is unknown or non-terminal the whole batch is rejected
// with an error naming the offending ids and zero requests are sent.
func (d *Dispatcher) BatchDelete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	selected := make([]TrainingJob, 0, len(ids))
	var offending []int64
	for _, id := range ids {
		job, ok := d.monitor.Job(id)
		if !ok || !job.Status.CanDelete() {
			offending = append(offending, id)
			continue
		}
		selected = append(selected, job)
	}
	if len(offending) > 0 {
		return &NotDeletableError{IDs: offending}
	}

	ok, err := d.confirm.ConfirmBatchDelete(selected)
	if err != nil {
		return fmt.Errorf("confirm batch delete: %w", err)
	}
	if !ok {
		d.notifier.Infof("batch delete cancelled")
		return nil
	}

	if err := d.registry.BatchDeleteTrainingJobs(ctx, ids); err != nil {
		d.notifier.Errorf("failed to delete %d jobs: %v", len(ids), err)
		return fmt.Errorf("batch delete jobs: %w", err)
	}

	d.notifier.Infof("deleted %d jobs", len(ids))
	return d.monitor.Refresh(ctx)
}
