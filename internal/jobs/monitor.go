package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry is the slice of the platform API the monitoring core depends on.
// *api.Client satisfies it; tests substitute fakes.
type Registry interface {
	ListTrainingJobs(ctx context.Context) ([]TrainingJob, int, error)
	StopTrainingJob(ctx context.Context, id int64) error
	DeleteTrainingJob(ctx context.Context, id int64) error
	BatchDeleteTrainingJobs(ctx context.Context, ids []int64) error
}

// Notifier receives user-visible transient notifications. Every failure is
// converted to exactly one notification at the action boundary; none are
// fatal to the application.
type Notifier interface {
	Errorf(format string, args ...any)
	Infof(format string, args ...any)
}

// SlogNotifier routes notifications to a structured logger. It is the
// default when no interactive surface is attached.
type SlogNotifier struct {
	Logger *slog.Logger
}

func (n SlogNotifier) Errorf(format string, args ...any) {
	n.logger().Error(fmt.Sprintf(format, args...))
}

func (n SlogNotifier) Infof(format string, args ...any) {
	n.logger().Info(fmt.Sprintf(format, args...))
}

func (n SlogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// Monitor owns the cached snapshot of the registry's job list. All reads go
// through accessors that copy, and every refresh replaces the snapshot
// wholesale, so consumers never observe a partially updated list.
type Monitor struct {
	registry Registry
	notifier Notifier

	mu        sync.Mutex
	jobs      []TrainingJob
	total     int
	fetchedAt time.Time

	// Refresh generations guard against a slow fetch overwriting the
	// result of a newer one when calls overlap.
	nextGen    uint64
	appliedGen uint64
}

// NewMonitor creates a monitor over the given registry. A nil notifier
// defaults to structured logging.
func NewMonitor(registry Registry, notifier Notifier) *Monitor {
	if notifier == nil {
		notifier = SlogNotifier{}
	}
	return &Monitor{registry: registry, notifier: notifier}
}

// Refresh fetches the full job list and replaces the snapshot atomically.
// On fetch failure the previous snapshot is left untouched and exactly one
// notification is raised; there is no retry loop, the user re-triggers.
//
// A response that resolves after a newer refresh has already been applied is
// discarded instead of clobbering the fresher state.
func (m *Monitor) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.nextGen++
	gen := m.nextGen
	m.mu.Unlock()

	fetched, total, err := m.registry.ListTrainingJobs(ctx)
	if err != nil {
		m.notifier.Errorf("failed to refresh training jobs: %v", err)
		return fmt.Errorf("refresh training jobs: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen < m.appliedGen {
		// Superseded by a refresh that started later and already landed.
		return nil
	}
	m.appliedGen = gen
	m.jobs = fetched
	m.total = total
	m.fetchedAt = time.Now()
	return nil
}

// Jobs returns a copy of the current snapshot in fetch order.
func (m *Monitor) Jobs() []TrainingJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TrainingJob, len(m.jobs))
	copy(out, m.jobs)
	return out
}

// Total returns the registry-reported job count from the last refresh.
func (m *Monitor) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// FetchedAt returns when the current snapshot was applied, zero before the
// first successful refresh.
func (m *Monitor) FetchedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchedAt
}

// Job looks up a job in the snapshot by id.
func (m *Monitor) Job(id int64) (TrainingJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return TrainingJob{}, false
}
