// Package scheduler owns the live state of one shop and applies operator intents to it.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/shift"
)

// Saver persists the state after each change
type Saver interface {
	SaveState(models.State) error
}

// SaveError reports a change that was applied in memory but could not be persisted.
// The state is not rolled back.
type SaveError struct {
	Intent string
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s applied but not saved: %v", e.Intent, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now. The clock's location is the shop's location.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithIDGenerator replaces the uuid job id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Scheduler) { s.newID = fn }
}

// WithCatalog replaces the default service catalog
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Scheduler) { s.catalog = c }
}

// WithCalendar replaces the default shift calendar
func WithCalendar(cal shift.Calendar) Option {
	return func(s *Scheduler) { s.calendar = cal }
}

// WithWarningMinutes sets how far past the shift end still counts as at risk
func WithWarningMinutes(n int) Option {
	return func(s *Scheduler) { s.warningMinutes = n }
}

// WithState seeds the scheduler with previously loaded state
func WithState(st models.State) Option {
	return func(s *Scheduler) { s.state = st.Clone() }
}

// Scheduler serializes every mutation of one shop's state behind a single lock.
// Reads (snapshots and projections) share the lock and never observe a half-applied change.
type Scheduler struct {
	mu             sync.RWMutex
	state          models.State
	catalog        *catalog.Catalog
	calendar       shift.Calendar
	warningMinutes int
	saver          Saver
	now            func() time.Time
	newID          func() string
}

// New creates a scheduler. A nil saver keeps state in memory only.
func New(saver Saver, opts ...Option) *Scheduler {
	s := &Scheduler{
		state:          models.NewState(),
		catalog:        catalog.Default(),
		calendar:       shift.Default(),
		warningMinutes: constants.DefaultWarningMinutes,
		saver:          saver,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the service catalog
func (s *Scheduler) Catalog() *catalog.Catalog { return s.catalog }

// Calendar returns the shift calendar
func (s *Scheduler) Calendar() shift.Calendar { return s.calendar }

// WarningMinutes returns the at-risk threshold
func (s *Scheduler) WarningMinutes() int { return s.warningMinutes }

// Now returns the current instant in the shop's location
func (s *Scheduler) Now() time.Time { return s.now() }

// Snapshot returns a copy of the current state
func (s *Scheduler) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Project computes the projection of the current state at the current instant
func (s *Scheduler) Project() projection.Projection {
	_, p := s.Read()
	return p
}

// Read returns a state copy and its projection, taken under one read lock so both describe
// the same moment.
func (s *Scheduler) Read() (models.State, projection.Projection) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.Clone()
	return st, projection.Project(st, s.calendar, s.now(), s.warningMinutes)
}

// StartSequential puts a service in the chair, or at the end of the queue when the chair is
// taken. Parallel services are started in parallel instead.
func (s *Scheduler) StartSequential(serviceID string, speed models.Speed) (Result, error) {
	if s.isParallel(serviceID) {
		return s.StartParallel(serviceID)
	}
	return s.mutate("start", func(st *models.State, now time.Time) Result {
		return startSequential(st, s.newJob(serviceID, speed, now), now)
	})
}

// EnqueueSequential adds a service to the end of the queue. Parallel services are started
// in parallel instead.
func (s *Scheduler) EnqueueSequential(serviceID string, speed models.Speed) (Result, error) {
	if s.isParallel(serviceID) {
		return s.StartParallel(serviceID)
	}
	return s.mutate("enqueue", func(st *models.State, now time.Time) Result {
		return enqueueSequential(st, s.newJob(serviceID, speed, now))
	})
}

// StartParallel starts a parallel service now. Naming a sequential service is a no-op.
func (s *Scheduler) StartParallel(serviceID string) (Result, error) {
	svc, ok := s.catalog.Lookup(serviceID)
	if ok && !svc.IsParallel() {
		return noop(MsgNotParallel), nil
	}
	if !ok {
		logger.Warn("Unknown service, planning zero minutes", "service", serviceID)
	}
	return s.mutate("start-parallel", func(st *models.State, now time.Time) Result {
		return startParallel(st, models.ParallelJob{
			ID:             s.newID(),
			ServiceID:      serviceID,
			PlannedMinutes: s.catalog.Duration(serviceID, models.SpeedNormal),
			StartedAt:      now,
		})
	})
}

// FinishActive frees the chair. The head of the queue is not promoted.
func (s *Scheduler) FinishActive() (Result, error) {
	return s.mutate("finish", func(st *models.State, _ time.Time) Result {
		return finishActive(st)
	})
}

// StartNext moves the head of the queue into a free chair
func (s *Scheduler) StartNext() (Result, error) {
	return s.mutate("next", startNext)
}

// FinishParallel removes a parallel job
func (s *Scheduler) FinishParallel(id string) (Result, error) {
	return s.mutate("finish-parallel", func(st *models.State, _ time.Time) Result {
		return finishParallel(st, id)
	})
}

// RemoveQueued drops a waiting job from the queue
func (s *Scheduler) RemoveQueued(id string) (Result, error) {
	return s.mutate("remove", func(st *models.State, _ time.Time) Result {
		return removeQueued(st, id)
	})
}

// MoveQueuedUp swaps a waiting job with the one ahead of it
func (s *Scheduler) MoveQueuedUp(id string) (Result, error) {
	return s.mutate("up", func(st *models.State, _ time.Time) Result {
		return moveQueued(st, id, -1)
	})
}

// MoveQueuedDown swaps a waiting job with the one behind it
func (s *Scheduler) MoveQueuedDown(id string) (Result, error) {
	return s.mutate("down", func(st *models.State, _ time.Time) Result {
		return moveQueued(st, id, 1)
	})
}

// ResetAll clears the chair, the queue and the parallel jobs
func (s *Scheduler) ResetAll() (Result, error) {
	return s.mutate("reset", func(st *models.State, _ time.Time) Result {
		return resetAll(st)
	})
}

func (s *Scheduler) isParallel(serviceID string) bool {
	svc, ok := s.catalog.Lookup(serviceID)
	return ok && svc.IsParallel()
}

func (s *Scheduler) newJob(serviceID string, speed models.Speed, now time.Time) models.Job {
	if _, ok := s.catalog.Lookup(serviceID); !ok {
		logger.Warn("Unknown service, planning zero minutes", "service", serviceID)
	}
	if !speed.Valid() {
		speed = models.ParseSpeed(string(speed))
	}
	return models.Job{
		ID:             s.newID(),
		ServiceID:      serviceID,
		Speed:          speed,
		PlannedMinutes: s.catalog.Duration(serviceID, speed),
		CreatedAt:      now,
	}
}

// mutate applies fn under the write lock and saves the result before releasing it, so saves
// happen in mutation order.
func (s *Scheduler) mutate(intent string, fn func(*models.State, time.Time) Result) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	res := fn(&s.state, now)
	if !res.Changed {
		logger.Debug("Intent left state unchanged", "intent", intent, "reason", res.Message)
		return res, nil
	}
	s.state.UpdatedAt = now
	logger.Debug("Intent applied", "intent", intent, "job", res.JobID, "placement", res.Placement)

	if s.saver == nil {
		return res, nil
	}
	if err := s.saver.SaveState(s.state.Clone()); err != nil {
		logger.Warn("Failed to save shop state", "intent", intent, "error", err)
		return res, &SaveError{Intent: intent, Err: err}
	}
	return res, nil
}
