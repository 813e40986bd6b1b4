// Package validation checks shop settings and stored state for problems an operator should
// fix or know about.
package validation

import (
	"fmt"
	"strings"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/shift"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictInvalidShifts      ConflictType = "invalid_shifts"
	ConflictNegativeThreshold  ConflictType = "negative_threshold"
	ConflictInvalidTimezone    ConflictType = "invalid_timezone"
	ConflictMissingJobID       ConflictType = "missing_job_id"
	ConflictDuplicateJobID     ConflictType = "duplicate_job_id"
	ConflictUnknownService     ConflictType = "unknown_service"
	ConflictWrongCategory      ConflictType = "wrong_category"
	ConflictInvalidSpeed       ConflictType = "invalid_speed"
	ConflictNegativeDuration   ConflictType = "negative_duration"
	ConflictActiveNotStarted   ConflictType = "active_not_started"
	ConflictQueuedStarted      ConflictType = "queued_started"
	ConflictParallelNotStarted ConflictType = "parallel_not_started"
)

// Conflict is one problem found by the validator
type Conflict struct {
	Type        ConflictType
	Description string
	JobID       string // job involved, if any
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(t ConflictType, jobID, format string, args ...any) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: t, JobID: jobID, Description: fmt.Sprintf(format, args...)})
}

// Validator checks settings and state against a service catalog
type Validator struct {
	catalog *catalog.Catalog
}

// New creates a Validator. A nil catalog means the built-in one.
func New(c *catalog.Catalog) *Validator {
	if c == nil {
		c = catalog.Default()
	}
	return &Validator{catalog: c}
}

// ValidateSettings checks the shop policy
func (v *Validator) ValidateSettings(s models.Settings) ValidationResult {
	var result ValidationResult

	times := []struct{ name, value string }{
		{"morning start", s.MorningStart},
		{"morning end", s.MorningEnd},
		{"afternoon start", s.AfternoonStart},
		{"afternoon end", s.AfternoonEnd},
	}
	validTimes := true
	for _, tm := range times {
		if !utils.ValidateTimeFormat(tm.value) {
			result.add(ConflictInvalidTime, "", "%s %q is not a valid HH:MM time", tm.name, tm.value)
			validTimes = false
		}
	}
	if validTimes {
		if _, err := shift.FromSettings(s); err != nil {
			result.add(ConflictInvalidShifts, "", "Shift windows are invalid: %v", err)
		}
	}

	if s.WarningMinutes < 0 {
		result.add(ConflictNegativeThreshold, "", "Warning threshold must not be negative (got %d)", s.WarningMinutes)
	}
	if !utils.ValidateTimezone(s.Timezone) {
		result.add(ConflictInvalidTimezone, "", "Unknown timezone %q", s.Timezone)
	}

	return result
}

// ValidateState checks the invariants of the shop state: unique non-empty ids, known
// services in the right lane, valid speeds, non-negative durations and start times only
// where a job has started.
func (v *Validator) ValidateState(st models.State) ValidationResult {
	var result ValidationResult
	seen := make(map[string]bool)

	checkID := func(id, where string) {
		if id == "" {
			result.add(ConflictMissingJobID, "", "A %s job has no id", where)
			return
		}
		if seen[id] {
			result.add(ConflictDuplicateJobID, id, "Job id %s is used more than once", id)
		}
		seen[id] = true
	}

	checkService := func(id, serviceID string, wantParallel bool) {
		svc, ok := v.catalog.Lookup(serviceID)
		if !ok {
			result.add(ConflictUnknownService, id, "Job %s uses unknown service %q", id, serviceID)
			return
		}
		if svc.IsParallel() != wantParallel {
			result.add(ConflictWrongCategory, id, "Job %s (%s) is in the wrong lane for a %s service", id, svc.Label, svc.Category)
		}
	}

	checkJob := func(j models.Job, where string) {
		checkID(j.ID, where)
		checkService(j.ID, j.ServiceID, false)
		if !j.Speed.Valid() {
			result.add(ConflictInvalidSpeed, j.ID, "Job %s has unknown speed %q", j.ID, j.Speed)
		}
		if j.PlannedMinutes < 0 {
			result.add(ConflictNegativeDuration, j.ID, "Job %s has a negative duration", j.ID)
		}
	}

	if st.Active != nil {
		checkJob(*st.Active, "active")
		if st.Active.StartedAt == nil || st.Active.StartedAt.IsZero() {
			result.add(ConflictActiveNotStarted, st.Active.ID, "The job in the chair (%s) has no start time", st.Active.ID)
		}
	}
	for _, j := range st.Queue {
		checkJob(j, "queued")
		if j.StartedAt != nil {
			result.add(ConflictQueuedStarted, j.ID, "Queued job %s has a start time", j.ID)
		}
	}
	for _, p := range st.Parallel {
		checkID(p.ID, "parallel")
		checkService(p.ID, p.ServiceID, true)
		if p.PlannedMinutes < 0 {
			result.add(ConflictNegativeDuration, p.ID, "Parallel job %s has a negative duration", p.ID)
		}
		if p.StartedAt.IsZero() {
			result.add(ConflictParallelNotStarted, p.ID, "Parallel job %s has no start time", p.ID)
		}
	}

	return result
}
