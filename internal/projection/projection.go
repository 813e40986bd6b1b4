// Package projection estimates when the known work will be done and how that compares to
// the end of the shift.
package projection

import (
	"fmt"
	"math"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/shift"
)

// Level is the traffic-light status of a projection
type Level string

const (
	OnTime Level = "on_time"
	AtRisk Level = "at_risk"
	Over   Level = "over"
)

// Label returns the display name of the level
func (l Level) Label() string {
	switch l {
	case OnTime:
		return "On time"
	case AtRisk:
		return "At risk"
	default:
		return "Over"
	}
}

// ETA is the estimated window of a job
type ETA struct {
	JobID string    `json:"job_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Projection is the result of Project. It is a value: recompute it rather than update it.
type Projection struct {
	Now            time.Time   `json:"now"`
	Shift          shift.Shift `json:"shift"`
	Base           time.Time   `json:"base"`
	ActiveEnd      time.Time   `json:"active_end,omitzero"`
	SequentialEnd  time.Time   `json:"sequential_end"`
	ParallelEnd    time.Time   `json:"parallel_end"`
	ProjectedEnd   time.Time   `json:"projected_end"`
	OverageMinutes int         `json:"overage_minutes"`
	Level          Level       `json:"level"`
	Queue          []ETA       `json:"queue"`
	Parallel       []ETA       `json:"parallel"`
}

// Project computes the projection of state at now. The active job always counts with its full
// planned duration, whatever time has already elapsed, so risk is never understated.
func Project(state models.State, cal shift.Calendar, now time.Time, warningMinutes int) Projection {
	sh := cal.Resolve(now)

	base := now
	if sh.Upcoming {
		base = sh.Start
	}

	p := Projection{
		Now:   now,
		Shift: sh,
		Base:  base,
	}

	p.Queue = QueueETAs(state, base)
	p.SequentialEnd = base
	if state.Active != nil {
		p.SequentialEnd = base.Add(state.Active.Planned())
		if started := state.Active.StartedAt; started != nil && !started.IsZero() {
			p.ActiveEnd = started.Add(state.Active.Planned())
		}
	}
	if n := len(p.Queue); n > 0 {
		p.SequentialEnd = p.Queue[n-1].End
	}

	p.ParallelEnd = base
	p.Parallel = make([]ETA, 0, len(state.Parallel))
	for _, job := range state.Parallel {
		started := job.StartedAt
		if started.IsZero() {
			started = base
		}
		end := started.Add(job.Planned())
		p.Parallel = append(p.Parallel, ETA{JobID: job.ID, Start: started, End: end})
		if end.After(p.ParallelEnd) {
			p.ParallelEnd = end
		}
	}

	p.ProjectedEnd = p.SequentialEnd
	if p.ParallelEnd.After(p.ProjectedEnd) {
		p.ProjectedEnd = p.ParallelEnd
	}

	p.OverageMinutes = RoundMinutes(p.ProjectedEnd.Sub(sh.End))
	p.Level = Classify(p.ProjectedEnd, sh.End, p.OverageMinutes, warningMinutes)
	return p
}

// QueueETAs walks the queue in order from the end of the active job's planned time, or from
// base when the chair is free.
func QueueETAs(state models.State, base time.Time) []ETA {
	cursor := base
	if state.Active != nil {
		cursor = cursor.Add(state.Active.Planned())
	}

	etas := make([]ETA, 0, len(state.Queue))
	for _, job := range state.Queue {
		end := cursor.Add(job.Planned())
		etas = append(etas, ETA{JobID: job.ID, Start: cursor, End: end})
		cursor = end
	}
	return etas
}

// Classify derives the level. Anything past the shift end by no more than warningMinutes
// (after rounding) is at risk.
func Classify(projectedEnd, shiftEnd time.Time, overageMinutes, warningMinutes int) Level {
	switch {
	case !projectedEnd.After(shiftEnd):
		return OnTime
	case overageMinutes <= warningMinutes:
		return AtRisk
	default:
		return Over
	}
}

// RoundMinutes rounds a duration to whole minutes, halves toward positive infinity.
func RoundMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes() + 0.5))
}

// StatusText is the one-line summary shown to the operator
func (p Projection) StatusText() string {
	switch p.Level {
	case OnTime:
		return "Everything fits inside the shift."
	case AtRisk:
		return fmt.Sprintf("At the limit: over by ~%d min.", p.OverageMinutes)
	default:
		return fmt.Sprintf("Critical: over by ~%d min.", p.OverageMinutes)
	}
}

// QueueETA returns the estimate for one queued job
func (p Projection) QueueETA(jobID string) (ETA, bool) {
	for _, eta := range p.Queue {
		if eta.JobID == jobID {
			return eta, true
		}
	}
	return ETA{}, false
}
