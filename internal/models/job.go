package models

import (
	"strings"
	"time"
)

// Speed is the pace a sequential service is performed at
type Speed string

const (
	SpeedFast   Speed = "fast"
	SpeedNormal Speed = "normal"
	SpeedSlow   Speed = "slow"
)

// Speeds lists every speed tier in display order
var Speeds = []Speed{SpeedFast, SpeedNormal, SpeedSlow}

// ParseSpeed maps free text to a speed tier. Absent or unrecognized values are Normal.
// The Spanish names used by the browser version are accepted as well.
func ParseSpeed(s string) Speed {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "rapido", "rápido":
		return SpeedFast
	case "slow", "lento":
		return SpeedSlow
	default:
		return SpeedNormal
	}
}

// Label returns the display name of the speed
func (s Speed) Label() string {
	switch s {
	case SpeedFast:
		return "Fast"
	case SpeedSlow:
		return "Slow"
	default:
		return "Normal"
	}
}

// Valid reports whether s is one of the known tiers
func (s Speed) Valid() bool {
	return s == SpeedFast || s == SpeedNormal || s == SpeedSlow
}

// Category decides whether a service occupies the chair or runs alongside it
type Category string

const (
	CategorySequential Category = "sequential"
	CategoryParallel   Category = "parallel"
)

// Job is a sequential service, either in the chair (StartedAt set) or waiting in the queue.
type Job struct {
	ID             string     `json:"id"`
	ServiceID      string     `json:"service_id"`
	Speed          Speed      `json:"speed"`
	PlannedMinutes int        `json:"planned_minutes"`
	CreatedAt      time.Time  `json:"created_at,omitzero"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
}

// Planned returns the frozen planned duration
func (j Job) Planned() time.Duration {
	return time.Duration(j.PlannedMinutes) * time.Minute
}

// ParallelJob is a service that runs without occupying the chair, such as a color processing.
type ParallelJob struct {
	ID             string    `json:"id"`
	ServiceID      string    `json:"service_id"`
	PlannedMinutes int       `json:"planned_minutes"`
	StartedAt      time.Time `json:"started_at,omitzero"`
}

// Planned returns the frozen planned duration
func (p ParallelJob) Planned() time.Duration {
	return time.Duration(p.PlannedMinutes) * time.Minute
}
