package models

import "time"

// StateVersion is the current version of the persisted shop state
const StateVersion = 1

// State is everything the shop is working on: the job in the chair, the waiting queue and
// the services running in parallel.
type State struct {
	Version   int           `json:"version"`
	Active    *Job          `json:"active,omitempty"`
	Queue     []Job         `json:"queue"`
	Parallel  []ParallelJob `json:"parallel"`
	UpdatedAt time.Time     `json:"updated_at,omitzero"`
}

// NewState returns an empty state at the current version
func NewState() State {
	return State{
		Version:  StateVersion,
		Queue:    []Job{},
		Parallel: []ParallelJob{},
	}
}

// Clone returns a deep copy that shares no memory with s
func (s State) Clone() State {
	out := State{
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt,
		Queue:     make([]Job, len(s.Queue)),
		Parallel:  make([]ParallelJob, len(s.Parallel)),
	}
	if s.Active != nil {
		active := cloneJob(*s.Active)
		out.Active = &active
	}
	for i, j := range s.Queue {
		out.Queue[i] = cloneJob(j)
	}
	copy(out.Parallel, s.Parallel)
	return out
}

func cloneJob(j Job) Job {
	if j.StartedAt != nil {
		started := *j.StartedAt
		j.StartedAt = &started
	}
	return j
}

// IsEmpty reports whether nothing is active, queued or running in parallel
func (s State) IsEmpty() bool {
	return s.Active == nil && len(s.Queue) == 0 && len(s.Parallel) == 0
}

// QueueIndex returns the position of the queued job with the given id, or -1
func (s State) QueueIndex(id string) int {
	for i, j := range s.Queue {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// ParallelIndex returns the position of the parallel job with the given id, or -1
func (s State) ParallelIndex(id string) int {
	for i, p := range s.Parallel {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Normalize repairs state read from storage so that the invariants hold again: missing ids
// are regenerated with newID, duplicate ids are dropped, unknown speeds become Normal,
// negative durations become zero, queued jobs lose any start time and the active job gets one.
// It returns the number of repairs made.
func (s *State) Normalize(newID func() string) int {
	repairs := 0
	if s.Version != StateVersion {
		s.Version = StateVersion
	}
	if s.Queue == nil {
		s.Queue = []Job{}
	}
	if s.Parallel == nil {
		s.Parallel = []ParallelJob{}
	}

	seen := make(map[string]bool)
	claim := func(id *string) bool {
		if *id == "" {
			*id = newID()
			repairs++
		}
		if seen[*id] {
			repairs++
			return false
		}
		seen[*id] = true
		return true
	}
	fixJob := func(j *Job) {
		if !j.Speed.Valid() {
			j.Speed = ParseSpeed(string(j.Speed))
			repairs++
		}
		if j.PlannedMinutes < 0 {
			j.PlannedMinutes = 0
			repairs++
		}
	}

	if s.Active != nil {
		if claim(&s.Active.ID) {
			fixJob(s.Active)
			if s.Active.StartedAt == nil {
				started := s.Active.CreatedAt
				s.Active.StartedAt = &started
				repairs++
			}
		} else {
			s.Active = nil
		}
	}

	queue := s.Queue[:0]
	for _, j := range s.Queue {
		if !claim(&j.ID) {
			continue
		}
		fixJob(&j)
		if j.StartedAt != nil {
			j.StartedAt = nil
			repairs++
		}
		queue = append(queue, j)
	}
	s.Queue = queue

	parallel := s.Parallel[:0]
	for _, p := range s.Parallel {
		if !claim(&p.ID) {
			continue
		}
		if p.PlannedMinutes < 0 {
			p.PlannedMinutes = 0
			repairs++
		}
		parallel = append(parallel, p)
	}
	s.Parallel = parallel

	return repairs
}
