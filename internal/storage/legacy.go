package storage

import (
	"encoding/json"
	"fmt"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

// legacyState is the blob the browser version kept in localStorage. Timestamps are epoch
// milliseconds and service keys use the old Spanish names.
type legacyState struct {
	Active        *legacyJob
	Queue         []legacyJob
	Background    []legacyJob
	LastUpdatedAt *int64
}

type legacyJob struct {
	ID             string `json:"id"`
	ServiceKey     string `json:"serviceKey"`
	Speed          string `json:"speed"`
	PlannedMinutes int    `json:"plannedMinutes"`
	StartedAt      *int64 `json:"startedAt"`
	AddedAt        *int64 `json:"addedAt"`
	Kind           string `json:"kind"`
}

// DecodeLegacy converts a browser export into the current state. It accepts the bare blob
// or a localStorage dump holding the blob under its storage key, either as an object or as
// the JSON-encoded string the browser stores.
func DecodeLegacy(data []byte) (models.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.State{}, fmt.Errorf("%w: legacy export: %v", ErrCorrupt, err)
	}
	if raw, ok := fields[constants.LegacyStorageKey]; ok {
		var inner string
		if err := json.Unmarshal(raw, &inner); err == nil {
			raw = json.RawMessage(inner)
		}
		fields = nil
		if err := json.Unmarshal(raw, &fields); err != nil {
			return models.State{}, fmt.Errorf("%w: legacy state: %v", ErrCorrupt, err)
		}
	}

	legacy := legacyState{
		Active:        decodeOptional[legacyJob](fields["active"], "active"),
		Queue:         decodeEach[legacyJob](fields["queue"], "queue"),
		Background:    decodeEach[legacyJob](fields["bg"], "bg"),
		LastUpdatedAt: decodeOptional[int64](fields["lastUpdatedAt"], "lastUpdatedAt"),
	}
	return legacy.convert(), nil
}

func (l legacyState) convert() models.State {
	st := models.NewState()
	if l.LastUpdatedAt != nil {
		st.UpdatedAt = utils.FromEpochMillis(*l.LastUpdatedAt)
	}

	if l.Active != nil {
		if l.Active.Kind == "bg" {
			st.Parallel = append(st.Parallel, l.Active.parallel())
		} else {
			job := l.Active.job()
			if l.Active.StartedAt != nil {
				started := utils.FromEpochMillis(*l.Active.StartedAt)
				job.StartedAt = &started
				if job.CreatedAt.IsZero() {
					job.CreatedAt = started
				}
			}
			st.Active = &job
		}
	}
	for _, q := range l.Queue {
		st.Queue = append(st.Queue, q.job())
	}
	for _, b := range l.Background {
		st.Parallel = append(st.Parallel, b.parallel())
	}
	return st
}

func (j legacyJob) job() models.Job {
	job := models.Job{
		ID:             j.ID,
		ServiceID:      catalog.LegacyServiceID(j.ServiceKey),
		Speed:          models.ParseSpeed(j.Speed),
		PlannedMinutes: j.PlannedMinutes,
	}
	if j.AddedAt != nil {
		job.CreatedAt = utils.FromEpochMillis(*j.AddedAt)
	}
	return job
}

func (j legacyJob) parallel() models.ParallelJob {
	p := models.ParallelJob{
		ID:             j.ID,
		ServiceID:      catalog.LegacyServiceID(j.ServiceKey),
		PlannedMinutes: j.PlannedMinutes,
	}
	if j.StartedAt != nil {
		p.StartedAt = utils.FromEpochMillis(*j.StartedAt)
	}
	return p
}
