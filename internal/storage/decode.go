package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

// DecodeDocument parses a JSON store file. A file without a version is the browser blob and is
// migrated to the current version; files from a newer version are rejected. Fields and list
// entries that do not decode are dropped one at a time, and ErrCorrupt is returned only when
// the file is not a JSON object at all.
func DecodeDocument(data []byte) (*Document, error) {
	var raw struct {
		Version  json.RawMessage `json:"version"`
		Settings json.RawMessage `json:"settings"`
		State    json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if isAbsent(raw.Version) {
		st, err := DecodeLegacy(data)
		if err != nil {
			return nil, err
		}
		logger.Info("Migrated browser state to the current format", "version", models.StateVersion)
		return &Document{
			Version:  models.StateVersion,
			Settings: models.DefaultSettings(),
			State:    st,
		}, nil
	}

	var version int
	if err := json.Unmarshal(raw.Version, &version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrCorrupt, err)
	}
	if version > models.StateVersion {
		return nil, fmt.Errorf("%w: version %d, supported %d", ErrUnsupportedVersion, version, models.StateVersion)
	}

	settings := models.DefaultSettings()
	if !isAbsent(raw.Settings) {
		// Unmarshal skips mistyped fields and keeps their defaults
		if err := json.Unmarshal(raw.Settings, &settings); err != nil {
			logger.Warn("Ignored unreadable settings fields", "error", err)
		}
	}
	models.ApplyDefaultSettings(&settings)

	return &Document{
		Version:  models.StateVersion,
		Settings: settings,
		State:    decodeState(raw.State),
	}, nil
}

func decodeState(data json.RawMessage) models.State {
	st := models.NewState()
	if isAbsent(data) {
		return st
	}

	var raw struct {
		Active    json.RawMessage `json:"active"`
		Queue     json.RawMessage `json:"queue"`
		Parallel  json.RawMessage `json:"parallel"`
		UpdatedAt json.RawMessage `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Ignored unreadable shop state", "error", err)
		return st
	}

	st.Active = decodeOptional[models.Job](raw.Active, "active")
	st.Queue = decodeEach[models.Job](raw.Queue, "queue")
	st.Parallel = decodeEach[models.ParallelJob](raw.Parallel, "parallel")
	if at := decodeOptional[time.Time](raw.UpdatedAt, "updated_at"); at != nil {
		st.UpdatedAt = *at
	}
	return st
}

// decodeEach decodes a JSON array entry by entry, dropping the entries that fail
func decodeEach[T any](data json.RawMessage, field string) []T {
	out := []T{}
	if isAbsent(data) {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Dropped unreadable list", "field", field, "error", err)
		return out
	}
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			logger.Warn("Dropped unreadable entry", "field", field, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func decodeOptional[T any](data json.RawMessage, field string) *T {
	if isAbsent(data) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Dropped unreadable value", "field", field, "error", err)
		return nil
	}
	return &v
}

func isAbsent(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
