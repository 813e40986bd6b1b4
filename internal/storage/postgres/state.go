package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage"
)

// Values of jobs.kind
const (
	kindActive   = "active"
	kindQueued   = "queued"
	kindParallel = "parallel"
)

func (s *Store) LoadState() (models.State, error) {
	st := models.NewState()

	var updatedAt string
	err := s.db.QueryRow("SELECT version, updated_at FROM shop_state WHERE id = 1").Scan(&st.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return models.State{}, fmt.Errorf("failed to read shop state: %w", err)
	}
	if st.Version > models.StateVersion {
		return models.State{}, fmt.Errorf("%w: version %d", storage.ErrUnsupportedVersion, st.Version)
	}
	st.UpdatedAt = storage.TimestampOrZero(updatedAt, "updated_at", "")

	rows, err := s.db.Query(`
		SELECT id, kind, service_id, speed, planned_minutes, created_at, started_at
		FROM jobs
		ORDER BY kind, position`)
	if err != nil {
		return models.State{}, fmt.Errorf("failed to read jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, kind, serviceID, speed, createdAt, startedAt string
		var minutes int
		if err := rows.Scan(&id, &kind, &serviceID, &speed, &minutes, &createdAt, &startedAt); err != nil {
			return models.State{}, err
		}
		created := storage.TimestampOrZero(createdAt, "created_at", id)
		started := storage.TimestampOrZero(startedAt, "started_at", id)

		switch kind {
		case kindActive:
			job := models.Job{ID: id, ServiceID: serviceID, Speed: models.Speed(speed), PlannedMinutes: minutes, CreatedAt: created}
			if !started.IsZero() {
				job.StartedAt = &started
			}
			st.Active = &job
		case kindQueued:
			st.Queue = append(st.Queue, models.Job{ID: id, ServiceID: serviceID, Speed: models.Speed(speed), PlannedMinutes: minutes, CreatedAt: created})
		case kindParallel:
			st.Parallel = append(st.Parallel, models.ParallelJob{ID: id, ServiceID: serviceID, PlannedMinutes: minutes, StartedAt: started})
		}
	}
	return st, rows.Err()
}

// SaveState replaces the stored state in a single transaction
func (s *Store) SaveState(st models.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO shop_state (id, version, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET version = EXCLUDED.version, updated_at = EXCLUDED.updated_at`,
		models.StateVersion, storage.FormatTimestamp(st.UpdatedAt),
	); err != nil {
		return fmt.Errorf("failed to save shop state: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM jobs"); err != nil {
		return fmt.Errorf("failed to clear jobs: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO jobs (id, kind, position, service_id, speed, planned_minutes, created_at, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	insert := func(kind string, position int, id, serviceID string, speed models.Speed, minutes int, created, started time.Time) error {
		if _, err := stmt.Exec(id, kind, position, serviceID, string(speed), minutes,
			storage.FormatTimestamp(created), storage.FormatTimestamp(started)); err != nil {
			return fmt.Errorf("failed to save job %s: %w", id, err)
		}
		return nil
	}

	if a := st.Active; a != nil {
		var started time.Time
		if a.StartedAt != nil {
			started = *a.StartedAt
		}
		if err := insert(kindActive, 0, a.ID, a.ServiceID, a.Speed, a.PlannedMinutes, a.CreatedAt, started); err != nil {
			return err
		}
	}
	for i, q := range st.Queue {
		if err := insert(kindQueued, i, q.ID, q.ServiceID, q.Speed, q.PlannedMinutes, q.CreatedAt, time.Time{}); err != nil {
			return err
		}
	}
	for i, p := range st.Parallel {
		if err := insert(kindParallel, i, p.ID, p.ServiceID, models.SpeedNormal, p.PlannedMinutes, time.Time{}, p.StartedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
