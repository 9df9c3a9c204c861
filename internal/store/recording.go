package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Recording is a captured sensor session.
type Recording struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	Frames     int       `json:"frames"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RecordedFrame is one stored body frame. Data holds the bridge wire format.
type RecordedFrame struct {
	Sequence int             `json:"sequence"`
	OffsetMs int64           `json:"offset_ms"`
	Data     json.RawMessage `json:"data"`
}

// RecordingRepository provides CRUD operations for recordings and their frames.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create inserts a new, empty recording.
func (r *RecordingRepository) Create(rec *Recording) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, name, source, frames, duration_ms, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Source, rec.Frames, rec.DurationMs, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// GetByID retrieves a recording by its ID.
func (r *RecordingRepository) GetByID(id string) (*Recording, error) {
	rec := &Recording{}

	err := r.db.QueryRow(
		`SELECT id, name, source, frames, duration_ms, created_at, updated_at
		 FROM recordings WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.Source, &rec.Frames, &rec.DurationMs, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// List retrieves all recordings, newest first.
func (r *RecordingRepository) List() ([]*Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, name, source, frames, duration_ms, created_at, updated_at
		 FROM recordings ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Source, &rec.Frames, &rec.DurationMs, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recordings, nil
}

// Delete removes a recording and its frames.
func (r *RecordingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendFrame stores one frame and updates the recording's frame count and duration.
func (r *RecordingRepository) AppendFrame(id string, sequence int, offsetMs int64, data []byte) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO recording_frames (recording_id, sequence, offset_ms, data) VALUES (?, ?, ?, ?)`,
		id, sequence, offsetMs, string(data),
	); err != nil {
		return err
	}

	result, err := tx.Exec(
		`UPDATE recordings SET frames = frames + 1, duration_ms = MAX(duration_ms, ?), updated_at = ? WHERE id = ?`,
		offsetMs, time.Now(), id,
	)
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Frames retrieves every frame of a recording in sequence order.
func (r *RecordingRepository) Frames(id string) ([]RecordedFrame, error) {
	rows, err := r.db.Query(
		`SELECT sequence, offset_ms, data
		 FROM recording_frames
		 WHERE recording_id = ?
		 ORDER BY sequence`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []RecordedFrame
	for rows.Next() {
		var f RecordedFrame
		var data string
		if err := rows.Scan(&f.Sequence, &f.OffsetMs, &data); err != nil {
			return nil, err
		}
		f.Data = json.RawMessage(data)
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}
