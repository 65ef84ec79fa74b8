package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultEventLimit caps Recent when no limit is given.
const DefaultEventLimit = 50

// Event is a recorded display change.
type Event struct {
	ID         string    `json:"id"`
	Sign       string    `json:"sign"`
	Previous   string    `json:"previous"`
	Gesture    string    `json:"gesture,omitempty"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventRepository records the display history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the display event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record appends e. A zero CreatedAt is set to now.
func (r *EventRepository) Record(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := r.db.Exec(
		`INSERT INTO display_events (id, sign, previous, gesture, message, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Sign, e.Previous, e.Gesture, e.Message, e.Confidence, e.CreatedAt,
	)
	return errors.Wrap(err, "insert display event")
}

// Recent returns up to limit events, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	rows, err := r.db.Query(
		`SELECT id, sign, previous, gesture, message, confidence, created_at
		 FROM display_events ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query display events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Sign, &e.Previous, &e.Gesture, &e.Message, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of recorded events.
func (r *EventRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM display_events`).Scan(&n)
	return n, errors.Wrap(err, "count display events")
}

// Prune keeps the newest keep events and deletes the rest.
func (r *EventRepository) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := r.db.Exec(
		`DELETE FROM display_events WHERE rowid NOT IN (
			SELECT rowid FROM display_events ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, errors.Wrap(err, "prune display events")
	}
	return result.RowsAffected()
}
