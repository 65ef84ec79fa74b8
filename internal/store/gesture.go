package store

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ayusman/handsign/internal/gesture"
)

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a gesture name is already taken.
	ErrDuplicate = errors.New("already exists")
)

// Gesture is a persisted custom gesture.
type Gesture struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Definition gesture.Definition `json:"definition"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// GestureRepository provides CRUD operations for custom gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

// Create inserts g, assigning a new ID when it has none. The definition
// name always follows g.Name.
func (r *GestureRepository) Create(g *Gesture) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	g.Definition.Name = g.Name

	data, err := json.Marshal(g.Definition)
	if err != nil {
		return errors.Wrap(err, "encode definition")
	}

	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err = r.db.Exec(
		`INSERT INTO gestures (id, name, definition, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, string(data), g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(ErrDuplicate, "gesture %q", g.Name)
		}
		return errors.Wrap(err, "insert gesture")
	}
	return nil
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	return r.getOne(`SELECT id, name, definition, created_at, updated_at FROM gestures WHERE id = ?`, id)
}

// GetByName retrieves a gesture by its name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	return r.getOne(`SELECT id, name, definition, created_at, updated_at FROM gestures WHERE name = ?`, name)
}

func (r *GestureRepository) getOne(query string, arg string) (*Gesture, error) {
	g, err := scanGesture(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// List returns all gestures, oldest first.
func (r *GestureRepository) List() ([]*Gesture, error) {
	rows, err := r.db.Query(
		`SELECT id, name, definition, created_at, updated_at
		 FROM gestures ORDER BY created_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list gestures")
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return gestures, nil
}

// Update replaces the name and definition of an existing gesture.
func (r *GestureRepository) Update(g *Gesture) error {
	g.Definition.Name = g.Name
	data, err := json.Marshal(g.Definition)
	if err != nil {
		return errors.Wrap(err, "encode definition")
	}
	g.UpdatedAt = time.Now().UTC()

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, definition = ?, updated_at = ? WHERE id = ?`,
		g.Name, string(data), g.UpdatedAt, g.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(ErrDuplicate, "gesture %q", g.Name)
		}
		return errors.Wrap(err, "update gesture")
	}
	return requireRow(result)
}

// Delete removes a gesture by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete gesture")
	}
	return requireRow(result)
}

// Descriptors builds every stored definition. Definitions that no longer
// build are returned as errors alongside the good descriptors.
func (r *GestureRepository) Descriptors() ([]*gesture.Descriptor, []error) {
	gestures, err := r.List()
	if err != nil {
		return nil, []error{err}
	}

	var (
		descs []*gesture.Descriptor
		errs  []error
	)
	for _, g := range gestures {
		d, err := g.Definition.Build()
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "gesture %q", g.Name))
			continue
		}
		descs = append(descs, d)
	}
	return descs, errs
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGesture(row rowScanner) (*Gesture, error) {
	g := &Gesture{}
	var data string
	if err := row.Scan(&g.ID, &g.Name, &data, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &g.Definition); err != nil {
		return nil, errors.Wrapf(err, "decode definition of %q", g.Name)
	}
	return g, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
