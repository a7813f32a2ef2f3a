package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/hauntedos/internal/store"
)

// Persister keeps the window snapshot as a single row of the snapshots table.
type Persister struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// NewPersister stores the record under store.RecordName.
func NewPersister(db *sql.DB) *Persister {
	return &Persister{db: db, name: store.RecordName, now: time.Now}
}

func (p *Persister) Load() (*store.Snapshot, error) {
	var payload string
	err := p.db.QueryRow(`SELECT payload FROM snapshots WHERE name = ?`, p.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return store.Decode([]byte(payload))
}

func (p *Persister) Save(s *store.Snapshot) error {
	data, err := store.Encode(s)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
		INSERT INTO snapshots (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		p.name, string(data), p.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// UpdatedAt returns when the record was last written.
func (p *Persister) UpdatedAt() (time.Time, error) {
	var ts int64
	err := p.db.QueryRow(`SELECT updated_at FROM snapshots WHERE name = ?`, p.name).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, store.ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot time: %w", err)
	}
	return time.Unix(ts, 0), nil
}
