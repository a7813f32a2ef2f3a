package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/hauntedos/internal/window"
)

// RecordName is the fixed key of the persisted window record.
const RecordName = "haunted-os-windows"

// ErrNoSnapshot reports that no persisted record exists yet.
var ErrNoSnapshot = errors.New("no persisted snapshot")

// Snapshot is the persisted form of the store.
type Snapshot struct {
	Windows        []window.Window `json:"windows"`
	ActiveWindowID *string         `json:"activeWindowId"`
	NextZIndex     int             `json:"nextZIndex"`
}

// normalized returns a deep copy with every window un-minimized, so a reload
// never restores a window the user cannot find.
func (s *Snapshot) normalized() *Snapshot {
	out := &Snapshot{
		Windows:    make([]window.Window, len(s.Windows)),
		NextZIndex: s.NextZIndex,
	}
	copy(out.Windows, s.Windows)
	for i := range out.Windows {
		out.Windows[i].Minimized = false
	}
	if s.ActiveWindowID != nil {
		id := *s.ActiveWindowID
		out.ActiveWindowID = &id
	}
	return out
}

// Persister stores and retrieves the snapshot record.
type Persister interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// Encode renders a snapshot as the persisted JSON record.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s.normalized())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted JSON record.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &s, nil
}

// FilePersister keeps the record as a JSON file in a directory.
type FilePersister struct {
	path string
}

// NewFilePersister stores the record under dir.
func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{path: filepath.Join(dir, RecordName+".json")}
}

// Path returns the record file path.
func (p *FilePersister) Path() string {
	return p.path
}

func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read %s: %w", p.path, err)
	}
	return Decode(data)
}

func (p *FilePersister) Save(s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p.path, err)
	}
	return nil
}

// MemoryPersister keeps the encoded record in memory.
type MemoryPersister struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func (p *MemoryPersister) Load() (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		return nil, ErrNoSnapshot
	}
	return Decode(p.data)
}

func (p *MemoryPersister) Save(s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.data = data
	p.saves++
	p.mu.Unlock()
	return nil
}

// Raw returns the last saved record.
func (p *MemoryPersister) Raw() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.data...)
}

// SetRaw replaces the stored record.
func (p *MemoryPersister) SetRaw(data []byte) {
	p.mu.Lock()
	p.data = append([]byte(nil), data...)
	p.mu.Unlock()
}

// Saves returns how many times Save succeeded.
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
