// Package localfile persists the whole record collection as one JSON blob,
// rewritten on every save. Reads load the file fresh so external edits are
// visible, and an unreadable blob yields empty results instead of an error;
// the next write overwrites it with a valid collection.
package localfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

// collection is the on-disk blob layout.
type collection struct {
	CallRecords []*model.CallRecord `json:"callRecords"`
	MoodEntries []*model.MoodEntry  `json:"moodEntries"`
	Contacts    []*model.Contact    `json:"contacts"`
}

type fileStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// Open returns a store backed by the JSON blob at path, creating the parent
// directory if needed. The file itself is created lazily on first save.
func Open(path string, log zerolog.Logger) (store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{path: path, log: log}, nil
}

func (s *fileStore) CallRecords() store.CallRecords { return &callRecords{s: s} }
func (s *fileStore) MoodEntries() store.MoodEntries { return &moodEntries{s: s} }
func (s *fileStore) Contacts() store.Contacts       { return &contacts{s: s} }

// HealthPing implements health.HealthPinger by probing the parent directory.
func (s *fileStore) HealthPing(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

// load reads the blob. A missing or corrupt file returns an empty
// collection; corruption is logged once per read, never surfaced.
func (s *fileStore) load() collection {
	var col collection
	b, err := os.ReadFile(s.path)
	if err != nil {
		return col
	}
	if err := json.Unmarshal(b, &col); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("record blob unreadable, treating as empty")
		return collection{}
	}
	return col
}

// flush rewrites the entire blob. This also repairs a previously corrupt
// file, since the full collection is serialized on every write. The blob
// is written to a temp file and renamed so a crash mid-write cannot leave
// a half-written collection behind.
func (s *fileStore) flush(col collection) error {
	b, err := json.Marshal(col)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

type callRecords struct{ s *fileStore }

func (c *callRecords) Save(ctx context.Context, rec *model.CallRecord) (*model.CallRecord, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	col := c.s.load()
	cp := *rec
	replaced := false
	for i, existing := range col.CallRecords {
		if existing.ID == cp.ID {
			col.CallRecords[i] = &cp
			replaced = true
			break
		}
	}
	if !replaced {
		col.CallRecords = append(col.CallRecords, &cp)
	}
	if err := c.s.flush(col); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (c *callRecords) List(ctx context.Context, userID string) ([]*model.CallRecord, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var out []*model.CallRecord
	for _, rec := range c.s.load().CallRecords {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *callRecords) Get(ctx context.Context, id string) (*model.CallRecord, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, rec := range c.s.load().CallRecords {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, model.NewNotFoundError("call record", id)
}

func (c *callRecords) DeleteAll(ctx context.Context) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	col := c.s.load()
	col.CallRecords = nil
	return c.s.flush(col)
}

type moodEntries struct{ s *fileStore }

func (m *moodEntries) Save(ctx context.Context, e *model.MoodEntry) (*model.MoodEntry, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	col := m.s.load()
	cp := *e
	replaced := false
	for i, existing := range col.MoodEntries {
		if existing.ID == cp.ID {
			col.MoodEntries[i] = &cp
			replaced = true
			break
		}
	}
	if !replaced {
		col.MoodEntries = append(col.MoodEntries, &cp)
	}
	if err := m.s.flush(col); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (m *moodEntries) List(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var out []*model.MoodEntry
	for _, e := range m.s.load().MoodEntries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type contacts struct{ s *fileStore }

func (c *contacts) Create(ctx context.Context, ct *model.Contact) (*model.Contact, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	col := c.s.load()
	cp := *ct
	col.Contacts = append(col.Contacts, &cp)
	if err := c.s.flush(col); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (c *contacts) List(ctx context.Context, userID string) ([]*model.Contact, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var out []*model.Contact
	for _, ct := range c.s.load().Contacts {
		if ct.UserID == userID {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (c *contacts) Delete(ctx context.Context, userID, contactID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	col := c.s.load()
	for i, ct := range col.Contacts {
		if ct.ID == contactID && ct.UserID == userID {
			col.Contacts = append(col.Contacts[:i], col.Contacts[i+1:]...)
			return c.s.flush(col)
		}
	}
	return model.NewNotFoundError("contact", contactID)
}
