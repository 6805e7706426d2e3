// Package memory provides an in-memory store.Store used by tests and the
// "memory" driver. The collection layout mirrors the localfile blob: one
// shared slice per record type, filtered by user on read.
package memory

import (
	"context"
	"sync"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

// New returns an empty in-memory store.
func New() store.Store {
	return &memStore{}
}

type memStore struct {
	mu       sync.Mutex
	calls    []*model.CallRecord
	moods    []*model.MoodEntry
	contacts []*model.Contact
}

func (s *memStore) CallRecords() store.CallRecords { return &callRecords{s: s} }
func (s *memStore) MoodEntries() store.MoodEntries { return &moodEntries{s: s} }
func (s *memStore) Contacts() store.Contacts       { return &contacts{s: s} }

// HealthPing implements health.HealthPinger; an in-memory store is always up.
func (s *memStore) HealthPing(ctx context.Context) error { return nil }

type callRecords struct{ s *memStore }

func (c *callRecords) Save(ctx context.Context, rec *model.CallRecord) (*model.CallRecord, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	cp := *rec
	for i, existing := range c.s.calls {
		if existing.ID == cp.ID {
			// Upsert: replace in place so storage order is stable.
			c.s.calls[i] = &cp
			return &cp, nil
		}
	}
	c.s.calls = append(c.s.calls, &cp)
	return &cp, nil
}

func (c *callRecords) List(ctx context.Context, userID string) ([]*model.CallRecord, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var out []*model.CallRecord
	for _, rec := range c.s.calls {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (c *callRecords) Get(ctx context.Context, id string) (*model.CallRecord, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, rec := range c.s.calls {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, model.NewNotFoundError("call record", id)
}

func (c *callRecords) DeleteAll(ctx context.Context) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.s.calls = nil
	return nil
}

type moodEntries struct{ s *memStore }

func (m *moodEntries) Save(ctx context.Context, e *model.MoodEntry) (*model.MoodEntry, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	cp := *e
	for i, existing := range m.s.moods {
		if existing.ID == cp.ID {
			m.s.moods[i] = &cp
			return &cp, nil
		}
	}
	m.s.moods = append(m.s.moods, &cp)
	return &cp, nil
}

func (m *moodEntries) List(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var out []*model.MoodEntry
	for _, e := range m.s.moods {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type contacts struct{ s *memStore }

func (c *contacts) Create(ctx context.Context, ct *model.Contact) (*model.Contact, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	cp := *ct
	c.s.contacts = append(c.s.contacts, &cp)
	return &cp, nil
}

func (c *contacts) List(ctx context.Context, userID string) ([]*model.Contact, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var out []*model.Contact
	for _, ct := range c.s.contacts {
		if ct.UserID == userID {
			cp := *ct
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (c *contacts) Delete(ctx context.Context, userID, contactID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for i, ct := range c.s.contacts {
		if ct.ID == contactID && ct.UserID == userID {
			c.s.contacts = append(c.s.contacts[:i], c.s.contacts[i+1:]...)
			return nil
		}
	}
	return model.NewNotFoundError("contact", contactID)
}
