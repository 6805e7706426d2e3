package store

import (
	"context"

	"github.com/havenmind/haven-server/internal/model"
)

// Store exposes persistence operations required by the ingestion pipeline
// and the wellness API. Implementations live under internal/store/<driver>/
// (localfile, sqlite, postgres, memory).
//
// Records for all users live in one collection; List filters by user, but
// Get deliberately does not. Ownership checks belong to the caller.
type Store interface {
	CallRecords() CallRecords
	MoodEntries() MoodEntries
	Contacts() Contacts
}

type CallRecords interface {
	// Save upserts by record id: an existing id is replaced in place,
	// preserving its position in storage order.
	Save(ctx context.Context, rec *model.CallRecord) (*model.CallRecord, error)
	// List returns records owned by userID in storage order.
	List(ctx context.Context, userID string) ([]*model.CallRecord, error)
	// Get returns the record with the given id regardless of owner.
	Get(ctx context.Context, id string) (*model.CallRecord, error)
	// DeleteAll unconditionally empties the call record collection for all
	// users. Testing only; there is no per-record deletion.
	DeleteAll(ctx context.Context) error
}

type MoodEntries interface {
	Save(ctx context.Context, e *model.MoodEntry) (*model.MoodEntry, error)
	List(ctx context.Context, userID string) ([]*model.MoodEntry, error)
}

type Contacts interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	List(ctx context.Context, userID string) ([]*model.Contact, error)
	// Delete removes a contact only when it belongs to userID.
	Delete(ctx context.Context, userID, contactID string) error
}
