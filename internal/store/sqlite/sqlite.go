// Package sqlite implements store.Store on a local SQLite database
// (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

// New opens the database at path and ensures the schema exists.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires the store onto an existing connection (used by tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) CallRecords() store.CallRecords { return &callRecords{db: s.db} }
func (s *sqliteStore) MoodEntries() store.MoodEntries { return &moodEntries{db: s.db} }
func (s *sqliteStore) Contacts() store.Contacts       { return &contacts{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type callRecords struct{ db *sql.DB }

func (c *callRecords) Save(ctx context.Context, rec *model.CallRecord) (*model.CallRecord, error) {
	var emotional *string
	if rec.EmotionalData != nil {
		b, err := json.Marshal(rec.EmotionalData)
		if err != nil {
			return nil, err
		}
		s := string(b)
		emotional = &s
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO call_records (id, user_id, date, transcript, summary, emotional_data, image_url)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id,
			date=excluded.date,
			transcript=excluded.transcript,
			summary=excluded.summary,
			emotional_data=excluded.emotional_data,
			image_url=excluded.image_url
	`, rec.ID, rec.UserID, rec.Date.UTC().Format(time.RFC3339Nano), rec.Transcript, rec.Summary, emotional, rec.GeneratedImageURL)
	if err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

func (c *callRecords) List(ctx context.Context, userID string) ([]*model.CallRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, date, transcript, summary, emotional_data, image_url
		FROM call_records WHERE user_id = ? ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.CallRecord
	for rows.Next() {
		rec, err := scanCallRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *callRecords) Get(ctx context.Context, id string) (*model.CallRecord, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, transcript, summary, emotional_data, image_url
		FROM call_records WHERE id = ?
	`, id)
	rec, err := scanCallRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("call record", id)
	}
	return rec, err
}

func (c *callRecords) DeleteAll(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM call_records`)
	return err
}

func scanCallRecord(scan func(dest ...any) error) (*model.CallRecord, error) {
	var rec model.CallRecord
	var date string
	var emotional *string
	if err := scan(&rec.ID, &rec.UserID, &date, &rec.Transcript, &rec.Summary, &emotional, &rec.GeneratedImageURL); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
		rec.Date = t
	}
	if emotional != nil {
		var ed model.EmotionalData
		if err := json.Unmarshal([]byte(*emotional), &ed); err == nil {
			rec.EmotionalData = &ed
		}
	}
	return &rec, nil
}

type moodEntries struct{ db *sql.DB }

func (m *moodEntries) Save(ctx context.Context, e *model.MoodEntry) (*model.MoodEntry, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO mood_entries (id, user_id, mood, intensity, note, date)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id,
			mood=excluded.mood,
			intensity=excluded.intensity,
			note=excluded.note,
			date=excluded.date
	`, e.ID, e.UserID, e.Mood, e.Intensity, e.Note, e.Date.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	out := *e
	return &out, nil
}

func (m *moodEntries) List(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, mood, intensity, note, date
		FROM mood_entries WHERE user_id = ? ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.MoodEntry
	for rows.Next() {
		var e model.MoodEntry
		var date string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.Intensity, &e.Note, &date); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
			e.Date = t
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

type contacts struct{ db *sql.DB }

func (c *contacts) Create(ctx context.Context, ct *model.Contact) (*model.Contact, error) {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, name, relationship, phone, priority)
		VALUES (?,?,?,?,?,?)
	`, ct.ID, ct.UserID, ct.Name, ct.Relationship, ct.Phone, ct.Priority)
	if err != nil {
		return nil, err
	}
	out := *ct
	return &out, nil
}

func (c *contacts) List(ctx context.Context, userID string) ([]*model.Contact, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, name, relationship, phone, priority
		FROM contacts WHERE user_id = ? ORDER BY priority, seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Contact
	for rows.Next() {
		var ct model.Contact
		if err := rows.Scan(&ct.ID, &ct.UserID, &ct.Name, &ct.Relationship, &ct.Phone, &ct.Priority); err != nil {
			return nil, err
		}
		out = append(out, &ct)
	}
	return out, rows.Err()
}

func (c *contacts) Delete(ctx context.Context, userID, contactID string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ? AND user_id = ?`, contactID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewNotFoundError("contact", contactID)
	}
	return nil
}
