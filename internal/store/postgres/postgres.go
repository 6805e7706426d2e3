// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver. Intended for multi-instance deployments; the localfile driver
// remains the single-node default.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens dsn and ensures the schema exists.
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires the store onto an existing connection.
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &pgStore{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS call_records (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			transcript TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			emotional_data JSONB,
			image_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_call_records_user ON call_records(user_id)`,
		`CREATE TABLE IF NOT EXISTS mood_entries (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			mood TEXT NOT NULL,
			intensity INT NOT NULL DEFAULT 0,
			note TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mood_entries_user ON mood_entries(user_id)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			relationship TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			priority INT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) CallRecords() store.CallRecords { return &callRecords{db: s.db} }
func (s *pgStore) MoodEntries() store.MoodEntries { return &moodEntries{db: s.db} }
func (s *pgStore) Contacts() store.Contacts       { return &contacts{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
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
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			user_id=EXCLUDED.user_id,
			date=EXCLUDED.date,
			transcript=EXCLUDED.transcript,
			summary=EXCLUDED.summary,
			emotional_data=EXCLUDED.emotional_data,
			image_url=EXCLUDED.image_url
	`, rec.ID, rec.UserID, rec.Date, rec.Transcript, rec.Summary, emotional, rec.GeneratedImageURL)
	if err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

func (c *callRecords) List(ctx context.Context, userID string) ([]*model.CallRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, date, transcript, summary, emotional_data, image_url
		FROM call_records WHERE user_id=$1 ORDER BY seq
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
		FROM call_records WHERE id=$1
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
	var emotional *string
	if err := scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Transcript, &rec.Summary, &emotional, &rec.GeneratedImageURL); err != nil {
		return nil, err
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
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			user_id=EXCLUDED.user_id,
			mood=EXCLUDED.mood,
			intensity=EXCLUDED.intensity,
			note=EXCLUDED.note,
			date=EXCLUDED.date
	`, e.ID, e.UserID, e.Mood, e.Intensity, e.Note, e.Date)
	if err != nil {
		return nil, err
	}
	out := *e
	return &out, nil
}

func (m *moodEntries) List(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, mood, intensity, note, date
		FROM mood_entries WHERE user_id=$1 ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.MoodEntry
	for rows.Next() {
		var e model.MoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.Intensity, &e.Note, &e.Date); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

type contacts struct{ db *sql.DB }

func (c *contacts) Create(ctx context.Context, ct *model.Contact) (*model.Contact, error) {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, name, relationship, phone, priority)
		VALUES ($1,$2,$3,$4,$5,$6)
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
		FROM contacts WHERE user_id=$1 ORDER BY priority, seq
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
	res, err := c.db.ExecContext(ctx, `DELETE FROM contacts WHERE id=$1 AND user_id=$2`, contactID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewNotFoundError("contact", contactID)
	}
	return nil
}
