package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

// XP awards per stored record. Simple counters, kept server-side so every
// client sees the same totals.
const (
	xpPerCall = 50
	xpPerMood = 10
)

// WellnessService orchestrates mood check-ins, safety contacts, and the
// streak/XP stats derived from stored records.
type WellnessService struct {
	store store.Store
}

func NewWellnessService(s store.Store) *WellnessService {
	return &WellnessService{store: s}
}

// RecordMood validates and stores one mood check-in.
func (s *WellnessService) RecordMood(ctx context.Context, e *model.MoodEntry) (*model.MoodEntry, error) {
	if e.UserID == "" {
		return nil, model.NewValidationError("userId", "required")
	}
	if e.Mood == "" {
		return nil, model.NewValidationError("mood", "required")
	}
	if e.Intensity < 1 || e.Intensity > 10 {
		return nil, model.NewValidationError("intensity", "must be between 1 and 10")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return s.store.MoodEntries().Save(ctx, e)
}

func (s *WellnessService) ListMoods(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	return s.store.MoodEntries().List(ctx, userID)
}

// AddContact validates and stores one safety-network contact.
func (s *WellnessService) AddContact(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	if c.UserID == "" {
		return nil, model.NewValidationError("userId", "required")
	}
	if c.Name == "" {
		return nil, model.NewValidationError("name", "required")
	}
	if c.Phone == "" {
		return nil, model.NewValidationError("phone", "required")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return s.store.Contacts().Create(ctx, c)
}

func (s *WellnessService) ListContacts(ctx context.Context, userID string) ([]*model.Contact, error) {
	return s.store.Contacts().List(ctx, userID)
}

func (s *WellnessService) RemoveContact(ctx context.Context, userID, contactID string) error {
	return s.store.Contacts().Delete(ctx, userID, contactID)
}

// Stats computes streak and XP from the user's stored records.
func (s *WellnessService) Stats(ctx context.Context, userID string) (*model.WellnessStats, error) {
	calls, err := s.store.CallRecords().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	moods, err := s.store.MoodEntries().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.WellnessStats{
		UserID:        userID,
		CurrentStreak: currentStreak(moods, time.Now().UTC()),
		XP:            len(calls)*xpPerCall + len(moods)*xpPerMood,
		CallCount:     len(calls),
		MoodCount:     len(moods),
	}, nil
}

// currentStreak counts consecutive days with at least one mood entry,
// walking back from the most recent entry day. The streak is zero when the
// latest entry is older than yesterday relative to now.
func currentStreak(moods []*model.MoodEntry, now time.Time) int {
	if len(moods) == 0 {
		return 0
	}

	days := make(map[string]bool, len(moods))
	var latest time.Time
	for _, e := range moods {
		d := e.Date.UTC().Truncate(24 * time.Hour)
		days[d.Format("2006-01-02")] = true
		if d.After(latest) {
			latest = d
		}
	}

	today := now.Truncate(24 * time.Hour)
	if today.Sub(latest) > 24*time.Hour {
		return 0
	}

	streak := 0
	for d := latest; days[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
