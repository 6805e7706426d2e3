// Package storetest exercises a compliance suite against a store.Store
// implementation. Drivers should provide a clean, isolated store from
// makeStore.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

// Run exercises the shared store semantics: upsert-by-id, per-user
// filtering, unscoped Get, bulk clear, and owner-scoped contact deletion.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userA := "u-" + uuid.New().String()
	userB := "u-" + uuid.New().String()

	// Save two records for userA, one for userB.
	r1 := &model.CallRecord{ID: uuid.New().String(), UserID: userA, Date: time.Now().UTC(), Transcript: "first"}
	r2 := &model.CallRecord{ID: uuid.New().String(), UserID: userA, Date: time.Now().UTC(), Transcript: "second"}
	r3 := &model.CallRecord{ID: uuid.New().String(), UserID: userB, Date: time.Now().UTC(), Transcript: "other"}
	for _, r := range []*model.CallRecord{r1, r2, r3} {
		if _, err := s.CallRecords().Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	// Upsert: re-saving r1 must replace, not duplicate, and keep position.
	r1b := *r1
	r1b.Transcript = "first-updated"
	if _, err := s.CallRecords().Save(ctx, &r1b); err != nil {
		t.Fatalf("Save upsert: %v", err)
	}
	lst, err := s.CallRecords().List(ctx, userA)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lst) != 2 {
		t.Fatalf("upsert duplicated record: n=%d", len(lst))
	}
	if lst[0].ID != r1.ID || lst[0].Transcript != "first-updated" {
		t.Fatalf("upsert did not replace in place: %+v", lst[0])
	}
	if lst[1].ID != r2.ID {
		t.Fatalf("storage order not preserved: %+v", lst[1])
	}

	// List never leaks another user's records.
	lstB, err := s.CallRecords().List(ctx, userB)
	if err != nil {
		t.Fatalf("List userB: %v", err)
	}
	for _, rec := range lstB {
		if rec.UserID != userB {
			t.Fatalf("List leaked foreign record: %+v", rec)
		}
	}
	if len(lstB) != 1 {
		t.Fatalf("List userB: n=%d", len(lstB))
	}

	// Get is unscoped by design.
	got, err := s.CallRecords().Get(ctx, r3.ID)
	if err != nil || got.UserID != userB {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
	if _, err := s.CallRecords().Get(ctx, "no-such-id"); !model.IsNotFoundError(err) {
		t.Fatalf("Get missing: expected NotFoundError, got %v", err)
	}

	// Emotional data round-trips.
	rich := &model.CallRecord{
		ID: uuid.New().String(), UserID: userA, Date: time.Now().UTC(),
		EmotionalData: &model.EmotionalData{
			GroundEmotion: "calm",
			TemporalTag:   model.TemporalFamiliar,
			ColorPalette:  []string{"#aabbcc", "#001122"},
		},
	}
	if _, err := s.CallRecords().Save(ctx, rich); err != nil {
		t.Fatalf("Save rich: %v", err)
	}
	back, err := s.CallRecords().Get(ctx, rich.ID)
	if err != nil {
		t.Fatalf("Get rich: %v", err)
	}
	if back.EmotionalData == nil || back.EmotionalData.GroundEmotion != "calm" ||
		back.EmotionalData.TemporalTag != model.TemporalFamiliar ||
		len(back.EmotionalData.ColorPalette) != 2 {
		t.Fatalf("emotional data did not round-trip: %+v", back.EmotionalData)
	}

	// Mood entries: upsert + per-user list.
	m1 := &model.MoodEntry{ID: uuid.New().String(), UserID: userA, Mood: "calm", Intensity: 4, Date: time.Now().UTC()}
	if _, err := s.MoodEntries().Save(ctx, m1); err != nil {
		t.Fatalf("SaveMood: %v", err)
	}
	m1b := *m1
	m1b.Intensity = 7
	if _, err := s.MoodEntries().Save(ctx, &m1b); err != nil {
		t.Fatalf("SaveMood upsert: %v", err)
	}
	moods, err := s.MoodEntries().List(ctx, userA)
	if err != nil || len(moods) != 1 || moods[0].Intensity != 7 {
		t.Fatalf("ListMoods: n=%d err=%v", len(moods), err)
	}

	// Contacts: create, list, owner-scoped delete.
	ct := &model.Contact{ID: uuid.New().String(), UserID: userA, Name: "Sam", Phone: "+1555", Priority: 1}
	if _, err := s.Contacts().Create(ctx, ct); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if err := s.Contacts().Delete(ctx, userB, ct.ID); !model.IsNotFoundError(err) {
		t.Fatalf("foreign delete should be NotFound, got %v", err)
	}
	if err := s.Contacts().Delete(ctx, userA, ct.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	cts, err := s.Contacts().List(ctx, userA)
	if err != nil || len(cts) != 0 {
		t.Fatalf("ListContacts after delete: n=%d err=%v", len(cts), err)
	}

	// DeleteAll clears every user's call records.
	if err := s.CallRecords().DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	for _, uid := range []string{userA, userB} {
		lst, err := s.CallRecords().List(ctx, uid)
		if err != nil || len(lst) != 0 {
			t.Fatalf("DeleteAll left records for %s: n=%d err=%v", uid, len(lst), err)
		}
	}
}
