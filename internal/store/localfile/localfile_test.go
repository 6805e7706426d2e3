package localfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
	"github.com/havenmind/haven-server/internal/store/storetest"
)

func makeFileStore(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open localfile store: %v", err)
	}
	return s, path
}

func TestLocalFileStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, _ := makeFileStore(t)
		return s
	})
}

func TestLocalFileStore_CorruptBlobSelfHeals(t *testing.T) {
	s, path := makeFileStore(t)
	ctx := context.Background()

	rec := &model.CallRecord{ID: "c1", UserID: "u1", Date: time.Now().UTC(), Transcript: "hello"}
	if _, err := s.CallRecords().Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Clobber the blob with invalid JSON.
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("clobber: %v", err)
	}

	// Reads return empty rather than erroring.
	lst, err := s.CallRecords().List(ctx, "u1")
	if err != nil {
		t.Fatalf("list after corruption: %v", err)
	}
	if len(lst) != 0 {
		t.Fatalf("expected empty list from corrupt blob, got %d", len(lst))
	}
	if _, err := s.CallRecords().Get(ctx, "c1"); !model.IsNotFoundError(err) {
		t.Fatalf("expected NotFound from corrupt blob, got %v", err)
	}

	// Next write overwrites the corrupt blob and the store is readable again.
	rec2 := &model.CallRecord{ID: "c2", UserID: "u1", Date: time.Now().UTC(), Transcript: "after"}
	if _, err := s.CallRecords().Save(ctx, rec2); err != nil {
		t.Fatalf("save after corruption: %v", err)
	}
	lst, err = s.CallRecords().List(ctx, "u1")
	if err != nil || len(lst) != 1 || lst[0].ID != "c2" {
		t.Fatalf("store did not self-heal: n=%d err=%v", len(lst), err)
	}
}

func TestLocalFileStore_FlushIsAtomic(t *testing.T) {
	s, path := makeFileStore(t)
	ctx := context.Background()

	// A stale temp file from an interrupted write must not break the next
	// save, and no temp file may remain once a save completes.
	if err := os.WriteFile(path+".tmp", []byte("{half-writ"), 0o644); err != nil {
		t.Fatalf("seed stale temp file: %v", err)
	}

	rec := &model.CallRecord{ID: "c1", UserID: "u1", Date: time.Now().UTC(), Transcript: "hello"}
	if _, err := s.CallRecords().Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after flush: %v", err)
	}
	got, err := s.CallRecords().Get(ctx, "c1")
	if err != nil || got.Transcript != "hello" {
		t.Fatalf("read after flush: got=%+v err=%v", got, err)
	}
}

func TestLocalFileStore_SurvivesReopen(t *testing.T) {
	s, path := makeFileStore(t)
	ctx := context.Background()

	rec := &model.CallRecord{ID: "c1", UserID: "u1", Date: time.Now().UTC(), Summary: "kept"}
	if _, err := s.CallRecords().Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.CallRecords().Get(ctx, "c1")
	if err != nil || got.Summary != "kept" {
		t.Fatalf("reopen read: got=%+v err=%v", got, err)
	}
}
