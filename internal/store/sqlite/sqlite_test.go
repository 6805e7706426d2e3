package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/havenmind/haven-server/internal/store"
	"github.com/havenmind/haven-server/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "haven.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}
