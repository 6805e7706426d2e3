package memory

import (
	"testing"

	"github.com/havenmind/haven-server/internal/store"
	"github.com/havenmind/haven-server/internal/store/storetest"
)

func TestMemoryStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
