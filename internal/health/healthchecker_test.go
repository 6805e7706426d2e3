package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubChecker stands in for a component checker such as the store's.
type stubChecker struct {
	name    string
	healthy atomic.Int32
}

func (c *stubChecker) Name() string                               { return c.name }
func (c *stubChecker) IsHealthy() bool                            { return c.healthy.Load() == 1 }
func (c *stubChecker) Start(ctx context.Context, _ time.Duration) { /* no-op */ }

func TestServiceHealthChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &stubChecker{name: "store"}
	img := &stubChecker{name: "imagegen"}
	st.healthy.Store(1)
	img.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), st, img)
	go svc.Start(ctx, 10*time.Millisecond)

	// Initially healthy
	waitTrue(t, func() bool { return svc.IsHealthy() })

	// One failing dependency takes the service down
	img.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })

	// Recover
	img.healthy.Store(1)
	waitTrue(t, func() bool { return svc.IsHealthy() })
}

func TestServiceHealthChecker_StartsUnhealthy(t *testing.T) {
	svc := NewServiceHealthChecker(zerolog.Nop(), &stubChecker{name: "store"})
	if svc.IsHealthy() {
		t.Fatalf("service must report unhealthy before the first probe cycle")
	}
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
