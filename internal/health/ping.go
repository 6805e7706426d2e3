package health

import "context"

// HealthPinger is implemented by store drivers that can probe their backing
// medium directly (database ping, blob directory stat). HealthPing must
// return nil when the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
