// pkg/viewmodel/options.go
package viewmodel

import (
	"time"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
)

// Options carry everything a normalization depends on besides the record.
// Now is never read from the system clock here; a zero Now disables the
// expiry override and leaves daysUntilExpiry null.
type Options struct {
	Role        status.Role
	ActorWallet string
	Now         time.Time
	Policy      status.Policy
}

func (o Options) policy() status.Policy {
	if o.Policy == (status.Policy{}) {
		return status.DefaultPolicy()
	}
	return o.Policy
}

// daysUntil is nil when either side is unknown.
func (o Options) daysUntil(t *time.Time) *int {
	if t == nil || o.Now.IsZero() {
		return nil
	}
	d := status.DaysUntilExpiry(*t, o.Now)
	return &d
}

// second truncates to what ISO output keeps, so a record and its own JSON
// normalize identically.
func second(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	s := t.UTC().Truncate(time.Second)
	return &s
}
