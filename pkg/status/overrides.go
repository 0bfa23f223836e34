package status

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Precedence decides which override wins when a record is both low on stock
// and close to expiry.
type Precedence string

const (
	LowStockFirst Precedence = "low_stock_first"
	ExpiryFirst   Precedence = "expiry_first"
)

const DefaultExpiryWarningDays = 90

// ParsePrecedence reads the STATUS_PRECEDENCE setting; empty means the default.
func ParsePrecedence(s string) (Precedence, error) {
	switch p := Precedence(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return LowStockFirst, nil
	case LowStockFirst, ExpiryFirst:
		return p, nil
	default:
		return "", fmt.Errorf("unknown status precedence %q", s)
	}
}

// Policy holds the override thresholds.
type Policy struct {
	Precedence        Precedence
	ExpiryWarningDays int
}

func DefaultPolicy() Policy {
	return Policy{Precedence: LowStockFirst, ExpiryWarningDays: DefaultExpiryWarningDays}
}

// Signals are the record facts the overrides look at. Nil means unknown and
// never triggers an override.
type Signals struct {
	Now          time.Time
	ExpiryDate   *time.Time
	CurrentStock *int64
	MinStock     *int64
}

// DaysUntilExpiry rounds up partial days, so anything expiring later today is 0
// and an expiry already passed is negative.
func DaysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Apply runs the overrides after the table lookup. The base mapping is kept
// when neither rule triggers.
func (p Policy) Apply(base Mapped, s Signals) Mapped {
	stock := stockOverride(s)
	expiring := p.expiring(s)

	first, second := stock, UIStatus("")
	if expiring {
		second = ExpiringSoon
	}
	if p.Precedence == ExpiryFirst {
		first, second = second, first
	}
	switch {
	case first != "":
		return base.With(first)
	case second != "":
		return base.With(second)
	}
	return base
}

func (p Policy) expiring(s Signals) bool {
	if s.ExpiryDate == nil || s.Now.IsZero() {
		return false
	}
	days := p.ExpiryWarningDays
	if days <= 0 {
		days = DefaultExpiryWarningDays
	}
	return DaysUntilExpiry(*s.ExpiryDate, s.Now) <= days
}

func stockOverride(s Signals) UIStatus {
	if s.CurrentStock == nil {
		return ""
	}
	cur := *s.CurrentStock
	if cur <= 0 {
		return OutOfStock
	}
	if s.MinStock != nil && *s.MinStock > 0 && cur <= *s.MinStock {
		return LowStock
	}
	return ""
}
