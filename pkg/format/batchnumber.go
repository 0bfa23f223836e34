package format

import (
	"errors"
	"strings"
	"time"
)

// batch numbers are BT{yyyy}{mm}{dd}{hhmm}, stamped in ICT
const batchLayout = "200601021504"

var ErrBadBatchNumber = errors.New("batch number does not match BTyyyymmddhhmm")

// BatchNumber builds the human batch number for a manufacture time.
func BatchNumber(manufacturedAt time.Time) string {
	return "BT" + manufacturedAt.In(Vietnam).Format(batchLayout)
}

// ParseBatchNumber recovers the manufacture time from a batch number.
func ParseBatchNumber(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2+len(batchLayout) || !strings.EqualFold(s[:2], "BT") {
		return time.Time{}, ErrBadBatchNumber
	}
	t, err := time.ParseInLocation(batchLayout, s[2:], Vietnam)
	if err != nil {
		return time.Time{}, ErrBadBatchNumber
	}
	return t, nil
}
