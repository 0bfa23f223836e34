// services/workflow-orchestrator/activities/retry_policy.go

package activities

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/lib/pq"
	"github.com/segmentio/kafka-go"
	"go.temporal.io/sdk/temporal"
)

// ErrTypePermanent marks an audit or publish failure that another attempt
// cannot fix.
const ErrTypePermanent = "Permanent"

// IsRetryable reports whether a failed audit write or event publish is worth
// another attempt. Unknown failures are retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if isRetryablePostgresError(err) || isRetryableNetworkError(err) || isRetryableSystemError(err) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return false
	}
	var kErr kafka.Error
	if errors.As(err, &kErr) {
		return kErr.Temporary()
	}
	return true
}

func isRetryablePostgresError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code.Class() {
	// 22 data exception, 23 constraint violation, 42 bad SQL: a retry writes
	// the same row and fails the same way
	case "22", "23", "42":
		return false
	}
	// connection, resource and lock classes clear up on their own
	return true
}

func isRetryableNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isRetryableSystemError(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// retryable wraps err so Temporal and the local runner stop retrying when
// IsRetryable says so.
func retryable(err error) error {
	if err == nil || IsRetryable(err) {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypePermanent, err)
}
