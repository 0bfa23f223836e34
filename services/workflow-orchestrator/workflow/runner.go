package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	apiclient "github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
)

// Runner executes the receipt pipeline.
type Runner interface {
	ConfirmReceipt(ctx context.Context, in activities.ReceiptInput) (store.Receipt, error)
}

// LocalRunner runs the same activities in-process, for deployments without
// a Temporal cluster.
type LocalRunner struct {
	Acts     *activities.ReceiptActivities
	Log      *zap.Logger
	Attempts int           // for the retryable steps; default 3
	Backoff  time.Duration // between attempts
}

func (r *LocalRunner) ConfirmReceipt(ctx context.Context, in activities.ReceiptInput) (store.Receipt, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := r.Acts.ACTIVITY_VerifyRecipient(ctx, in); err != nil {
		return store.Receipt{}, unwrapApplication(err)
	}
	conf, err := r.Acts.ACTIVITY_ReceiveShipment(ctx, in)
	if err != nil {
		return store.Receipt{}, unwrapApplication(err)
	}

	var receipt store.Receipt
	err = r.retry(ctx, func() error {
		var rerr error
		receipt, rerr = r.Acts.ACTIVITY_RecordReceipt(ctx, in, conf)
		return rerr
	})
	if err != nil {
		return store.Receipt{}, fmt.Errorf("record receipt: %w", err)
	}

	if err := r.retry(ctx, func() error { return r.Acts.ACTIVITY_PublishReceiptEvent(ctx, receipt) }); err != nil {
		log.Error("receipt event not published", zap.String("audit_id", receipt.ID), zap.Error(err))
	}
	return receipt, nil
}

func (r *LocalRunner) retry(ctx context.Context, fn func() error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) && appErr.NonRetryable() {
			return unwrapApplication(err)
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Backoff << i):
		}
	}
	return err
}

// unwrapApplication hands back the cause an in-process activity wrapped.
func unwrapApplication(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Unwrap() != nil {
		return appErr.Unwrap()
	}
	return err
}

// TemporalRunner starts ConfirmReceiptWorkflow on a cluster and waits for it.
type TemporalRunner struct {
	Client    client.Client
	TaskQueue string
}

func (r *TemporalRunner) ConfirmReceipt(ctx context.Context, in activities.ReceiptInput) (store.Receipt, error) {
	queue := r.TaskQueue
	if queue == "" {
		queue = TaskQueue
	}
	run, err := r.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		// one confirmation per audit id, even if the console retries the request
		ID:        "receipt-" + in.AuditID,
		TaskQueue: queue,
	}, ConfirmReceiptWorkflow, in)
	if err != nil {
		return store.Receipt{}, fmt.Errorf("start receipt workflow: %w", err)
	}
	var receipt store.Receipt
	if err := run.Get(ctx, &receipt); err != nil {
		return store.Receipt{}, FromWorkflowError(err)
	}
	return receipt, nil
}

// FromWorkflowError turns the application errors raised by the activities
// back into the console's sentinel errors after a Temporal round trip.
func FromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case activities.ErrTypeNotRecipient:
		return ownership.ErrNotRecipient
	case activities.ErrTypeBusiness:
		return &apiclient.APIError{Kind: apiclient.ErrBusiness, Status: http.StatusOK, Method: http.MethodPost, Message: appErr.Message()}
	case activities.ErrTypeUnauthorized:
		return &apiclient.APIError{Kind: apiclient.ErrUnauthorized, Status: http.StatusUnauthorized, Method: http.MethodPost, Message: appErr.Message()}
	case activities.ErrTypeNetwork:
		return &apiclient.APIError{Kind: apiclient.ErrNetwork, Method: http.MethodPost, Message: appErr.Message()}
	}
	return err
}
