package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
)

const TaskQueue = "RECEIPT_TASK_QUEUE"

// Activity names as registered on the worker.
const (
	ActivityVerifyRecipient = "ACTIVITY_VerifyRecipient"
	ActivityReceiveShipment = "ACTIVITY_ReceiveShipment"
	ActivityRecordReceipt   = "ACTIVITY_RecordReceipt"
	ActivityPublishEvent    = "ACTIVITY_PublishReceiptEvent"
)

// ConfirmReceiptWorkflow checks ownership, confirms the receipt on the
// backend, writes the audit row and publishes the event. Only the last two
// steps are retried.
func ConfirmReceiptWorkflow(ctx workflow.Context, in activities.ReceiptInput) (store.Receipt, error) {
	once := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	// If the DB or Kafka is down, keep trying for a while with backoff.
	retried := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    20,
		},
	})

	if err := workflow.ExecuteActivity(once, ActivityVerifyRecipient, in).Get(ctx, nil); err != nil {
		return store.Receipt{}, err
	}

	var conf activities.Confirmation
	if err := workflow.ExecuteActivity(once, ActivityReceiveShipment, in).Get(ctx, &conf); err != nil {
		return store.Receipt{}, err
	}

	var receipt store.Receipt
	if err := workflow.ExecuteActivity(retried, ActivityRecordReceipt, in, conf).Get(ctx, &receipt); err != nil {
		return store.Receipt{}, err
	}

	// The receipt already happened; a lost event is logged, not returned.
	if err := workflow.ExecuteActivity(retried, ActivityPublishEvent, receipt).Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Error("receipt event not published", "auditId", receipt.ID, "error", err)
	}

	return receipt, nil
}
