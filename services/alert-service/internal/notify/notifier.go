// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/shared/contracts"
)

var ErrBadJob = errors.New("malformed alert job")

// Sink delivers an alert to a person. Delivery channels (e-mail, SMS, push)
// live behind it.
type Sink interface {
	Deliver(ctx context.Context, job contracts.AlertJob) error
}

// LogSink writes alerts to the service log. It is the default sink.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Deliver(ctx context.Context, job contracts.AlertJob) error {
	s.Log.Info("alert",
		zap.String("kind", string(job.Kind)),
		zap.String("wallet", job.Wallet),
		zap.String("drug", job.DrugName),
		zap.String("message", job.Message))
	return nil
}

// Notifier is the queue worker: it decodes jobs and hands them to a sink.
type Notifier struct {
	sink Sink
	log  *zap.Logger
}

func New(sink Sink, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{sink: sink, log: log}
}

// Handle has the rabbitmq.JobHandler signature. Malformed jobs are errors so
// they are dead-lettered instead of redelivered.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var job contracts.AlertJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if job.Kind == "" || job.Wallet == "" {
		return fmt.Errorf("%w: kind and wallet are required", ErrBadJob)
	}
	if err := n.sink.Deliver(ctx, job); err != nil {
		return fmt.Errorf("deliver %s alert %s: %w", job.Kind, job.ID, err)
	}
	n.log.Debug("alert delivered", zap.String("id", job.ID))
	return nil
}
