// internal/bridge/bridge.go
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	"github.com/Tanmoy095/PharmaTrace/shared/contracts"
)

// Queue accepts notification jobs.
type Queue interface {
	PublishJSON(ctx context.Context, queueName string, v any) error
}

// Bridge turns shipment.received facts from Kafka into notification tasks on
// RabbitMQ.
type Bridge struct {
	queue Queue
	log   *zap.Logger
}

func New(queue Queue, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{queue: queue, log: log}
}

// Handle is a kafka handler. A message that is not a receipt event is logged
// and skipped so it cannot block the partition. A failed enqueue is returned
// and the consumer retries the same event until it goes through.
func (b *Bridge) Handle(ctx context.Context, key, value []byte) error {
	var ev contracts.ReceiptEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		b.log.Warn("bridge: skipping malformed event", zap.ByteString("key", key), zap.Error(err))
		return nil
	}
	if ev.AuditID == "" || ev.RecipientWallet == "" {
		b.log.Warn("bridge: skipping event without audit id or wallet", zap.ByteString("key", key))
		return nil
	}

	job := NoticeFor(ev)
	if err := b.queue.PublishJSON(ctx, contracts.QueueReceiptNotices, job); err != nil {
		return fmt.Errorf("enqueue receipt notice %s: %w", ev.AuditID, err)
	}
	b.log.Info("bridge: receipt notice queued", zap.String("audit_id", ev.AuditID), zap.String("shipment_code", ev.ShipmentCode))
	return nil
}

// NoticeFor builds the notification job for a confirmed receipt.
func NoticeFor(ev contracts.ReceiptEvent) contracts.AlertJob {
	confirmed := ev.ConfirmedAt
	return contracts.AlertJob{
		ID:           uuid.NewString(),
		Kind:         contracts.AlertReceipt,
		Role:         ev.Role,
		Wallet:       ev.RecipientWallet,
		DrugName:     ev.DrugName,
		CurrentStock: ev.Quantity,
		Message: fmt.Sprintf("Đã xác nhận nhận lô hàng %s: %s %s lúc %s",
			ev.ShipmentCode, format.Number(ev.Quantity), ev.DrugName, format.DateTime(&confirmed)),
		CreatedAt: ev.ConfirmedAt.UTC(),
	}
}
