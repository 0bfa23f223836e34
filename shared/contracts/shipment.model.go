package contracts

import "time"

// Topics and queues shared between the console and the alert service.
const (
	TopicShipmentReceived = "shipment.received"
	QueueInventoryAlerts  = "inventory.alerts"
	QueueReceiptNotices   = "receipt.notifications"
	QueueAlertDeadLetters = "inventory.alerts.dlq"
)

// ReceiptEvent is published once a recipient has confirmed a shipment and
// the backend accepted it. The audit id doubles as the event key.
type ReceiptEvent struct {
	AuditID         string    `json:"auditId"`
	ShipmentID      string    `json:"shipmentId"`
	ShipmentCode    string    `json:"shipmentCode"`
	BatchID         string    `json:"batchId"`
	DrugName        string    `json:"drugName"`
	Quantity        int64     `json:"quantity"`
	RecipientWallet string    `json:"recipientWallet"`
	Role            string    `json:"role"`
	TransactionHash string    `json:"transactionHash"`
	ConfirmedAt     time.Time `json:"confirmedAt"`
}

// AlertKind names the inventory condition an alert reports.
type AlertKind string

const (
	AlertOutOfStock   AlertKind = "out_of_stock"
	AlertLowStock     AlertKind = "low_stock"
	AlertExpiringSoon AlertKind = "expiring_soon"
	AlertReceipt      AlertKind = "receipt"
)

// AlertJob is one unit of work on a RabbitMQ queue.
type AlertJob struct {
	ID              string    `json:"id"`
	Kind            AlertKind `json:"kind"`
	Role            string    `json:"role"`
	Wallet          string    `json:"wallet"`
	DrugName        string    `json:"drugName"`
	BatchNumber     string    `json:"batchNumber"`
	CurrentStock    int64     `json:"currentStock"`
	MinStock        int64     `json:"minStock"`
	DaysUntilExpiry *int      `json:"daysUntilExpiry,omitempty"`
	Message         string    `json:"message"`
	CreatedAt       time.Time `json:"createdAt"`
}
