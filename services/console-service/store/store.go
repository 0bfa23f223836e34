// store/store.go
package store

import (
	"context"
	"errors"
	"time"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// Receipt is one audit entry of a confirmed shipment receipt. The backend
// owns the shipment; this is only our record of who confirmed what, when.
type Receipt struct {
	ID              string    `json:"id"`
	ShipmentID      string    `json:"shipmentId"`
	ShipmentCode    string    `json:"shipmentCode"`
	BatchID         string    `json:"batchId"`
	DrugName        string    `json:"drugName"`
	Quantity        int64     `json:"quantity"`
	Wallet          string    `json:"wallet"`
	Role            string    `json:"role"`
	TransactionHash string    `json:"transactionHash"`
	ConfirmedAt     time.Time `json:"confirmedAt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ReceiptStore is the storage contract for the receipt audit trail.
type ReceiptStore interface {
	// AppendReceipt stores r. Appending an id twice keeps the first copy, so
	// a retried write is harmless.
	AppendReceipt(ctx context.Context, r Receipt) error

	GetReceipt(ctx context.Context, id string) (Receipt, error)

	// ListReceipts returns the newest receipts confirmed by wallet first.
	ListReceipts(ctx context.Context, wallet string, limit, offset int32) ([]Receipt, error)
}
