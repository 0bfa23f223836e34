package activities

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"go.temporal.io/sdk/temporal"

	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	apiclient "github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/shared/contracts"
)

// Application error types. They survive Temporal serialization, so the
// caller can turn them back into the console's sentinel errors.
const (
	ErrTypeNotRecipient = "NotRecipient"
	ErrTypeBusiness     = "Business"
	ErrTypeUnauthorized = "Unauthorized"
	ErrTypeNetwork      = "Network"
)

// ReceiptInput is everything the receipt pipeline needs. AuditID is minted
// by the caller so a retried audit write lands on the same row.
type ReceiptInput struct {
	AuditID      string
	ShipmentID   string
	ShipmentCode string
	BatchID      string
	DrugName     string
	Quantity     int64
	ToAddress    string // recipient as the shipment record names it
	Wallet       string // the signed-in actor
	Role         string
	Token        string
	Notes        string
}

// Confirmation is the backend's answer to a receive call.
type Confirmation struct {
	TransactionHash string
	ConfirmedAt     time.Time
}

type ReceiptActivities struct {
	API interface {
		ReceiveShipment(ctx context.Context, token, shipmentID string, req apiclient.ReceiveRequest) (apiclient.ReceiveResult, error)
	}
	Store interface {
		AppendReceipt(ctx context.Context, r store.Receipt) error
	}
	Producer interface {
		Publish(ctx context.Context, key string, value interface{}) error
	}
	Clock clock.Clock
}

func (a *ReceiptActivities) now() time.Time {
	if a.Clock == nil {
		return time.Now().UTC()
	}
	return a.Clock.Now().UTC()
}

// Activity 1: advisory ownership check before anything leaves the building.
func (a *ReceiptActivities) ACTIVITY_VerifyRecipient(ctx context.Context, in ReceiptInput) error {
	if !ownership.SameWallet(in.ToAddress, in.Wallet) {
		return temporal.NewNonRetryableApplicationError(ownership.ErrNotRecipient.Error(), ErrTypeNotRecipient, ownership.ErrNotRecipient)
	}
	return nil
}

// Activity 2: the backend call. It changes on-chain state, so every failure
// is final; the workflow runs it once.
func (a *ReceiptActivities) ACTIVITY_ReceiveShipment(ctx context.Context, in ReceiptInput) (Confirmation, error) {
	res, err := a.API.ReceiveShipment(ctx, in.Token, in.ShipmentID, apiclient.ReceiveRequest{
		ReceivedQuantity: in.Quantity,
		Notes:            in.Notes,
	})
	if err != nil {
		return Confirmation{}, temporal.NewNonRetryableApplicationError(apiclient.Message(err), classify(err), err)
	}
	out := Confirmation{TransactionHash: res.TransactionHash, ConfirmedAt: res.ConfirmedAt.UTC()}
	if out.ConfirmedAt.IsZero() {
		out.ConfirmedAt = a.now()
	}
	return out, nil
}

// Activity 3: audit trail. Safe to retry.
func (a *ReceiptActivities) ACTIVITY_RecordReceipt(ctx context.Context, in ReceiptInput, conf Confirmation) (store.Receipt, error) {
	r := NewReceipt(in, conf, a.now())
	if err := a.Store.AppendReceipt(ctx, r); err != nil {
		return store.Receipt{}, retryable(err)
	}
	return r, nil
}

// Activity 4: tell the rest of the platform. Safe to retry; consumers key on
// the audit id.
func (a *ReceiptActivities) ACTIVITY_PublishReceiptEvent(ctx context.Context, r store.Receipt) error {
	if a.Producer == nil {
		return nil
	}
	return retryable(a.Producer.Publish(ctx, r.ID, ReceiptEventFrom(r)))
}

// NewReceipt builds the audit row for a confirmed receipt.
func NewReceipt(in ReceiptInput, conf Confirmation, now time.Time) store.Receipt {
	return store.Receipt{
		ID:              in.AuditID,
		ShipmentID:      in.ShipmentID,
		ShipmentCode:    in.ShipmentCode,
		BatchID:         in.BatchID,
		DrugName:        in.DrugName,
		Quantity:        in.Quantity,
		Wallet:          strings.TrimSpace(in.Wallet),
		Role:            in.Role,
		TransactionHash: conf.TransactionHash,
		ConfirmedAt:     conf.ConfirmedAt,
		CreatedAt:       now,
	}
}

// ReceiptEventFrom maps an audit row onto the published event.
func ReceiptEventFrom(r store.Receipt) contracts.ReceiptEvent {
	return contracts.ReceiptEvent{
		AuditID:         r.ID,
		ShipmentID:      r.ShipmentID,
		ShipmentCode:    r.ShipmentCode,
		BatchID:         r.BatchID,
		DrugName:        r.DrugName,
		Quantity:        r.Quantity,
		RecipientWallet: r.Wallet,
		Role:            r.Role,
		TransactionHash: r.TransactionHash,
		ConfirmedAt:     r.ConfirmedAt,
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrBusiness):
		return ErrTypeBusiness
	case errors.Is(err, apiclient.ErrUnauthorized):
		return ErrTypeUnauthorized
	default:
		return ErrTypeNetwork
	}
}
