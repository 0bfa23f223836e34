package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	apiclient "github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeAPI) ReceiveShipment(ctx context.Context, token, id string, req apiclient.ReceiveRequest) (apiclient.ReceiveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return apiclient.ReceiveResult{}, f.err
	}
	return apiclient.ReceiveResult{TransactionHash: "0xbeef", ConfirmedAt: time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)}, nil
}

// fakeStore fails the first failN appends.
var errDBDown = errors.New("db down")

type fakeStore struct {
	mu       sync.Mutex
	failN    int
	failErr  error // defaults to errDBDown
	attempts int
	rows     []store.Receipt
}

func (f *fakeStore) AppendReceipt(ctx context.Context, r store.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failN {
		if f.failErr != nil {
			return f.failErr
		}
		return errDBDown
	}
	f.rows = append(f.rows, r)
	return nil
}

type fakeProducer struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeProducer) Publish(ctx context.Context, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func receiptInput() activities.ReceiptInput {
	return activities.ReceiptInput{
		AuditID:      "3f1c9a2e-0000-4000-8000-000000000001",
		ShipmentID:   "42",
		ShipmentCode: "SHIP-42",
		DrugName:     "Paracetamol 500mg",
		Quantity:     5,
		ToAddress:    "0xABC",
		Wallet:       "0xabc",
		Role:         "pharmacy",
		Token:        "tok",
	}
}
