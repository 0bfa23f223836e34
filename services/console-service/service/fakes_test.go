package service

import (
	"context"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
)

var testNow = time.Date(2026, 1, 10, 3, 0, 0, 0, time.UTC)

func mockClock() *clock.Mock {
	m := clock.NewMock()
	m.Add(testNow.Sub(m.Now()))
	return m
}

// fakeBackend serves canned records; a non-nil error field fails that call.
type fakeBackend struct {
	mu sync.Mutex

	login       client.LoginResult
	inventory   []resolver.Record
	incoming    []resolver.Record
	outgoing    []resolver.Record
	verify      resolver.Record
	created     []client.CreateShipmentRequest
	inventoryEr error
	incomingEr  error
	// hold, when set, makes the next Inventory call close it and wait for
	// cancellation
	hold chan struct{}
}

func (f *fakeBackend) Login(ctx context.Context, role status.Role, email, password string) (client.LoginResult, error) {
	return f.login, nil
}

func (f *fakeBackend) Inventory(ctx context.Context, token string, role status.Role, wallet string) ([]resolver.Record, error) {
	f.mu.Lock()
	hold := f.hold
	f.hold = nil
	f.mu.Unlock()
	if hold != nil {
		close(hold)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.inventory, f.inventoryEr
}

func (f *fakeBackend) IncomingShipments(ctx context.Context, token, wallet string) ([]resolver.Record, error) {
	return f.incoming, f.incomingEr
}

func (f *fakeBackend) OutgoingShipments(ctx context.Context, token, wallet string) ([]resolver.Record, error) {
	return f.outgoing, nil
}

func (f *fakeBackend) CreateShipment(ctx context.Context, token string, req client.CreateShipmentRequest) (client.CreateShipmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return client.CreateShipmentResult{ShipmentID: "9", TrackingCode: "SHIP-9"}, nil
}

func (f *fakeBackend) VerifyBatch(ctx context.Context, token, code string) (resolver.Record, error) {
	return f.verify, nil
}

// fakeRunner records the pipeline inputs instead of running them.
type fakeRunner struct {
	inputs []activities.ReceiptInput
	err    error
}

func (f *fakeRunner) ConfirmReceipt(ctx context.Context, in activities.ReceiptInput) (store.Receipt, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return store.Receipt{}, f.err
	}
	return store.Receipt{ID: in.AuditID, ShipmentID: in.ShipmentID, ShipmentCode: in.ShipmentCode, Wallet: in.Wallet, TransactionHash: "0xbeef"}, nil
}

func newTestService(api *fakeBackend, runner *fakeRunner) (*ConsoleService, *store.MemoryStore) {
	history := store.NewMemoryStore()
	svc := NewConsoleService(Deps{
		API:      api,
		Sessions: session.NewStore(16, time.Hour),
		Receipts: runner,
		History:  history,
		Clock:    mockClock(),
	})
	return svc, history
}

func pharmacySession() session.Session {
	return session.Session{ID: "s1", Token: "tok", WalletAddress: "0xabc", Role: status.RolePharmacy}
}

func distributorSession() session.Session {
	return session.Session{ID: "s2", Token: "tok", WalletAddress: "0xd15", Role: status.RoleDistributor}
}
