// service/console.service.go
package service

import (
	"context"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/fetch"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/workflow"
)

// Backend is the part of the supply-chain API the console uses.
type Backend interface {
	Login(ctx context.Context, role status.Role, email, password string) (client.LoginResult, error)
	Inventory(ctx context.Context, token string, role status.Role, wallet string) ([]resolver.Record, error)
	IncomingShipments(ctx context.Context, token, wallet string) ([]resolver.Record, error)
	OutgoingShipments(ctx context.Context, token, wallet string) ([]resolver.Record, error)
	CreateShipment(ctx context.Context, token string, req client.CreateShipmentRequest) (client.CreateShipmentResult, error)
	VerifyBatch(ctx context.Context, token, batchCode string) (resolver.Record, error)
}

// ConsoleService is what every SPA screen calls. Each method takes the
// caller's session explicitly and returns finished view models.
type ConsoleService struct {
	api      Backend
	sessions *session.Store
	tracker  *fetch.Tracker
	receipts workflow.Runner
	history  store.ReceiptStore
	clock    clock.Clock
	policy   status.Policy
	log      *zap.Logger
}

// Deps groups the collaborators of ConsoleService.
type Deps struct {
	API      Backend
	Sessions *session.Store
	Receipts workflow.Runner
	History  store.ReceiptStore
	Clock    clock.Clock
	Policy   status.Policy
	Logger   *zap.Logger
}

func NewConsoleService(d Deps) *ConsoleService {
	if d.Clock == nil {
		d.Clock = clock.New()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Policy == (status.Policy{}) {
		d.Policy = status.DefaultPolicy()
	}
	return &ConsoleService{
		api:      d.API,
		sessions: d.Sessions,
		tracker:  fetch.NewTracker(),
		receipts: d.Receipts,
		history:  d.History,
		clock:    d.Clock,
		policy:   d.Policy,
		log:      d.Logger,
	}
}

// options binds the view-model builder to the caller and the current time.
func (s *ConsoleService) options(sess session.Session) viewmodel.Options {
	return viewmodel.Options{
		Role:        sess.Role,
		ActorWallet: sess.WalletAddress,
		Now:         s.clock.Now(),
		Policy:      s.policy,
	}
}

func viewKey(sess session.Session, view string) string {
	return sess.ID + ":" + view
}
