// internal/scanner/scanner.go
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/alert-service/config"
	"github.com/Tanmoy095/PharmaTrace/shared/contracts"
)

// InventoryAPI fetches a raw inventory listing.
type InventoryAPI interface {
	Inventory(ctx context.Context, token string, role status.Role, wallet string) ([]resolver.Record, error)
}

// Queue accepts alert jobs.
type Queue interface {
	PublishJSON(ctx context.Context, queueName string, v any) error
}

// Scanner walks the watched inventories and enqueues one job per alerting
// condition. A condition already reported inside the dedup window is not
// enqueued again.
type Scanner struct {
	api    InventoryAPI
	queue  Queue
	token  string
	watch  []config.Target
	policy status.Policy
	clock  clock.Clock
	seen   *expirable.LRU[string, struct{}]
	log    *zap.Logger
}

type Options struct {
	Token    string
	Watch    []config.Target
	Policy   status.Policy
	Clock    clock.Clock
	DedupTTL time.Duration
	Logger   *zap.Logger
}

func New(api InventoryAPI, queue Queue, opts Options) *Scanner {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DedupTTL <= 0 {
		opts.DedupTTL = 24 * time.Hour
	}
	return &Scanner{
		api:    api,
		queue:  queue,
		token:  opts.Token,
		watch:  opts.Watch,
		policy: opts.Policy,
		clock:  opts.Clock,
		seen:   expirable.NewLRU[string, struct{}](8192, nil, opts.DedupTTL),
		log:    opts.Logger,
	}
}

// Scan runs one pass over every target. A failing target does not stop the
// others; all failures are returned together.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, t := range s.watch {
		n, err := s.scanTarget(ctx, t)
		sent += n
		if err != nil {
			s.log.Warn("inventory scan failed", zap.String("wallet", t.Wallet), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s %s: %w", t.Role, t.Wallet, err))
		}
	}
	s.log.Info("inventory scan finished", zap.Int("targets", len(s.watch)), zap.Int("alerts", sent))
	return sent, errors.Join(errs...)
}

func (s *Scanner) scanTarget(ctx context.Context, t config.Target) (int, error) {
	raws, err := s.api.Inventory(ctx, s.token, t.Role, t.Wallet)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	items := viewmodel.NormalizeInventory(raws, viewmodel.Options{
		Role:        t.Role,
		ActorWallet: t.Wallet,
		Now:         now,
		Policy:      s.policy,
	})

	sent := 0
	for _, it := range items {
		for _, job := range Jobs(it, t, now) {
			key := dedupKey(job, it, now)
			if s.seen.Contains(key) {
				continue
			}
			if err := s.queue.PublishJSON(ctx, contracts.QueueInventoryAlerts, job); err != nil {
				return sent, err
			}
			s.seen.Add(key, struct{}{})
			sent++
		}
	}
	return sent, nil
}

// Jobs lists the alerts one stock line raises. Stock and expiry alerts are
// independent: a line can be both low and expiring.
func Jobs(it viewmodel.NormalizedInventoryItem, t config.Target, now time.Time) []contracts.AlertJob {
	base := contracts.AlertJob{
		Role:            string(t.Role),
		Wallet:          t.Wallet,
		DrugName:        it.DrugName,
		BatchNumber:     it.BatchNumber,
		CurrentStock:    it.CurrentStock,
		MinStock:        it.MinStock,
		DaysUntilExpiry: it.DaysUntilExpiry,
		CreatedAt:       now.UTC(),
	}
	var out []contracts.AlertJob
	add := func(kind contracts.AlertKind, msg string) {
		j := base
		j.ID = uuid.NewString()
		j.Kind = kind
		j.Message = msg
		out = append(out, j)
	}

	switch {
	case it.CurrentStock <= 0:
		add(contracts.AlertOutOfStock, fmt.Sprintf("%s (%s) đã hết hàng", it.DrugName, it.BatchNumber))
	case it.IsLowStock:
		add(contracts.AlertLowStock, fmt.Sprintf("%s (%s) còn %s, dưới mức tối thiểu %s",
			it.DrugName, it.BatchNumber, format.Number(it.CurrentStock), format.Number(it.MinStock)))
	}
	if it.IsExpiringSoon {
		add(contracts.AlertExpiringSoon, fmt.Sprintf("%s (%s) hết hạn sau %d ngày (%s)",
			it.DrugName, it.BatchNumber, *it.DaysUntilExpiry, it.ExpiryDateDisplay))
	}
	return out
}

// dedupKey identifies one condition on one line for one day.
func dedupKey(j contracts.AlertJob, it viewmodel.NormalizedInventoryItem, now time.Time) string {
	line := it.ID
	if line == format.NotAvailable {
		line = it.BatchID + "/" + it.BatchNumber + "/" + it.DrugName
	}
	return fmt.Sprintf("%s|%s|%s|%s", j.Wallet, line, j.Kind, now.In(format.Vietnam).Format("2006-01-02"))
}
