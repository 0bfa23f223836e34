package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/fetch"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
)

// Dashboard is the landing-page summary of one actor.
type Dashboard struct {
	StatusCounts      map[status.UIStatus]int             `json:"statusCounts"`
	TotalItems        int                                 `json:"totalItems"`
	TotalStock        int64                               `json:"totalStock"`
	TotalStockDisplay string                              `json:"totalStockDisplay"`
	TotalValue        decimal.Decimal                     `json:"totalValue"`
	TotalValueDisplay string                              `json:"totalValueDisplay"`
	LowStock          []viewmodel.NormalizedInventoryItem `json:"lowStock"`
	ExpiringSoon      []viewmodel.NormalizedInventoryItem `json:"expiringSoon"`
	IncomingCount     int                                 `json:"incomingCount"`
	AwaitingReceipt   []viewmodel.NormalizedShipment      `json:"awaitingReceipt"`
	GeneratedAt       string                              `json:"generatedAt"`
}

// Dashboard fetches inventory and incoming shipments side by side. If either
// fails the other is cancelled and the error is returned.
func (s *ConsoleService) Dashboard(ctx context.Context, sess session.Session) (Dashboard, error) {
	type both struct{ inventory, incoming []resolver.Record }

	res, err := fetch.Run(ctx, s.tracker, viewKey(sess, "dashboard"), func(ctx context.Context) (both, error) {
		var out both
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			out.inventory, err = s.api.Inventory(gctx, sess.Token, sess.Role, sess.WalletAddress)
			return err
		})
		g.Go(func() error {
			var err error
			out.incoming, err = s.api.IncomingShipments(gctx, sess.Token, sess.WalletAddress)
			return err
		})
		return out, g.Wait()
	})
	if err != nil {
		return Dashboard{}, err
	}

	opts := s.options(sess)
	items := viewmodel.NormalizeInventory(res.inventory, opts)
	shipments := viewmodel.NormalizeShipments(res.incoming, opts)
	return summarize(items, shipments, opts), nil
}

func summarize(items []viewmodel.NormalizedInventoryItem, shipments []viewmodel.NormalizedShipment, opts viewmodel.Options) Dashboard {
	d := Dashboard{
		StatusCounts:    map[status.UIStatus]int{},
		TotalItems:      len(items),
		TotalValue:      decimal.Zero,
		LowStock:        []viewmodel.NormalizedInventoryItem{},
		ExpiringSoon:    []viewmodel.NormalizedInventoryItem{},
		IncomingCount:   len(shipments),
		AwaitingReceipt: []viewmodel.NormalizedShipment{},
		GeneratedAt:     format.ISO(&opts.Now),
	}
	for _, it := range items {
		d.StatusCounts[it.Status]++
		d.TotalStock += it.CurrentStock
		d.TotalValue = d.TotalValue.Add(it.TotalValue)
		if it.IsLowStock {
			d.LowStock = append(d.LowStock, it)
		}
		if it.IsExpiringSoon {
			d.ExpiringSoon = append(d.ExpiringSoon, it)
		}
	}
	for _, sh := range shipments {
		if sh.CanConfirmReceipt {
			d.AwaitingReceipt = append(d.AwaitingReceipt, sh)
		}
	}
	sort.SliceStable(d.LowStock, func(i, j int) bool { return d.LowStock[i].CurrentStock < d.LowStock[j].CurrentStock })
	sort.SliceStable(d.ExpiringSoon, func(i, j int) bool {
		return *d.ExpiringSoon[i].DaysUntilExpiry < *d.ExpiringSoon[j].DaysUntilExpiry
	})
	d.TotalStockDisplay = format.Number(d.TotalStock)
	d.TotalValueDisplay = format.Currency(d.TotalValue)
	return d
}
