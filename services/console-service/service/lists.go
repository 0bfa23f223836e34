package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/fetch"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
)

// Inventory returns the caller's stock lines, filtered and sorted. A newer
// inventory request from the same session cancels this one.
func (s *ConsoleService) Inventory(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedInventoryItem, error) {
	raws, err := fetch.Run(ctx, s.tracker, viewKey(sess, "inventory"), func(ctx context.Context) ([]resolver.Record, error) {
		return s.api.Inventory(ctx, sess.Token, sess.Role, sess.WalletAddress)
	})
	if err != nil {
		return nil, err
	}
	items := viewmodel.NormalizeInventory(raws, s.options(sess))
	return viewmodel.Apply(items, q)
}

// IncomingShipments lists shipments addressed to the caller.
func (s *ConsoleService) IncomingShipments(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedShipment, error) {
	return s.shipments(ctx, sess, "incoming", s.api.IncomingShipments, q)
}

// OutgoingShipments lists shipments the caller sent.
func (s *ConsoleService) OutgoingShipments(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedShipment, error) {
	return s.shipments(ctx, sess, "outgoing", s.api.OutgoingShipments, q)
}

type shipmentLister func(ctx context.Context, token, wallet string) ([]resolver.Record, error)

func (s *ConsoleService) shipments(ctx context.Context, sess session.Session, view string, list shipmentLister, q viewmodel.Query) ([]viewmodel.NormalizedShipment, error) {
	raws, err := fetch.Run(ctx, s.tracker, viewKey(sess, view), func(ctx context.Context) ([]resolver.Record, error) {
		return list(ctx, sess.Token, sess.WalletAddress)
	})
	if err != nil {
		return nil, err
	}
	rows := viewmodel.NormalizeShipments(raws, s.options(sess))
	for _, row := range rows {
		if row.ID == 0 {
			s.log.Debug("shipment without a numeric id", zap.String("view", view), zap.String("shipment_code", row.ShipmentCode))
		}
	}
	return viewmodel.Apply(rows, q)
}
