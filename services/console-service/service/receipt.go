package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/policy"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
)

// ConfirmReceipt confirms that the caller received shipmentID. The shipment
// must be among the caller's incoming shipments and addressed to their
// wallet; the ownership check here is advisory and the backend repeats it.
func (s *ConsoleService) ConfirmReceipt(ctx context.Context, sess session.Session, shipmentID, notes string) (store.Receipt, error) {
	if !policy.Allows(sess.Role, policy.ConfirmReceipt) {
		return store.Receipt{}, ErrRoleNotAllowed
	}
	raws, err := s.api.IncomingShipments(ctx, sess.Token, sess.WalletAddress)
	if err != nil {
		return store.Receipt{}, err
	}

	opts := s.options(sess)
	var (
		found bool
		vm    viewmodel.NormalizedShipment
	)
	for _, raw := range raws {
		cand := viewmodel.NormalizeShipment(raw, opts)
		if matchesShipment(cand, shipmentID) {
			vm, found = cand, true
			break
		}
	}
	if !found {
		return store.Receipt{}, ErrShipmentNotFound
	}
	if !vm.IsRecipient {
		s.log.Warn("receipt blocked: wallet mismatch",
			zap.String("shipment_code", vm.ShipmentCode), zap.String("session_id", sess.ID))
		return store.Receipt{}, ownership.ErrNotRecipient
	}
	if !vm.CanConfirmReceipt {
		return store.Receipt{}, ErrNotConfirmable
	}

	backendID := vm.ShipmentID
	if vm.ID > 0 {
		backendID = strconv.FormatInt(vm.ID, 10)
	}
	receipt, err := s.receipts.ConfirmReceipt(ctx, activities.ReceiptInput{
		AuditID:      uuid.NewString(),
		ShipmentID:   backendID,
		ShipmentCode: vm.ShipmentCode,
		BatchID:      vm.BatchID,
		DrugName:     vm.DrugName,
		Quantity:     vm.Quantity,
		ToAddress:    vm.ToAddress,
		Wallet:       sess.WalletAddress,
		Role:         string(sess.Role),
		Token:        sess.Token,
		Notes:        notes,
	})
	if err != nil {
		return store.Receipt{}, err
	}
	s.log.Info("receipt confirmed", zap.String("audit_id", receipt.ID),
		zap.String("shipment_code", receipt.ShipmentCode), zap.String("tx", receipt.TransactionHash))
	return receipt, nil
}

// matchesShipment accepts any identifier the SPA may hold for a row.
func matchesShipment(vm viewmodel.NormalizedShipment, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if vm.ID > 0 && strconv.FormatInt(vm.ID, 10) == id {
		return true
	}
	return id == vm.ShipmentID || strings.EqualFold(id, vm.ShipmentCode)
}

// Receipts lists the caller's confirmed receipts, newest first.
func (s *ConsoleService) Receipts(ctx context.Context, sess session.Session, limit, offset int32) ([]store.Receipt, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.history.ListReceipts(ctx, sess.WalletAddress, limit, offset)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.Receipt{}
	}
	return rows, nil
}
