package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/policy"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
)

// CreateShipmentInput is what the create-shipment form posts.
type CreateShipmentInput struct {
	BatchID              string `json:"batchId"`
	ToAddress            string `json:"toAddress"`
	Quantity             int64  `json:"quantity"`
	ExpectedDeliveryDate string `json:"expectedDeliveryDate"`
	TransportMethod      string `json:"transportMethod"`
	Notes                string `json:"notes"`
}

// Validate checks the form against the sender and today's date.
func (in CreateShipmentInput) Validate(sender string, now time.Time) error {
	var problems []string
	if strings.TrimSpace(in.BatchID) == "" {
		problems = append(problems, "batchId is required")
	}
	if strings.TrimSpace(in.ToAddress) == "" {
		problems = append(problems, "toAddress is required")
	} else if ownership.SameWallet(in.ToAddress, sender) {
		problems = append(problems, "cannot ship to your own wallet")
	}
	if in.Quantity <= 0 {
		problems = append(problems, "quantity must be positive")
	}
	if d := strings.TrimSpace(in.ExpectedDeliveryDate); d != "" {
		t, ok := resolver.AsTime(d)
		if !ok {
			problems = append(problems, "expectedDeliveryDate is not a date")
		} else if t.Before(startOfDay(now)) {
			problems = append(problems, "expectedDeliveryDate is in the past")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	l := t.In(format.Vietnam)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, format.Vietnam)
}

// CreateShipment sends a batch to another actor. Pharmacies are the end of
// the chain and cannot ship.
func (s *ConsoleService) CreateShipment(ctx context.Context, sess session.Session, in CreateShipmentInput) (client.CreateShipmentResult, error) {
	if !policy.Allows(sess.Role, policy.CreateShipment) {
		return client.CreateShipmentResult{}, ErrRoleNotAllowed
	}
	if err := in.Validate(sess.WalletAddress, s.clock.Now()); err != nil {
		return client.CreateShipmentResult{}, err
	}
	res, err := s.api.CreateShipment(ctx, sess.Token, client.CreateShipmentRequest{
		BatchID:              strings.TrimSpace(in.BatchID),
		ToAddress:            strings.TrimSpace(in.ToAddress),
		Quantity:             in.Quantity,
		ExpectedDeliveryDate: strings.TrimSpace(in.ExpectedDeliveryDate),
		TransportMethod:      in.TransportMethod,
		Notes:                in.Notes,
	})
	if err != nil {
		return client.CreateShipmentResult{}, err
	}
	s.log.Info("shipment created", zap.String("tracking_code", res.TrackingCode), zap.String("session_id", sess.ID))
	return res, nil
}
