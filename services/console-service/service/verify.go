package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
)

// VerifyBatch looks a batch code up on chain and normalizes the answer.
func (s *ConsoleService) VerifyBatch(ctx context.Context, sess session.Session, code string) (viewmodel.NormalizedVerification, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return viewmodel.NormalizedVerification{}, fmt.Errorf("%w: batch code is required", ErrValidation)
	}
	raw, err := s.api.VerifyBatch(ctx, sess.Token, code)
	if err != nil {
		return viewmodel.NormalizedVerification{}, err
	}
	v := viewmodel.NormalizeVerification(raw, s.options(sess))
	if v.Batch != nil && v.Batch.QuantityClamped {
		s.log.Warn("batch reports more available than produced; clamped",
			zap.String("batch_id", v.Batch.BatchID), zap.Int64("quantity", v.Batch.Quantity))
	}
	return v, nil
}
