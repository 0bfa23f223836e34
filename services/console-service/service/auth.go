package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/status"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
)

// Login authenticates against the backend and opens a console session.
func (s *ConsoleService) Login(ctx context.Context, role, email, password string) (session.Session, error) {
	r, ok := status.ParseRole(role)
	if !ok {
		return session.Session{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return session.Session{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	res, err := s.api.Login(ctx, r, strings.TrimSpace(email), password)
	if err != nil {
		return session.Session{}, err
	}
	wallet := session.WalletFromUser(res.User)
	if wallet == "" {
		return session.Session{}, session.ErrNoWallet
	}

	sess := s.sessions.Create(session.Session{
		Token:         res.BearerToken(),
		WalletAddress: wallet,
		Role:          r,
		User:          res.User,
		CreatedAt:     s.clock.Now().UTC(),
	})
	s.log.Info("session opened", zap.String("session_id", sess.ID), zap.String("role", string(r)))
	return sess, nil
}

// Logout closes the session. Closing an unknown session is fine.
func (s *ConsoleService) Logout(id string) {
	s.sessions.Delete(id)
}

// Session resolves a session id.
func (s *ConsoleService) Session(id string) (session.Session, error) {
	return s.sessions.Get(id)
}
