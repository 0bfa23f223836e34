package httpServer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/service"
)

type loginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type receiveRequest struct {
	Notes string `json:"notes"`
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", service.ErrValidation)
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.svc.Login(r.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, sess)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	s.svc.Logout(sess.ID)
	s.ok(w, http.StatusOK, nil)
}

func (s *Server) whoami(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	s.ok(w, http.StatusOK, sess)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	d, err := s.svc.Dashboard(r.Context(), sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, d)
}

func (s *Server) inventory(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	q, err := viewmodel.ParseQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, err := s.svc.Inventory(r.Context(), sess, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, items)
}

func (s *Server) incoming(w http.ResponseWriter, r *http.Request) {
	s.listShipments(w, r, s.svc.IncomingShipments)
}

func (s *Server) outgoing(w http.ResponseWriter, r *http.Request) {
	s.listShipments(w, r, s.svc.OutgoingShipments)
}

func (s *Server) listShipments(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedShipment, error)) {
	sess, _ := session.FromContext(r.Context())
	q, err := viewmodel.ParseQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := list(r.Context(), sess, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, rows)
}

func (s *Server) createShipment(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	var in service.CreateShipmentInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.CreateShipment(r.Context(), sess, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, res)
}

func (s *Server) receive(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	var req receiveRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	receipt, err := s.svc.ConfirmReceipt(r.Context(), sess, mux.Vars(r)["id"], req.Notes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, receipt)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	v, err := s.svc.VerifyBatch(r.Context(), sess, mux.Vars(r)["code"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, v)
}

func (s *Server) receipts(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 32)
	rows, err := s.svc.Receipts(r.Context(), sess, int32(limit), int32(offset))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, rows)
}
