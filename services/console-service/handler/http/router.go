// handler/http/router.go
package httpServer

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/service"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
)

// Console is the slice of ConsoleService the HTTP layer needs.
type Console interface {
	Login(ctx context.Context, role, email, password string) (session.Session, error)
	Logout(id string)
	Session(id string) (session.Session, error)
	Inventory(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedInventoryItem, error)
	IncomingShipments(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedShipment, error)
	OutgoingShipments(ctx context.Context, sess session.Session, q viewmodel.Query) ([]viewmodel.NormalizedShipment, error)
	CreateShipment(ctx context.Context, sess session.Session, in service.CreateShipmentInput) (client.CreateShipmentResult, error)
	ConfirmReceipt(ctx context.Context, sess session.Session, shipmentID, notes string) (store.Receipt, error)
	VerifyBatch(ctx context.Context, sess session.Session, code string) (viewmodel.NormalizedVerification, error)
	Dashboard(ctx context.Context, sess session.Session) (service.Dashboard, error)
	Receipts(ctx context.Context, sess session.Session, limit, offset int32) ([]store.Receipt, error)
}

// Server exposes the console over JSON/HTTP.
type Server struct {
	svc Console
	log *zap.Logger
}

func NewServer(svc Console, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", s.login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authenticated)
	authed.HandleFunc("/session", s.logout).Methods(http.MethodDelete)
	authed.HandleFunc("/session", s.whoami).Methods(http.MethodGet)
	authed.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)
	authed.HandleFunc("/inventory", s.inventory).Methods(http.MethodGet)
	authed.HandleFunc("/shipments/incoming", s.incoming).Methods(http.MethodGet)
	authed.HandleFunc("/shipments/outgoing", s.outgoing).Methods(http.MethodGet)
	authed.HandleFunc("/shipments", s.createShipment).Methods(http.MethodPost)
	authed.HandleFunc("/shipments/{id}/receive", s.receive).Methods(http.MethodPost)
	authed.HandleFunc("/batches/{code}/verify", s.verify).Methods(http.MethodGet)
	authed.HandleFunc("/receipts", s.receipts).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	return r
}
