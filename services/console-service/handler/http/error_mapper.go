package httpServer

import (
	stdErrors "errors"
	"net/http"

	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	"github.com/Tanmoy095/PharmaTrace/pkg/viewmodel"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/fetch"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/internal/session"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/service"
)

// mapError turns a service error into an HTTP status and a message safe to
// show in the console. Backend messages pass through; anything unexpected
// is flattened to a generic message.
func mapError(err error) (int, string) {
	switch {
	case stdErrors.Is(err, service.ErrValidation),
		stdErrors.Is(err, service.ErrInvalidRole),
		stdErrors.Is(err, viewmodel.ErrUnknownStatus),
		stdErrors.Is(err, viewmodel.ErrUnknownSortField),
		stdErrors.Is(err, viewmodel.ErrBadSortOrder):
		return http.StatusBadRequest, err.Error()
	case stdErrors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized, "Phiên đăng nhập đã hết hạn"
	case stdErrors.Is(err, session.ErrNoWallet):
		return http.StatusForbidden, err.Error()
	case stdErrors.Is(err, ownership.ErrNotRecipient):
		return http.StatusForbidden, "Bạn không phải người nhận của lô hàng này"
	case stdErrors.Is(err, service.ErrRoleNotAllowed):
		return http.StatusForbidden, err.Error()
	case stdErrors.Is(err, service.ErrShipmentNotFound):
		return http.StatusNotFound, err.Error()
	case stdErrors.Is(err, service.ErrNotConfirmable),
		stdErrors.Is(err, fetch.ErrSuperseded):
		return http.StatusConflict, err.Error()
	case stdErrors.Is(err, client.ErrUnauthorized):
		return http.StatusUnauthorized, client.Message(err)
	case stdErrors.Is(err, client.ErrBusiness):
		return http.StatusUnprocessableEntity, client.Message(err)
	case stdErrors.Is(err, client.ErrNetwork):
		return http.StatusBadGateway, client.Message(err)
	}
	return http.StatusInternalServerError, "internal error"
}
