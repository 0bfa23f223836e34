package service

import "errors"

var (
	ErrValidation       = errors.New("invalid request")
	ErrInvalidRole      = errors.New("unknown role")
	ErrRoleNotAllowed   = errors.New("action not available for this role")
	ErrShipmentNotFound = errors.New("shipment not found among your incoming shipments")
	ErrNotConfirmable   = errors.New("shipment is not awaiting receipt")
)
