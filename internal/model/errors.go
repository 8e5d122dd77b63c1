package model

import "errors"

// Domain errors are recoverable and caller-visible. The handler layer maps
// them to HTTP status codes; services return them unwrapped so callers can
// match with errors.Is.
var (
	ErrProviderNotFound    = errors.New("provider not found")
	ErrSlotUnavailable     = errors.New("slot unavailable")
	ErrSpecialtyNotOffered = errors.New("specialty not offered by provider")
	ErrSlotMismatch        = errors.New("slot does not belong to provider or is not reserved")
	ErrIllegalTransition   = errors.New("illegal appointment status transition")
	ErrInvalidState        = errors.New("invalid slot state")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrConsumerNotFound    = errors.New("consumer not found")
)
