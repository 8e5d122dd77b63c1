package handler

import (
	"errors"
	"net/http"

	"github.com/medibook/booking-api/internal/model"
	authservice "github.com/medibook/booking-api/internal/service/auth"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusForError maps domain errors to HTTP status codes. Slot contention
// and state machine violations are conflicts the client can recover from
// by choosing another slot; they are never 500s.
func StatusForError(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrNotFound:
			return http.StatusNotFound
		case apperrors.ErrBadRequest:
			return http.StatusBadRequest
		case apperrors.ErrUnauthorized:
			return http.StatusUnauthorized
		case apperrors.ErrConflict:
			return http.StatusConflict
		case apperrors.ErrUnprocessable:
			return http.StatusUnprocessableEntity
		}
	}

	switch {
	case errors.Is(err, model.ErrProviderNotFound),
		errors.Is(err, model.ErrAppointmentNotFound),
		errors.Is(err, model.ErrConsumerNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSlotUnavailable),
		errors.Is(err, model.ErrIllegalTransition),
		errors.Is(err, model.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, model.ErrSpecialtyNotOffered),
		errors.Is(err, model.ErrSlotMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
