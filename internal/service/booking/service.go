package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/calendar"
	"github.com/medibook/booking-api/internal/service/directory"
	"github.com/medibook/booking-api/internal/service/ledger"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/metrics"
)

// Service orchestrates booking and rescheduling. It owns no state of its
// own: the calendar's atomic reserve is what makes concurrent bookings of
// the same slot resolve to exactly one winner, and every multi-step path
// compensates on failure so callers never observe a half-applied booking.
type Service struct {
	directory *directory.Service
	calendar  *calendar.Service
	ledger    *ledger.Service
	metrics   *metrics.Metrics
}

func NewService(dir *directory.Service, cal *calendar.Service, led *ledger.Service, m *metrics.Metrics) *Service {
	return &Service{
		directory: dir,
		calendar:  cal,
		ledger:    led,
		metrics:   m,
	}
}

// Book reserves the slot for (provider, day, time) and writes the
// appointment record. Failure order matches what the caller can act on:
// unknown provider, unoffered specialty, then slot contention.
func (s *Service) Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid provider ID", err)
	}

	provider, err := s.directory.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if !provider.OffersSpecialty(req.Specialty) {
		return nil, model.ErrSpecialtyNotOffered
	}

	slot, err := s.calendar.Find(ctx, providerID, req.Day, req.StartTime)
	if err != nil {
		return nil, err
	}

	reserved, err := s.calendar.Reserve(ctx, slot.ID)
	if err != nil {
		if errors.Is(err, model.ErrSlotUnavailable) && s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	appointment, err := s.ledger.Create(ctx, providerID, reserved, req.ConsumerID, req.Specialty, req.SessionType)
	if err != nil {
		// Roll back the reservation so the slot is not stranded.
		if relErr := s.calendar.Release(ctx, reserved.ID); relErr != nil {
			log.Error().Err(relErr).
				Str("slot_id", reserved.ID.String()).
				Msg("failed to release slot after booking failure")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.Inc()
	}
	return appointment, nil
}

// Reschedule moves an appointment to a new (day, time). The new slot is
// reserved before the old one is released, so a failed reserve never
// leaves the consumer without any held slot.
func (s *Service) Reschedule(ctx context.Context, appointmentID uuid.UUID, req *model.RescheduleRequest) (*model.Appointment, error) {
	appointment, err := s.ledger.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, model.ErrIllegalTransition
	}

	newSlot, err := s.calendar.Find(ctx, appointment.ProviderID, req.Day, req.StartTime)
	if err != nil {
		return nil, err
	}

	reserved, err := s.calendar.Reserve(ctx, newSlot.ID)
	if err != nil {
		if errors.Is(err, model.ErrSlotUnavailable) && s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	updated, err := s.ledger.RescheduleTo(ctx, appointmentID, reserved)
	if err != nil {
		if relErr := s.calendar.Release(ctx, reserved.ID); relErr != nil {
			log.Error().Err(relErr).
				Str("slot_id", reserved.ID.String()).
				Msg("failed to release slot after reschedule failure")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ReschedulesTotal.Inc()
	}
	return updated, nil
}

// Cancel cancels the appointment and releases its slot.
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.ledger.Cancel(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CancellationsTotal.Inc()
	}
	return appointment, nil
}

// Confirm moves an unconfirmed appointment to scheduled.
func (s *Service) Confirm(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error) {
	return s.ledger.Transition(ctx, appointmentID, model.AppointmentStatusScheduled)
}
