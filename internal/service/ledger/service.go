package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/service/calendar"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// Service owns appointment records and their status transitions. Slot
// release and reserve are delegated to the calendar; the ledger never
// touches slot state directly except through it.
type Service struct {
	repo     repository.AppointmentRepository
	calendar *calendar.Service
	outbox   repository.OutboxRepository
}

func NewService(repo repository.AppointmentRepository, cal *calendar.Service, outbox repository.OutboxRepository) *Service {
	return &Service{
		repo:     repo,
		calendar: cal,
		outbox:   outbox,
	}
}

// Create records a new appointment against an already-reserved slot. The
// coordinator reserves first; a slot that is still open, or that belongs
// to a different provider, is a SlotMismatch.
func (s *Service) Create(ctx context.Context, providerID uuid.UUID, slot *model.Slot, consumerID, specialty string, sessionType model.SessionType) (*model.Appointment, error) {
	if slot == nil || slot.ProviderID != providerID || slot.Status != model.SlotReserved {
		return nil, model.ErrSlotMismatch
	}
	if !model.ValidSessionType(sessionType) {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid session type %q", sessionType), nil)
	}

	appointment := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		ProviderID:  providerID,
		SlotID:      slot.ID,
		ConsumerID:  consumerID,
		Specialty:   specialty,
		SessionType: sessionType,
		Status:      model.AppointmentStatusUnconfirmed,
		Day:         slot.Day,
		StartTime:   slot.StartTime,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentBooked, appointment)
	return appointment, nil
}

// Get retrieves an appointment by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Transition moves an appointment along the status graph. Rescheduling
// carries a new slot and goes through RescheduleTo instead; requesting it
// here without one is an invalid state, not an illegal edge.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus model.AppointmentStatus) (*model.Appointment, error) {
	if !model.ValidStatus(newStatus) {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown appointment status %q", newStatus), nil)
	}
	if newStatus == model.AppointmentStatusRescheduled {
		return nil, fmt.Errorf("%w: reschedule requires a new slot", model.ErrInvalidState)
	}

	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(appointment.Status, newStatus) {
		return nil, model.ErrIllegalTransition
	}

	// Write the status before touching the slot. A failed update then
	// leaves both the record and the slot exactly as they were; a stuck
	// reserved slot after a committed cancel is operator-recoverable,
	// the same trade RescheduleTo makes.
	appointment.Status = newStatus
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if newStatus == model.AppointmentStatusCancelled {
		if err := s.calendar.Release(ctx, appointment.SlotID); err != nil {
			log.Error().Err(err).
				Str("appointment_id", id.String()).
				Str("slot_id", appointment.SlotID.String()).
				Msg("failed to release slot after cancel")
		}
	}

	s.emitEvent(ctx, eventTypeFor(newStatus), appointment)
	return appointment, nil
}

// RescheduleTo repoints an appointment at an already-reserved new slot and
// releases the old one. The coordinator reserves the new slot before
// calling, so a failure here never leaves the consumer without a held
// slot; it compensates by releasing whichever slot it no longer needs.
func (s *Service) RescheduleTo(ctx context.Context, id uuid.UUID, newSlot *model.Slot) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if newSlot == nil || newSlot.ProviderID != appointment.ProviderID || newSlot.Status != model.SlotReserved {
		return nil, model.ErrSlotMismatch
	}
	if !model.CanTransition(appointment.Status, model.AppointmentStatusRescheduled) {
		return nil, model.ErrIllegalTransition
	}

	oldSlotID := appointment.SlotID
	appointment.SlotID = newSlot.ID
	appointment.Day = newSlot.Day
	appointment.StartTime = newSlot.StartTime
	appointment.Status = model.AppointmentStatusRescheduled

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if err := s.calendar.Release(ctx, oldSlotID); err != nil {
		// The appointment already points at the new slot; a stuck old
		// slot is recoverable by an operator, losing the update is not.
		log.Error().Err(err).
			Str("appointment_id", id.String()).
			Str("slot_id", oldSlotID.String()).
			Msg("failed to release old slot after reschedule")
	}

	s.emitEvent(ctx, model.EventAppointmentRescheduled, appointment)
	return appointment, nil
}

// Cancel transitions the appointment to Cancelled and releases its slot.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.Transition(ctx, id, model.AppointmentStatusCancelled)
}

// ListForConsumer returns a consumer's appointments ordered by (day, time).
func (s *Service) ListForConsumer(ctx context.Context, consumerID string) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListForConsumer(ctx, consumerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListForProvider returns a provider's appointments ordered by (day, time).
func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListForProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) emitEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	payload, err := json.Marshal(model.AppointmentEvent{
		AppointmentID: appointment.ID,
		ProviderID:    appointment.ProviderID,
		ConsumerID:    appointment.ConsumerID,
		Status:        appointment.Status,
		Day:           appointment.Day,
		StartTime:     appointment.StartTime,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal appointment event")
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		log.Error().Err(err).
			Str("event_type", eventType).
			Str("appointment_id", appointment.ID.String()).
			Msg("failed to write outbox event")
	}
}

func eventTypeFor(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusScheduled:
		return model.EventAppointmentConfirmed
	case model.AppointmentStatusRescheduled:
		return model.EventAppointmentRescheduled
	case model.AppointmentStatusCancelled:
		return model.EventAppointmentCancelled
	default:
		return model.EventAppointmentBooked
	}
}
