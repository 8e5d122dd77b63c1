package calendar

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// Service manages per-provider availability. Reserve is the only mutation
// that races: the repository implements it as an atomic check-and-set, so
// exactly one concurrent caller wins a slot and the rest see
// ErrSlotUnavailable. There is no cross-slot locking; operations on
// distinct slots proceed independently.
type Service struct {
	repo repository.SlotRepository
}

func NewService(repo repository.SlotRepository) *Service {
	return &Service{repo: repo}
}

// SlotsFor lists a provider's slots on a day, ordered by time ascending.
// A day with no configured slots yields an empty slice; the distinction
// between "fully booked" and "never configured" is a UI concern.
func (s *Service) SlotsFor(ctx context.Context, providerID uuid.UUID, day int) ([]*model.Slot, error) {
	if err := model.ValidateDay(day); err != nil {
		return nil, apperrors.BadRequest("invalid day", err)
	}

	slots, err := s.repo.ListForDay(ctx, providerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// Find locates the slot for an exact (provider, day, time) key.
func (s *Service) Find(ctx context.Context, providerID uuid.UUID, day int, startTime string) (*model.Slot, error) {
	if err := model.ValidateDay(day); err != nil {
		return nil, apperrors.BadRequest("invalid day", err)
	}
	if _, err := model.MinuteOfDay(startTime); err != nil {
		return nil, apperrors.BadRequest("invalid start time", err)
	}
	return s.repo.Find(ctx, providerID, day, startTime)
}

// IsOpen reports whether the slot is currently open.
func (s *Service) IsOpen(slot *model.Slot) bool {
	return slot != nil && slot.IsOpen()
}

// Reserve flips an open slot to reserved and returns its current state.
// Fails with ErrSlotUnavailable when the slot is missing or already held.
func (s *Service) Reserve(ctx context.Context, slotID uuid.UUID) (*model.Slot, error) {
	if err := s.repo.Reserve(ctx, slotID); err != nil {
		return nil, err
	}

	slot, err := s.repo.Get(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reserved slot: %w", err)
	}
	return slot, nil
}

// Release returns a reserved slot to open. A double release surfaces as
// ErrInvalidState rather than being silently ignored.
func (s *Service) Release(ctx context.Context, slotID uuid.UUID) error {
	return s.repo.Release(ctx, slotID)
}
