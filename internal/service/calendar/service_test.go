package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/repository/memory"
)

func newTestCalendar(t *testing.T) (*Service, repository.SlotRepository) {
	t.Helper()
	repo := memory.NewSlotRepository()
	return NewService(repo), repo
}

func createSlot(t *testing.T, repo repository.SlotRepository, providerID uuid.UUID, day int, startTime string) *model.Slot {
	t.Helper()
	slot := &model.Slot{
		ProviderID: providerID,
		Day:        day,
		StartTime:  startTime,
	}
	require.NoError(t, repo.Create(context.Background(), slot))
	return slot
}

func TestSlotsForOrdersByTime(t *testing.T) {
	svc, repo := newTestCalendar(t)
	providerID := uuid.New()

	createSlot(t, repo, providerID, 16, "15:00")
	createSlot(t, repo, providerID, 16, "09:00")
	createSlot(t, repo, providerID, 16, "11:30")
	createSlot(t, repo, providerID, 17, "08:00")

	slots, err := svc.SlotsFor(context.Background(), providerID, 16)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "11:30", slots[1].StartTime)
	assert.Equal(t, "15:00", slots[2].StartTime)
}

func TestSlotsForEmptyDay(t *testing.T) {
	svc, _ := newTestCalendar(t)

	slots, err := svc.SlotsFor(context.Background(), uuid.New(), 16)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForInvalidDay(t *testing.T) {
	svc, _ := newTestCalendar(t)

	_, err := svc.SlotsFor(context.Background(), uuid.New(), 0)
	assert.Error(t, err)

	_, err = svc.SlotsFor(context.Background(), uuid.New(), 32)
	assert.Error(t, err)
}

func TestReserveFlipsSlot(t *testing.T) {
	svc, repo := newTestCalendar(t)
	slot := createSlot(t, repo, uuid.New(), 16, "10:00")

	reserved, err := svc.Reserve(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotReserved, reserved.Status)
	assert.False(t, svc.IsOpen(reserved))
	assert.Equal(t, slot.Day, reserved.Day)
	assert.Equal(t, slot.StartTime, reserved.StartTime)
	assert.Equal(t, slot.ProviderID, reserved.ProviderID)
}

func TestReserveTwiceFails(t *testing.T) {
	svc, repo := newTestCalendar(t)
	slot := createSlot(t, repo, uuid.New(), 16, "10:00")

	_, err := svc.Reserve(context.Background(), slot.ID)
	require.NoError(t, err)

	_, err = svc.Reserve(context.Background(), slot.ID)
	assert.True(t, errors.Is(err, model.ErrSlotUnavailable))
}

func TestReserveMissingSlot(t *testing.T) {
	svc, _ := newTestCalendar(t)

	_, err := svc.Reserve(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, model.ErrSlotUnavailable))
}

func TestReleaseRestoresSlot(t *testing.T) {
	svc, repo := newTestCalendar(t)
	slot := createSlot(t, repo, uuid.New(), 16, "10:00")

	_, err := svc.Reserve(context.Background(), slot.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Release(context.Background(), slot.ID))

	restored, err := repo.Get(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotOpen, restored.Status)
	assert.Equal(t, slot.Day, restored.Day)
	assert.Equal(t, slot.StartTime, restored.StartTime)
	assert.Equal(t, slot.ProviderID, restored.ProviderID)

	// The slot is bookable again after release.
	_, err = svc.Reserve(context.Background(), slot.ID)
	assert.NoError(t, err)
}

func TestDoubleReleaseFails(t *testing.T) {
	svc, repo := newTestCalendar(t)
	slot := createSlot(t, repo, uuid.New(), 16, "10:00")

	_, err := svc.Reserve(context.Background(), slot.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Release(context.Background(), slot.ID))

	err = svc.Release(context.Background(), slot.ID)
	assert.True(t, errors.Is(err, model.ErrInvalidState))
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	svc, repo := newTestCalendar(t)
	slot := createSlot(t, repo, uuid.New(), 16, "10:00")

	const n = 50
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.Reserve(context.Background(), slot.ID)
			results <- err
		}()
	}

	var wins, conflicts int
	for i := 0; i < n; i++ {
		err := <-results
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrSlotUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, conflicts)
}
