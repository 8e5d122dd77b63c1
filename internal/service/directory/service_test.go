package directory

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/repository/memory"
)

func seedDirectory(t *testing.T) (*Service, repository.ProviderRepository) {
	t.Helper()
	repo := memory.NewProviderRepository()
	ctx := context.Background()

	providers := []*model.Provider{
		{Name: "Dr. Emily Chen", Category: "Pediatrician", Role: model.RoleProvider, Specialties: pq.StringArray{"Child Care"}},
		{Name: "Dr. Marcus Webb", Category: "Neurology", Role: model.RoleProvider, Specialties: pq.StringArray{"Migraine", "Epilepsy"}},
		{Name: "Dr. Sofia Reyes", Category: "Neurology", Role: model.RoleProvider, Specialties: pq.StringArray{"Stroke Care"}},
		{Name: "Front Desk", Category: "Neurology", Role: "staff"},
	}
	for _, p := range providers {
		require.NoError(t, repo.Create(ctx, p))
	}
	return NewService(repo), repo
}

func TestFindByCategoryExactMatch(t *testing.T) {
	svc, _ := seedDirectory(t)

	found, err := svc.FindByCategory(context.Background(), "Neurology")
	require.NoError(t, err)
	require.Len(t, found, 3)
	for _, p := range found {
		assert.Equal(t, "Neurology", p.Category)
	}
}

func TestFindByCategoryNoMatch(t *testing.T) {
	svc, _ := seedDirectory(t)

	found, err := svc.FindByCategory(context.Background(), "Cardiology")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindByCategoryEmptyInput(t *testing.T) {
	svc, _ := seedDirectory(t)

	found, err := svc.FindByCategory(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindByCategoryUsesCache(t *testing.T) {
	svc, repo := seedDirectory(t)
	ctx := context.Background()

	first, err := svc.FindByCategory(ctx, "Pediatrician")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A provider added after the first lookup is invisible until the
	// cache entry is invalidated.
	require.NoError(t, repo.Create(ctx, &model.Provider{
		Name: "Dr. New Arrival", Category: "Pediatrician", Role: model.RoleProvider,
	}))

	cached, err := svc.FindByCategory(ctx, "Pediatrician")
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	svc.InvalidateCategory("Pediatrician")
	fresh, err := svc.FindByCategory(ctx, "Pediatrician")
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc, _ := seedDirectory(t)

	found, err := svc.Search(context.Background(), "emily")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dr. Emily Chen", found[0].Name)
}

func TestSearchMatchesSpecialty(t *testing.T) {
	svc, _ := seedDirectory(t)

	found, err := svc.Search(context.Background(), "migraine")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dr. Marcus Webb", found[0].Name)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	svc, _ := seedDirectory(t)

	found, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, found, 4)
}

func TestGroupByCategoryFiltersRoles(t *testing.T) {
	svc, _ := seedDirectory(t)

	all, err := svc.Search(context.Background(), "")
	require.NoError(t, err)

	grouped := svc.GroupByCategory(all)
	require.Contains(t, grouped, "Neurology")
	require.Contains(t, grouped, "Pediatrician")

	// The staff record shares the Neurology category but is excluded.
	assert.Len(t, grouped["Neurology"], 2)
	assert.Len(t, grouped["Pediatrician"], 1)
	for _, ps := range grouped {
		for _, p := range ps {
			assert.Equal(t, model.RoleProvider, p.Role)
		}
	}
}
