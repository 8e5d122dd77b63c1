// Seeds demo providers, slots and consumers into postgres so the API can
// be exercised locally.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/postgres"
	"github.com/medibook/booking-api/pkg/security"
)

type seedProvider struct {
	name        string
	category    string
	specialties []string
	fee         float64
	rating      float64
	reviews     int
	location    string
	years       int
}

var providers = []seedProvider{
	{"Dr. Emily Chen", "Pediatrician", []string{"Child Care", "Vaccination", "Nutrition"}, 120, 4.9, 182, "Downtown Clinic", 12},
	{"Dr. Marcus Webb", "Neurology", []string{"Migraine", "Epilepsy"}, 200, 4.7, 94, "Riverside Medical Center", 18},
	{"Dr. Sofia Reyes", "Dermatology", []string{"Acne Treatment", "Skin Cancer Screening"}, 150, 4.8, 240, "Lakeview Practice", 9},
	{"Dr. James Okafor", "Cardiology", []string{"Hypertension", "Heart Failure"}, 220, 4.6, 130, "Central Hospital", 21},
	{"Dr. Hana Suzuki", "General Practice", []string{"Checkup", "Chronic Care"}, 90, 4.5, 310, "Eastside Family Health", 7},
}

var slotTimes = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	providerRepo := postgres.NewProviderRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	consumerRepo := postgres.NewConsumerRepository(db)

	for _, sp := range providers {
		rating := sp.rating
		reviews := sp.reviews
		years := sp.years
		p := &model.Provider{
			Name:            sp.name,
			Category:        sp.category,
			Specialties:     pq.StringArray(sp.specialties),
			Role:            model.RoleProvider,
			Fee:             sp.fee,
			Rating:          &rating,
			ReviewCount:     &reviews,
			Location:        sp.location,
			YearsExperience: &years,
		}
		if err := providerRepo.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("provider", sp.name).Msg("failed to seed provider")
		}

		for day := 15; day <= 21; day++ {
			for _, t := range slotTimes {
				slot := &model.Slot{
					ProviderID: p.ID,
					Day:        day,
					StartTime:  t,
					Status:     model.SlotOpen,
				}
				if err := slotRepo.Create(ctx, slot); err != nil {
					log.Fatal().Err(err).Str("provider", sp.name).Msg("failed to seed slot")
				}
			}
		}
		log.Info().Str("provider", sp.name).Msg("seeded provider")
	}

	hasher := security.NewBcryptHasher(0)
	hash, err := hasher.Hash("demo-password")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash demo password")
	}

	for i := 1; i <= 3; i++ {
		email := fmt.Sprintf("demo%d@medibook.local", i)
		consumer := &model.Consumer{
			Email:        email,
			Name:         fmt.Sprintf("Demo Consumer %d", i),
			PasswordHash: hash,
		}
		if err := consumerRepo.Create(ctx, consumer); err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("failed to seed consumer")
		}
	}

	log.Info().Msg("seed complete")
}
