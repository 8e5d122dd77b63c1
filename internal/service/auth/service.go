package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service authenticates consumers and issues bearer tokens. Registration
// and password reset are handled by the identity system upstream.
type Service struct {
	consumers repository.ConsumerRepository
	jwt       *auth.JWTService
	hasher    security.PasswordHasher
	expiry    int
}

func NewService(consumers repository.ConsumerRepository, jwtCfg auth.Config) *Service {
	return &Service{
		consumers: consumers,
		jwt:       auth.NewJWTService(jwtCfg),
		hasher:    security.NewBcryptHasher(0),
		expiry:    jwtCfg.ExpiryHours,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	consumer, err := s.consumers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrConsumerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load consumer: %w", err)
	}

	if err := s.hasher.Compare(consumer.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(consumer.ID.String(), consumer.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   s.expiry * 3600,
	}, nil
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwt.ValidateToken(token)
}
