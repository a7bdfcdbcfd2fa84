package address

import (
	"context"
	"strings"

	"storefront/internal/domain"
	addressrepo "storefront/internal/repository/address"
)

type Service struct {
	repo addressrepo.Repository
}

func New(repo addressrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Add stores a for userID. Street, city and country are required; everything else is free text.
func (s *Service) Add(ctx context.Context, userID string, a domain.Address) (*domain.Address, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidRequest
	}
	for _, v := range []string{a.FirstName, a.Street, a.City, a.Country} {
		if strings.TrimSpace(v) == "" {
			return nil, domain.ErrInvalidRequest
		}
	}
	a.ID = ""
	a.UserID = userID
	return s.repo.Create(ctx, a)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}
