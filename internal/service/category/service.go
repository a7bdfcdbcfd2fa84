package category

import (
	"context"
	"net/url"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Add requires a name, an absolute image URL and a background colour.
func (s *Service) Add(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.BgColor = strings.TrimSpace(c.BgColor)
	if c.Name == "" || c.BgColor == "" || !validImageURL(c.Image) {
		return nil, domain.ErrInvalidRequest
	}
	c.ID = ""
	return s.repo.Create(ctx, c)
}

// Update applies the non-empty fields of c to the stored category.
func (s *Service) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if strings.TrimSpace(c.ID) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if c.Image != "" && !validImageURL(c.Image) {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidRequest
	}
	return s.repo.Delete(ctx, id)
}

func validImageURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
