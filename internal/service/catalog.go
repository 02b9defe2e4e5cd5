package service

import (
	"context"
	"fmt"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/repository"
)

// CatalogService serves the coffee menu.
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListCoffees returns the whole menu.
func (s *CatalogService) ListCoffees(ctx context.Context) ([]domain.Coffee, error) {
	coffees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coffees: %w", err)
	}
	return coffees, nil
}

// GetCoffee returns one coffee; unknown ids are ErrNotFound.
func (s *CatalogService) GetCoffee(ctx context.Context, id string) (*domain.Coffee, error) {
	coffee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coffee %s: %w", id, err)
	}
	return coffee, nil
}
