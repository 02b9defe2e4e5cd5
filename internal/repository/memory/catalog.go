package memory

import (
	"context"
	"net/http"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	apperrors "github.com/adityabima03/YuhuKopi/pkg/errors"
)

var seed = []domain.Coffee{
	{
		ID:              "1",
		Name:            "Caffe Mocha",
		Category:        "Machiato",
		Description:     "Deep Foam",
		Price:           "4.53",
		Rating:          "4.8",
		Reviews:         "230",
		Image:           "/images/2.png",
		FullDescription: "A cappuccino is an approximately 150 ml (5 oz) beverage, with 25 ml of espresso coffee and 85ml of fresh milk the foaming milk is poured on top of the espresso through the spout of the steam wand.",
	},
	{
		ID:              "2",
		Name:            "Flat White",
		Category:        "Latte",
		Description:     "Espresso",
		Price:           "3.53",
		Rating:          "4.8",
		Reviews:         "189",
		Image:           "/images/3.png",
		FullDescription: "A flat white is a coffee drink consisting of espresso with microfoam. It is similar to a latte but smaller in volume and with less microfoam.",
	},
	{
		ID:              "3",
		Name:            "Caffe Latte",
		Category:        "Latte",
		Description:     "Smooth Milk",
		Price:           "3.99",
		Rating:          "4.9",
		Reviews:         "312",
		Image:           "/images/4.png",
		FullDescription: "Caffe latte is a coffee drink made with espresso and steamed milk. The term comes from the Italian caffè e latte, meaning coffee and milk.",
	},
	{
		ID:              "4",
		Name:            "Americano",
		Category:        "Americano",
		Description:     "Bold Espresso",
		Price:           "2.99",
		Rating:          "4.7",
		Reviews:         "156",
		Image:           "/images/5.png",
		FullDescription: "Caffè Americano is a type of coffee drink prepared by diluting an espresso with hot water, giving it a similar strength to but different flavor from brewed coffee.",
	},
}

// CatalogRepository serves a fixed, read-only menu.
type CatalogRepository struct {
	coffees []domain.Coffee
	byID    map[string]int
}

// NewCatalogRepository returns the seeded menu.
func NewCatalogRepository() *CatalogRepository {
	return NewCatalogRepositoryWith(seed)
}

// NewCatalogRepositoryWith serves coffees in the given order.
func NewCatalogRepositoryWith(coffees []domain.Coffee) *CatalogRepository {
	r := &CatalogRepository{
		coffees: append([]domain.Coffee(nil), coffees...),
		byID:    make(map[string]int, len(coffees)),
	}
	for i, c := range r.coffees {
		r.byID[c.ID] = i
	}
	return r
}

func (r *CatalogRepository) List(_ context.Context) ([]domain.Coffee, error) {
	out := make([]domain.Coffee, len(r.coffees))
	copy(out, r.coffees)
	return out, nil
}

func (r *CatalogRepository) GetByID(_ context.Context, id string) (*domain.Coffee, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: "Coffee not found",
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	}
	c := r.coffees[i]
	return &c, nil
}
