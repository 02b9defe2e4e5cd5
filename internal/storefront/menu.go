package storefront

import (
	"strings"

	"github.com/adityabima03/YuhuKopi/internal/domain"
)

// AllCategories is the home screen tab that disables category filtering.
const AllCategories = "All Coffee"

// Categories are the home screen tabs in display order.
var Categories = []string{AllCategories, "Machiato", "Latte", "Americano", "Cappuccino"}

// MenuItem is a coffee as a screen renders it.
type MenuItem struct {
	domain.Coffee
	ImageAsset string `json:"imageAsset"`
	Favorite   bool   `json:"favorite"`
}

// FilterMenu keeps coffees in category whose name, description or category
// contains query, case-insensitively. An empty category or AllCategories
// matches everything, as does a blank query.
func FilterMenu(coffees []domain.Coffee, category, query string) []domain.Coffee {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Coffee, 0, len(coffees))
	for _, c := range coffees {
		if category != "" && category != AllCategories && c.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) &&
			!strings.Contains(strings.ToLower(c.Category), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}
