package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/forgo/feast/api/internal/model"
)

// ShoppingListFilename is the attachment name for downloaded shopping lists
const ShoppingListFilename = "to_buy.txt"

// shoppingListHeader is the fixed first line of every rendered list
const shoppingListHeader = "Shopping list"

// CartAggregator defines the repository interface for cart aggregation
type CartAggregator interface {
	CartLines(ctx context.Context, userID string) ([]model.CartLine, error)
}

// CartService builds downloadable shopping lists from a user's cart.
// Amounts of the same ingredient are summed across every recipe in the
// cart, so an ingredient appears exactly once no matter how many
// recipes use it.
type CartService struct {
	carts CartAggregator
}

// NewCartService creates a new cart service
func NewCartService(carts CartAggregator) *CartService {
	return &CartService{carts: carts}
}

// Lines returns the aggregated shopping list sorted alphabetically by
// ingredient name
func (s *CartService) Lines(ctx context.Context, userID string) ([]model.CartLine, error) {
	lines, err := s.carts.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].MeasurementUnit < lines[j].MeasurementUnit
	})
	return lines, nil
}

// Render builds the plain text document for a user's shopping list.
// An empty cart renders the header alone.
func (s *CartService) Render(ctx context.Context, userID string) (string, error) {
	lines, err := s.Lines(ctx, userID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(shoppingListHeader)
	sb.WriteString("\n\n")
	for _, line := range lines {
		fmt.Fprintf(&sb, "%s, %d %s\n", line.Name, line.Total, line.MeasurementUnit)
	}
	return sb.String(), nil
}
