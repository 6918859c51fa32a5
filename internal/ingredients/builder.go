// Package ingredients builds the tappable ingredient list from the server's
// recipe roster.
package ingredients

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
	"github.com/hammamikhairi/ottoguide/internal/nutrition"
)

// Selector is the interactive half of nutrition.Lookup.
type Selector interface {
	Select(ctx context.Context, ingredient string)
}

// Compile-time interface check.
var _ Selector = (*nutrition.Lookup)(nil)

// Builder fetches the roster and replaces the displayed rows.
type Builder struct {
	api      domain.CookingAPI
	display  domain.Display
	selector Selector
	log      *logger.Logger

	mu   sync.Mutex
	rows []domain.IngredientRow
}

// NewBuilder creates an ingredient list builder.
func NewBuilder(api domain.CookingAPI, display domain.Display, selector Selector, log *logger.Logger) *Builder {
	return &Builder{
		api:      api,
		display:  display,
		selector: selector,
		log:      log,
	}
}

// Build fetches the roster and replaces every displayed row with a fresh
// one per ingredient, in roster order. Rows from earlier builds are dropped,
// never merged. On failure the current rows stay as they are.
//
// ctx is the context tap handlers run their lookups under; it should live
// as long as the rows do.
func (b *Builder) Build(ctx context.Context) error {
	roster, err := b.api.Recipe(ctx)
	if err != nil {
		b.log.Error("fetching recipe roster: %v", err)
		return fmt.Errorf("building ingredient list: %w", err)
	}

	rows := make([]domain.IngredientRow, 0, len(roster.Ingredients))
	for _, ingredient := range roster.Ingredients {
		rows = append(rows, domain.NewIngredientRow(ingredient, func(name string) {
			b.selector.Select(ctx, name)
		}))
	}

	b.mu.Lock()
	b.rows = rows
	b.mu.Unlock()

	b.display.SetRows(rows)
	b.log.Info("ingredient list rebuilt (%d rows)", len(rows))
	return nil
}

// Rows returns the rows from the last successful build.
func (b *Builder) Rows() []domain.IngredientRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.IngredientRow(nil), b.rows...)
}
