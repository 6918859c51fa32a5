// Package nutrition fetches nutrition text for an ingredient and projects it
// onto one of two display targets: the passive status line, fed by the status
// cycle, or the interactive panel, fed by ingredient taps.
package nutrition

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// Passive line texts.
const (
	PassivePrefix = "Nutrition: "
	PassiveNone   = "Nutrition: N/A"
	PassiveError  = "Nutrition: Error"
)

// LoadingText is shown on the panel while a tap-triggered fetch is in flight.
func LoadingText(ingredient string) string {
	return fmt.Sprintf("Fetching nutrition info for %s...", ingredient)
}

// PanelErrorText is shown on the panel when a tap-triggered fetch fails.
func PanelErrorText(ingredient string) string {
	return fmt.Sprintf("Could not fetch nutrition info for %s. Please try again.", ingredient)
}

// Lookup resolves nutrition info for ingredients.
type Lookup struct {
	api     domain.CookingAPI
	display domain.Display
	log     *logger.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewLookup creates a nutrition lookup writing to display.
func NewLookup(api domain.CookingAPI, display domain.Display, log *logger.Logger) *Lookup {
	return &Lookup{
		api:     api,
		display: display,
		log:     log,
	}
}

// Passive fetches nutrition for ingredient and writes it to the passive line.
// Blocks until the fetch completes or fails; nothing is projected before
// then.
func (l *Lookup) Passive(ctx context.Context, ingredient string) {
	info, err := l.api.Nutrition(ctx, ingredient)
	if err != nil && ctx.Err() != nil {
		l.log.Debug("passive lookup for %q abandoned: %v", ingredient, err)
		return
	}
	if err != nil {
		l.log.Error("passive lookup for %q: %v", ingredient, err)
		l.display.SetNutrition(PassiveError)
		return
	}
	l.display.SetNutrition(PassivePrefix + info.NutritionInfo)
}

// Select is the tap path. It shows the loading text and the panel before
// returning, then fetches in the background. Overlapping selects are not
// serialized: whichever response arrives last owns the panel. After Close,
// Select does nothing.
func (l *Lookup) Select(ctx context.Context, ingredient string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.Debug("select %q after close, ignored", ingredient)
		return
	}
	l.inflight.Add(1)
	l.mu.Unlock()

	l.display.SetPanel(LoadingText(ingredient))
	l.display.SetPanelVisible(true)

	go func() {
		defer l.inflight.Done()
		l.fetchPanel(ctx, ingredient)
	}()
}

func (l *Lookup) fetchPanel(ctx context.Context, ingredient string) {
	info, err := l.api.Nutrition(ctx, ingredient)
	if err != nil {
		l.log.Error("panel lookup for %q: %v", ingredient, err)
		l.display.SetPanel(PanelErrorText(ingredient))
		return
	}
	l.log.Debug("panel lookup for %q: %d chars", ingredient, len(info.NutritionInfo))
	l.display.SetPanel(info.NutritionInfo)
}

// HidePanel hides the interactive panel. In-flight lookups still write
// their text; they do not reopen it.
func (l *Lookup) HidePanel() {
	l.display.SetPanelVisible(false)
}

// Wait blocks until every in-flight Select fetch has finished.
func (l *Lookup) Wait() {
	l.inflight.Wait()
}

// Close stops accepting selects and waits for the in-flight ones.
func (l *Lookup) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.inflight.Wait()
}
