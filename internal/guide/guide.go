// Package guide owns the lifecycle of the recipe guide: it wires the
// pollers, the nutrition lookup, and the ingredient list to one display and
// starts and stops them together.
package guide

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/ingredients"
	"github.com/hammamikhairi/ottoguide/internal/logger"
	"github.com/hammamikhairi/ottoguide/internal/nutrition"
	"github.com/hammamikhairi/ottoguide/internal/poller"
)

// Option configures the guide.
type Option func(*Guide)

// WithSimpleMode runs only the timer and the status cycle with its passive
// nutrition line: no ingredient list and no interactive panel.
func WithSimpleMode(simple bool) Option {
	return func(g *Guide) {
		g.simple = simple
	}
}

// WithProgress enables the /progress poller.
func WithProgress(enabled bool) Option {
	return func(g *Guide) {
		g.progress = enabled
	}
}

// WithStepListener registers a listener for step changes (e.g. a chime).
func WithStepListener(l domain.StepListener) Option {
	return func(g *Guide) {
		g.listener = l
	}
}

// WithTimerOptions passes options through to the timer poller.
func WithTimerOptions(opts ...poller.TimerOption) Option {
	return func(g *Guide) {
		g.timerOpts = append(g.timerOpts, opts...)
	}
}

// WithStatusOptions passes options through to the status poller.
func WithStatusOptions(opts ...poller.StatusOption) Option {
	return func(g *Guide) {
		g.statusOpts = append(g.statusOpts, opts...)
	}
}

// WithProgressOptions passes options through to the progress poller.
func WithProgressOptions(opts ...poller.ProgressOption) Option {
	return func(g *Guide) {
		g.progressOpts = append(g.progressOpts, opts...)
	}
}

// Guide is the process-scoped session object. Init starts every cycle;
// Shutdown stops them all.
type Guide struct {
	api     domain.CookingAPI
	display domain.Display
	log     *logger.Logger

	simple       bool
	progress     bool
	listener     domain.StepListener
	timerOpts    []poller.TimerOption
	statusOpts   []poller.StatusOption
	progressOpts []poller.ProgressOption

	lookup  *nutrition.Lookup
	builder *ingredients.Builder

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup // per session
}

// New creates a guide with the given dependencies and options.
func New(api domain.CookingAPI, display domain.Display, log *logger.Logger, opts ...Option) *Guide {
	g := &Guide{
		api:     api,
		display: display,
		log:     log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Init starts the timer and status cycles (and the progress cycle when
// enabled) and builds the ingredient list once. Non-blocking.
func (g *Guide) Init(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		g.log.Warn("guide already running")
		return domain.ErrAlreadyRunning
	}

	childCtx, cancel := context.WithCancel(ctx)
	g.ctx = childCtx
	g.cancel = cancel
	g.running = true
	g.wg = &sync.WaitGroup{}

	// Fresh per session: the previous lookup is closed and its rows are dead.
	g.lookup = nutrition.NewLookup(g.api, g.display, g.log.Named("nutrition"))
	g.builder = nil
	if !g.simple {
		g.builder = ingredients.NewBuilder(g.api, g.display, g.lookup, g.log.Named("ingredients"))
	}

	statusOpts := g.statusOpts
	if g.listener != nil {
		statusOpts = append([]poller.StatusOption{poller.WithStepListener(g.listener)}, statusOpts...)
	}

	timer := poller.NewTimerPoller(g.api, g.display, g.log.Named("timer"), g.timerOpts...)
	status := poller.NewStatusPoller(g.api, g.display, g.lookup, g.log.Named("status"), statusOpts...)
	g.spawn(func() { timer.Run(childCtx) })
	g.spawn(func() { status.Run(childCtx) })

	if g.progress {
		progress := poller.NewProgressPoller(g.api, g.display, g.log.Named("progress"), g.progressOpts...)
		g.spawn(func() { progress.Run(childCtx) })
	}

	if builder := g.builder; builder != nil {
		g.spawn(func() {
			if err := builder.Build(childCtx); err != nil {
				g.log.Error("initial ingredient list: %v", err)
			}
		})
	}

	g.log.Info("guide started (simple=%t, progress=%t)", g.simple, g.progress)
	return nil
}

// Shutdown cancels every cycle and waits for them, and for any in-flight
// panel lookups, to return. Safe to call more than once.
func (g *Guide) Shutdown() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.cancel()
	g.running = false
	lookup, wg := g.lookup, g.wg
	g.mu.Unlock()

	wg.Wait()
	lookup.Close()
	g.log.Info("guide stopped")
}

// RefreshIngredients rebuilds the ingredient list from the server. No-op in
// simple mode or when the guide is not running.
func (g *Guide) RefreshIngredients() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running || g.builder == nil {
		return
	}
	ctx, builder := g.ctx, g.builder
	g.spawn(func() {
		if err := builder.Build(ctx); err != nil {
			g.log.Error("refreshing ingredient list: %v", err)
		}
	})
}

// HidePanel hides the interactive nutrition panel.
func (g *Guide) HidePanel() {
	g.mu.Lock()
	lookup := g.lookup
	g.mu.Unlock()

	if g.simple || lookup == nil {
		return
	}
	lookup.HidePanel()
}

// Simple reports whether the guide runs without the ingredient list.
func (g *Guide) Simple() bool { return g.simple }

// spawn runs fn on the current session's WaitGroup. Callers hold g.mu.
func (g *Guide) spawn(fn func()) {
	wg := g.wg
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}
