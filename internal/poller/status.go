package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
	"github.com/hammamikhairi/ottoguide/internal/nutrition"
)

// Status line texts.
const (
	StepPrefix      = "Step: "
	StepError       = "Step: Error"
	TimeLeftPrefix  = "Time Left: "
	TimeLeftUnknown = "Time Left: N/A"
)

// PassiveLookup is the part of nutrition.Lookup the status poller needs.
type PassiveLookup interface {
	Passive(ctx context.Context, ingredient string)
}

// Compile-time interface check.
var _ PassiveLookup = (*nutrition.Lookup)(nil)

// StatusOption configures a StatusPoller.
type StatusOption func(*StatusPoller)

// WithStatusInterval overrides the fixed 2s cadence. Meant for tests.
func WithStatusInterval(d time.Duration) StatusOption {
	return func(p *StatusPoller) {
		p.interval = d
	}
}

// WithStepListener registers a listener told whenever the step text changes.
func WithStepListener(l domain.StepListener) StatusOption {
	return func(p *StatusPoller) {
		p.listener = l
	}
}

// StatusPoller keeps the step, its remaining time, and the passive nutrition
// line up to date. The nutrition fetch for a cycle's ingredient finishes
// before the next status fetch starts, so a late nutrition response can
// never land on top of a newer step.
type StatusPoller struct {
	api      domain.CookingAPI
	display  domain.Display
	lookup   PassiveLookup
	listener domain.StepListener
	log      *logger.Logger
	interval time.Duration

	lastStep string // owned by the Run goroutine
}

// NewStatusPoller creates a status poller with the given dependencies.
func NewStatusPoller(api domain.CookingAPI, display domain.Display, lookup PassiveLookup, log *logger.Logger, opts ...StatusOption) *StatusPoller {
	p := &StatusPoller{
		api:      api,
		display:  display,
		lookup:   lookup,
		log:      log,
		interval: StatusInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled. Intended to be called as a goroutine.
func (p *StatusPoller) Run(ctx context.Context) {
	p.log.Info("status poller started (interval=%s)", p.interval)
	cycle(ctx, p.interval, p.tick)
	p.log.Info("status poller stopped")
}

// tick runs one cycle, including the chained passive nutrition fetch.
func (p *StatusPoller) tick(ctx context.Context) {
	rs, err := p.api.Status(ctx)
	if stopping(ctx, err) {
		return
	}
	if err != nil {
		p.log.Error("fetching status: %v", err)
		p.display.SetStep(StepError)
		p.display.SetTimeLeft(TimeLeftUnknown)
		p.display.SetNutrition(nutrition.PassiveNone)
		return
	}

	p.display.SetStep(StepPrefix + rs.Step)
	p.display.SetTimeLeft(FormatTimeLeft(rs.TimeRemaining))
	p.noteStep(rs.Step)

	if !rs.HasIngredient() {
		p.display.SetNutrition(nutrition.PassiveNone)
		return
	}
	p.lookup.Passive(ctx, rs.Ingredient)
}

// noteStep tells the listener about a step change. The first step seen is
// not a change.
func (p *StatusPoller) noteStep(step string) {
	prev := p.lastStep
	p.lastStep = step
	if p.listener == nil || prev == "" || prev == step {
		return
	}
	p.log.Debug("step changed: %q -> %q", prev, step)
	p.listener.StepChanged(step)
}

// FormatTimeLeft renders the step's remaining seconds for the status line.
// Negative input renders as 0, matching FormatClock.
func FormatTimeLeft(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%s%ds", TimeLeftPrefix, seconds)
}
