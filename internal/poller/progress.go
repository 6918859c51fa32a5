package poller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// ProgressUnavailable is projected when /progress cannot be fetched.
const ProgressUnavailable = "Progress: N/A"

const progressBarWidth = 20

// ProgressOption configures a ProgressPoller.
type ProgressOption func(*ProgressPoller)

// WithProgressInterval overrides the fixed 2s cadence. Meant for tests.
func WithProgressInterval(d time.Duration) ProgressOption {
	return func(p *ProgressPoller) {
		p.interval = d
	}
}

// ProgressPoller shows the server's coarse kitchen progress as a bar.
type ProgressPoller struct {
	api      domain.CookingAPI
	display  domain.Display
	log      *logger.Logger
	interval time.Duration
}

// NewProgressPoller creates a progress poller with the given dependencies.
func NewProgressPoller(api domain.CookingAPI, display domain.Display, log *logger.Logger, opts ...ProgressOption) *ProgressPoller {
	p := &ProgressPoller{
		api:      api,
		display:  display,
		log:      log,
		interval: ProgressInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled. Intended to be called as a goroutine.
func (p *ProgressPoller) Run(ctx context.Context) {
	p.log.Info("progress poller started (interval=%s)", p.interval)
	cycle(ctx, p.interval, p.tick)
	p.log.Info("progress poller stopped")
}

func (p *ProgressPoller) tick(ctx context.Context) {
	ps, err := p.api.Progress(ctx)
	if stopping(ctx, err) {
		return
	}
	if err != nil {
		p.log.Error("fetching progress: %v", err)
		p.display.SetProgress(ProgressUnavailable)
		return
	}
	p.display.SetProgress(FormatProgress(ps.CurrentState, ps.ProgressPercentage))
}

// FormatProgress renders "<state> ████░░░░  40%". Percentages are clamped
// to [0, 100].
func FormatProgress(state string, pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * progressBarWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	if state == "" {
		return fmt.Sprintf("%s %3d%%", bar, pct)
	}
	return fmt.Sprintf("%s %s %3d%%", state, bar, pct)
}
