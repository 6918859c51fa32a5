package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// ClockUnavailable is projected when the timer cannot be fetched.
const ClockUnavailable = "--:--"

// TimerOption configures a TimerPoller.
type TimerOption func(*TimerPoller)

// WithTimerInterval overrides the fixed 1s cadence. Meant for tests.
func WithTimerInterval(d time.Duration) TimerOption {
	return func(p *TimerPoller) {
		p.interval = d
	}
}

// TimerPoller keeps the countdown clock up to date.
type TimerPoller struct {
	api      domain.CookingAPI
	display  domain.Display
	log      *logger.Logger
	interval time.Duration
}

// NewTimerPoller creates a timer poller with the given dependencies.
func NewTimerPoller(api domain.CookingAPI, display domain.Display, log *logger.Logger, opts ...TimerOption) *TimerPoller {
	p := &TimerPoller{
		api:      api,
		display:  display,
		log:      log,
		interval: TimerInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled. Intended to be called as a goroutine.
func (p *TimerPoller) Run(ctx context.Context) {
	p.log.Info("timer poller started (interval=%s)", p.interval)
	cycle(ctx, p.interval, p.tick)
	p.log.Info("timer poller stopped")
}

// tick runs one cycle: fetch, then project the clock or the placeholder.
func (p *TimerPoller) tick(ctx context.Context) {
	ts, err := p.api.Timer(ctx)
	if stopping(ctx, err) {
		return
	}
	if err != nil {
		p.log.Error("fetching timer: %v", err)
		p.display.SetTimer(ClockUnavailable)
		return
	}
	p.display.SetTimer(FormatClock(ts.TimeRemaining))
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not capped,
// so an hour renders as "60:00". Negative input renders as "00:00".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
