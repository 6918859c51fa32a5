package chime

import (
	"sync/atomic"

	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// Compile-time interface check.
var _ domain.StepListener = (*StepChime)(nil)

// PCMPlayer plays raw PCM and blocks until done.
type PCMPlayer interface {
	Play(pcm []byte) error
}

// StepChime plays a cue on every step change. StepChanged never blocks;
// a change that arrives while a cue is still playing is dropped.
type StepChime struct {
	player  PCMPlayer
	log     *logger.Logger
	pcm     []byte
	playing atomic.Bool
	done    chan struct{} // signalled after each cue, for tests; may be nil
}

// NewStepChime creates a chime that plays tones through player. With no
// tones, DefaultTones is used.
func NewStepChime(player PCMPlayer, log *logger.Logger, tones ...Tone) *StepChime {
	if len(tones) == 0 {
		tones = DefaultTones
	}
	return &StepChime{
		player: player,
		log:    log,
		pcm:    PCM(tones...),
	}
}

// StepChanged starts the cue in the background.
func (c *StepChime) StepChanged(step string) {
	if !c.playing.CompareAndSwap(false, true) {
		c.log.Debug("chime busy, dropping cue for %q", step)
		return
	}
	go func() {
		defer func() {
			c.playing.Store(false)
			if c.done != nil {
				c.done <- struct{}{}
			}
		}()
		if err := c.player.Play(c.pcm); err != nil {
			c.log.Warn("playing step chime: %v", err)
		}
	}()
}
