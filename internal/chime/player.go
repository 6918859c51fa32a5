package chime

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// drainPoll is how often a cue is checked for completion.
const drainPoll = 10 * time.Millisecond

// Player sends PCM cues to the system audio device. Cues are played one at a
// time; a second Play waits for the first to finish.
type Player struct {
	audio *oto.Context
	log   *logger.Logger
	mu    sync.Mutex
}

// NewPlayer opens the audio device in the chime's PCM format. oto permits a
// single context per process, so there must be at most one Player.
func NewPlayer(log *logger.Logger) (*Player, error) {
	audio, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	log.Debug("audio device ready (%d Hz, %d ch, s16le)", SampleRate, ChannelCount)
	return &Player{audio: audio, log: log}, nil
}

// Play blocks until pcm has been played.
func (p *Player) Play(pcm []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cue := p.audio.NewPlayer(bytes.NewReader(pcm))
	err := playToEnd(cue, drainPoll)
	if cerr := cue.Close(); err == nil {
		err = cerr
	}
	p.log.Debug("cue played (%d bytes)", len(pcm))
	return err
}

// playback is the part of *oto.Player a cue needs.
type playback interface {
	Play()
	IsPlaying() bool
	Err() error
}

// playToEnd starts pb and polls until it stops, then reports its error.
func playToEnd(pb playback, poll time.Duration) error {
	pb.Play()
	for pb.IsPlaying() {
		time.Sleep(poll)
	}
	return pb.Err()
}
