package chime

import (
	"encoding/binary"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoguide/internal/logger"
)

type blockingPlayer struct {
	plays   atomic.Int32
	release chan struct{}
}

func (p *blockingPlayer) Play(pcm []byte) error {
	p.plays.Add(1)
	<-p.release
	return nil
}

func TestPCMLength(t *testing.T) {
	pcm := PCM(Tone{Frequency: 440, Duration: 100 * time.Millisecond, Volume: 1})
	want := SampleRate / 10 * BitDepth / 8
	if len(pcm) != want {
		t.Fatalf("expected %d bytes, got %d", want, len(pcm))
	}
	if len(PCM()) != 0 {
		t.Fatal("expected no samples for no tones")
	}
}

func TestPCMFadesOut(t *testing.T) {
	pcm := PCM(Tone{Frequency: 440, Duration: 200 * time.Millisecond, Volume: 1})
	peak := func(from, to int) int {
		hi := 0
		for i := from; i < to; i += 2 {
			v := int(int16(binary.LittleEndian.Uint16(pcm[i:])))
			if v < 0 {
				v = -v
			}
			if v > hi {
				hi = v
			}
		}
		return hi
	}
	head := peak(0, len(pcm)/4)
	tail := peak(len(pcm)*3/4, len(pcm))
	if tail >= head {
		t.Fatalf("expected fade-out: head peak %d, tail peak %d", head, tail)
	}
}

func TestStepChimeDropsOverlap(t *testing.T) {
	p := &blockingPlayer{release: make(chan struct{})}
	c := NewStepChime(p, logger.New(logger.LevelOff, nil))
	c.done = make(chan struct{}, 4)

	c.StepChanged("Add pasta")
	c.StepChanged("Drain")
	c.StepChanged("Serve")

	close(p.release)
	<-c.done

	if n := p.plays.Load(); n != 1 {
		t.Fatalf("expected 1 cue while busy, got %d", n)
	}

	c.StepChanged("Garnish")
	<-c.done
	if n := p.plays.Load(); n != 2 {
		t.Fatalf("expected a new cue once idle, got %d plays", n)
	}
}

// fakeCue reports playing for a fixed number of polls.
type fakeCue struct {
	started   bool
	remaining int
	err       error
}

func (c *fakeCue) Play() { c.started = true }

func (c *fakeCue) IsPlaying() bool {
	if c.remaining == 0 {
		return false
	}
	c.remaining--
	return true
}

func (c *fakeCue) Err() error { return c.err }

func TestPlayToEnd(t *testing.T) {
	errDevice := errors.New("device lost")
	tests := []struct {
		name string
		cue  *fakeCue
		want error
	}{
		{"finishes", &fakeCue{remaining: 3}, nil},
		{"already done", &fakeCue{}, nil},
		{"device error", &fakeCue{remaining: 1, err: errDevice}, errDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := playToEnd(tt.cue, time.Millisecond); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !tt.cue.started {
				t.Fatal("cue never started")
			}
			if tt.cue.remaining != 0 {
				t.Fatalf("returned with %d polls left", tt.cue.remaining)
			}
		})
	}
}
