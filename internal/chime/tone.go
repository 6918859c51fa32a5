// Package chime plays a short audible cue when the recipe step changes.
package chime

import (
	"encoding/binary"
	"math"
	"time"
)

// Audio parameters for generated tones.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Tone describes a sine tone with a linear fade-out.
type Tone struct {
	Frequency float64 // Hz
	Duration  time.Duration
	Volume    float64 // 0..1
}

// DefaultTones is the two-note step cue.
var DefaultTones = []Tone{
	{Frequency: 880, Duration: 120 * time.Millisecond, Volume: 0.35},
	{Frequency: 1320, Duration: 180 * time.Millisecond, Volume: 0.35},
}

// PCM renders tones back to back as signed 16-bit little-endian mono PCM.
func PCM(tones ...Tone) []byte {
	var total int
	for _, t := range tones {
		total += sampleCount(t.Duration)
	}

	out := make([]byte, 0, total*BitDepth/8)
	var buf [2]byte
	for _, t := range tones {
		n := sampleCount(t.Duration)
		vol := math.Max(0, math.Min(1, t.Volume))
		for i := 0; i < n; i++ {
			fade := 1 - float64(i)/float64(n)
			v := math.Sin(2*math.Pi*t.Frequency*float64(i)/SampleRate) * vol * fade
			binary.LittleEndian.PutUint16(buf[:], uint16(int16(v*math.MaxInt16)))
			out = append(out, buf[:]...)
		}
	}
	return out
}

func sampleCount(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds() * SampleRate)
}
