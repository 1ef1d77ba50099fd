// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"io"
	"sync"

	"github.com/decred/slog"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/ik5/sndsub/formats/snd"
	"github.com/ik5/sndsub/sound"
	"github.com/ik5/sndsub/utils"
)

// Config tunes a Mixer.
type Config struct {
	SampleRate int
	// MaxQueued is the number of mixed ticks kept for playback. When it
	// is exceeded the oldest tick is dropped.
	MaxQueued int
	Log       slog.Logger
}

func DefaultConfig() Config {
	return Config{
		SampleRate: 22050,
		MaxQueued:  8,
		Log:        slog.Disabled,
	}
}

// Stats counts playback problems.
type Stats struct {
	Ticks     uint64
	Queued    int
	Overruns  uint64
	Underruns uint64
}

// Mixer is a sound.Sink and a beep.Streamer.
type Mixer struct {
	mu  sync.Mutex
	cfg Config
	log slog.Logger

	frames  [][]int16
	cur     []int16 // frame pending points into
	pending []int16
	free    [][]int16
	muted   [sound.NumTypes]bool
	closed  bool

	stats Stats
}

var (
	_ sound.Sink    = (*Mixer)(nil)
	_ beep.Streamer = (*Mixer)(nil)
)

func New(cfg Config) (*Mixer, error) {
	if cfg.SampleRate <= 0 || cfg.MaxQueued < 1 {
		return nil, fmt.Errorf("rate %d, queue %d: %w", cfg.SampleRate, cfg.MaxQueued, ErrInvalidConfig)
	}

	log := cfg.Log
	if log == nil {
		log = slog.Disabled
	}

	return &Mixer{cfg: cfg, log: log}, nil
}

// Consume mixes the blocks of one tick and releases them.
func (m *Mixer) Consume(tick uint64, blocks []*sound.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frame := m.frame()
	for _, b := range blocks {
		if !m.muted[b.Type] {
			utils.MixInt16(frame, b.Samples)
		}
		b.Release()
	}

	if m.closed {
		m.free = append(m.free, frame)
		return
	}

	m.stats.Ticks++
	if len(m.frames) >= m.cfg.MaxQueued {
		m.free = append(m.free, m.frames[0])
		m.frames = m.frames[1:]
		m.stats.Overruns++
		m.log.Tracef("Tick %d: playback behind, dropped a frame", tick)
	}
	m.frames = append(m.frames, frame)
}

// frame returns a zeroed tick buffer. Caller holds m.mu.
func (m *Mixer) frame() []int16 {
	if n := len(m.free); n > 0 {
		f := m.free[n-1]
		m.free = m.free[:n-1]
		clear(f)
		return f
	}
	return make([]int16, snd.BlockSamples)
}

// next makes pending non-empty. Caller holds m.mu.
func (m *Mixer) next() bool {
	if len(m.pending) > 0 {
		return true
	}
	if m.cur != nil {
		m.free = append(m.free, m.cur)
		m.cur = nil
	}
	if len(m.frames) == 0 {
		return false
	}

	m.cur = m.frames[0]
	m.frames = m.frames[1:]
	m.pending = m.cur
	return true
}

// Stream fills samples with the queued ticks. Missing ticks play as
// silence. It reports false once the mixer is closed and drained.
func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range samples {
		if !m.next() {
			if m.closed {
				return i, i > 0
			}
			clear(samples[i:])
			m.stats.Underruns++
			return len(samples), true
		}

		samples[i][0] = float64(m.pending[0]) / 32768
		samples[i][1] = float64(m.pending[1]) / 32768
		m.pending = m.pending[2:]
	}

	return len(samples), true
}

func (m *Mixer) Err() error { return nil }

// Read copies queued interleaved samples into dst without inserting
// silence. It returns io.EOF once the mixer is closed and drained.
func (m *Mixer) Read(dst []int16) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrShortBuffer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for n < len(dst) && m.next() {
		c := copy(dst[n:], m.pending)
		m.pending = m.pending[c:]
		n += c
	}
	if n == 0 && m.closed {
		return 0, io.EOF
	}
	return n, nil
}

// Format describes the streamed samples.
func (m *Mixer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(m.cfg.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
}

// WithVolume wraps the mixer in a volume control. volume is in powers of
// two: 0 leaves the level alone, -1 halves it.
func (m *Mixer) WithVolume(volume float64) *effects.Volume {
	return &effects.Volume{
		Streamer: m,
		Base:     2,
		Volume:   volume,
		Silent:   false,
	}
}

// Mute drops the blocks of one slot type from the mix.
func (m *Mixer) Mute(t sound.Type, on bool) {
	if t < 0 || t >= sound.NumTypes {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted[t] = on
}

func (m *Mixer) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Queued = len(m.frames)
	return s
}

// Close stops accepting ticks. Queued ticks can still be streamed.
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
