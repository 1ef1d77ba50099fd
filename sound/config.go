// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/decred/slog"
)

// Config tunes a Queue and its Loader.
type Config struct {
	// ArenaSlots is the number of decode-ahead buffers.
	ArenaSlots int
	// SlotBlocks is how many decoded blocks one slot holds.
	SlotBlocks int
	// TickHz is the tick rate of Run. One block covers one tick at the
	// engine sample rate.
	TickHz     int
	SampleRate int

	SubtitleMinTicks  int
	SubtitlePrefixLen int
	HysteresisBonus   int

	// SizeWeight scales SizeClass in the eviction score.
	SizeWeight int
	Weights    Weights

	// FallbackName is played when a resource cannot be loaded. Empty
	// disables the fallback.
	FallbackName string
	// DropUncached removes entries the arena refuses instead of streaming
	// them.
	DropUncached bool

	ReleaseTimeout time.Duration
	ClearAttempts  int
	// FadeTicks is the length of the fade-out of demoted entries.
	FadeTicks int

	// SinkEntities never receive sound-ended notifications.
	SinkEntities []string
	// Listener, when set, receives notifications from Run instead of the
	// Notifications channel.
	Listener     func(Notification)
	NotifyBuffer int

	// MaxPreload bounds concurrent reads in Loader.Preload.
	MaxPreload int
	// RawCacheBytes bounds the raw resource cache; zero means unbounded.
	RawCacheBytes int64

	Log slog.Logger
}

func DefaultConfig() Config {
	return Config{
		ArenaSlots:        6,
		SlotBlocks:        4,
		TickHz:            30,
		SampleRate:        22050,
		SubtitleMinTicks:  15,
		SubtitlePrefixLen: 6,
		HysteresisBonus:   4,
		SizeWeight:        1,
		Weights:           DefaultWeights(),
		FallbackName:      "MISSING",
		ReleaseTimeout:    250 * time.Millisecond,
		ClearAttempts:     8,
		FadeTicks:         15,
		NotifyBuffer:      64,
		MaxPreload:        4,
		RawCacheBytes:     32 << 20,
		Log:               slog.Disabled,
	}
}

// LoadConfig returns DefaultConfig overlaid with SNDSUB_* environment
// variables. Values that do not parse keep their defaults.
func LoadConfig() Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()

	ints := []struct {
		key string
		dst *int
	}{
		{"SNDSUB_ARENA_SLOTS", &cfg.ArenaSlots},
		{"SNDSUB_SLOT_BLOCKS", &cfg.SlotBlocks},
		{"SNDSUB_TICK_HZ", &cfg.TickHz},
		{"SNDSUB_SUBTITLE_MIN_TICKS", &cfg.SubtitleMinTicks},
		{"SNDSUB_CLEAR_ATTEMPTS", &cfg.ClearAttempts},
	}
	for _, v := range ints {
		if s := getenv(v.key); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				*v.dst = n
			}
		}
	}

	if s := getenv("SNDSUB_FALLBACK"); s != "" {
		cfg.FallbackName = strings.ToUpper(s)
	}

	if s := getenv("SNDSUB_DROP_UNCACHED"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			cfg.DropUncached = b
		}
	}

	if s := getenv("SNDSUB_RELEASE_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.ReleaseTimeout = d
		}
	}

	if s := getenv("SNDSUB_SINK_ENTITIES"); s != "" {
		for _, e := range strings.Split(s, ",") {
			if e = strings.TrimSpace(e); e != "" {
				cfg.SinkEntities = append(cfg.SinkEntities, e)
			}
		}
	}

	// weights are keyed by Type.String, e.g. {"dialogue":14,"music-prev":1}
	if s := getenv("SNDSUB_TYPE_WEIGHTS"); s != "" {
		var weights map[string]int
		if err := json.Unmarshal([]byte(s), &weights); err == nil {
			for name, w := range weights {
				if t, ok := ParseType(name); ok && w >= 0 {
					cfg.Weights[t] = w
				}
			}
		}
	}

	return cfg
}

// Validate reports the first out of range field.
func (c Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.ArenaSlots >= 1, "ArenaSlots"},
		{c.SlotBlocks >= 1, "SlotBlocks"},
		{c.TickHz >= 1 && c.TickHz <= 1000, "TickHz"},
		{c.SampleRate > 0, "SampleRate"},
		{c.SubtitleMinTicks >= 1, "SubtitleMinTicks"},
		{c.SubtitlePrefixLen >= 1, "SubtitlePrefixLen"},
		{c.HysteresisBonus >= 0, "HysteresisBonus"},
		{c.SizeWeight >= 0, "SizeWeight"},
		{c.ReleaseTimeout > 0, "ReleaseTimeout"},
		{c.ClearAttempts >= 1, "ClearAttempts"},
		{c.FadeTicks >= 1, "FadeTicks"},
		{c.NotifyBuffer >= 0, "NotifyBuffer"},
		{c.MaxPreload >= 1, "MaxPreload"},
		{c.RawCacheBytes >= 0, "RawCacheBytes"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%s: %w", ch.name, ErrInvalidConfig)
		}
	}

	for t, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weight of %s: %w", Type(t), ErrInvalidConfig)
		}
	}

	return nil
}

// TickInterval is the wall-clock length of one tick.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickHz)
}

// RampTicks converts a ramp length in milliseconds to ticks, rounding up.
func (c Config) RampTicks(ms int) int {
	if ms <= 0 {
		return 0
	}
	return (ms*c.TickHz + 999) / 1000
}

func (c Config) logger() slog.Logger {
	if c.Log == nil {
		return slog.Disabled
	}
	return c.Log
}

func (c Config) isSinkEntity(entity string) bool {
	for _, e := range c.SinkEntities {
		if strings.EqualFold(e, entity) {
			return true
		}
	}
	return false
}
