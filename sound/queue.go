// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/decred/slog"

	"github.com/ik5/sndsub/formats/snd"
)

// Queue owns the live sounds of a scene. All methods are safe for
// concurrent use; one lock covers entries, arena and subtitles.
type Queue struct {
	mu      sync.Mutex
	cfg     Config
	log     slog.Logger
	loader  *Loader
	sink    Sink
	overlay Overlay

	entries []*Entry
	alloc   allocator
	arena   *arena
	subs    synchronizer
	bufs    *blockPool
	loops   []*Entry
	nextID  uint64
	tick    uint64

	pending []Notification
	wake    chan struct{}
	notifyC chan Notification
	done    chan struct{}

	closed   bool
	ran      bool
	clearing int // ClearAll calls in progress

	stats counters
}

// New returns a queue reading resources through loader. A nil sink
// discards blocks; a nil overlay draws nothing.
func New(loader *Loader, sink Sink, overlay Overlay, cfg Config) (*Queue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		return nil, fmt.Errorf("nil loader: %w", ErrInvalidConfig)
	}
	if sink == nil {
		sink = Discard
	}
	if overlay == nil {
		overlay = nopOverlay{}
	}

	return &Queue{
		cfg:     cfg,
		log:     cfg.logger(),
		loader:  loader,
		sink:    sink,
		overlay: overlay,
		arena:   newArena(cfg.ArenaSlots, cfg.SlotBlocks),
		bufs:    newBlockPool(),
		wake:    make(chan struct{}, 1),
		notifyC: make(chan Notification, cfg.NotifyBuffer),
		done:    make(chan struct{}),
	}, nil
}

// PlayOptions describes a play request.
type PlayOptions struct {
	// Entity owns the sound. Empty means NoEntity.
	Entity string
	Name   string
	Class  Class
	// RampTicks fades the sound in from silence.
	RampTicks int
	// Variant is the resting attenuation, see snd.DecodeBlock.
	Variant   int
	Protected bool
	Subtitles bool
}

// Play queues name for entity. A bound entity first loses its previous
// sound. Dialogue gets a subtitle candidate. A resource that cannot be
// loaded ends at once with ReasonUnavailable; that is not an error.
func (q *Queue) Play(entity, name string, class Class, rampMs int) (EntryRef, error) {
	return q.PlayWith(PlayOptions{
		Entity:    entity,
		Name:      name,
		Class:     class,
		RampTicks: q.cfg.RampTicks(rampMs),
		Subtitles: class == ClassDialogue,
	})
}

// PlayWithSubtitles is Play with a subtitle candidate and the ramp given
// in ticks.
func (q *Queue) PlayWithSubtitles(name string, class Class, entity string, rampSteps int) (EntryRef, error) {
	return q.PlayWith(PlayOptions{
		Entity:    entity,
		Name:      name,
		Class:     class,
		RampTicks: rampSteps,
		Subtitles: true,
	})
}

// PlayWith queues a sound described by opts. Load failures do not return
// an error: the entry ends as unavailable and notifies like any other.
func (q *Queue) PlayWith(opts PlayOptions) (EntryRef, error) {
	opts.Name = normalizeName(opts.Name)
	if opts.Name == "" {
		return EntryRef{}, ErrEmptyName
	}
	if !opts.Class.Valid() {
		return EntryRef{}, fmt.Errorf("%d: %w", int(opts.Class), ErrInvalidClass)
	}
	if opts.Variant < 0 || opts.Variant >= snd.Variants {
		return EntryRef{}, fmt.Errorf("%d: %w", opts.Variant, ErrInvalidVariant)
	}
	if opts.Entity == "" {
		opts.Entity = NoEntity
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return EntryRef{}, ErrClosed
	}

	e := q.play(opts)
	q.resync()
	return e.Ref(), nil
}

// play creates and loads the entry. Caller holds q.mu.
func (q *Queue) play(opts PlayOptions) *Entry {
	if opts.Entity != NoEntity {
		for _, old := range q.entries {
			if old.live() && old.Entity == opts.Entity {
				q.markRemoved(old, ReasonReplaced)
			}
		}
	}

	q.nextID++
	e := &Entry{
		id:      q.nextID,
		Name:    opts.Name,
		Entity:  opts.Entity,
		Class:   opts.Class,
		variant: opts.Variant,
		pinned:  opts.Protected,
		slot:    -1,
	}
	e.Type = q.assign(opts.Class)
	e.Weight = q.cfg.Weights[e.Type]
	e.Status.Protected = opts.Protected || e.Type == TypeDialogue
	e.startRampIn(opts.RampTicks)
	q.entries = append(q.entries, e)

	if opts.Subtitles {
		q.addSubtitle(e)
	}

	st, file, size, err := q.loader.open(e.Name)
	e.resource = file
	if err != nil {
		q.log.Warnf("Dropping %s for %s: %v", e.Name, e.Entity, err)
		q.markRemoved(e, ReasonUnavailable)
		return e
	}
	e.stream = st
	e.Status.SizeClass = sizeClass(size)

	q.log.Debugf("Queued %s (%s) for %s as %s", e.Name, file, e.Entity, e.Type)
	return e
}

// Remove stops every sound whose entity or name is key and returns how
// many were stopped.
func (q *Queue) Remove(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, e := range q.entries {
		if e.live() && e.matchesKey(key) {
			q.markRemoved(e, ReasonStopped)
			n++
		}
	}
	if n > 0 {
		q.resync()
	}
	return n
}

// matchesKey is matches, except that NoEntity never selects by entity.
func (e *Entry) matchesKey(key string) bool {
	if key == NoEntity {
		return e.Name == normalizeName(key)
	}
	return e.matches(key)
}

// IsBuffered reports whether a live entry matches key. With unboundOnly
// only entries without an entity count.
func (q *Queue) IsBuffered(key string, unboundOnly bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if !e.live() || !e.matchesKey(key) {
			continue
		}
		if unboundOnly && e.Entity != NoEntity {
			continue
		}
		return true
	}
	return false
}

// markRemoved ends e: its stream is closed, its slot vacated and the
// notification queued. Caller holds q.mu.
func (q *Queue) markRemoved(e *Entry, reason Reason) {
	if e.Status.Removed {
		return
	}

	e.Status.Removed = true
	e.Status.PendingRemoval = false
	e.Status.Steady = false
	e.Status.Ramping = false
	q.detachStream(e)

	q.log.Debugf("Removed %s for %s: %s", e.Name, e.Entity, reason)
	q.queueNotification(e, reason)

	if reason == ReasonCompleted && e.Entity == BackgroundEntity && holdsPrimary(e) {
		q.loops = append(q.loops, e)
	}
}

// holdsPrimary reports whether e still sits in the slot type its class
// assigns. Demoted entries do not.
func holdsPrimary(e *Entry) bool {
	if e.Class == ClassAuto {
		return slices.Contains(effectRotation[:], e.Type)
	}
	return e.Type == classTable[e.Class].primary
}

func (q *Queue) detachStream(e *Entry) {
	if e.stream != nil {
		if err := e.stream.close(); err != nil {
			q.log.Debugf("Closing %s: %v", e.Name, err)
		}
		e.stream = nil
	}
	if e.slot >= 0 {
		q.arena.vacate(e.slot)
		e.slot = -1
	}
	e.Status.Cached = false
	e.backlog = nil
}

// sweep drops removed entries. Caller holds q.mu.
func (q *Queue) sweep() {
	var gone map[uint64]bool
	q.entries = slices.DeleteFunc(q.entries, func(e *Entry) bool {
		if !e.Status.Removed {
			return false
		}
		if gone == nil {
			gone = make(map[uint64]bool)
		}
		gone[e.id] = true
		return true
	})
	if gone != nil {
		q.dropSubtitles(gone)
	}
}

// requeueLoops restarts background cues that played to the end.
func (q *Queue) requeueLoops() {
	loops := q.loops
	q.loops = nil
	for _, e := range loops {
		q.log.Debugf("Looping %s", e.Name)
		q.play(PlayOptions{
			Entity:    e.Entity,
			Name:      e.Name,
			Class:     e.Class,
			Variant:   e.variant,
			Protected: e.pinned,
		})
	}
}

// Snapshot copies the live entries in queue order.
func (q *Queue) Snapshot() []EntrySnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]EntrySnapshot, 0, len(q.entries))
	for _, e := range q.entries {
		if e.live() {
			out = append(out, e.snapshot())
		}
	}
	return out
}

// Preload warms the raw cache of the loader.
func (q *Queue) Preload(ctx context.Context, names ...string) error {
	return q.loader.Preload(ctx, names...)
}

// ClearAll silently removes every entry. It waits for the Sink to release
// outstanding blocks, at most Config.ClearAttempts times
// Config.ReleaseTimeout, and reports ErrClearIncomplete when some are
// still leased. Sounds played while ClearAll waits are kept.
func (q *Queue) ClearAll(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.clearing++
	for _, e := range q.entries {
		if e.live() {
			e.Status.PendingRemoval = true
			e.notified = true
			q.detachStream(e)
		}
	}
	if c := q.subs.current; c != nil {
		q.overlay.Clear(c.file)
		q.subs.current = nil
	}
	q.mu.Unlock()

	var err error
	for range q.cfg.ClearAttempts {
		s := q.arena.firstBusy()
		if s == nil {
			break
		}
		if werr := s.waitIdle(ctx, q.cfg.ReleaseTimeout); werr != nil && werr != ErrReleaseTimeout {
			err = werr
			break
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.Status.PendingRemoval {
			q.markRemoved(e, ReasonStopped)
		}
	}
	q.loops = nil
	q.sweep()
	q.clearing--

	if err != nil {
		return err
	}
	if q.arena.firstBusy() != nil {
		return ErrClearIncomplete
	}
	return nil
}

// Close removes everything silently and stops Run.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	for _, e := range q.entries {
		e.notified = true
		q.markRemoved(e, ReasonStopped)
	}
	q.loops = nil
	q.sweep()
	close(q.done)
	return nil
}
