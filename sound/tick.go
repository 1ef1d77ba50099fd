// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"errors"
	"io"

	"github.com/ik5/sndsub/formats/snd"
)

// ProcessTick advances every entry by one block. Blocks go to the Sink
// after the queue lock is released. Ticks are skipped while ClearAll
// waits.
func (q *Queue) ProcessTick(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if q.clearing > 0 {
		q.mu.Unlock()
		return nil
	}

	q.tick++
	tick := q.tick

	// settle slots before leasing any block of this tick
	for _, e := range q.entries {
		if e.live() {
			q.cache(ctx, e)
		}
	}

	var out []*Block
	for _, e := range q.entries {
		if !e.live() {
			continue
		}
		if b := q.advance(e); b != nil {
			b.Tick = tick
			out = append(out, b)
		}
	}

	q.requeueLoops()
	q.resync()
	q.sweep()

	q.stats.ticks++
	q.stats.blocks += uint64(len(out))
	sink := q.sink
	q.mu.Unlock()

	sink.Consume(tick, out)
	return nil
}

// advance emits the next block of e and moves its ramps forward.
func (q *Queue) advance(e *Entry) *Block {
	b, err := q.nextBlock(e)
	switch {
	case err == io.EOF:
		if e.Status.FadingOut {
			q.markRemoved(e, ReasonFaded)
		} else {
			q.markRemoved(e, ReasonCompleted)
		}
		return nil
	case err != nil:
		q.log.Warnf("Decoding %s: %v", e.resource, err)
		q.markRemoved(e, ReasonInvalid)
		return nil
	}

	e.Elapsed++
	switch {
	case e.Status.FadingOut:
		if e.ramp.step() {
			q.markRemoved(e, ReasonFaded)
		}
	case e.Status.Ramping:
		if e.ramp.step() {
			e.Status.Ramping = false
			e.Status.Steady = true
		}
	}

	return b
}

// cache gives e a slot when it has none and decodes ahead into it. It
// reports false when e was dropped.
func (q *Queue) cache(ctx context.Context, e *Entry) bool {
	if e.slot < 0 && !e.eof {
		ok, err := q.acquireSlot(ctx, e)
		if err != nil {
			q.log.Warnf("Caching %s: %v", e.Name, err)
		}
		if !ok {
			if q.cfg.DropUncached {
				q.markRemoved(e, ReasonDropped)
				return false
			}
			q.stats.streamed++
		}
	}

	if e.slot >= 0 {
		if err := q.fill(e); err != nil {
			q.log.Warnf("Decoding %s: %v", e.resource, err)
			q.markRemoved(e, ReasonInvalid)
			return false
		}
	}
	return true
}

// acquireSlot attaches a decode-ahead slot to e, evicting the lowest
// scoring unprotected entry when the arena is full. It returns false when
// caching is refused.
func (q *Queue) acquireSlot(ctx context.Context, e *Entry) (bool, error) {
	if e.slot >= 0 {
		return true, nil
	}
	if s := q.arena.claim(e.id); s != nil {
		q.attach(e, s)
		return true, nil
	}

	var (
		victim *Entry
		best   int
	)
	for _, c := range q.entries {
		if c.slot < 0 || c.Status.Protected || c.Status.Releasing {
			continue
		}
		score := c.Weight + c.Status.SizeClass*q.cfg.SizeWeight
		if victim == nil || score < best {
			victim, best = c, score
		}
	}
	if victim == nil || e.Weight <= best {
		q.stats.refusals++
		return false, nil
	}

	s := q.arena.slots[victim.slot]
	victim.Status.Releasing = true
	if err := s.waitIdle(ctx, q.cfg.ReleaseTimeout); err != nil {
		victim.Status.Releasing = false
		if errors.Is(err, ErrReleaseTimeout) {
			q.stats.releaseTimeouts++
		}
		return false, err
	}

	q.evict(victim)
	victim.Status.Releasing = false

	s.owner = e.id
	q.attach(e, s)
	q.stats.evictions++
	q.log.Debugf("Evicted %s (score %d) from slot %d for %s", victim.Name, best, s.index, e.Name)
	return true, nil
}

func (q *Queue) attach(e *Entry, s *slot) {
	e.slot = s.index
	e.Status.Cached = true
}

// evict detaches the slot of e. Blocks decoded ahead move to its backlog
// so the stream continues without a gap.
func (q *Queue) evict(e *Entry) {
	s := q.arena.slots[e.slot]
	for _, pos := range s.ready {
		e.backlog = append(e.backlog, append([]int16(nil), s.blocks[pos]...))
	}
	q.arena.vacate(e.slot)
	e.slot = -1
	e.Status.Cached = false
}

// fill decodes ahead into the free blocks of the slot of e.
func (q *Queue) fill(e *Entry) error {
	if e.eof || e.stream == nil {
		return nil
	}

	s := q.arena.slots[e.slot]
	for _, pos := range s.free() {
		err := e.stream.read(s.blocks[pos], 0)
		if err == io.EOF {
			e.eof = true
			return nil
		}
		if err != nil {
			return err
		}
		s.ready = append(s.ready, pos)
	}
	return nil
}

// nextBlock returns the next block of e: the backlog first, then the
// slot, then the stream itself.
func (q *Queue) nextBlock(e *Entry) (*Block, error) {
	v := e.currentVariant()
	b := &Block{Type: e.Type, Entry: e.Ref(), Variant: v}

	if len(e.backlog) > 0 {
		b.Samples = e.backlog[0]
		e.backlog = e.backlog[1:]
		q.drainState(e)
		return b, snd.Scale(b.Samples, v)
	}

	if e.slot >= 0 {
		s := q.arena.slots[e.slot]
		if pos, ok := s.take(); ok {
			b.Samples = s.blocks[pos]
			b.release = func() { s.release(pos) }
			q.drainState(e)
			return b, snd.Scale(b.Samples, v)
		}
	}

	if e.eof || e.stream == nil {
		return nil, io.EOF
	}

	buf := q.bufs.get()
	if err := e.stream.read(*buf, v); err != nil {
		q.bufs.put(buf)
		if err == io.EOF {
			e.eof = true
		}
		return nil, err
	}
	b.Samples = *buf
	b.release = func() { q.bufs.put(buf) }
	return b, nil
}

// drainState flags an entry whose stream ended but still has blocks.
func (q *Queue) drainState(e *Entry) {
	if !e.eof {
		return
	}
	left := len(e.backlog)
	if e.slot >= 0 {
		left += len(q.arena.slots[e.slot].ready)
	}
	e.Status.PendingRemoval = left > 0
}
