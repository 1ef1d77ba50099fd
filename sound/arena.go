// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"sync"
	"time"

	"github.com/ik5/sndsub/formats/snd"
)

// slot is one decode-ahead buffer of the arena. Its blocks cycle through
// free, ready (decoded, waiting for a tick) and leased (held by the Sink).
// owner and ready are guarded by the queue lock; leases by mu, since the
// Sink releases blocks without taking the queue lock.
type slot struct {
	index  int
	owner  uint64 // entry id, 0 when free
	blocks [][]int16
	ready  []int

	mu     sync.Mutex
	leased []bool
	leases int
	idle   chan struct{} // closed while leases == 0
}

func newSlot(index, blocks int) *slot {
	s := &slot{
		index:  index,
		blocks: make([][]int16, blocks),
		leased: make([]bool, blocks),
		idle:   make(chan struct{}),
	}
	buf := make([]int16, blocks*snd.BlockSamples)
	for i := range s.blocks {
		s.blocks[i] = buf[i*snd.BlockSamples : (i+1)*snd.BlockSamples : (i+1)*snd.BlockSamples]
	}
	close(s.idle)
	return s
}

// free returns the positions that are neither ready nor leased.
func (s *slot) free() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for i := range s.blocks {
		if s.leased[i] || s.isReady(i) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (s *slot) isReady(pos int) bool {
	for _, r := range s.ready {
		if r == pos {
			return true
		}
	}
	return false
}

// take pops the oldest ready block and leases it.
func (s *slot) take() (int, bool) {
	if len(s.ready) == 0 {
		return 0, false
	}
	pos := s.ready[0]
	s.ready = s.ready[1:]

	s.mu.Lock()
	s.leased[pos] = true
	s.leases++
	if s.leases == 1 {
		s.idle = make(chan struct{})
	}
	s.mu.Unlock()

	return pos, true
}

func (s *slot) release(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.leased[pos] {
		return
	}
	s.leased[pos] = false
	s.leases--
	if s.leases == 0 {
		close(s.idle)
	}
}

func (s *slot) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leases > 0
}

// waitIdle blocks until every lease is released, timeout passes or ctx
// ends.
func (s *slot) waitIdle(ctx context.Context, timeout time.Duration) error {
	s.mu.Lock()
	if s.leases == 0 {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-idle:
		return nil
	case <-t.C:
		return ErrReleaseTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// arena is the fixed set of decode-ahead slots.
type arena struct {
	slots []*slot
}

func newArena(slots, blocks int) *arena {
	a := &arena{slots: make([]*slot, slots)}
	for i := range a.slots {
		a.slots[i] = newSlot(i, blocks)
	}
	return a
}

// claim returns a slot with no owner and no outstanding leases.
func (a *arena) claim(owner uint64) *slot {
	for _, s := range a.slots {
		if s.owner == 0 && !s.busy() {
			s.owner = owner
			s.ready = s.ready[:0]
			return s
		}
	}
	return nil
}

// vacate drops the owner of slot i. Leased blocks stay leased until the
// Sink releases them; claim skips the slot until then.
func (a *arena) vacate(i int) {
	if i < 0 || i >= len(a.slots) {
		return
	}
	s := a.slots[i]
	s.owner = 0
	s.ready = s.ready[:0]
}

func (a *arena) occupied() int {
	n := 0
	for _, s := range a.slots {
		if s.owner != 0 {
			n++
		}
	}
	return n
}

// firstBusy returns a slot with outstanding leases.
func (a *arena) firstBusy() *slot {
	for _, s := range a.slots {
		if s.busy() {
			return s
		}
	}
	return nil
}
