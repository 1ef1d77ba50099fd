// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

type counters struct {
	ticks           uint64
	blocks          uint64
	evictions       uint64
	refusals        uint64
	releaseTimeouts uint64
	streamed        uint64
	notifications   uint64
}

// Stats is a point-in-time summary of a Queue.
type Stats struct {
	Entries    int
	Cached     int
	SlotsUsed  int
	SlotsTotal int

	Ticks           uint64
	Blocks          uint64
	Evictions       uint64
	Refusals        uint64
	ReleaseTimeouts uint64
	// StreamedBlocks counts ticks where an entry played without a slot.
	StreamedBlocks uint64
	Notifications  uint64

	RawFiles int
	RawBytes int64
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	s := Stats{
		SlotsUsed:       q.arena.occupied(),
		SlotsTotal:      len(q.arena.slots),
		Ticks:           q.stats.ticks,
		Blocks:          q.stats.blocks,
		Evictions:       q.stats.evictions,
		Refusals:        q.stats.refusals,
		ReleaseTimeouts: q.stats.releaseTimeouts,
		StreamedBlocks:  q.stats.streamed,
		Notifications:   q.stats.notifications,
	}
	for _, e := range q.entries {
		if !e.live() {
			continue
		}
		s.Entries++
		if e.Status.Cached {
			s.Cached++
		}
	}
	q.mu.Unlock()

	s.RawFiles, s.RawBytes = q.loader.Cached()
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%d entries (%d cached), slots %d/%d, %s blocks in %s ticks, %d evictions, %d refusals, %d release timeouts, raw cache %s in %d files",
		s.Entries, s.Cached, s.SlotsUsed, s.SlotsTotal,
		humanize.Comma(int64(s.Blocks)), humanize.Comma(int64(s.Ticks)),
		s.Evictions, s.Refusals, s.ReleaseTimeouts,
		humanize.IBytes(uint64(s.RawBytes)), s.RawFiles)
}
