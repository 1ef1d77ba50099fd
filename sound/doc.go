// SPDX-License-Identifier: EPL-2.0

// Package sound is the dialogue and ambience queue of the game runtime.
//
// A Queue owns every audible entry. Scripts call Play, Remove and
// IsBuffered; the tick actor (Run, or a host calling ProcessTick at
// Config.TickHz) decodes one block per entry per tick and hands the blocks
// to a Sink. Each entry holds one slot type assigned from its request
// Class; requesting an occupied class demotes the previous holder and
// flushes whoever held the demotion target.
//
// Decode-ahead buffers live in a fixed arena of Config.ArenaSlots slots.
// When the arena is full a new entry may evict the lowest scoring
// unprotected entry, after the Sink has released every block it still
// holds from that slot. Entries that cannot be cached stream one block per
// tick straight from the decoder.
//
// At most one subtitle track is displayed at a time. The queue scores the
// subtitle candidates of steady entries on every tick and keeps the
// current one on ties.
//
// Bound entities get exactly one Notification when their sound ends,
// whatever the reason:
//
//	q, _ := sound.New(sound.NewLoader(resources, nil, cfg), mix, overlay, cfg)
//	q.Play("LIBRARIAN", "LIB012", sound.ClassDialogue, 0)
//	go q.Run(ctx)
//	for n := range q.Notifications() {
//	    script.SoundEnded(n.Entity)
//	}
package sound
