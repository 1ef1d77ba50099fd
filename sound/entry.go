// SPDX-License-Identifier: EPL-2.0

package sound

import "github.com/ik5/sndsub/formats/snd"

// quietVariant is the most attenuated filter variant.
const quietVariant = snd.Variants - 2

// EntryRef identifies an entry without exposing it.
type EntryRef struct {
	ID     uint64
	Name   string
	Entity string
}

// Entry is one queued sound. Entries are owned by the Queue and only
// handed out as EntrySnapshot copies.
type Entry struct {
	id     uint64
	Name   string
	Entity string
	Class  Class
	Type   Type
	Status Status

	Elapsed int
	Weight  int

	// variant is the resting attenuation requested by the caller.
	variant int
	ramp    ramp
	pinned  bool // Protected requested by the caller

	stream   stream
	resource string // resolved resource actually playing
	eof      bool

	slot    int // arena slot index or -1
	backlog [][]int16

	subtitle *subtitle
	notified bool
}

func (e *Entry) Ref() EntryRef {
	return EntryRef{ID: e.id, Name: e.Name, Entity: e.Entity}
}

func (e *Entry) live() bool { return !e.Status.Removed }

// matches reports whether key names the entity or the resource of e.
func (e *Entry) matches(key string) bool {
	return e.Entity == key || e.Name == normalizeName(key)
}

// currentVariant combines the resting level with the ramp. The quieter of
// the two wins.
func (e *Entry) currentVariant() int {
	v := e.restingVariant()
	if e.Status.Ramping || e.Status.FadingOut {
		v = max(v, e.ramp.value())
	}
	return v
}

// restingVariant is the caller's level with the passthrough alias folded
// onto 0.
func (e *Entry) restingVariant() int {
	if e.variant == snd.Variants-1 {
		return 0
	}
	return e.variant
}

// ramp moves a variant linearly from one level to another over ticks.
type ramp struct {
	from, to int
	ticks    int
	pos      int
}

func (r ramp) value() int {
	if r.ticks <= 0 || r.pos >= r.ticks {
		return r.to
	}
	return r.from + (r.to-r.from)*r.pos/r.ticks
}

func (r *ramp) step() (done bool) {
	if r.pos < r.ticks {
		r.pos++
	}
	return r.pos >= r.ticks
}

// startRampIn fades e in from silence over ticks.
func (e *Entry) startRampIn(ticks int) {
	if ticks <= 0 {
		e.Status.Steady = true
		return
	}
	e.ramp = ramp{from: quietVariant, to: e.restingVariant(), ticks: ticks}
	e.Status.Ramping = true
}

// startFadeOut fades e to silence over ticks; the entry ends afterwards.
func (e *Entry) startFadeOut(ticks int) {
	e.ramp = ramp{from: e.currentVariant(), to: quietVariant, ticks: ticks}
	e.Status.Ramping = false
	e.Status.FadingOut = true
	e.Status.Steady = false
}

// EntrySnapshot is a copy of an entry's observable state.
type EntrySnapshot struct {
	Ref      EntryRef
	Class    Class
	Type     Type
	Status   Status
	Elapsed  int
	Weight   int
	Variant  int
	Slot     int
	Resource string
	Subtitle string
}

func (e *Entry) snapshot() EntrySnapshot {
	s := EntrySnapshot{
		Ref:      e.Ref(),
		Class:    e.Class,
		Type:     e.Type,
		Status:   e.Status,
		Elapsed:  e.Elapsed,
		Weight:   e.Weight,
		Variant:  e.currentVariant(),
		Slot:     e.slot,
		Resource: e.resource,
	}
	if e.subtitle != nil {
		s.Subtitle = e.subtitle.file
	}
	return s
}
