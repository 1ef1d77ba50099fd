// SPDX-License-Identifier: EPL-2.0

package sound

// classSlots is the primary type of a class and where its previous holder
// goes. A paired class always flushes its secondary type; the others only
// when a demotion needs it. fade marks demotions that fade out.
type classSlots struct {
	primary Type
	prev    Type
	paired  bool
	fade    bool
}

var classTable = [numClasses]classSlots{
	ClassDialogue:    {TypeDialogue, TypeDialoguePrev, true, false},
	ClassAmbient:     {TypeAmbient, TypeAmbientPrev, false, true},
	ClassMusic:       {TypeMusic, TypeMusicPrev, false, true},
	ClassBackground1: {TypeBackground1, TypeBackgroundPrev, false, true},
	ClassBackground2: {TypeBackground2, TypeBackgroundPrev, false, true},
	ClassBackground3: {TypeBackground3, TypeBackgroundPrev, false, true},
	ClassBackground4: {TypeBackground4, TypeBackgroundPrev, false, true},
}

var effectRotation = [...]Type{TypeEffect1, TypeEffect2, TypeEffect3, TypeEffect4}

// allocator hands out slot types. Only the effect rotation carries state.
type allocator struct {
	next int
}

// plan is the outcome of one request. flush loses its type outright;
// demote moves to demoteTo.
type plan struct {
	typ      Type
	flush    *Entry
	demote   *Entry
	demoteTo Type
	fade     bool
}

func (a *allocator) assign(entries []*Entry, c Class) plan {
	if c == ClassAuto {
		t := effectRotation[a.next]
		a.next = (a.next + 1) % len(effectRotation)
		return plan{typ: t, flush: holder(entries, t)}
	}

	cs := classTable[c]
	p := plan{typ: cs.primary}
	h := holder(entries, cs.primary)
	if cs.paired || h != nil {
		p.flush = holder(entries, cs.prev)
	}
	if h != nil {
		p.demote, p.demoteTo, p.fade = h, cs.prev, cs.fade
	}
	return p
}

// holder returns the live entry occupying t.
func holder(entries []*Entry, t Type) *Entry {
	for _, e := range entries {
		if e.live() && e.Type == t {
			return e
		}
	}
	return nil
}

// assign resolves c and applies the flush and demotion. Caller holds q.mu.
func (q *Queue) assign(c Class) Type {
	p := q.alloc.assign(q.entries, c)
	if p.flush != nil {
		q.log.Debugf("Flushing %s from %s", p.flush.Name, p.flush.Type)
		q.markRemoved(p.flush, ReasonFlushed)
	}
	if p.demote != nil {
		q.demote(p.demote, p.demoteTo, p.fade)
	}
	return p.typ
}

func (q *Queue) demote(e *Entry, to Type, fade bool) {
	q.log.Debugf("Demoting %s from %s to %s", e.Name, e.Type, to)

	e.Type = to
	e.Weight = q.cfg.Weights[to]
	e.Status.Protected = e.pinned
	if fade {
		e.startFadeOut(q.cfg.FadeTicks)
	}
}
