// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"math/rand/v2"
	"testing"
)

func typesOf(f *fixture) map[string]Type {
	out := make(map[string]Type)
	for _, s := range f.q.Snapshot() {
		out[s.Ref.Name] = s.Type
	}
	return out
}

func TestAllocator_EffectRotation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		f.play(t, NoEntity, name, ClassAuto)
	}

	got := typesOf(f)
	want := map[string]Type{
		"B": TypeEffect2,
		"C": TypeEffect3,
		"D": TypeEffect4,
		"E": TypeEffect1,
	}
	if len(got) != len(want) {
		t.Fatalf("live entries = %v, want %v", got, want)
	}
	for name, typ := range want {
		if got[name] != typ {
			t.Errorf("%s has %v, want %v", name, got[name], typ)
		}
	}
}

func TestAllocator_DialoguePair(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	f.play(t, "x", "A", ClassDialogue)
	f.play(t, "y", "B", ClassDialogue)
	f.play(t, "z", "C", ClassDialogue)

	got := typesOf(f)
	if len(got) != 2 || got["C"] != TypeDialogue || got["B"] != TypeDialoguePrev {
		t.Fatalf("types = %v, want C dialogue and B dialogue-prev", got)
	}

	notes := f.q.DrainNotifications()
	if len(notes) != 1 || notes[0].Entity != "x" || notes[0].Reason != ReasonFlushed {
		t.Errorf("notifications = %+v, want x flushed", notes)
	}

	s, _ := f.byType(TypeDialogue)
	if !s.Status.Protected {
		t.Error("current dialogue not protected")
	}
	s, _ = f.byType(TypeDialoguePrev)
	if s.Status.Protected || s.Status.FadingOut {
		t.Errorf("previous dialogue status = %v", s.Status)
	}
}

func TestAllocator_DialogueFlushesPrevWithoutPrimary(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	f.play(t, "x", "A", ClassDialogue)
	f.play(t, "y", "B", ClassDialogue)
	if n := f.q.Remove("y"); n != 1 {
		t.Fatalf("Remove = %d, want 1", n)
	}
	f.play(t, "z", "C", ClassDialogue)

	got := typesOf(f)
	if len(got) != 1 || got["C"] != TypeDialogue {
		t.Errorf("types = %v, want only C", got)
	}
}

func TestAllocator_AmbientFadesOut(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	f.play(t, "room", "A", ClassAmbient)
	f.play(t, "hall", "B", ClassAmbient)

	prev, ok := f.byType(TypeAmbientPrev)
	if !ok || prev.Ref.Name != "A" {
		t.Fatalf("ambient-prev = %+v, want A", prev)
	}
	if !prev.Status.FadingOut {
		t.Error("demoted ambient not fading")
	}
	if prev.Weight != DefaultWeights()[TypeAmbientPrev] {
		t.Errorf("demoted weight = %d", prev.Weight)
	}

	f.ticks(t, 2)
	if _, ok := f.byType(TypeAmbientPrev); !ok {
		t.Fatal("fade ended early")
	}
	f.ticks(t, 1)
	if _, ok := f.byType(TypeAmbientPrev); ok {
		t.Fatal("fade did not end after FadeTicks")
	}

	notes := f.q.DrainNotifications()
	if len(notes) != 1 || notes[0] != (Notification{Entity: "room", Name: "A", Reason: ReasonFaded}) {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestAllocator_SingleSlotKeepsPrevWhenPrimaryEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	f.play(t, NoEntity, "A", ClassMusic)
	f.play(t, NoEntity, "B", ClassMusic)
	f.q.Remove("B")
	f.play(t, NoEntity, "C", ClassMusic)

	got := typesOf(f)
	if got["A"] != TypeMusicPrev || got["C"] != TypeMusic || len(got) != 2 {
		t.Errorf("types = %v", got)
	}

	f.play(t, NoEntity, "D", ClassMusic)
	got = typesOf(f)
	if _, ok := got["A"]; ok {
		t.Error("A not flushed from music-prev")
	}
	if got["C"] != TypeMusicPrev || got["D"] != TypeMusic {
		t.Errorf("types = %v", got)
	}
}

func TestAllocator_SharedBackgroundPrev(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	f.play(t, NoEntity, "A", ClassBackground1)
	f.play(t, NoEntity, "B", ClassBackground1)
	f.play(t, NoEntity, "C", ClassBackground2)

	got := typesOf(f)
	if got["A"] != TypeBackgroundPrev || got["B"] != TypeBackground1 || got["C"] != TypeBackground2 {
		t.Fatalf("types = %v", got)
	}

	f.play(t, NoEntity, "D", ClassBackground2)
	got = typesOf(f)
	if _, ok := got["A"]; ok {
		t.Error("A still live")
	}
	if got["C"] != TypeBackgroundPrev || got["D"] != TypeBackground2 {
		t.Errorf("types = %v", got)
	}
}

func TestAllocator_UniqueTypes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"A", "B", "C", "D", "E", "F"}
	entities := []string{NoEntity, NoEntity, "x", "y", "z"}

	for i := range 300 {
		class := Class(rng.IntN(int(numClasses)))
		if _, err := f.q.Play(entities[rng.IntN(len(entities))], names[rng.IntN(len(names))], class, 0); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if rng.IntN(3) == 0 {
			f.ticks(t, 1)
		}

		seen := make(map[Type]bool)
		for _, s := range f.q.Snapshot() {
			if s.Type == TypeNone || seen[s.Type] {
				t.Fatalf("step %d: type %v assigned twice or unset", i, s.Type)
			}
			seen[s.Type] = true
		}
	}
}
