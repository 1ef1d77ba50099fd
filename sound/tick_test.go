// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"encoding/binary"
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/ik5/sndsub/formats/snd"
	"github.com/ik5/sndsub/internal/audiotest"
)

// decodeAll decodes an SND resource block by block at variant.
func decodeAll(t *testing.T, data []byte, variant int) []int16 {
	t.Helper()

	src, err := snd.Decoder{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	br := src.(snd.BlockReader)

	var out []int16
	buf := make([]int16, snd.BlockSamples)
	for {
		_, err := br.ReadBlock(buf, variant)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadBlock: %v", err)
		}
		out = append(out, buf...)
	}
}

func TestProcessTick_Completion(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	ref := f.play(t, "charA", "A", ClassAuto)

	f.ticks(t, 6)
	s, ok := f.entry(ref.ID)
	if !ok {
		t.Fatal("entry ended before its last block was heard")
	}
	if s.Elapsed != 6 {
		t.Errorf("Elapsed = %d, want 6", s.Elapsed)
	}

	f.ticks(t, 1)
	if _, ok := f.entry(ref.ID); ok {
		t.Fatal("entry still live after its stream ended")
	}

	want := decodeAll(t, f.fsys["A.SND"].Data, 0)
	if got := f.sink.samplesOf(ref.ID); !slices.Equal(got, want) {
		t.Errorf("got %d samples, want %d matching the decoder", len(got), len(want))
	}

	notes := f.q.DrainNotifications()
	if len(notes) != 1 || notes[0] != (Notification{Entity: "charA", Name: "A", Reason: ReasonCompleted}) {
		t.Errorf("notifications = %+v", notes)
	}

	st := f.q.Stats()
	if st.Ticks != 7 || st.Blocks != 6 || st.Notifications != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestProcessTick_Variant(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	ref, err := f.q.PlayWith(PlayOptions{Name: "B", Variant: 4})
	if err != nil {
		t.Fatalf("PlayWith: %v", err)
	}
	f.ticks(t, 7)

	want := decodeAll(t, f.fsys["B.SND"].Data, 4)
	if got := f.sink.samplesOf(ref.ID); !slices.Equal(got, want) {
		t.Error("attenuated samples differ from decoding at the variant")
	}
}

func TestProcessTick_RampIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	ref, err := f.q.PlayWith(PlayOptions{Entity: "x", Name: "A", RampTicks: 3})
	if err != nil {
		t.Fatalf("PlayWith: %v", err)
	}

	want := []struct {
		variant int
		steady  bool
	}{
		{quietVariant, false},
		{10, false},
		{5, false},
		{0, true},
	}
	for i, w := range want {
		s, _ := f.entry(ref.ID)
		if s.Variant != w.variant || s.Status.Steady != w.steady || s.Status.Ramping == w.steady {
			t.Errorf("tick %d: variant %d status %v, want %d steady=%v", i, s.Variant, s.Status, w.variant, w.steady)
		}
		f.ticks(t, 1)
	}
}

func TestProcessTick_BackgroundLoops(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, testConfig())
	first := f.play(t, BackgroundEntity, "C", ClassBackground2)

	f.ticks(t, 7)
	live := f.q.Snapshot()
	if len(live) != 1 {
		t.Fatalf("live = %+v, want the looped cue", live)
	}
	if live[0].Ref.ID == first.ID || live[0].Ref.Name != "C" || live[0].Type != TypeBackground2 {
		t.Errorf("loop = %+v", live[0])
	}

	f.q.Remove(BackgroundEntity)
	f.ticks(t, 8)
	if n := len(f.q.Snapshot()); n != 0 {
		t.Errorf("%d entries after removing the loop", n)
	}
	if n := len(f.q.DrainNotifications()); n != 0 {
		t.Errorf("background produced %d notifications", n)
	}
}

func TestProcessTick_DemotedLoopEnds(t *testing.T) {
	t.Parallel()

	fsys := audiotest.Resources(6, "N.SND")
	fsys["W.SND"] = &fstest.MapFile{Data: audiotest.ToneSND(2)}
	f := newFixture(t, fsys, testConfig())

	old := f.play(t, BackgroundEntity, "W", ClassBackground1)
	f.ticks(t, 1)
	newer := f.play(t, NoEntity, "N", ClassBackground1)

	for tick := 1; tick <= 5; tick++ {
		f.ticks(t, 1)
		s, ok := f.byType(TypeBackground1)
		if !ok || s.Ref.ID != newer.ID {
			t.Fatalf("tick %d: background1 = %+v, want N", tick, s)
		}
		if s.Status.FadingOut {
			t.Fatalf("tick %d: N is fading out", tick)
		}
	}

	for _, s := range f.q.Snapshot() {
		if s.Ref.Name == "W" {
			t.Errorf("demoted loop still playing: %+v (first id %d)", s, old.ID)
		}
	}
}

func TestProcessTick_RampInPassthroughVariant(t *testing.T) {
	t.Parallel()

	for _, variant := range []int{0, snd.Variants - 1} {
		f := newFixture(t, nil, testConfig())
		ref, err := f.q.PlayWith(PlayOptions{Name: "A", Variant: variant, RampTicks: 4})
		if err != nil {
			t.Fatalf("PlayWith: %v", err)
		}

		var got []int
		for range 5 {
			s, _ := f.entry(ref.ID)
			got = append(got, s.Variant)
			f.ticks(t, 1)
		}
		if want := []int{15, 12, 8, 4, 0}; !slices.Equal(got, want) {
			t.Errorf("variant %d: ramp = %v, want %v", variant, got, want)
		}
	}
}

func TestProcessTick_SinkEntity(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SinkEntities = []string{"narrator"}
	f := newFixture(t, nil, cfg)
	f.play(t, "narrator", "A", ClassAuto)
	f.play(t, "guard", "B", ClassAuto)
	f.ticks(t, 7)

	notes := f.q.DrainNotifications()
	if len(notes) != 1 || notes[0].Entity != "guard" {
		t.Errorf("notifications = %+v, want guard only", notes)
	}
}

func TestProcessTick_InvalidStream(t *testing.T) {
	t.Parallel()

	data := audiotest.ToneSND(2)
	binary.LittleEndian.PutUint32(data[12:16], snd.MaxBitrate+1)
	f := newFixture(t, fstest.MapFS{"BAD.SND": {Data: data}}, testConfig())

	f.play(t, "bob", "BAD", ClassAuto)
	f.ticks(t, 1)

	notes := f.q.DrainNotifications()
	if len(notes) != 1 || notes[0].Reason != ReasonInvalid {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestProcessTick_Eviction(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ArenaSlots = 1
	f := newFixture(t, nil, cfg)

	a := f.play(t, NoEntity, "A", ClassAuto)
	f.ticks(t, 1)
	if s, _ := f.entry(a.ID); !s.Status.Cached {
		t.Fatal("A not cached")
	}

	b := f.play(t, NoEntity, "B", ClassMusic)
	f.ticks(t, 1)

	sa, _ := f.entry(a.ID)
	sb, _ := f.entry(b.ID)
	if sa.Status.Cached || !sb.Status.Cached {
		t.Fatalf("A cached=%v B cached=%v, want B to own the slot", sa.Status.Cached, sb.Status.Cached)
	}
	if st := f.q.Stats(); st.Evictions != 1 || st.SlotsUsed != 1 {
		t.Errorf("stats = %+v", st)
	}

	f.ticks(t, 6)
	want := decodeAll(t, f.fsys["A.SND"].Data, 0)
	if got := f.sink.samplesOf(a.ID); !slices.Equal(got, want) {
		t.Error("evicted entry lost or repeated blocks")
	}
	if st := f.q.Stats(); st.Refusals == 0 || st.StreamedBlocks == 0 {
		t.Errorf("A was never refused a slot: %+v", st)
	}
}

func TestProcessTick_ProtectedNotEvicted(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ArenaSlots = 1
	cfg.Weights[TypeMusic] = 50
	f := newFixture(t, nil, cfg)

	d := f.play(t, "x", "A", ClassDialogue)
	f.ticks(t, 1)
	m := f.play(t, NoEntity, "B", ClassMusic)
	f.ticks(t, 1)

	sd, _ := f.entry(d.ID)
	sm, _ := f.entry(m.ID)
	if !sd.Status.Cached || sm.Status.Cached {
		t.Errorf("dialogue cached=%v music cached=%v", sd.Status.Cached, sm.Status.Cached)
	}
	if len(f.sink.samplesOf(m.ID)) != snd.BlockSamples {
		t.Error("refused entry did not stream")
	}
}

func TestProcessTick_DropUncached(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ArenaSlots = 1
	cfg.DropUncached = true
	f := newFixture(t, nil, cfg)

	f.play(t, "x", "A", ClassMusic)
	f.ticks(t, 1)
	e := f.play(t, "y", "B", ClassAuto)
	f.ticks(t, 1)

	if _, ok := f.entry(e.ID); ok {
		t.Error("refused entry still live")
	}
	notes := f.q.DrainNotifications()
	if len(notes) != 1 || notes[0] != (Notification{Entity: "y", Name: "B", Reason: ReasonDropped}) {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestProcessTick_ReleaseTimeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ArenaSlots = 1
	f := newFixture(t, nil, cfg)
	f.sink.setHold(true)

	a := f.play(t, NoEntity, "A", ClassAuto)
	f.ticks(t, 1)
	b := f.play(t, NoEntity, "B", ClassMusic)
	f.ticks(t, 1)

	sa, _ := f.entry(a.ID)
	sb, _ := f.entry(b.ID)
	if !sa.Status.Cached || sa.Status.Releasing || sb.Status.Cached {
		t.Errorf("A %v, B %v", sa.Status, sb.Status)
	}
	if st := f.q.Stats(); st.ReleaseTimeouts != 1 || st.Evictions != 0 {
		t.Errorf("stats = %+v", st)
	}

	f.sink.releaseAll()
	f.sink.setHold(false)
	f.ticks(t, 1)
	if sb, _ = f.entry(b.ID); !sb.Status.Cached {
		t.Error("B not cached once the blocks were released")
	}
}

func TestProcessTick_RandomArena(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ArenaSlots = 2
	cfg.SlotBlocks = 2
	f := newFixture(t, nil, cfg)

	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"A", "B", "C", "D", "E", "F"}
	entities := []string{NoEntity, "x", "y", "z", BackgroundEntity}

	prev := map[uint64]EntrySnapshot{}
	for step := range 400 {
		switch rng.IntN(5) {
		case 0, 1:
			opts := PlayOptions{
				Entity:    entities[rng.IntN(len(entities))],
				Name:      names[rng.IntN(len(names))],
				Class:     Class(rng.IntN(int(numClasses))),
				RampTicks: rng.IntN(4),
				Protected: rng.IntN(6) == 0,
			}
			if _, err := f.q.PlayWith(opts); err != nil {
				t.Fatalf("PlayWith: %v", err)
			}
		case 2:
			f.q.Remove(names[rng.IntN(len(names))])
		default:
			f.ticks(t, 1)
		}

		cur := map[uint64]EntrySnapshot{}
		cached := 0
		for _, s := range f.q.Snapshot() {
			cur[s.Ref.ID] = s
			if s.Status.Cached {
				cached++
			}
			if p, ok := prev[s.Ref.ID]; ok && p.Status.Protected && p.Status.Cached && s.Status.Protected && !s.Status.Cached {
				t.Fatalf("step %d: protected %s lost its slot", step, s.Ref.Name)
			}
		}
		if st := f.q.Stats(); cached > cfg.ArenaSlots || st.SlotsUsed > cfg.ArenaSlots {
			t.Fatalf("step %d: %d cached entries, %d slots used", step, cached, st.SlotsUsed)
		}
		prev = cur
	}
}
