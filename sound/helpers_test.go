// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/ik5/sndsub/internal/audiotest"
)

// recorder is a Sink that keeps a copy of every block. With hold set it
// keeps the blocks leased until releaseAll.
type recorder struct {
	mu      sync.Mutex
	hold    bool
	ticks   int
	held    []*Block
	perTick [][]EntryRef
	samples map[uint64][]int16
}

func newRecorder() *recorder {
	return &recorder{samples: make(map[uint64][]int16)}
}

func (r *recorder) Consume(_ uint64, blocks []*Block) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ticks++
	refs := make([]EntryRef, 0, len(blocks))
	for _, b := range blocks {
		refs = append(refs, b.Entry)
		r.samples[b.Entry.ID] = append(r.samples[b.Entry.ID], b.Samples...)
		if r.hold {
			r.held = append(r.held, b)
		} else {
			b.Release()
		}
	}
	r.perTick = append(r.perTick, refs)
}

func (r *recorder) setHold(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hold = on
}

func (r *recorder) releaseAll() {
	r.mu.Lock()
	held := r.held
	r.held = nil
	r.mu.Unlock()

	for _, b := range held {
		b.Release()
	}
}

func (r *recorder) samplesOf(id uint64) []int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int16(nil), r.samples[id]...)
}

func (r *recorder) last() []EntryRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.perTick) == 0 {
		return nil
	}
	return r.perTick[len(r.perTick)-1]
}

// overlayLog records overlay calls.
type overlayLog struct {
	mu      sync.Mutex
	shown   []Subtitle
	cleared []string
}

func (o *overlayLog) Show(s Subtitle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shown = append(o.shown, s)
}

func (o *overlayLog) Clear(file string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleared = append(o.cleared, file)
}

func (o *overlayLog) clears() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.cleared...)
}

func (o *overlayLog) lastShown() (Subtitle, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.shown) == 0 {
		return Subtitle{}, false
	}
	return o.shown[len(o.shown)-1], true
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ReleaseTimeout = 20 * time.Millisecond
	cfg.ClearAttempts = 2
	cfg.FadeTicks = 3
	cfg.FallbackName = ""
	return cfg
}

type fixture struct {
	q       *Queue
	sink    *recorder
	overlay *overlayLog
	fsys    fstest.MapFS
}

// newFixture builds a queue over fsys. Nil fsys means a tree with A..F of
// six blocks each.
func newFixture(t *testing.T, fsys fstest.MapFS, cfg Config) *fixture {
	t.Helper()

	if fsys == nil {
		fsys = audiotest.Resources(6, "A.SND", "B.SND", "C.SND", "D.SND", "E.SND", "F.SND")
	}

	f := &fixture{sink: newRecorder(), overlay: &overlayLog{}, fsys: fsys}
	q, err := New(NewLoader(fsys, nil, cfg), f.sink, f.overlay, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	f.q = q
	return f
}

func (f *fixture) play(t *testing.T, entity, name string, class Class) EntryRef {
	t.Helper()

	ref, err := f.q.Play(entity, name, class, 0)
	if err != nil {
		t.Fatalf("Play(%s, %s): %v", entity, name, err)
	}
	return ref
}

func (f *fixture) ticks(t *testing.T, n int) {
	t.Helper()

	for range n {
		if err := f.q.ProcessTick(context.Background()); err != nil {
			t.Fatalf("ProcessTick: %v", err)
		}
	}
}

func (f *fixture) entry(id uint64) (EntrySnapshot, bool) {
	for _, s := range f.q.Snapshot() {
		if s.Ref.ID == id {
			return s, true
		}
	}
	return EntrySnapshot{}, false
}

func (f *fixture) byType(typ Type) (EntrySnapshot, bool) {
	for _, s := range f.q.Snapshot() {
		if s.Type == typ {
			return s, true
		}
	}
	return EntrySnapshot{}, false
}
