// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"path"
	"strings"

	"github.com/ik5/sndsub/formats/sbe"
)

// Subtitle is what the overlay draws for the current track.
type Subtitle struct {
	File   string
	Name   string
	Entity string
	// Tick is the elapsed tick of the owning entry.
	Tick int
	// Text is empty between cues.
	Text string
}

// Overlay renders subtitles.
type Overlay interface {
	Show(s Subtitle)
	Clear(file string)
}

type nopOverlay struct{}

func (nopOverlay) Show(Subtitle) {}
func (nopOverlay) Clear(string)  {}

// subtitle is a candidate track. It refers to its entry by id only.
type subtitle struct {
	file        string
	entry       uint64
	track       *sbe.Track
	cursor      *sbe.Cursor
	unavailable bool
}

type synchronizer struct {
	candidates []*subtitle
	current    *subtitle
	loading    *subtitle
	cinematic  bool
}

// SubtitleFile maps a sound name to its subtitle track.
func SubtitleFile(name string, prefixLen int) string {
	base := normalizeName(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	if len(base) > prefixLen {
		base = base[:prefixLen]
	}
	return base + sbe.Extension
}

func (q *Queue) addSubtitle(e *Entry) {
	c := &subtitle{
		file:  SubtitleFile(e.Name, q.cfg.SubtitlePrefixLen),
		entry: e.id,
	}
	e.subtitle = c
	q.subs.candidates = append(q.subs.candidates, c)
}

func (q *Queue) lookup(id uint64) *Entry {
	for _, e := range q.entries {
		if e.id == id {
			return e
		}
	}
	return nil
}

// subtitleScore rates a candidate; zero means not eligible.
func (q *Queue) subtitleScore(c *subtitle) int {
	if c.unavailable {
		return 0
	}
	e := q.lookup(c.entry)
	if e == nil {
		return 0
	}

	st := e.Status
	if st.Removed || !st.Steady || st.Releasing || st.FadingOut {
		return 0
	}
	if e.Elapsed == 0 || e.Elapsed < q.cfg.SubtitleMinTicks {
		return 0
	}

	score := e.Weight + st.SizeClass
	if q.subs.cinematic && e.Elapsed < 2*q.cfg.SubtitleMinTicks {
		score /= 2
	}
	if score > 0 && c == q.subs.current {
		score += q.cfg.HysteresisBonus
	}
	return score
}

// resync picks the subtitle to display. Caller holds q.mu.
func (q *Queue) resync() {
	var (
		win  *subtitle
		best int
	)
	for _, c := range q.subs.candidates {
		if s := q.subtitleScore(c); s > best {
			win, best = c, s
		}
	}

	cur := q.subs.current
	if win == cur {
		if cur != nil {
			q.showSubtitle(cur)
		}
		return
	}

	if cur != nil {
		q.overlay.Clear(cur.file)
		q.subs.current = nil
	}
	if win == nil {
		return
	}

	if win.track == nil {
		q.subs.loading = win
		if err := q.loadSubtitle(win); err != nil {
			q.log.Warnf("Subtitle %s unavailable: %v", win.file, err)
			win.unavailable = true
			q.subs.loading = nil
			return
		}
		q.subs.loading = nil
	}

	q.subs.current = win
	q.showSubtitle(win)
}

func (q *Queue) loadSubtitle(c *subtitle) error {
	data, err := q.loader.ReadFile(c.file)
	if err != nil {
		return err
	}
	tr, err := sbe.Parse(data)
	if err != nil {
		return err
	}

	c.track = tr
	c.cursor = sbe.NewCursor(tr)
	return nil
}

func (q *Queue) showSubtitle(c *subtitle) {
	e := q.lookup(c.entry)
	if e == nil {
		return
	}

	s := Subtitle{File: c.file, Name: e.Name, Entity: e.Entity, Tick: e.Elapsed}
	if cue, ok := c.cursor.Seek(e.Elapsed); ok {
		s.Text = cue.Text
	}
	q.overlay.Show(s)
}

// dropSubtitles forgets the candidates of swept entries.
func (q *Queue) dropSubtitles(gone map[uint64]bool) {
	kept := q.subs.candidates[:0]
	for _, c := range q.subs.candidates {
		if gone[c.entry] {
			if c == q.subs.current {
				q.overlay.Clear(c.file)
				q.subs.current = nil
			}
			if c == q.subs.loading {
				q.subs.loading = nil
			}
			continue
		}
		kept = append(kept, c)
	}
	clear(q.subs.candidates[len(kept):])
	q.subs.candidates = kept
}

// CurrentSubtitle returns the displayed subtitle.
func (q *Queue) CurrentSubtitle() (Subtitle, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	c := q.subs.current
	if c == nil {
		return Subtitle{}, false
	}
	e := q.lookup(c.entry)
	if e == nil {
		return Subtitle{}, false
	}

	s := Subtitle{File: c.file, Name: e.Name, Entity: e.Entity, Tick: e.Elapsed}
	if cue, ok := c.track.At(e.Elapsed); ok {
		s.Text = cue.Text
	}
	return s, true
}

// SetCinematic halves subtitle scores of entries that have not been
// playing for twice the minimum.
func (q *Queue) SetCinematic(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.subs.cinematic = on
	q.resync()
}
