// SPDX-License-Identifier: EPL-2.0

package sbe

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Extension is the file extension of subtitle tracks.
const Extension = ".SBE"

// Cue is one line of text shown from Start to End inclusive.
type Cue struct {
	Start int
	End   int
	Text  string
}

// Track is an ordered list of non-overlapping cues.
type Track struct {
	Cues []Cue
}

// Parse reads a track from data.
func Parse(data []byte) (*Track, error) {
	t := &Track{}
	sc := bufio.NewScanner(bytes.NewReader(data))

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		c, err := parseCue(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if n := len(t.Cues); n > 0 && c.Start <= t.Cues[n-1].End {
			return nil, fmt.Errorf("line %d: %w", line, ErrOverlap)
		}
		t.Cues = append(t.Cues, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return t, nil
}

func parseCue(text string) (Cue, error) {
	first, rest := nextField(text)
	second, rest := nextField(rest)
	body := strings.TrimSpace(rest)
	if second == "" || body == "" {
		return Cue{}, ErrSyntax
	}

	start, err := strconv.Atoi(first)
	if err != nil || start < 0 {
		return Cue{}, fmt.Errorf("start %q: %w", first, ErrSyntax)
	}
	end, err := strconv.Atoi(second)
	if err != nil {
		return Cue{}, fmt.Errorf("end %q: %w", second, ErrSyntax)
	}
	if end < start {
		return Cue{}, ErrRange
	}

	return Cue{Start: start, End: end, Text: body}, nil
}

func nextField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// At returns the cue covering tick.
func (t *Track) At(tick int) (Cue, bool) {
	i := sort.Search(len(t.Cues), func(i int) bool { return t.Cues[i].End >= tick })
	if i < len(t.Cues) && t.Cues[i].Start <= tick {
		return t.Cues[i], true
	}
	return Cue{}, false
}

// Duration is the tick after the last cue ends.
func (t *Track) Duration() int {
	if len(t.Cues) == 0 {
		return 0
	}
	return t.Cues[len(t.Cues)-1].End + 1
}

// Cursor walks a track forward as playback advances. Seeking backwards
// restarts the walk.
type Cursor struct {
	track *Track
	next  int
	tick  int
}

func NewCursor(t *Track) *Cursor {
	return &Cursor{track: t, tick: -1}
}

// Seek moves to tick and returns the cue covering it.
func (c *Cursor) Seek(tick int) (Cue, bool) {
	if tick < c.tick {
		c.next = 0
	}
	c.tick = tick

	cues := c.track.Cues
	for c.next < len(cues) && cues[c.next].End < tick {
		c.next++
	}
	if c.next < len(cues) && cues[c.next].Start <= tick {
		return cues[c.next], true
	}
	return Cue{}, false
}

// Tick is the last position passed to Seek, or -1.
func (c *Cursor) Tick() int { return c.tick }
