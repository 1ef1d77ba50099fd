// SPDX-License-Identifier: EPL-2.0

package dialogue

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ik5/sndsub/sound"
)

// Rand is the randomness the pickers need. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func orGlobal(r Rand) Rand {
	if r == nil {
		return globalRand{}
	}
	return r
}

// Pick returns one of names, or "" when there are none. A nil r uses
// the global source.
func Pick(r Rand, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[orGlobal(r).IntN(len(names))]
}

// PickOther is Pick avoiding last, unless last is the only choice.
func PickOther(r Rand, names []string, last string) string {
	skip := -1
	for i, n := range names {
		if strings.EqualFold(n, last) {
			skip = i
			break
		}
	}
	if skip < 0 || len(names) < 2 {
		return Pick(r, names)
	}

	i := orGlobal(r).IntN(len(names) - 1)
	if i >= skip {
		i++
	}
	return names[i]
}

// LineSet is a numbered family of stock lines. Every character records
// its own take, named speaker code + Stem + number, e.g. "LIBEXC2".
type LineSet struct {
	Stem  string
	Count int
}

var (
	ExcuseMeLines     = LineSet{Stem: "EXC", Count: 4}
	WrongDoorLines    = LineSet{Stem: "WDR", Count: 3}
	JustCheckingLines = LineSet{Stem: "CHK", Count: 3}
)

// Names lists the resources of the set for speaker. Only the first three
// letters of speaker are used.
func (s LineSet) Names(speaker string) []string {
	code := strings.ToUpper(strings.TrimSpace(speaker))
	if len(code) > 3 {
		code = code[:3]
	}

	out := make([]string, s.Count)
	for i := range out {
		out[i] = fmt.Sprintf("%s%s%d", code, s.Stem, i+1)
	}
	return out
}

// ExcuseMe picks what speaker says when bumped into.
func ExcuseMe(r Rand, speaker string) string {
	return Pick(r, ExcuseMeLines.Names(speaker))
}

// WrongDoor picks the line for a locked or wrong door, never repeating
// last.
func WrongDoor(r Rand, speaker, last string) string {
	return PickOther(r, WrongDoorLines.Names(speaker), last)
}

// JustChecking picks an idle remark.
func JustChecking(r Rand, speaker string) string {
	return Pick(r, JustCheckingLines.Names(speaker))
}

// Say queues name as speech of entity at the loudness of level, with a
// subtitle.
func Say(q *sound.Queue, entity, name string, level Level) (sound.EntryRef, error) {
	return q.PlayWith(sound.PlayOptions{
		Entity:    entity,
		Name:      name,
		Class:     sound.ClassDialogue,
		Variant:   level.Variant(),
		Subtitles: true,
	})
}
