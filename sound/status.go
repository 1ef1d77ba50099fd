// SPDX-License-Identifier: EPL-2.0

package sound

import "strings"

// MaxSizeClass is the largest SizeClass a resource can get.
const MaxSizeClass = 3

// Status is the flag set of an entry.
type Status struct {
	// PendingRemoval is set while a finished stream drains its buffered
	// blocks, and on every entry during ClearAll.
	PendingRemoval bool
	Removed        bool
	// Steady means the entry plays at its resting level; only steady
	// entries can show subtitles.
	Steady    bool
	Ramping   bool
	FadingOut bool
	// Protected entries are never evicted.
	Protected bool
	// Releasing is set on an eviction victim while its blocks drain.
	Releasing bool
	Cached    bool

	// SizeClass grows with the resource size, 0..MaxSizeClass.
	SizeClass int
}

func (s Status) String() string {
	flags := []struct {
		on   bool
		name string
	}{
		{s.PendingRemoval, "pending"},
		{s.Removed, "removed"},
		{s.Steady, "steady"},
		{s.Ramping, "ramping"},
		{s.FadingOut, "fading"},
		{s.Protected, "protected"},
		{s.Releasing, "releasing"},
		{s.Cached, "cached"},
	}

	var b strings.Builder
	for _, f := range flags {
		if !f.on {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(f.name)
	}
	if b.Len() == 0 {
		b.WriteString("idle")
	}
	b.WriteString("/s")
	b.WriteByte(byte('0' + s.SizeClass))
	return b.String()
}

// sizeClass buckets a resource by its encoded size.
func sizeClass(n int) int {
	switch {
	case n < 64<<10:
		return 0
	case n < 256<<10:
		return 1
	case n < 1<<20:
		return 2
	default:
		return MaxSizeClass
	}
}
