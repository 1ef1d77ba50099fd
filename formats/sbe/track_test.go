// SPDX-License-Identifier: EPL-2.0

package sbe

import (
	"errors"
	"testing"
)

const lib012 = "\ufeff# LIB012\n" +
	"0 45 Excuse me, have you seen the librarian?\n" +
	"\n" +
	"50 120 She went that way.\n" +
	"  121   200   Thanks.  \n"

func TestParse(t *testing.T) {
	t.Parallel()

	tr, err := Parse([]byte(lib012))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Cue{
		{0, 45, "Excuse me, have you seen the librarian?"},
		{50, 120, "She went that way."},
		{121, 200, "Thanks."},
	}
	if len(tr.Cues) != len(want) {
		t.Fatalf("got %d cues, want %d", len(tr.Cues), len(want))
	}
	for i := range want {
		if tr.Cues[i] != want[i] {
			t.Errorf("cue %d = %+v, want %+v", i, tr.Cues[i], want[i])
		}
	}
	if tr.Duration() != 201 {
		t.Errorf("Duration = %d, want 201", tr.Duration())
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	tr, err := Parse([]byte("# nothing here\n\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tr.Cues) != 0 || tr.Duration() != 0 {
		t.Errorf("cues = %v, duration = %d, want none", tr.Cues, tr.Duration())
	}
	if _, ok := tr.At(0); ok {
		t.Error("At(0) found a cue in an empty track")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing text", "0 10\n", ErrSyntax},
		{"blank text", "0 10    \n", ErrSyntax},
		{"bad start", "x 10 hi\n", ErrSyntax},
		{"negative start", "-1 10 hi\n", ErrSyntax},
		{"bad end", "0 y hi\n", ErrSyntax},
		{"reversed", "10 5 hi\n", ErrRange},
		{"overlap", "0 10 a\n10 20 b\n", ErrOverlap},
		{"unordered", "20 30 a\n0 10 b\n", ErrOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrack_At(t *testing.T) {
	t.Parallel()

	tr, err := Parse([]byte(lib012))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		tick int
		want string
		ok   bool
	}{
		{0, "Excuse me, have you seen the librarian?", true},
		{45, "Excuse me, have you seen the librarian?", true},
		{47, "", false},
		{50, "She went that way.", true},
		{121, "Thanks.", true},
		{201, "", false},
	}

	for _, tt := range tests {
		got, ok := tr.At(tt.tick)
		if ok != tt.ok || got.Text != tt.want {
			t.Errorf("At(%d) = (%q, %v), want (%q, %v)", tt.tick, got.Text, ok, tt.want, tt.ok)
		}
	}
}

func TestCursor_Seek(t *testing.T) {
	t.Parallel()

	tr, err := Parse([]byte(lib012))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c := NewCursor(tr)
	if c.Tick() != -1 {
		t.Errorf("fresh cursor Tick = %d, want -1", c.Tick())
	}

	// every position must agree with the binary search, forwards and after a rewind
	for _, ticks := range [][]int{{0, 10, 46, 60, 130, 300}, {5, 121, 0, 50}} {
		for _, tick := range ticks {
			got, ok := c.Seek(tick)
			want, wantOK := tr.At(tick)
			if ok != wantOK || got != want {
				t.Errorf("Seek(%d) = (%+v, %v), want (%+v, %v)", tick, got, ok, want, wantOK)
			}
			if c.Tick() != tick {
				t.Errorf("Tick = %d, want %d", c.Tick(), tick)
			}
		}
	}
}
