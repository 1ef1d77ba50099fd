// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"strings"
)

const (
	// NoEntity marks a sound with no owning entity. Any number of unbound
	// sounds may play at once.
	NoEntity = "none"
	// BackgroundEntity owns the looping walla cues.
	BackgroundEntity = "background"
)

// Type is the slot a live entry occupies. Every live entry holds a
// distinct Type.
type Type int

const (
	TypeNone Type = iota
	TypeEffect1
	TypeEffect2
	TypeEffect3
	TypeEffect4
	TypeDialogue
	TypeDialoguePrev
	TypeAmbient
	TypeAmbientPrev
	TypeMusic
	TypeMusicPrev
	TypeBackground1
	TypeBackground2
	TypeBackground3
	TypeBackground4
	TypeBackgroundPrev

	NumTypes
)

var typeNames = [NumTypes]string{
	TypeNone:           "none",
	TypeEffect1:        "effect1",
	TypeEffect2:        "effect2",
	TypeEffect3:        "effect3",
	TypeEffect4:        "effect4",
	TypeDialogue:       "dialogue",
	TypeDialoguePrev:   "dialogue-prev",
	TypeAmbient:        "ambient",
	TypeAmbientPrev:    "ambient-prev",
	TypeMusic:          "music",
	TypeMusicPrev:      "music-prev",
	TypeBackground1:    "background1",
	TypeBackground2:    "background2",
	TypeBackground3:    "background3",
	TypeBackground4:    "background4",
	TypeBackgroundPrev: "background-prev",
}

func (t Type) String() string {
	if t < 0 || t >= NumTypes {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType is the inverse of Type.String.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return Type(t), true
		}
	}
	return TypeNone, false
}

// Class is what a caller asks for. The allocator turns it into a Type.
type Class int

const (
	// ClassAuto rotates through the four effect types.
	ClassAuto Class = iota
	// ClassDialogue keeps the previous line audible as dialogue-prev.
	ClassDialogue
	ClassAmbient
	ClassMusic
	ClassBackground1
	ClassBackground2
	ClassBackground3
	ClassBackground4

	numClasses
)

var classNames = [numClasses]string{
	ClassAuto:        "auto",
	ClassDialogue:    "dialogue",
	ClassAmbient:     "ambient",
	ClassMusic:       "music",
	ClassBackground1: "background1",
	ClassBackground2: "background2",
	ClassBackground3: "background3",
	ClassBackground4: "background4",
}

func (c Class) Valid() bool { return c >= 0 && c < numClasses }

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// Weights holds the eviction and subtitle weight of every Type.
type Weights [NumTypes]int

// DefaultWeights favors the current dialogue line, then music and
// ambience. Demoted types weigh less than their primaries.
func DefaultWeights() Weights {
	return Weights{
		TypeNone:           0,
		TypeEffect1:        5,
		TypeEffect2:        5,
		TypeEffect3:        5,
		TypeEffect4:        5,
		TypeDialogue:       12,
		TypeDialoguePrev:   6,
		TypeAmbient:        8,
		TypeAmbientPrev:    3,
		TypeMusic:          10,
		TypeMusicPrev:      4,
		TypeBackground1:    7,
		TypeBackground2:    7,
		TypeBackground3:    7,
		TypeBackground4:    7,
		TypeBackgroundPrev: 2,
	}
}
