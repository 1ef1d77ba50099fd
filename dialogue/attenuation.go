// SPDX-License-Identifier: EPL-2.0

package dialogue

import "fmt"

// Point is a position in room coordinates.
type Point struct {
	X, Y int
}

// Level is a coarse loudness class.
type Level int

const (
	Near Level = iota
	Mid
	Far
	Distant
)

// Distance limits of each Level, in room units. Anything beyond Far is
// Distant.
const (
	NearRadius = 80
	MidRadius  = 200
	FarRadius  = 400
)

var levelVariants = [...]int{Near: 0, Mid: 4, Far: 8, Distant: 12}

// Variant is the decoder variant that plays a sound at this level.
func (l Level) Variant() int {
	if l < Near {
		l = Near
	}
	if l > Distant {
		l = Distant
	}
	return levelVariants[l]
}

func (l Level) String() string {
	switch l {
	case Near:
		return "near"
	case Mid:
		return "mid"
	case Far:
		return "far"
	case Distant:
		return "distant"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// AttenuationClass grades a speaker at source as heard from listener. A
// closed door or wall between them costs one level.
func AttenuationClass(listener, source Point, occluded bool) Level {
	dx := int64(source.X - listener.X)
	dy := int64(source.Y - listener.Y)
	d2 := dx*dx + dy*dy

	var l Level
	switch {
	case d2 <= NearRadius*NearRadius:
		l = Near
	case d2 <= MidRadius*MidRadius:
		l = Mid
	case d2 <= FarRadius*FarRadius:
		l = Far
	default:
		l = Distant
	}

	if occluded && l < Distant {
		l++
	}
	return l
}
