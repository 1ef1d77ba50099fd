// SPDX-License-Identifier: EPL-2.0

// Package dialogue holds the small helpers scripts use around the sound
// queue: how loud a speaker should be from where the listener stands, and
// which of a character's stock lines to say next.
//
// Nothing here keeps state; randomness is injected through Rand so that
// scripted scenes can be replayed.
package dialogue
