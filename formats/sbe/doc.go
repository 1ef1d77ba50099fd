// SPDX-License-Identifier: EPL-2.0

// Package sbe parses subtitle tracks.
//
// A track is UTF-8 text with one cue per line:
//
//	# LIB012
//	0 45 Excuse me, have you seen the librarian?
//	50 120 She went that way.
//
// Start and end are inclusive tick numbers at the engine tick rate. Blank
// lines and lines starting with # are ignored. Cues must be ordered by
// start tick and must not overlap.
package sbe
