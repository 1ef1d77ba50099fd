// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III resources with
// github.com/hajimehoshi/go-mp3.
//
// The decoder output is always stereo; mono files are duplicated by go-mp3.
// Samples are normalized to float32 in [-1.0, 1.0].
package mp3
