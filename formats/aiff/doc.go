// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF resources through github.com/go-audio/aiff.
//
// Some shipped voice lines are authored as .AIF instead of SND. The Loader
// picks this decoder by extension:
//
//	src, err := aiff.Decoder{}.Decode(data)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // fall back
//	}
//
// Integer PCM at 8, 16, 24 and 32 bits is accepted and normalized to
// float32 in [-1.0, 1.0].
package aiff
