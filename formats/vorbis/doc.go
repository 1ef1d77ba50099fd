// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis resources with
// github.com/jfreymuth/oggvorbis. Music and ambient beds are commonly
// shipped as .OGG; the Loader selects this decoder by extension.
package vorbis
