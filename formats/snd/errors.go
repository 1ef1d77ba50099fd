// SPDX-License-Identifier: EPL-2.0

package snd

import "errors"

var (
	// ErrNotSNDFile indicates the data does not start with the SND magic
	ErrNotSNDFile = errors.New("not an SND file")

	// ErrUnsupportedVersion indicates an SND header version other than 1
	ErrUnsupportedVersion = errors.New("unsupported SND version")

	// ErrUnsupportedChannels indicates a channel count other than stereo
	ErrUnsupportedChannels = errors.New("only stereo SND is supported")

	// ErrTruncated indicates the block payload is shorter than the header claims
	ErrTruncated = errors.New("truncated SND data")

	// ErrBitrateExceeded indicates a block was rejected by the bitrate guard
	ErrBitrateExceeded = errors.New("SND bitrate exceeds limit")

	// ErrInvalidVariant indicates a variant index outside 0..16
	ErrInvalidVariant = errors.New("invalid SND variant")
)
