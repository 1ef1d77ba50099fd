// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrNoExtension indicates a resource name without a format extension
	ErrNoExtension = errors.New("resource name has no extension")

	// ErrUnknownFormat indicates no decoder is registered for an extension
	ErrUnknownFormat = errors.New("no decoder registered for format")
)
