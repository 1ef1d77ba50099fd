// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid mixer configuration")
	ErrShortBuffer   = errors.New("buffer length must be a multiple of 2")
)
