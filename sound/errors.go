// SPDX-License-Identifier: EPL-2.0

package sound

import "errors"

var (
	ErrClosed          = errors.New("sound queue closed")
	ErrEmptyName       = errors.New("empty resource name")
	ErrInvalidClass    = errors.New("invalid sound class")
	ErrInvalidVariant  = errors.New("variant out of range")
	ErrInvalidConfig   = errors.New("invalid sound configuration")
	ErrUnavailable     = errors.New("sound resource unavailable")
	ErrReleaseTimeout  = errors.New("timed out waiting for slot release")
	ErrClearIncomplete = errors.New("blocks still leased after clear")
	ErrRunOnce         = errors.New("Run can only be called once")
)
