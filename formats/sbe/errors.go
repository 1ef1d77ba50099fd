// SPDX-License-Identifier: EPL-2.0

package sbe

import "errors"

var (
	ErrSyntax  = errors.New("malformed cue")
	ErrRange   = errors.New("cue ends before it starts")
	ErrOverlap = errors.New("cue overlaps the previous one")
)
