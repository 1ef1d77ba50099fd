// SPDX-License-Identifier: EPL-2.0

package sndsub

import "errors"

var ErrInvalidRate = errors.New("sample rate must be positive")
