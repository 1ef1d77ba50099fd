// SPDX-License-Identifier: EPL-2.0

package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// ClampInt16 saturates v into the int16 range.
func ClampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// MixInt16 adds src into dst with saturation. Only min(len(dst), len(src))
// samples are touched.
func MixInt16(dst, src []int16) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = ClampInt16(int32(dst[i]) + int32(src[i]))
	}
}
