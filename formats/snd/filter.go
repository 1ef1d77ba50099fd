// SPDX-License-Identifier: EPL-2.0

package snd

const (
	// BlockBytes is the size of one compressed block.
	BlockBytes = 735
	// BlockFrames is the number of stereo pairs one block decodes to.
	BlockFrames = BlockBytes
	// BlockSamples is the number of int16 values one block decodes to.
	BlockSamples = 2 * BlockBytes

	// MaxBitrate is the highest stream bitrate DecodeBlock accepts
	// (44.1 kHz stereo at 4 bits per sample).
	MaxBitrate = 44100 * 2 * 4

	// Variants is the number of scale/shift variants; valid indexes are 0..16.
	Variants = 17

	states    = 89
	maxState  = states - 1
	tableSize = states * 16

	minSample = -32767
	maxSample = 32767
)

// State is the running filter state threaded from one block to the next.
type State struct {
	// Index addresses the constant tables, 0..88. Larger values are
	// clamped on use.
	Index uint16
	// Sample is the running sample accumulator.
	Sample int16
}

// scaleTable and shiftTable are indexed by variant. 16 mirrors 0.
var scaleTable = [Variants]int32{1, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 1}
var shiftTable = [Variants]uint8{0, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 0}

// DecodeBlock decodes one compressed block from src into dst and returns
// the filter state to feed the next call.
//
// dst must hold at least BlockSamples values and src at least BlockBytes
// bytes. The block is rejected, with dst untouched and st returned as is,
// when bitrate exceeds MaxBitrate, the variant is out of range or either
// buffer is short.
func DecodeBlock(dst []int16, src []byte, st State, variant int, bitrate int) (State, bool) {
	if bitrate > MaxBitrate || variant < 0 || variant >= Variants {
		return st, false
	}
	if len(dst) < BlockSamples || len(src) < BlockBytes {
		return st, false
	}

	scale := scaleTable[variant]
	shift := shiftTable[variant]

	idx := int(st.Index)
	if idx > maxState {
		idx = maxState
	}
	sample := int32(st.Sample)

	o := 0
	for _, b := range src[:BlockBytes] {
		// high nibble
		i := idx<<4 | int(b>>4)
		sample = clampSample(sample + signTable[i])
		idx = int(deltaTable[i])
		dst[o] = int16((scale * sample) >> shift)

		// low nibble
		i = idx<<4 | int(b&0x0f)
		sample = clampSample(sample + signTable[i])
		idx = int(deltaTable[i])
		dst[o+1] = int16((scale * sample) >> shift)

		o += 2
	}

	return State{Index: uint16(idx), Sample: int16(sample)}, true
}

// Scale applies a variant to samples that did not come through DecodeBlock.
func Scale(samples []int16, variant int) error {
	if variant < 0 || variant >= Variants {
		return ErrInvalidVariant
	}
	if variant == 0 || variant == Variants-1 {
		return nil
	}

	scale := scaleTable[variant]
	shift := shiftTable[variant]
	for i, s := range samples {
		samples[i] = int16((scale * int32(s)) >> shift)
	}

	return nil
}

func clampSample(v int32) int32 {
	if v > maxSample {
		return maxSample
	}
	if v < minSample {
		return minSample
	}
	return v
}
