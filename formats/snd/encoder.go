// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"fmt"
	"io"
)

// EncodeBlock compresses up to BlockSamples interleaved samples from pcm
// into dst (BlockBytes long) and returns the state after the block. Missing
// samples are encoded as silence relative to the running sample.
func EncodeBlock(dst []byte, pcm []int16, st State) State {
	idx := int(st.Index)
	if idx > maxState {
		idx = maxState
	}
	sample := int32(st.Sample)

	next := func(k int) byte {
		target := sample
		if k < len(pcm) {
			target = int32(pcm[k])
		}

		best, bestErr := 0, int32(-1)
		for n := range 16 {
			v := clampSample(sample + signTable[idx<<4|n])
			e := v - target
			if e < 0 {
				e = -e
			}
			if bestErr < 0 || e < bestErr {
				best, bestErr = n, e
			}
		}

		i := idx<<4 | best
		sample = clampSample(sample + signTable[i])
		idx = int(deltaTable[i])
		return byte(best)
	}

	for b := range BlockBytes {
		hi := next(2 * b)
		lo := next(2*b + 1)
		dst[b] = hi<<4 | lo
	}

	return State{Index: uint16(idx), Sample: int16(sample)}
}

// Encode writes interleaved stereo pcm as a complete SND resource. Rates
// whose bitrate would exceed MaxBitrate are rejected.
func Encode(w io.Writer, pcm []int16, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate %d: invalid", sampleRate)
	}
	if sampleRate*2*4 > MaxBitrate {
		return fmt.Errorf("sample rate %d: %w", sampleRate, ErrBitrateExceeded)
	}

	blocks := (len(pcm) + BlockSamples - 1) / BlockSamples
	hdr := Header{
		Channels:   2,
		SampleRate: sampleRate,
		Bitrate:    sampleRate * 2 * 4,
		Blocks:     blocks,
	}

	out, err := hdr.AppendBinary(make([]byte, 0, HeaderSize+hdr.PayloadSize()))
	if err != nil {
		return err
	}
	out = out[:HeaderSize+hdr.PayloadSize()]

	st := hdr.Seed
	for b := range blocks {
		start := b * BlockSamples
		end := min(start+BlockSamples, len(pcm))
		off := HeaderSize + b*BlockBytes
		st = EncodeBlock(out[off:off+BlockBytes], pcm[start:end], st)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
