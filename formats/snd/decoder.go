// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"fmt"
	"io"

	"github.com/ik5/sndsub/audio"
)

// BlockReader is implemented by sources that can hand out whole decoded
// blocks with a variant applied during decoding.
type BlockReader interface {
	// ReadBlock decodes the next block into dst, which must hold
	// BlockSamples values. It returns io.EOF once every block was read.
	ReadBlock(dst []int16, variant int) (int, error)
}

type source struct {
	hdr     Header
	payload []byte
	next    int // next block index
	state   State

	pcm     []int16
	pending []int16
}

func (s *source) SampleRate() int { return s.hdr.SampleRate }
func (s *source) Channels() int   { return s.hdr.Channels }
func (s *source) BufSize() int    { return BlockSamples }
func (s *source) Close() error    { return nil }

// Header returns the parsed resource header.
func (s *source) Header() Header { return s.hdr }

func (s *source) ReadBlock(dst []int16, variant int) (int, error) {
	if s.next >= s.hdr.Blocks {
		return 0, io.EOF
	}
	if variant < 0 || variant >= Variants {
		return 0, ErrInvalidVariant
	}

	off := s.next * BlockBytes
	st, ok := DecodeBlock(dst, s.payload[off:off+BlockBytes], s.state, variant, s.hdr.Bitrate)
	if !ok {
		return 0, fmt.Errorf("block %d: %w", s.next, ErrBitrateExceeded)
	}

	s.state = st
	s.next++
	return BlockSamples, nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	written := 0
	for written < len(dst) {
		if len(s.pending) == 0 {
			if _, err := s.ReadBlock(s.pcm, 0); err != nil {
				if written > 0 && err == io.EOF {
					return written, nil
				}
				return written, err
			}
			s.pending = s.pcm
		}

		n := min(len(dst)-written, len(s.pending))
		for i := range n {
			dst[written+i] = float32(s.pending[i]) / 32768.0
		}
		s.pending = s.pending[n:]
		written += n
	}

	return written, nil
}

// Decoder parses SND resources.
type Decoder struct{}

// Decode validates the header of data and returns a streaming source over
// its blocks. data is retained, not copied.
func (Decoder) Decode(data []byte) (audio.Source, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[HeaderSize:]
	if len(payload) < hdr.PayloadSize() {
		return nil, fmt.Errorf("%d of %d block bytes: %w", len(payload), hdr.PayloadSize(), ErrTruncated)
	}

	return &source{
		hdr:     hdr,
		payload: payload[:hdr.PayloadSize()],
		state:   hdr.Seed,
		pcm:     make([]int16, BlockSamples),
	}, nil
}
