// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM buffers of the go-audio decoders
// to audio.Source.
package intpcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// DefaultBufSize is the sample count reported by BufSize before the first read.
const DefaultBufSize = 4096

// ErrNoFormat is returned by NewSource when the decoder reports no format.
var ErrNoFormat = errors.New("decoder reported no PCM format")

// Reader is the subset of the go-audio wav and aiff decoders used here.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams normalized float32 samples out of a Reader.
type Source struct {
	dec        Reader
	format     *goaudio.Format
	bitDepth   int
	bias       int // subtracted before scaling; 128 for unsigned 8-bit data
	scale      float32
	intBuf     *goaudio.IntBuffer
	sampleRate int
	channels   int
}

// NewSource wraps dec. unsigned8 marks 8-bit data stored as 0..255.
func NewSource(dec Reader, bitDepth int, unsigned8 bool) (*Source, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrNoFormat
	}

	s := &Source{
		dec:        dec,
		format:     format,
		bitDepth:   bitDepth,
		scale:      FullScale(bitDepth),
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
	}
	if bitDepth == 8 && unsigned8 {
		s.bias = 128
	}

	return s, nil
}

// FullScale returns the divisor mapping a signed sample of the given bit
// depth to [-1, 1]. Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return DefaultBufSize
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("pcm buffer: %w", err)
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-s.bias) / s.scale
	}

	if err == nil && n < len(dst) {
		return n, io.EOF
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("pcm buffer: %w", err)
	}

	return n, err
}
