// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"io"

	"github.com/ik5/sndsub/audio"
	"github.com/ik5/sndsub/formats/snd"
)

// stream produces one tick of interleaved stereo at a time.
type stream interface {
	// read fills dst, BlockSamples long, with variant applied. The last
	// block is padded with silence; io.EOF follows it.
	read(dst []int16, variant int) error
	close() error
}

// blockStream reads SND blocks, applying the variant while decoding.
type blockStream struct {
	r   snd.BlockReader
	src audio.Source
}

func (s *blockStream) read(dst []int16, variant int) error {
	_, err := s.r.ReadBlock(dst, variant)
	return err
}

func (s *blockStream) close() error { return s.src.Close() }

// pcmStream adapts any other decoded format to engine-rate stereo blocks.
type pcmStream struct {
	r *audio.PCM16Reader
}

func newPCMStream(src audio.Source, rate int) *pcmStream {
	return &pcmStream{r: audio.NewPCM16Reader(audio.Conform(src, rate))}
}

func (s *pcmStream) read(dst []int16, variant int) error {
	n, err := s.r.Read(dst)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return err
	}
	if err != nil && err != io.EOF {
		return err
	}

	clear(dst[n:])
	return snd.Scale(dst, variant)
}

func (s *pcmStream) close() error { return s.r.Close() }

func newStream(src audio.Source, rate int) stream {
	if br, ok := src.(snd.BlockReader); ok && src.SampleRate() == rate && src.Channels() == 2 {
		return &blockStream{r: br, src: src}
	}
	return newPCMStream(src, rate)
}
