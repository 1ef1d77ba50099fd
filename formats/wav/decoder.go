// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/sndsub/audio"
	"github.com/ik5/sndsub/internal/intpcm"
)

// formatPCM is the WAVE_FORMAT_PCM tag.
const formatPCM = 1

// reader is the part of gowav.Decoder the source needs.
type reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type Decoder struct{}

// Decode parses the RIFF header of data. Unknown chunks are skipped by the
// underlying decoder.
func (Decoder) Decode(data []byte) (audio.Source, error) {
	dec := gowav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, ErrOnlyPCMSupported
	}

	return newSource(dec, int(dec.BitDepth))
}

func newSource(dec reader, bitDepth int) (audio.Source, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrOnlyPCMSupported
	}

	src, err := intpcm.NewSource(dec, bitDepth, true)
	if errors.Is(err, intpcm.ErrNoFormat) {
		return nil, ErrUnsupportedWavLayout
	}
	if err != nil {
		return nil, err
	}

	return src, nil
}
