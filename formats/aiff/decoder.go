// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/sndsub/audio"
	"github.com/ik5/sndsub/internal/intpcm"
)

type Decoder struct{}

// Decode parses the FORM/AIFF header of data. Samples are big-endian and
// signed at every depth.
func (Decoder) Decode(data []byte) (audio.Source, error) {
	dec := goaiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	src, err := intpcm.NewSource(dec, bitDepth, false)
	if errors.Is(err, intpcm.ErrNoFormat) {
		return nil, ErrUnsupportedAiffLayout
	}
	if err != nil {
		return nil, err
	}

	return src, nil
}
