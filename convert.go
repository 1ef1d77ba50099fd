// SPDX-License-Identifier: EPL-2.0

package sndsub

import (
	"bytes"
	"fmt"
	"io"
	"path"

	"github.com/ik5/sndsub/audio"
	"github.com/ik5/sndsub/formats/snd"
	"github.com/ik5/sndsub/sound"
)

// EngineRate is the sample rate the sound queue plays at.
const EngineRate = 22050

// Decode picks a decoder in reg by the extension of name. A nil reg means
// sound.DefaultRegistry.
func Decode(reg *audio.Registry, name string, data []byte) (audio.Source, error) {
	if reg == nil {
		reg = sound.DefaultRegistry()
	}

	dec, err := reg.Lookup(path.Base(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	src, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return src, nil
}

// ToStereo16 reads all of src as interleaved 16-bit stereo at rate. src is
// closed afterwards.
func ToStereo16(src audio.Source, rate int) ([]int16, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("rate %d: %w", rate, ErrInvalidRate)
	}

	r := audio.NewPCM16Reader(audio.Conform(src, rate))
	defer r.Close()

	// start with about two seconds and let append grow it
	pcm := make([]int16, 0, rate*2*2)
	buf := make([]int16, 4096)
	for {
		n, err := r.Read(buf)
		pcm = append(pcm, buf[:n]...)

		if err == io.EOF {
			return pcm, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			return pcm, nil
		}
	}
}

// ConvertToSND re-encodes src as an SND resource at EngineRate.
func ConvertToSND(w io.Writer, src audio.Source) error {
	pcm, err := ToStereo16(src, EngineRate)
	if err != nil {
		return err
	}
	return snd.Encode(w, pcm, EngineRate)
}

// ConvertFile decodes data, named name, and returns it as an SND resource.
func ConvertFile(reg *audio.Registry, name string, data []byte) ([]byte, error) {
	src, err := Decode(reg, name, data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := ConvertToSND(&buf, src); err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
