// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/sndsub/utils"
)

// Conform chains the stages needed to present src as interleaved stereo at
// rate. Stages that would be no-ops are skipped.
func Conform(src Source, rate int) Source {
	var out Source = src
	if out.Channels() != 2 {
		out = NewStereoMixer(out)
	}
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}
	return out
}

// PCM16Reader converts a float32 source into int16 PCM.
type PCM16Reader struct {
	src Source
	tmp []float32
	eof bool
}

func NewPCM16Reader(src Source) *PCM16Reader {
	return &PCM16Reader{
		src: src,
		tmp: make([]float32, 4096),
	}
}

// Read fills dst with interleaved int16 samples. It keeps reading until dst
// is full or the source ends, so a short count always comes with io.EOF.
func (r *PCM16Reader) Read(dst []int16) (int, error) {
	written := 0
	dry := 0

	for written < len(dst) {
		if r.eof {
			break
		}

		want := len(dst) - written
		if ch := r.src.Channels(); ch > 0 {
			want -= want % ch
		}
		if want == 0 {
			break
		}
		if cap(r.tmp) < want {
			r.tmp = make([]float32, want)
		}

		n, err := r.src.ReadSamples(r.tmp[:want])
		for i := range n {
			dst[written+i] = utils.Float32ToInt16(r.tmp[i])
		}
		written += n

		if err == io.EOF {
			r.eof = true
			break
		}
		if err != nil {
			return written, fmt.Errorf("%w", err)
		}
		if n == 0 {
			if dry++; dry >= maxDryReads {
				r.eof = true
				break
			}
		}
	}

	if r.eof && written < len(dst) {
		return written, io.EOF
	}
	return written, nil
}

func (r *PCM16Reader) Close() error {
	return r.src.Close()
}
