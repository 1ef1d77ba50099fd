// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/sndsub/utils"
)

// maxDryReads bounds consecutive (0, nil) reads before a source counts as ended.
const maxDryReads = 8

// Resampler streams src at another sample rate using Catmull-Rom cubic
// interpolation over interleaved frames. The channel count is preserved.
// A one-pole low-pass is applied to the input when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window[0..3] = frames t-1, t, t+1, t+2
	window [4][]float32
	have   [4]bool
	primed bool

	pos float64 // fractional position between window[1] and window[2]

	frame []float32
	eof   bool

	lowpass []float32
	alpha   float32 // zero disables the low-pass
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		frame:    make([]float32, channels),
		lowpass:  make([]float32, channels),
	}
	if step > 1.0 {
		r.alpha = 0.5
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads one source frame into r.frame. ok is false once the source
// has no more frames.
func (r *Resampler) pull() (ok bool, err error) {
	var n int
	for range maxDryReads {
		if r.eof {
			return false, nil
		}

		n, err = r.src.ReadSamples(r.frame)
		if err == io.EOF {
			r.eof = true
			err = nil
		}
		if err != nil {
			return false, fmt.Errorf("%w", err)
		}
		if n > 0 {
			break
		}
	}
	if n < r.channels {
		return false, nil
	}

	if r.alpha > 0 {
		for c := range r.channels {
			r.frame[c] = r.alpha*r.frame[c] + (1-r.alpha)*r.lowpass[c]
			r.lowpass[c] = r.frame[c]
		}
	}

	return true, nil
}

// advance shifts the window by one frame.
func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.have[:], r.have[1:])

	ok, err := r.pull()
	if err != nil {
		return err
	}
	r.have[3] = ok
	if ok {
		copy(r.window[3], r.frame)
	}

	return nil
}

// prime fills the window with the first frames. The first frame doubles
// as t-1.
func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.pull()
	if err != nil || !ok {
		return err
	}
	// seed the filter with the first frame to avoid a fade-in transient
	copy(r.lowpass, r.frame)
	copy(r.window[0], r.frame)
	copy(r.window[1], r.frame)
	r.have[0], r.have[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.pull()
		if err != nil {
			return err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
			continue
		}
		copy(r.window[i], r.frame)
		r.have[i] = true
	}

	return nil
}

// ReadSamples produces interleaved samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		// interpolation needs t and t+1; t+1 missing means the source ran dry
		if !r.have[1] || !r.have[2] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		// missing outer frames repeat their neighbor
		f0, f3 := r.window[1], r.window[2]
		if r.have[0] {
			f0 = r.window[0]
		}
		if r.have[3] {
			f3 = r.window[3]
		}
		out := dst[written*r.channels : (written+1)*r.channels]
		utils.CubicInterpolateFrame(out, f0, r.window[1], r.window[2], f3, float32(r.pos))

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
