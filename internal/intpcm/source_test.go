// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockReader hands out a fixed slice of integer samples.
type mockReader struct {
	format  *goaudio.Format
	samples []int
	offset  int
	fail    bool
}

func (m *mockReader) Format() *goaudio.Format { return m.format }

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.fail {
		return 0, io.ErrUnexpectedEOF
	}
	if m.offset >= len(m.samples) {
		return 0, nil
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func stereo(rate int) *goaudio.Format {
	return &goaudio.Format{SampleRate: rate, NumChannels: 2}
}

func TestNewSource_NoFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format *goaudio.Format
	}{
		{"nil", nil},
		{"zero channels", &goaudio.Format{SampleRate: 8000}},
		{"zero rate", &goaudio.Format{NumChannels: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSource(&mockReader{format: tt.format}, 16, false)
			if !errors.Is(err, ErrNoFormat) {
				t.Errorf("err = %v, want ErrNoFormat", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	s, err := NewSource(&mockReader{format: stereo(22050)}, 24, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	if s.SampleRate() != 22050 {
		t.Errorf("SampleRate = %d, want 22050", s.SampleRate())
	}
	if s.Channels() != 2 {
		t.Errorf("Channels = %d, want 2", s.Channels())
	}
	if s.BitDepth() != 24 {
		t.Errorf("BitDepth = %d, want 24", s.BitDepth())
	}
	if s.BufSize() != DefaultBufSize {
		t.Errorf("BufSize = %d, want %d", s.BufSize(), DefaultBufSize)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bitDepth  int
		unsigned8 bool
		in        []int
		want      []float32
	}{
		{"16-bit", 16, false, []int{0, 16384, -16384, -32768}, []float32{0, 0.5, -0.5, -1}},
		{"24-bit", 24, false, []int{4194304, -8388608}, []float32{0.5, -1}},
		{"signed 8-bit", 8, false, []int{64, -128}, []float32{0.5, -1}},
		{"unsigned 8-bit", 8, true, []int{128, 192, 0}, []float32{0, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewSource(&mockReader{format: stereo(8000), samples: tt.in}, tt.bitDepth, tt.unsigned8)
			if err != nil {
				t.Fatalf("NewSource: %v", err)
			}

			dst := make([]float32, len(tt.in))
			n, err := s.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples: %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("n = %d, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if math.Abs(float64(dst[i]-w)) > 1e-6 {
					t.Errorf("dst[%d] = %f, want %f", i, dst[i], w)
				}
			}
		})
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	s, err := NewSource(&mockReader{format: stereo(8000), samples: []int{1, 2, 3}}, 16, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	dst := make([]float32, 4)
	n, err := s.ReadSamples(dst)
	if n != 3 || err != io.EOF {
		t.Fatalf("short read = (%d, %v), want (3, EOF)", n, err)
	}

	n, err = s.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Errorf("read after end = (%d, %v), want (0, EOF)", n, err)
	}

	if s.BufSize() != 4 {
		t.Errorf("BufSize after read = %d, want 4", s.BufSize())
	}
}

func TestSource_ReadSamples_Empty(t *testing.T) {
	t.Parallel()

	s, err := NewSource(&mockReader{format: stereo(8000), samples: []int{1}}, 16, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	n, err := s.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	s, err := NewSource(&mockReader{format: stereo(8000), fail: true}, 16, false)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}

	_, err = s.ReadSamples(make([]float32, 8))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want wrapped ErrUnexpectedEOF", err)
	}
}

func TestFullScale(t *testing.T) {
	t.Parallel()

	tests := map[int]float32{8: 128, 16: 32768, 24: 8388608, 32: 2147483648, 12: 32768}
	for depth, want := range tests {
		if got := FullScale(depth); got != want {
			t.Errorf("FullScale(%d) = %f, want %f", depth, got, want)
		}
	}
}
