// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// WriteWAV16 writes interleaved 16-bit PCM as a complete WAV file. The
// header sizes are patched on completion, hence the io.WriteSeeker.
func WriteWAV16(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if sampleRate <= 0 || channels <= 0 || len(samples)%channels != 0 {
		return fmt.Errorf("rate %d, %d channels, %d samples: %w",
			sampleRate, channels, len(samples), ErrInvalidParams)
	}

	enc := gowav.NewEncoder(w, sampleRate, 16, channels, formatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}

	return nil
}
