// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE resources.
//
// Decoding is backed by github.com/go-audio/wav and accepts integer PCM at
// 8, 16, 24 or 32 bits per sample. Samples come out as float32 in
// [-1.0, 1.0]; 8-bit data is treated as unsigned, as RIFF stores it.
//
//	src, err := wav.Decoder{}.Decode(data)
//
// WriteWAV16 produces a 16-bit file from interleaved int16 samples. The
// snddump tool uses it to export decoded SND resources:
//
//	f, _ := os.Create("LIB012.wav")
//	err := wav.WriteWAV16(f, 22050, 2, pcm)
package wav
