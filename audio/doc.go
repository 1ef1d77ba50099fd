// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing shared by every resource format.
//
// This package contains the building blocks between a decoded resource and
// the fixed-size int16 blocks the sound queue hands to the mixer:
//   - Source interface for decoded audio
//   - Decoder interface and a Registry keyed by file extension
//   - Resampler for sample rate conversion
//   - StereoMixer for channel layout conversion
//   - Conform and PCM16Reader to reach interleaved int16 stereo
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are float32 in [-1, 1], interleaved by channel.
//
// # Format Registry
//
// Resources are resolved by extension, so the registry is the single place
// that decides which formats a game may ship:
//
//	reg := audio.NewRegistry()
//	reg.Register("snd", snd.Decoder{})
//	reg.Register("ogg", vorbis.Decoder{})
//	dec, err := reg.Lookup("WALLA01.OGG")
//
// Decoders take the complete resource bytes rather than a reader; resources
// are read once and then shared.
//
// # Reaching the Engine Format
//
// Any source can be brought to interleaved stereo at the engine rate and
// read as int16:
//
//	pcm := audio.NewPCM16Reader(audio.Conform(src, 22050))
//	block := make([]int16, 1470)
//	n, err := pcm.Read(block)
//
// Read fills the whole buffer unless the source ends, in which case the
// short count is returned with io.EOF.
package audio
