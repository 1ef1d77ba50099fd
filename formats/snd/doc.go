// SPDX-License-Identifier: EPL-2.0

// Package snd decodes and encodes the nibble-compressed SND resource format
// used for dialogue, ambience and background loops.
//
// # Container Layout
//
// An SND resource is a 24-byte little-endian header followed by a run of
// fixed-size compressed blocks:
//
//	offset  size  field
//	0       4     magic "SND\x1a"
//	4       2     version (1)
//	6       2     channels (always 2, interleaved left/right)
//	8       4     sample rate in Hz
//	12      4     encoded bitrate in bits per second
//	16      4     block count
//	20      2     seed filter state
//	22      2     seed sample (int16)
//	24      ...   blocks × 735 bytes
//
// # Decompression Filter
//
// DecodeBlock turns one 735-byte block into 1470 int16 samples (735 stereo
// pairs). Every byte carries two 4-bit nibbles, high nibble first. Each
// nibble is combined with the running filter state to address two constant
// tables of 1424 entries (89 states × 16 nibbles): one gives the next state,
// the other the signed delta added to the running sample, which is clamped
// to ±32767. The emitted value is scaled by the selected variant:
//
//	out = (scale[variant] * sample) >> shift[variant]
//
// Variant 0 and variant 16 are passthrough; variants 1..15 attenuate in
// sixteenths, which is how ramps and distance attenuation are applied
// without a second pass over the samples.
//
// Blocks whose stream bitrate exceeds MaxBitrate are rejected: DecodeBlock
// reports false and writes nothing.
//
//	st := snd.State{}
//	out := make([]int16, snd.BlockSamples)
//	st, ok := snd.DecodeBlock(out, block, st, 0, hdr.Bitrate)
//	if !ok {
//	    // nothing to emit this tick
//	}
//
// DecodeBlock keeps no state between calls other than the State value
// threaded through it, so independent streams may be decoded in parallel.
//
// # Decoding Resources
//
// Decoder implements audio.Decoder. The returned source implements both
// audio.Source (float32 samples) and BlockReader (whole int16 blocks with
// a variant applied), so it can be registered next to the other formats:
//
//	reg := audio.NewRegistry()
//	reg.Register("snd", snd.Decoder{})
//
// # Encoding
//
// Encode writes interleaved stereo int16 PCM as an SND resource. It picks,
// per sample, the nibble whose reconstruction lands closest to the input,
// so decoding what Encode produced always follows the same filter path.
package snd
