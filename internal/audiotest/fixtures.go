// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing/fstest"

	"github.com/ik5/sndsub/formats/snd"
)

// EngineRate is the sample rate fixtures are encoded at.
const EngineRate = 22050

// Tone returns blocks worth of interleaved stereo PCM holding a sine of
// the given frequency and peak amplitude.
func Tone(blocks int, frequency float64, amplitude int16) []int16 {
	pcm := make([]int16, blocks*snd.BlockSamples)
	for f := range len(pcm) / 2 {
		v := int16(float64(amplitude) * math.Sin(2*math.Pi*frequency*float64(f)/EngineRate))
		pcm[2*f] = v
		pcm[2*f+1] = v
	}
	return pcm
}

// SND encodes pcm as an SND resource.
func SND(pcm []int16) []byte {
	var buf bytes.Buffer
	if err := snd.Encode(&buf, pcm, EngineRate); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ToneSND is SND(Tone(blocks, 440, 8000)).
func ToneSND(blocks int) []byte {
	return SND(Tone(blocks, 440, 8000))
}

// Cue is one subtitle line for SBE.
type Cue struct {
	Start, End int
	Text       string
}

// SBE renders cues in the subtitle text format.
func SBE(cues ...Cue) []byte {
	var b strings.Builder
	b.WriteString("# generated\n")
	for _, c := range cues {
		fmt.Fprintf(&b, "%d %d %s\n", c.Start, c.End, c.Text)
	}
	return []byte(b.String())
}

// Resources builds an in-memory resource tree. Every name maps to a tone of
// the given block count; SBE entries can be added afterwards.
func Resources(blocks int, names ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	data := ToneSND(blocks)
	for _, name := range names {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return fsys
}
