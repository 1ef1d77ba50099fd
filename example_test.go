// SPDX-License-Identifier: EPL-2.0

package sndsub_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/sndsub"
	"github.com/ik5/sndsub/formats/snd"
	"github.com/ik5/sndsub/formats/wav"
	"github.com/ik5/sndsub/internal/audiotest"
)

// ExampleConvertFile turns a mono 11 kHz WAV into a game resource.
func ExampleConvertFile() {
	var in audiotest.Buffer
	if err := wav.WriteWAV16(&in, 11025, 1, make([]int16, 11025)); err != nil {
		fmt.Println(err)
		return
	}

	out, err := sndsub.ConvertFile(nil, "VOICE.WAV", in.Bytes())
	if err != nil {
		fmt.Println(err)
		return
	}

	hdr, err := snd.ParseHeader(out)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(hdr.Channels, hdr.SampleRate, hdr.Blocks)
	// Output: 2 22050 30
}

func ExampleToStereo16() {
	src := audiotest.NewConstantSource(sndsub.EngineRate, 1, 4, 0.5)

	pcm, err := sndsub.ToStereo16(src, sndsub.EngineRate)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(pcm)
	// Output: [16383 16383 16383 16383 16383 16383 16383 16383]
}

func ExampleDecode() {
	var buf bytes.Buffer
	if err := snd.Encode(&buf, make([]int16, snd.BlockSamples), sndsub.EngineRate); err != nil {
		fmt.Println(err)
		return
	}

	src, err := sndsub.Decode(nil, "STEP.SND", buf.Bytes())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	fmt.Println(src.SampleRate(), src.Channels())
	// Output: 22050 2
}
