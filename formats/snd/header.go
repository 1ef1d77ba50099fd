// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size of the SND header in bytes.
const HeaderSize = 24

const version = 1

var magic = []byte("SND\x1a")

// Header describes an SND resource.
type Header struct {
	Channels   int
	SampleRate int
	Bitrate    int
	Blocks     int
	Seed       State
}

// ParseHeader reads the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	if !bytes.HasPrefix(data, magic) {
		return Header{}, ErrNotSNDFile
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != version {
		return Header{}, fmt.Errorf("version %d: %w", v, ErrUnsupportedVersion)
	}

	h := Header{
		Channels:   int(binary.LittleEndian.Uint16(data[6:8])),
		SampleRate: int(binary.LittleEndian.Uint32(data[8:12])),
		Bitrate:    int(binary.LittleEndian.Uint32(data[12:16])),
		Blocks:     int(binary.LittleEndian.Uint32(data[16:20])),
		Seed: State{
			Index:  binary.LittleEndian.Uint16(data[20:22]),
			Sample: int16(binary.LittleEndian.Uint16(data[22:24])),
		},
	}
	if h.Channels != 2 {
		return Header{}, ErrUnsupportedChannels
	}

	return h, nil
}

// AppendBinary appends the encoded header to b.
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, magic...)
	b = binary.LittleEndian.AppendUint16(b, version)
	b = binary.LittleEndian.AppendUint16(b, uint16(h.Channels))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.SampleRate))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Bitrate))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Blocks))
	b = binary.LittleEndian.AppendUint16(b, h.Seed.Index)
	b = binary.LittleEndian.AppendUint16(b, uint16(h.Seed.Sample))
	return b, nil
}

// PayloadSize is the number of block bytes that must follow the header.
func (h Header) PayloadSize() int {
	return h.Blocks * BlockBytes
}
