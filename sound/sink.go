// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"sync"

	"github.com/ik5/sndsub/formats/snd"
)

// Block is one tick of decoded stereo from one entry. Samples may point
// into the decode-ahead arena; it stays valid until Release.
type Block struct {
	Samples []int16
	Type    Type
	Entry   EntryRef
	Variant int
	Tick    uint64

	release func()
	once    sync.Once
}

// Release hands the samples back. Further calls do nothing.
func (b *Block) Release() {
	b.once.Do(func() {
		if b.release != nil {
			b.release()
		}
	})
}

// Sink receives the blocks of every tick, possibly none. It must Release
// each block eventually; the arena cannot reuse a slot before that.
type Sink interface {
	Consume(tick uint64, blocks []*Block)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(tick uint64, blocks []*Block)

func (f SinkFunc) Consume(tick uint64, blocks []*Block) { f(tick, blocks) }

// Discard releases every block unplayed.
var Discard Sink = SinkFunc(func(_ uint64, blocks []*Block) {
	for _, b := range blocks {
		b.Release()
	}
})

// blockPool recycles the buffers of uncached blocks.
type blockPool struct {
	p sync.Pool
}

func newBlockPool() *blockPool {
	return &blockPool{p: sync.Pool{New: func() any {
		buf := make([]int16, snd.BlockSamples)
		return &buf
	}}}
}

func (bp *blockPool) get() *[]int16 { return bp.p.Get().(*[]int16) }

func (bp *blockPool) put(b *[]int16) { bp.p.Put(b) }
