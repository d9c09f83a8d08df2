package sim

import (
	"sync"

	"github.com/san-kum/ballpit/internal/physics"
)

// SnapshotPool recycles body snapshot buffers for frames that are observed
// by metrics but not kept in the result.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(size int) *SnapshotPool {
	return &SnapshotPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]physics.Body, size)
			},
		},
	}
}

func (p *SnapshotPool) Get() []physics.Body {
	return p.pool.Get().([]physics.Body)
}

// Put returns a buffer. Buffers of the wrong size are dropped.
func (p *SnapshotPool) Put(s []physics.Body) {
	if len(s) == p.size {
		clear(s)
		p.pool.Put(s)
	}
}

// Fill copies the store into a pooled buffer.
func (p *SnapshotPool) Fill(src *physics.Bodies) []physics.Body {
	dst := p.Get()
	for i := range dst {
		dst[i] = *src.At(i)
	}
	return dst
}
