// Package buffer implements the refcounted byte-region backing store shared
// by packet.Packet handles.
//
// A Buffer owns a single contiguous allocation ("no scatter-gather") of raw
// storage plus a reference count; it has no opinion about headroom, data,
// tail or payload content. The four offsets the spec describes (head, data,
// tail, end) are tracked per packet.Packet handle, not here -- exactly the
// way a Linux sk_buff clone gets its own head/data/tail/end pointers while
// sharing the underlying data page via a dataref. That is what makes
// clone-then-independent-push safe: two Packet handles can share one Buffer
// while disagreeing about where their own headroom currently ends, because
// each only ever mutates its own offsets, never the shared storage's
// layout.
//
// The only cross-goroutine shared state on a Buffer is the reference count,
// updated with sync/atomic; the backing bytes themselves are written only by
// whichever packet.WritablePacket currently asserts exclusive ownership.
package buffer

import (
	"fmt"
	"sync/atomic"
)

// MinCapacity is the minimum capacity of any allocated Buffer.
const MinCapacity = 64

// DefaultHeadroom is the headroom reserved by packet.NewFromData so that upstream
// stages can prepend link-layer headers without forcing a reallocation.
const DefaultHeadroom = 28

// AllocationError is returned when an allocator rejects a request, e.g.
// because a configured memory budget is exhausted. The zero-value allocator
// used by Alloc(nil, ...) returns it only for a negative size; budget
// rejections come only from a bounded Pool (see pool.go).
type AllocationError struct {
	Requested int
	Reason    string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("buffer: allocation of %d bytes rejected: %s", e.Requested, e.Reason)
}

// Buffer is a contiguous byte region with a reference count. It is raw
// storage only; capacity is len(mem).
type Buffer struct {
	mem  []byte
	refs atomic.Int32
	pool *Pool
}

// Alloc allocates a new Buffer of at least capacity bytes, rounded up to
// MinCapacity, optionally drawing from pool. The returned Buffer starts with
// a reference count of one.
func Alloc(pool *Pool, capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, &AllocationError{Requested: capacity, Reason: "negative size"}
	}
	if capacity < MinCapacity {
		capacity = MinCapacity
	}

	var mem []byte
	if pool != nil {
		m, err := pool.alloc(capacity)
		if err != nil {
			return nil, err
		}
		mem = m
	} else {
		mem = make([]byte, capacity)
	}

	b := &Buffer{mem: mem, pool: pool}
	b.refs.Store(1)
	return b, nil
}

// Retain increments the reference count. Relaxed ordering is sufficient: the
// caller already holds a valid reference and is merely duplicating it, so no
// prior writes need to be published by this operation.
func (b *Buffer) Retain() {
	b.refs.Add(1)
}

// Release decrements the reference count and, if it reaches zero, returns
// the backing memory to the buffer's pool (if any). The decrement uses
// acquire/release ordering -- the default for sync/atomic read-modify-write
// operations -- so that every write made by every former owner is visible
// before the memory is recycled or abandoned to the garbage collector.
func (b *Buffer) Release() {
	if b.refs.Add(-1) == 0 {
		if b.pool != nil {
			b.pool.free(b.mem)
		}
		b.mem = nil
	}
}

// Shared reports whether more than one handle currently references b.
func (b *Buffer) Shared() bool {
	return b.refs.Load() > 1
}

// RefCount returns the current reference count, chiefly for tests.
func (b *Buffer) RefCount() int32 {
	return b.refs.Load()
}

// Capacity returns the size of the backing allocation.
func (b *Buffer) Capacity() int { return len(b.mem) }

// Bytes returns the raw backing storage. Callers index into it using their
// own head/data/tail/end offsets.
func (b *Buffer) Bytes() []byte { return b.mem }

// Clone allocates a fresh Buffer of the same capacity as b and copies its
// full contents into it.
func (b *Buffer) Clone(pool *Pool) (*Buffer, error) {
	nb, err := Alloc(pool, len(b.mem))
	if err != nil {
		return nil, err
	}
	copy(nb.mem, b.mem)
	return nb, nil
}
