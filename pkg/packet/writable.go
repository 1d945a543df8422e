package packet

import (
	"github.com/clicknet/pktcore/pkg/buffer"
)

// WritablePacket is a Packet handle known to have exclusive ownership of
// its backing storage, obtained via New or Uniqueify. Only a WritablePacket
// may mutate payload bytes or geometry.
type WritablePacket struct {
	*Packet
}

// growthFactor amortizes repeated small pushes/puts against a shared buffer
// by over-allocating on the slow path, the same way append grows a slice.
const growthFactor = 2

// Push moves data backward by n bytes, growing the payload on the head side
// (e.g. to prepend a header). Fast path: headroom >= n and the buffer is not
// shared, so p.data is simply decremented in place. Slow path: either the
// buffer is shared or there isn't enough headroom, so a new, larger buffer
// is allocated, the old window is copied into it positioned to leave at
// least n bytes (target: 2x requested, to amortize repeated small pushes)
// of fresh headroom, and the old buffer is released.
func (wp *WritablePacket) Push(n int) error {
	if n < 0 {
		n = 0
	}
	if wp.Headroom() >= n && !wp.buf.Shared() {
		wp.data -= n
		return nil
	}
	if err := wp.reallocate(n*growthFactor, 0); err != nil {
		return err
	}
	wp.data -= n
	return nil
}

// NonuniquePush is identical to Push except it never checks or forces
// uniqueness: it always takes the in-place fast path if there is enough
// headroom, even when the buffer is shared. It is safe precisely because it
// only ever mutates wp's own data offset, never the shared bytes or any
// other handle's offsets; callers use it when they know no other handle
// will observe the now-exposed headroom bytes as payload.
func (wp *WritablePacket) NonuniquePush(n int) error {
	if n < 0 {
		n = 0
	}
	if wp.Headroom() >= n {
		wp.data -= n
		return nil
	}
	if err := wp.reallocate(n*growthFactor, 0); err != nil {
		return err
	}
	wp.data -= n
	return nil
}

// Pull shrinks the payload from the head side by n bytes, exposing them as
// headroom. It always succeeds in place -- shrinking never requires a
// reallocation -- and clamps n to the current length.
func (wp *WritablePacket) Pull(n int) int {
	if n < 0 {
		n = 0
	}
	if n > wp.Length() {
		n = wp.Length()
	}
	wp.data += n
	return n
}

// Put moves tail forward by n bytes, growing the payload on the tail side
// (e.g. to append payload). Fast path: tailroom >= n and the buffer is not
// shared. Slow path: reallocate with extra tailroom, same amortization as
// Push.
func (wp *WritablePacket) Put(n int) error {
	if n < 0 {
		n = 0
	}
	if wp.Tailroom() >= n && !wp.buf.Shared() {
		wp.tail += n
		return nil
	}
	if err := wp.reallocate(0, n*growthFactor); err != nil {
		return err
	}
	wp.tail += n
	return nil
}

// NonuniquePut is Put's NonuniquePush analogue: always takes the in-place
// fast path when there is enough tailroom, regardless of sharing.
func (wp *WritablePacket) NonuniquePut(n int) error {
	if n < 0 {
		n = 0
	}
	if wp.Tailroom() >= n {
		wp.tail += n
		return nil
	}
	if err := wp.reallocate(0, n*growthFactor); err != nil {
		return err
	}
	wp.tail += n
	return nil
}

// Take shrinks the payload from the tail side by n bytes, exposing them as
// tailroom. Always succeeds in place, clamped to the current length.
func (wp *WritablePacket) Take(n int) int {
	if n < 0 {
		n = 0
	}
	if n > wp.Length() {
		n = wp.Length()
	}
	wp.tail -= n
	return n
}

// reallocate grows wp's backing buffer so that it has at least extraHead
// additional headroom and extraTail additional tailroom beyond its current
// geometry, copying the current payload into the new storage positioned
// accordingly, and releasing the old buffer. Existing headroom/tailroom
// beyond what's requested is preserved. It only grows capacity: callers
// that are growing the payload itself (Push/Put and their nonunique
// variants) still need to apply their own n-byte data/tail delta afterward,
// now that there's guaranteed room for it.
func (wp *WritablePacket) reallocate(extraHead, extraTail int) error {
	newHeadroom := wp.Headroom() + extraHead
	newTailroom := wp.Tailroom() + extraTail
	length := wp.Length()

	nb, err := buffer.Alloc(wp.pool, newHeadroom+length+newTailroom)
	if err != nil {
		return err
	}
	copy(nb.Bytes()[newHeadroom:newHeadroom+length], wp.Data())

	wp.buf.Release()
	wp.buf = nb
	wp.data = newHeadroom
	wp.tail = newHeadroom + length
	wp.end = newHeadroom + length + newTailroom
	return nil
}

// ChangeHeadroomAndLength repositions data and tail within the existing
// buffer window without reallocating or copying, provided headroom+length
// fits within the buffer's total capacity (buffer_length). It does not
// preserve or revalidate the header-offset cache: callers that reposition
// past a previously cached header offset must re-set it themselves.
func (wp *WritablePacket) ChangeHeadroomAndLength(headroom, length int) error {
	if headroom < 0 || length < 0 || headroom+length > wp.BufferLength() {
		return &buffer.AllocationError{Requested: headroom + length, Reason: "headroom+length exceeds buffer_length"}
	}
	wp.data = headroom
	wp.tail = headroom + length
	return nil
}
