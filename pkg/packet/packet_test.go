package packet

import (
	"testing"

	"github.com/clicknet/pktcore/pkg/buffer"
)

func TestNewGeometry(t *testing.T) {
	wp, err := New(nil, 16, 32, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := wp.Headroom(); got != 16 {
		t.Errorf("Headroom() = %d, want 16", got)
	}
	if got := wp.Length(); got != 32 {
		t.Errorf("Length() = %d, want 32", got)
	}
	if got := wp.Tailroom(); got != 8 {
		t.Errorf("Tailroom() = %d, want 8", got)
	}
	if got := len(wp.Data()); got != 32 {
		t.Errorf("len(Data()) = %d, want 32", got)
	}
}

func TestNewFromData(t *testing.T) {
	src := []byte("hello, packet")
	wp, err := NewFromData(nil, src)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	if string(wp.Data()) != string(src) {
		t.Errorf("Data() = %q, want %q", wp.Data(), src)
	}
	if wp.Headroom() != buffer.DefaultHeadroom {
		t.Errorf("Headroom() = %d, want %d", wp.Headroom(), buffer.DefaultHeadroom)
	}
}

func TestCloneSharesBufferNotGeometry(t *testing.T) {
	wp, err := NewFromData(nil, []byte("payload"))
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	clone := wp.Clone()

	if !wp.Shared() || !clone.Shared() {
		t.Fatal("expected both handles to report Shared() after Clone")
	}
	if clone.buf != wp.Packet.buf {
		t.Fatal("expected clone to share the same Buffer")
	}

	// Independently mutating one handle's geometry must not affect the
	// other's.
	cwp := &WritablePacket{Packet: clone}
	if err := cwp.Pull(2); err != 2 {
		t.Fatalf("Pull(2) = %d, want 2", err)
	}
	if wp.Length() != len("payload") {
		t.Errorf("original Length() changed after clone Pull: %d", wp.Length())
	}
	if clone.Length() != len("payload")-2 {
		t.Errorf("clone Length() = %d, want %d", clone.Length(), len("payload")-2)
	}
}

func TestUniqueifyFastPathNoSharing(t *testing.T) {
	wp, err := NewFromData(nil, []byte("x"))
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	before := wp.Packet.buf
	uw, err := wp.Packet.Uniqueify()
	if err != nil {
		t.Fatalf("Uniqueify: %v", err)
	}
	if uw.Packet.buf != before {
		t.Error("Uniqueify reallocated despite no sharing")
	}
}

func TestUniqueifySlowPathWhenShared(t *testing.T) {
	wp, err := NewFromData(nil, []byte("shared-payload"))
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	clone := wp.Clone()
	oldBuf := wp.Packet.buf

	uw, err := wp.Packet.Uniqueify()
	if err != nil {
		t.Fatalf("Uniqueify: %v", err)
	}
	if uw.Packet.buf == oldBuf {
		t.Error("Uniqueify took fast path despite sharing")
	}
	if string(uw.Data()) != "shared-payload" {
		t.Errorf("Uniqueify did not preserve payload: %q", uw.Data())
	}
	if string(clone.Data()) != "shared-payload" {
		t.Errorf("clone payload corrupted by sibling Uniqueify: %q", clone.Data())
	}
}

func TestPushPullRoundTrip(t *testing.T) {
	wp, err := New(nil, 20, 10, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := wp.Packet.buf
	if err := wp.Push(8); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if wp.Packet.buf != buf {
		t.Error("Push reallocated despite sufficient headroom")
	}
	if wp.Headroom() != 12 {
		t.Errorf("Headroom() after Push(8) = %d, want 12", wp.Headroom())
	}
	if got := wp.Pull(8); got != 8 {
		t.Errorf("Pull(8) = %d, want 8", got)
	}
	if wp.Headroom() != 20 {
		t.Errorf("Headroom() after Pull(8) = %d, want 20", wp.Headroom())
	}
}

func TestPushSlowPathWhenInsufficientHeadroom(t *testing.T) {
	wp, err := New(nil, 4, 10, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	copy(wp.Data(), []byte("0123456789"))
	oldBuf := wp.Packet.buf

	if err := wp.Push(20); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if wp.Packet.buf == oldBuf {
		t.Error("Push should have reallocated when headroom was insufficient")
	}
	if wp.Length() != 30 {
		t.Errorf("Length() after slow-path Push(20) = %d, want 30 (10 original + 20 pushed)", wp.Length())
	}
	if string(wp.Data()[20:]) != "0123456789" {
		t.Errorf("payload not preserved after slow-path Push: %q", wp.Data())
	}
}

func TestPutSlowPathWhenInsufficientTailroom(t *testing.T) {
	wp, err := New(nil, 0, 10, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	copy(wp.Data(), []byte("0123456789"))
	oldBuf := wp.Packet.buf

	if err := wp.Put(20); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if wp.Packet.buf == oldBuf {
		t.Error("Put should have reallocated when tailroom was insufficient")
	}
	if wp.Length() != 30 {
		t.Errorf("Length() after slow-path Put(20) = %d, want 30 (10 original + 20 put)", wp.Length())
	}
	if string(wp.Data()[:10]) != "0123456789" {
		t.Errorf("payload not preserved after slow-path Put: %q", wp.Data())
	}
}

func TestPutTakeRoundTrip(t *testing.T) {
	wp, err := New(nil, 0, 10, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := wp.Packet.buf
	if err := wp.Put(5); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if wp.Packet.buf != buf {
		t.Error("Put reallocated despite sufficient tailroom")
	}
	if wp.Length() != 15 {
		t.Errorf("Length() after Put(5) = %d, want 15", wp.Length())
	}
	if got := wp.Take(5); got != 5 {
		t.Errorf("Take(5) = %d, want 5", got)
	}
	if wp.Length() != 10 {
		t.Errorf("Length() after Take(5) = %d, want 10", wp.Length())
	}
}

func TestPushForcesUniqueifyWhenShared(t *testing.T) {
	wp, err := New(nil, 4, 10, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clone := wp.Clone()
	oldBuf := wp.Packet.buf

	if err := wp.Push(2); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if wp.Packet.buf == oldBuf {
		t.Error("Push should reallocate when buffer is shared, even with enough headroom")
	}
	if clone.buf != oldBuf {
		t.Error("sibling clone's buffer should be untouched by the other handle's Push")
	}
}

func TestNonuniquePushIgnoresSharing(t *testing.T) {
	wp, err := New(nil, 4, 10, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = wp.Clone()
	oldBuf := wp.Packet.buf

	if err := wp.NonuniquePush(2); err != nil {
		t.Fatalf("NonuniquePush: %v", err)
	}
	if wp.Packet.buf != oldBuf {
		t.Error("NonuniquePush should not reallocate even when shared, if headroom suffices")
	}
	if wp.Headroom() != 2 {
		t.Errorf("Headroom() after NonuniquePush(2) = %d, want 2", wp.Headroom())
	}
}

func TestChangeHeadroomAndLength(t *testing.T) {
	wp, err := New(nil, 10, 10, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := wp.ChangeHeadroomAndLength(5, 20); err != nil {
		t.Fatalf("ChangeHeadroomAndLength: %v", err)
	}
	if wp.Headroom() != 5 || wp.Length() != 20 {
		t.Errorf("got headroom=%d length=%d, want 5,20", wp.Headroom(), wp.Length())
	}
	if err := wp.ChangeHeadroomAndLength(100, 100); err == nil {
		t.Error("expected error when headroom+length exceeds buffer_length")
	}
}

func TestClearAnnotationsClearsHeaderCache(t *testing.T) {
	wp, err := New(nil, 0, 40, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wp.SetNetworkHeader(0, 20)
	if !wp.HasNetworkHeader() {
		t.Fatal("expected network header to be set")
	}
	wp.ClearAnnotations()
	if wp.HasNetworkHeader() {
		t.Error("ClearAnnotations should also clear the header offset cache")
	}
}

func TestKillReleasesBuffer(t *testing.T) {
	wp, err := NewFromData(nil, []byte("bye"))
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	buf := wp.Packet.buf
	wp.Kill()
	if buf.RefCount() != 0 {
		t.Errorf("RefCount() after Kill = %d, want 0", buf.RefCount())
	}
}
