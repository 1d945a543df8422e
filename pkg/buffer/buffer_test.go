package buffer

import "testing"

func TestAllocRoundsUpToMinCapacity(t *testing.T) {
	b, err := Alloc(nil, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if b.Capacity() != MinCapacity {
		t.Errorf("Capacity() = %d, want %d", b.Capacity(), MinCapacity)
	}
}

func TestRetainReleaseRefCount(t *testing.T) {
	b, err := Alloc(nil, 128)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if b.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", b.RefCount())
	}
	b.Retain()
	if !b.Shared() {
		t.Error("expected Shared() after Retain")
	}
	b.Release()
	if b.Shared() {
		t.Error("expected not Shared() after matching Release")
	}
	b.Release()
	if b.RefCount() != 0 {
		t.Errorf("RefCount() after final Release = %d, want 0", b.RefCount())
	}
}

func TestCloneCopiesContentsIndependently(t *testing.T) {
	b, err := Alloc(nil, 128)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	copy(b.Bytes(), []byte("hello"))

	c, err := b.Clone(nil)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if string(c.Bytes()[:5]) != "hello" {
		t.Errorf("clone contents = %q, want %q", c.Bytes()[:5], "hello")
	}
	c.Bytes()[0] = 'H'
	if b.Bytes()[0] == 'H' {
		t.Error("mutating clone's bytes affected original buffer")
	}
}

func TestAllocNegativeSize(t *testing.T) {
	if _, err := Alloc(nil, -1); err == nil {
		t.Error("expected error for negative size")
	}
}
