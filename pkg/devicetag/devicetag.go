// Package devicetag identifies the network interface a packet arrived on or
// will depart through with a small value type instead of a string, so that
// Packet's annotation block stays a fixed-size, copyable struct.
package devicetag

import "github.com/rs/xid"

// Tag identifies a device. The zero value is Null, meaning "no device
// associated" -- the state every freshly made or cleared Packet starts in.
type Tag struct {
	id xid.ID
}

// Null is the zero Tag, meaning no device is associated.
var Null Tag

// New allocates a fresh, globally unique Tag.
func New() Tag {
	return Tag{id: xid.New()}
}

// IsNull reports whether t is the zero Tag.
func (t Tag) IsNull() bool {
	return t.id.IsNil()
}

// String returns the tag's compact textual form, or "-" for Null.
func (t Tag) String() string {
	if t.IsNull() {
		return "-"
	}
	return t.id.String()
}
