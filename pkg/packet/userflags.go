package packet

import "encoding/binary"

// The UserFlag* accessors below provide three aliasing views over the 12-byte user-flag
// annotation block the spec describes: 12 independent bytes, or 3 u32
// words, or 3 i32 words over the same storage. Like the rest of the
// annotation block it is per-handle and not touched by CopyAnnotations'
// header-offset exclusion -- it is copied wholesale along with the other
// in-block fields.

// UserFlag returns byte i (0..11) of the user-flag annotation.
func (p *Packet) UserFlag(i int) uint8 {
	return p.anno.userFlag[i]
}

// SetUserFlag sets byte i (0..11) of the user-flag annotation.
func (p *Packet) SetUserFlag(i int, v uint8) {
	p.anno.userFlag[i] = v
}

// UserFlagU32 returns 32-bit word i (0..2) of the user-flag annotation,
// aliasing the same 12 bytes as UserFlag and UserFlagI32.
func (p *Packet) UserFlagU32(i int) uint32 {
	return binary.LittleEndian.Uint32(p.anno.userFlag[i*4 : i*4+4])
}

// SetUserFlagU32 sets 32-bit word i (0..2) of the user-flag annotation.
func (p *Packet) SetUserFlagU32(i int, v uint32) {
	binary.LittleEndian.PutUint32(p.anno.userFlag[i*4:i*4+4], v)
}

// UserFlagI32 returns signed 32-bit word i (0..2) of the user-flag
// annotation, aliasing the same bytes as UserFlagU32.
func (p *Packet) UserFlagI32(i int) int32 {
	return int32(p.UserFlagU32(i))
}

// SetUserFlagI32 sets signed 32-bit word i (0..2) of the user-flag
// annotation.
func (p *Packet) SetUserFlagI32(i int, v int32) {
	p.SetUserFlagU32(i, uint32(v))
}
