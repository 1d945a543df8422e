package packet

import (
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/clicknet/pktcore/pkg/devicetag"
)

func TestCopyAnnotationsDoesNotCopyHeaderOffsets(t *testing.T) {
	wp, err := New(nil, 0, 40, 0)
	require.NoError(t, err)
	wp.SetDstIPv4(netip.MustParseAddr("192.0.2.1"))
	wp.SetDeviceTag(devicetag.New())
	wp.SetNetworkHeader(0, 20)

	dst, err := New(nil, 0, 40, 0)
	require.NoError(t, err)
	dst.CopyAnnotations(wp.Packet)

	require.True(t, cmp.Equal(wp.DstIPv4(), dst.DstIPv4(), cmp.Comparer(func(a, b netip.Addr) bool { return a == b })))
	require.False(t, dst.HasNetworkHeader(), "CopyAnnotations must not copy the header offset cache")
}

func TestClearAnnotationsResetsPacketType(t *testing.T) {
	wp, err := New(nil, 0, 10, 0)
	require.NoError(t, err)
	wp.SetPacketType(TypeBroadcast)
	wp.ClearAnnotations()
	require.Equal(t, TypeHost, wp.PacketType())
	require.True(t, wp.DeviceTag().IsNull())
}

func TestUserFlagsAliasSameBytes(t *testing.T) {
	wp, err := New(nil, 0, 10, 0)
	require.NoError(t, err)

	wp.SetUserFlagU32(0, 0x01020304)
	require.Equal(t, uint8(0x04), wp.UserFlag(0))
	require.Equal(t, uint8(0x03), wp.UserFlag(1))
	require.Equal(t, uint8(0x02), wp.UserFlag(2))
	require.Equal(t, uint8(0x01), wp.UserFlag(3))

	wp.SetUserFlagI32(1, -1)
	require.Equal(t, uint32(0xffffffff), wp.UserFlagU32(1))
	require.Equal(t, int32(-1), wp.UserFlagI32(1))

	wp.SetUserFlag(11, 0xff)
	require.Equal(t, uint8(0xff), wp.UserFlag(11))
}
