package mpegts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderBasicReads(t *testing.T) {
	r := NewReader([]byte{0x01, 0xAB, 0xCD, 0x00, 0x01, 0x02, 0xFF, 0xFF, 0xFF, 0xFF, 0x01})
	b, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), b)

	u16, err := r.BEU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xABCD), u16)

	u24, err := r.BEU24()
	require.NoError(t, err)
	require.Equal(t, uint32(0x000102), u24)

	u32, err := r.BEU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFFFFFF), u32)

	require.Equal(t, 1, r.Remaining())
	rest := r.ReadToEnd()
	require.Equal(t, []byte{0x01}, rest)
	require.Equal(t, 0, r.Remaining())
}

func TestReaderOverrun(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.Read(3)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindPacketOverrun, perr.Kind)
	require.Equal(t, 3, perr.N)
}

func TestReaderSubKeepsAbsoluteOffset(t *testing.T) {
	r := NewReader(make([]byte, 10))
	require.NoError(t, r.Skip(4))
	sub, err := r.Sub(3)
	require.NoError(t, err)
	require.Equal(t, 4, sub.Offset())
	_, err = sub.Read(10)
	require.Error(t, err)
	perr := err.(*Error)
	require.Equal(t, 4, perr.Offset)
}

func TestReaderBEU33(t *testing.T) {
	r := NewReader([]byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF})
	v, err := r.BEU33()
	require.NoError(t, err)
	require.Equal(t, uint64(1)<<32|0xFFFFFFFF, v)
}
