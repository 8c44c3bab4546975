package pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/mpegts"
)

func TestParsePgVideoDescriptor(t *testing.T) {
	// width=1920, height=1080, frame_rate nibble=2 (NonDrop24) in the high
	// nibble of the following byte, low nibble reserved.
	raw := []byte{0x07, 0x80, 0x04, 0x38, 0x20}
	r := mpegts.NewReader(raw)
	vd, err := parsePgVideoDescriptor(r)
	require.NoError(t, err)
	require.Equal(t, uint16(1920), vd.VideoWidth)
	require.Equal(t, uint16(1080), vd.VideoHeight)
	require.Equal(t, FrameRateNonDrop24, vd.FrameRate)
	require.Equal(t, "24", vd.FrameRate.String())
}

func TestParsePgVideoDescriptorUnknownFrameRate(t *testing.T) {
	raw := []byte{0x07, 0x80, 0x04, 0x38, 0xF0}
	r := mpegts.NewReader(raw)
	_, err := parsePgVideoDescriptor(r)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, UnknownFrameRate, perr.Kind)
}
