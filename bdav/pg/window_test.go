package pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/mpegts"
)

func TestParsePgsWindow(t *testing.T) {
	raw := []byte{
		0x02,                   // count = 2
		0x00, 0x00, 0x0A, 0x00, 0x14, 0x01, 0x90, 0x00, 0xF0, // window 0
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x10, // window 1
	}
	w, err := parsePgsWindow(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, w.Windows, 2)
	require.Equal(t, IgWindow{ID: 0, X: 10, Y: 20, Width: 400, Height: 240}, w.Windows[0])
	require.Equal(t, IgWindow{ID: 1, X: 0, Y: 0, Width: 16, Height: 16}, w.Windows[1])
}
