package pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/mpegts"
)

func TestParsePgCompositionObjectWithCrop(t *testing.T) {
	raw := []byte{
		0x00, 0x01, // object_id_ref = 1
		0x02,       // window_id_ref = 2
		0xC0,       // flags: has_crop | forced_on
		0x00, 0x05, // x = 5
		0x00, 0x06, // y = 6
		0x00, 0x00, 0x00, 0x00, 0x00, 0x64, 0x00, 0x64, // crop: x=0 y=0 w=100 h=100
	}
	obj, err := parsePgCompositionObject(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, uint16(1), obj.ObjectIDRef)
	require.True(t, obj.ForcedOnFlag)
	require.NotNil(t, obj.Crop)
	require.Equal(t, PgCrop{X: 0, Y: 0, Width: 100, Height: 100}, *obj.Crop)
}

func TestParsePgsPgCompositionNoObjects(t *testing.T) {
	raw := []byte{
		0x07, 0x80, 0x04, 0x38, 0x20, // video descriptor (1920x1080 @24)
		0x00, 0x01, 0x80, // composition descriptor
		0x80,       // flags: palette_update
		0x01,       // palette_id_ref
		0x00,       // num_composition_objects = 0
	}
	comp, err := parsePgsPgComposition(mpegts.NewReader(raw))
	require.NoError(t, err)
	require.True(t, comp.PaletteUpdateFlag)
	require.Equal(t, uint8(1), comp.PaletteIDRef)
	require.Empty(t, comp.Objects)
}
