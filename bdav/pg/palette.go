package pg

import "github.com/bugVanisher/mpegts/mpegts"

// PgsPaletteEntry is one YCrCbT entry of a palette table.
type PgsPaletteEntry struct {
	Y  uint8
	Cr uint8
	Cb uint8
	T  uint8
}

// PgsPalette (segment type 0x14). id and version identify the palette;
// entries are addressed by an explicit index byte and default to zero
// wherever the sub-view runs out before all 256 slots are written.
type PgsPalette struct {
	ID      uint8
	Version uint8
	Entries [256]PgsPaletteEntry
}

func parsePgsPalette(r *mpegts.Reader) (PgsPalette, error) {
	id, err := r.U8()
	if err != nil {
		return PgsPalette{}, err
	}
	version, err := r.U8()
	if err != nil {
		return PgsPalette{}, err
	}
	palette := PgsPalette{ID: id, Version: version}
	for r.Remaining() >= 5 {
		index, err := r.U8()
		if err != nil {
			return PgsPalette{}, err
		}
		y, err := r.U8()
		if err != nil {
			return PgsPalette{}, err
		}
		cr, err := r.U8()
		if err != nil {
			return PgsPalette{}, err
		}
		cb, err := r.U8()
		if err != nil {
			return PgsPalette{}, err
		}
		t, err := r.U8()
		if err != nil {
			return PgsPalette{}, err
		}
		palette.Entries[index] = PgsPaletteEntry{Y: y, Cr: cr, Cb: cb, T: t}
	}
	return palette, nil
}
