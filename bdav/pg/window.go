package pg

import "github.com/bugVanisher/mpegts/mpegts"

// IgWindow is a named on-screen rectangle. It is shared by the PG Window
// segment (0x17) and IG effect sequences, which both carry the identical
// 9-byte layout.
type IgWindow struct {
	ID     uint8
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
}

func parseIgWindow(r *mpegts.Reader) (IgWindow, error) {
	id, err := r.U8()
	if err != nil {
		return IgWindow{}, err
	}
	x, err := r.BEU16()
	if err != nil {
		return IgWindow{}, err
	}
	y, err := r.BEU16()
	if err != nil {
		return IgWindow{}, err
	}
	w, err := r.BEU16()
	if err != nil {
		return IgWindow{}, err
	}
	h, err := r.BEU16()
	if err != nil {
		return IgWindow{}, err
	}
	return IgWindow{ID: id, X: x, Y: y, Width: w, Height: h}, nil
}

// PgsWindow (segment type 0x17): a count-prefixed list of on-screen
// windows available to subsequent composition objects.
type PgsWindow struct {
	Windows []IgWindow
}

func parsePgsWindow(r *mpegts.Reader) (PgsWindow, error) {
	count, err := r.U8()
	if err != nil {
		return PgsWindow{}, err
	}
	out := PgsWindow{}
	for i := 0; i < int(count); i++ {
		w, err := parseIgWindow(r)
		if err != nil {
			return PgsWindow{}, err
		}
		out.Windows = append(out.Windows, w)
	}
	return out, nil
}
