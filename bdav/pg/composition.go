package pg

import "github.com/bugVanisher/mpegts/mpegts"

// PgCrop is the optional cropping rectangle of a composition object.
type PgCrop struct {
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
}

func parsePgCrop(r *mpegts.Reader) (PgCrop, error) {
	x, err := r.BEU16()
	if err != nil {
		return PgCrop{}, err
	}
	y, err := r.BEU16()
	if err != nil {
		return PgCrop{}, err
	}
	w, err := r.BEU16()
	if err != nil {
		return PgCrop{}, err
	}
	h, err := r.BEU16()
	if err != nil {
		return PgCrop{}, err
	}
	return PgCrop{X: x, Y: y, Width: w, Height: h}, nil
}

// PgCompositionObject places one Object on screen within a composition,
// optionally cropped to a sub-rectangle of it.
type PgCompositionObject struct {
	ObjectIDRef  uint16
	WindowIDRef  uint8
	ForcedOnFlag bool
	X            uint16
	Y            uint16
	Crop         *PgCrop
}

func parsePgCompositionObject(r *mpegts.Reader) (PgCompositionObject, error) {
	objectIDRef, err := r.BEU16()
	if err != nil {
		return PgCompositionObject{}, err
	}
	windowIDRef, err := r.U8()
	if err != nil {
		return PgCompositionObject{}, err
	}
	flags, err := r.U8()
	if err != nil {
		return PgCompositionObject{}, err
	}
	hasCrop := flags&0x80 != 0
	forcedOn := flags&0x40 != 0
	x, err := r.BEU16()
	if err != nil {
		return PgCompositionObject{}, err
	}
	y, err := r.BEU16()
	if err != nil {
		return PgCompositionObject{}, err
	}
	obj := PgCompositionObject{ObjectIDRef: objectIDRef, WindowIDRef: windowIDRef, ForcedOnFlag: forcedOn, X: x, Y: y}
	if hasCrop {
		crop, err := parsePgCrop(r)
		if err != nil {
			return PgCompositionObject{}, err
		}
		obj.Crop = &crop
	}
	return obj, nil
}

// PgsPgComposition (segment type 0x16): the on-screen arrangement of
// objects for one epoch, tied to a video geometry/frame rate and a
// composition sequence descriptor.
type PgsPgComposition struct {
	VideoDescriptor     PgVideoDescriptor
	CompositionDescriptor PgCompositionDescriptor
	PaletteUpdateFlag   bool
	PaletteIDRef        uint8
	Objects             []PgCompositionObject
}

func parsePgsPgComposition(r *mpegts.Reader) (PgsPgComposition, error) {
	video, err := parsePgVideoDescriptor(r)
	if err != nil {
		return PgsPgComposition{}, err
	}
	composition, err := parsePgCompositionDescriptor(r)
	if err != nil {
		return PgsPgComposition{}, err
	}
	flags, err := r.U8()
	if err != nil {
		return PgsPgComposition{}, err
	}
	paletteIDRef, err := r.U8()
	if err != nil {
		return PgsPgComposition{}, err
	}
	numObjects, err := r.U8()
	if err != nil {
		return PgsPgComposition{}, err
	}
	out := PgsPgComposition{
		VideoDescriptor:       video,
		CompositionDescriptor: composition,
		PaletteUpdateFlag:     flags&0x80 != 0,
		PaletteIDRef:          paletteIDRef,
	}
	for i := 0; i < int(numObjects); i++ {
		obj, err := parsePgCompositionObject(r)
		if err != nil {
			return PgsPgComposition{}, err
		}
		out.Objects = append(out.Objects, obj)
	}
	return out, nil
}
