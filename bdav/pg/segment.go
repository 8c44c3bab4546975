// Package pg decodes Blu-Ray Presentation Graphics (subtitle/menu) and
// Text subtitle segments carried inside BDAV PES units: palettes, bitmap
// objects, on-screen compositions, interactive menus and dialog styling.
//
// A handful of segment types (Object, IG Composition) can be larger than a
// single PES unit's payload and are themselves fragmented at a second
// level, driven by a sequence descriptor repeated on every fragment. This
// package reassembles those on top of the PES-level reassembly the mpegts
// package already performs.
package pg

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bugVanisher/mpegts/mpegts"
)

// SegmentKind identifies a PG/IG/Text segment's type byte.
type SegmentKind uint8

const (
	SegmentPalette SegmentKind = 0x14
	SegmentObject  SegmentKind = 0x15
	SegmentPgComposition SegmentKind = 0x16
	SegmentWindow  SegmentKind = 0x17
	SegmentIgComposition SegmentKind = 0x18
	SegmentEndOfDisplay SegmentKind = 0x80
	SegmentDialogStyle SegmentKind = 0x81
	SegmentDialogPresentation SegmentKind = 0x82
)

// SegmentData is the decoded result of one PG/IG/Text segment. At most one
// of the typed fields is populated, selected by Kind; an End-of-display
// segment populates none. Incomplete reports a segment that is still
// awaiting further fragments and carries no payload.
type SegmentData struct {
	Kind        SegmentKind
	Incomplete  bool
	Palette     *PgsPalette
	Object      *PgsObject
	PgComposition *PgsPgComposition
	Window      *PgsWindow
	IgComposition *PgsIgComposition
	DialogStyle *TgsDialogStyle
	DialogPresentation *TgsDialogPresentation
}

// objectFragment and igCompositionFragment hold a partially reassembled
// second-level segment. capacity is the object_data_length (or, for IG
// Compositions, the interactive_composition's own data_length plus its
// 3-byte length prefix) declared on the first fragment; it pre-sizes the
// buffer and bounds every later append.
type objectFragment struct {
	capacity int
	data     []byte
}

type igCompositionFragment struct {
	capacity int
	data     []byte
}

// appendCapped appends add to buf, truncating it (and logging a warning)
// if doing so would exceed capacity. capacity < 0 means the declared
// length is unknown, in which case no cap is enforced.
func appendCapped(buf []byte, capacity int, add []byte, kind string, key uint32) []byte {
	if capacity < 0 {
		return append(buf, add...)
	}
	room := capacity - len(buf)
	if room < 0 {
		room = 0
	}
	if len(add) > room {
		log.Warn().
			Str("segment", kind).
			Uint32("key", key).
			Int("capacity", capacity).
			Int("dropped", len(add)-room).
			Msg("pg: fragment data exceeds declared capacity, truncating")
		add = add[:room]
	}
	return append(buf, add...)
}

// Store holds the in-flight state of every second-level fragmented
// segment, keyed first by PID so that unrelated graphics streams never
// collide, then by the segment's own reassembly key.
type Store struct {
	mu             sync.Mutex
	objects        map[uint16]map[PgsObjectKey]*objectFragment
	igCompositions map[uint16]map[PgCompositionDescriptor]*igCompositionFragment
}

func newStore() *Store {
	return &Store{
		objects:        make(map[uint16]map[PgsObjectKey]*objectFragment),
		igCompositions: make(map[uint16]map[PgCompositionDescriptor]*igCompositionFragment),
	}
}

var defaultStore = newStore()

// decodeObject runs the 4-case first/last sequence-descriptor state
// machine for Object segments: first&last decodes directly; first&!last
// allocates and stores the fragment; !first&!last appends to it;
// !first&last appends, removes the pending entry, and decodes the result.
func (s *Store) decodeObject(pid uint16, r *mpegts.Reader) (SegmentData, error) {
	id, version, sequence, objectDataLength, data, err := parsePgsObjectFragment(r)
	if err != nil {
		return SegmentData{}, err
	}
	key := PgsObjectKey{ID: id, Version: version}

	switch {
	case sequence.FirstInSeq && sequence.LastInSeq:
		obj := PgsObject{ID: id, Version: version, Data: append([]byte(nil), data...)}
		return SegmentData{Kind: SegmentObject, Object: &obj}, nil

	case sequence.FirstInSeq && !sequence.LastInSeq:
		s.mu.Lock()
		byKey, ok := s.objects[pid]
		if !ok {
			byKey = make(map[PgsObjectKey]*objectFragment)
			s.objects[pid] = byKey
		}
		frag := &objectFragment{capacity: int(objectDataLength), data: make([]byte, 0, objectDataLength)}
		frag.data = appendCapped(frag.data, frag.capacity, data, "object", uint32(id))
		byKey[key] = frag
		s.mu.Unlock()
		return SegmentData{Kind: SegmentObject, Incomplete: true}, nil

	case !sequence.FirstInSeq && !sequence.LastInSeq:
		s.mu.Lock()
		defer s.mu.Unlock()
		byKey, ok := s.objects[pid]
		if !ok {
			return SegmentData{}, newErr(NonStartedPgsObject, uint32(id))
		}
		frag, ok := byKey[key]
		if !ok {
			return SegmentData{}, newErr(NonStartedPgsObject, uint32(id))
		}
		frag.data = appendCapped(frag.data, frag.capacity, data, "object", uint32(id))
		return SegmentData{Kind: SegmentObject, Incomplete: true}, nil

	default: // !first && last
		s.mu.Lock()
		byKey, ok := s.objects[pid]
		if !ok {
			s.mu.Unlock()
			return SegmentData{}, newErr(NonStartedPgsObject, uint32(id))
		}
		frag, ok := byKey[key]
		if !ok {
			s.mu.Unlock()
			return SegmentData{}, newErr(NonStartedPgsObject, uint32(id))
		}
		delete(byKey, key)
		s.mu.Unlock()
		full := appendCapped(frag.data, frag.capacity, data, "object", uint32(id))
		obj := PgsObject{ID: id, Version: version, Data: full}
		return SegmentData{Kind: SegmentObject, Object: &obj}, nil
	}
}

func (s *Store) decodeIgComposition(pid uint16, r *mpegts.Reader) (SegmentData, error) {
	video, composition, sequence, data, err := parsePgsIgCompositionFragment(r)
	if err != nil {
		return SegmentData{}, err
	}

	finish := func(full []byte) (SegmentData, error) {
		interactive, err := parseIgInteractiveComposition(mpegts.NewReader(full))
		if err != nil {
			return SegmentData{}, err
		}
		out := PgsIgComposition{
			VideoDescriptor:        video,
			CompositionDescriptor:  composition,
			SequenceDescriptor:     sequence,
			InteractiveComposition: interactive,
		}
		return SegmentData{Kind: SegmentIgComposition, IgComposition: &out}, nil
	}

	switch {
	case sequence.FirstInSeq && sequence.LastInSeq:
		return finish(data)

	case sequence.FirstInSeq && !sequence.LastInSeq:
		capacity := igCompositionCapacity(data)
		s.mu.Lock()
		byKey, ok := s.igCompositions[pid]
		if !ok {
			byKey = make(map[PgCompositionDescriptor]*igCompositionFragment)
			s.igCompositions[pid] = byKey
		}
		frag := &igCompositionFragment{capacity: capacity, data: make([]byte, 0, maxInt(capacity, 0))}
		frag.data = appendCapped(frag.data, frag.capacity, data, "ig_composition", uint32(composition.Number))
		byKey[composition] = frag
		s.mu.Unlock()
		return SegmentData{Kind: SegmentIgComposition, Incomplete: true}, nil

	case !sequence.FirstInSeq && !sequence.LastInSeq:
		s.mu.Lock()
		defer s.mu.Unlock()
		byKey, ok := s.igCompositions[pid]
		if !ok {
			return SegmentData{}, newErr(NonStartedPgsIgComposition, uint32(composition.Number))
		}
		frag, ok := byKey[composition]
		if !ok {
			return SegmentData{}, newErr(NonStartedPgsIgComposition, uint32(composition.Number))
		}
		frag.data = appendCapped(frag.data, frag.capacity, data, "ig_composition", uint32(composition.Number))
		return SegmentData{Kind: SegmentIgComposition, Incomplete: true}, nil

	default: // !first && last
		s.mu.Lock()
		byKey, ok := s.igCompositions[pid]
		if !ok {
			s.mu.Unlock()
			return SegmentData{}, newErr(NonStartedPgsIgComposition, uint32(composition.Number))
		}
		frag, ok := byKey[composition]
		if !ok {
			s.mu.Unlock()
			return SegmentData{}, newErr(NonStartedPgsIgComposition, uint32(composition.Number))
		}
		delete(byKey, composition)
		s.mu.Unlock()
		return finish(appendCapped(frag.data, frag.capacity, data, "ig_composition", uint32(composition.Number)))
	}
}

// igCompositionCapacity peeks the interactive_composition's own 24-bit
// data_length prefix (never consuming it, since parseIgInteractiveComposition
// still needs to read it off the reassembled buffer) to size the
// reassembly buffer. Returns -1 if the first fragment is too short to
// carry the prefix, leaving the cap unenforced for that stream.
func igCompositionCapacity(firstFragmentData []byte) int {
	if len(firstFragmentData) < 3 {
		return -1
	}
	dataLen := int(firstFragmentData[0])<<16 | int(firstFragmentData[1])<<8 | int(firstFragmentData[2])
	return 3 + dataLen
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// decodeSegment dispatches one fully reassembled PES unit's bytes to the
// segment parser matching its type byte.
func (s *Store) decodeSegment(pid uint16, raw []byte) (SegmentData, error) {
	r := mpegts.NewReader(raw)
	typeByte, err := r.U8()
	if err != nil {
		return SegmentData{}, err
	}
	length, err := r.BEU16()
	if err != nil {
		return SegmentData{}, err
	}
	sub, err := r.Sub(int(length))
	if err != nil {
		return SegmentData{}, err
	}

	switch SegmentKind(typeByte) {
	case SegmentPalette:
		palette, err := parsePgsPalette(sub)
		if err != nil {
			return SegmentData{}, err
		}
		return SegmentData{Kind: SegmentPalette, Palette: &palette}, nil
	case SegmentObject:
		return s.decodeObject(pid, sub)
	case SegmentPgComposition:
		comp, err := parsePgsPgComposition(sub)
		if err != nil {
			return SegmentData{}, err
		}
		return SegmentData{Kind: SegmentPgComposition, PgComposition: &comp}, nil
	case SegmentWindow:
		w, err := parsePgsWindow(sub)
		if err != nil {
			return SegmentData{}, err
		}
		return SegmentData{Kind: SegmentWindow, Window: &w}, nil
	case SegmentIgComposition:
		return s.decodeIgComposition(pid, sub)
	case SegmentEndOfDisplay:
		return SegmentData{Kind: SegmentEndOfDisplay}, nil
	case SegmentDialogStyle:
		style, err := parseTgsDialogStyle(sub)
		if err != nil {
			return SegmentData{}, err
		}
		return SegmentData{Kind: SegmentDialogStyle, DialogStyle: &style}, nil
	case SegmentDialogPresentation:
		presentation, err := parseTgsDialogPresentation(sub)
		if err != nil {
			return SegmentData{}, err
		}
		return SegmentData{Kind: SegmentDialogPresentation, DialogPresentation: &presentation}, nil
	default:
		return SegmentData{}, newErr(UnknownPgSegmentType, uint32(typeByte))
	}
}

// SegmentDecoder is the mpegts.PesUnitObject implementation registered for
// PG/IG/Text PIDs: it accumulates one PES unit's raw bytes, then dispatches
// and (if needed) second-level-reassembles it on Finish.
type SegmentDecoder struct {
	store  *Store
	buf    []byte
	Result SegmentData
}

// NewSegmentDecoder matches mpegts.PesFactory's signature and is registered
// by bdav.NewParser for the BDAV PG/IG/Text PID ranges.
func NewSegmentDecoder(pid uint16, unitLength int) mpegts.PesUnitObject {
	capacity := unitLength
	if capacity < 0 {
		capacity = 0
	}
	return &SegmentDecoder{store: defaultStore, buf: make([]byte, 0, capacity)}
}

func (d *SegmentDecoder) ExtendFromSlice(slice []byte) {
	d.buf = append(d.buf, slice...)
}

func (d *SegmentDecoder) Finish(pid uint16, parser *mpegts.Parser) error {
	result, err := d.store.decodeSegment(pid, d.buf)
	if err != nil {
		return mpegts.NewAppError(0, err)
	}
	d.Result = result
	return nil
}
