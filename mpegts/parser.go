package mpegts

import "github.com/rs/zerolog/log"

// pendingUnit is a payload unit in the process of being reassembled across
// multiple transport packets. It is the Go analogue of the teacher's
// enum-dispatch PayloadUnit: instead of a closed sum type we use a small
// interface, since a PES unit's inner payload decoder is the one documented
// extension point (RegisterPesFactory) and must stay open.
type pendingUnit interface {
	extendFromSlice(slice []byte)
	finish(pid uint16, p *Parser) (Payload, error)
	pending() Payload
}

type pendingEntry struct {
	unit      pendingUnit
	remaining int
}

func (e *pendingEntry) append(r *Reader) (bool, error) {
	if r.Remaining() <= e.remaining {
		e.remaining -= r.Remaining()
		e.unit.extendFromSlice(r.ReadToEnd())
		return e.remaining == 0, nil
	}
	data, err := r.Read(e.remaining)
	if err != nil {
		return false, err
	}
	e.unit.extendFromSlice(data)
	e.remaining = 0
	return true, nil
}

// PesFactory builds the application-supplied decoder for PES payload of a
// given PID, given the declared unit length (the byte count of the inner
// PES payload, not including the PES/optional headers). Returning nil
// falls back to a plain byte accumulator.
type PesFactory func(pid uint16, unitLength int) PesUnitObject

type pesFactoryRange struct {
	lo, hi  uint16
	factory PesFactory
}

// Parser holds all of a transport stream session's cross-packet state: the
// PID-keyed table of in-progress payload units, and the set of PIDs known
// to carry a Program Map Table (populated from the most recently seen
// Program Association Table). One Parser must be used for exactly one
// stream; it performs no synchronization of its own (see spec.md §5).
type Parser struct {
	pending      map[uint16]*pendingEntry
	knownPMTPids map[uint16]bool
	nitPID       uint16

	pesFactories []pesFactoryRange
}

// NewParser returns a Parser ready to parse 188-byte MPEG-TS packets from
// the start of a stream.
func NewParser() *Parser {
	return &Parser{
		pending:      make(map[uint16]*pendingEntry),
		knownPMTPids: make(map[uint16]bool),
	}
}

// RegisterPesFactory installs factory as the PES-payload decoder for every
// PID in [lo, hi]. Later registrations covering the same PID shadow
// earlier ones. bdav.NewParser pre-registers the PG segment decoder this
// way for the Blu-Ray graphics PID ranges.
func (p *Parser) RegisterPesFactory(lo, hi uint16, factory PesFactory) {
	p.pesFactories = append(p.pesFactories, pesFactoryRange{lo: lo, hi: hi, factory: factory})
}

func (p *Parser) pesFactoryFor(pid uint16) PesFactory {
	for i := len(p.pesFactories) - 1; i >= 0; i-- {
		f := p.pesFactories[i]
		if pid >= f.lo && pid <= f.hi {
			return f.factory
		}
	}
	return nil
}

// Parse decodes one 188-byte MPEG-TS transport packet.
func (p *Parser) Parse(packet []byte) (Packet, error) {
	if len(packet) != 188 {
		return Packet{}, newError(0, KindPacketOverrun)
	}
	return p.parseInternal(NewReader(packet))
}

func (p *Parser) logDiscardPending(pid uint16) {
	log.Warn().Uint16("pid", pid).Msg("mpegts: discarding unfinished payload unit on PUSI")
}

func (p *Parser) startPayloadUnit(unit pendingUnit, length int, pid uint16, r *Reader) (Payload, error) {
	entry := &pendingEntry{unit: unit, remaining: length}
	done, err := entry.append(r)
	if err != nil {
		return Payload{}, err
	}
	if done {
		return entry.unit.finish(pid, p)
	}
	pending := entry.unit.pending()
	p.pending[pid] = entry
	return pending, nil
}

func (p *Parser) continuePayloadUnit(pid uint16, r *Reader) (Payload, error) {
	entry, ok := p.pending[pid]
	if !ok {
		log.Warn().Uint16("pid", pid).Msg("mpegts: discarding payload continuation on unknown PID")
		return Payload{Kind: PayloadRaw, Raw: r.ReadToEnd()}, nil
	}
	done, err := entry.append(r)
	if err != nil {
		return Payload{}, err
	}
	if done {
		delete(p.pending, pid)
		return entry.unit.finish(pid, p)
	}
	return entry.unit.pending(), nil
}
