package cmd

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bugVanisher/mpegts/bdav"
	"github.com/bugVanisher/mpegts/common/errs"
	"github.com/bugVanisher/mpegts/mpegts"
)

var (
	dumpBdav       bool
	dumpJSON       bool
	dumpMaxPackets int
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse a transport stream file and print one line per packet.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().BoolVar(&dumpBdav, "bdav", false, "parse 192-byte BDAV (M2TS) packets instead of plain 188-byte MPEG-TS")
	cmd.Flags().BoolVar(&dumpJSON, "json", false, "emit one JSON object per packet instead of a human-readable line")
	cmd.Flags().IntVar(&dumpMaxPackets, "max-packets", 0, "stop after this many packets (0 means unbounded)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errs.Wrapf(errs.ErrOpenFile, "opening %s: %v", args[0], err)
	}
	defer f.Close()

	if dumpBdav {
		return dumpBdavStream(f)
	}
	return dumpMpegtsStream(f)
}

func dumpMpegtsStream(r io.Reader) error {
	parser := mpegts.NewParser()
	buf := make([]byte, 188)
	count := 0
	for {
		if dumpMaxPackets > 0 && count >= dumpMaxPackets {
			return nil
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return errs.Wrapf(errs.ErrBadPacket, "reading packet: %v", err)
		}
		packet, err := parser.Parse(buf)
		if err != nil {
			log.Warn().Err(errs.Wrapf(errs.ErrBadPacket, "packet %d: %v", count, err)).Int("packet", count).Msg("failed to parse packet")
			count++
			continue
		}
		printPacket(count, packet)
		count++
	}
}

func dumpBdavStream(r io.Reader) error {
	parser := bdav.NewParser()
	buf := make([]byte, 192)
	count := 0
	for {
		if dumpMaxPackets > 0 && count >= dumpMaxPackets {
			return nil
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return errs.Wrapf(errs.ErrBadPacket, "reading packet: %v", err)
		}
		bdavPacket, err := parser.Parse(buf)
		if err != nil {
			log.Warn().Err(errs.Wrapf(errs.ErrBadPacket, "packet %d: %v", count, err)).Int("packet", count).Msg("failed to parse bdav packet")
			count++
			continue
		}
		printPacket(count, bdavPacket.Packet)
		count++
	}
}

func printPacket(index int, packet mpegts.Packet) {
	if dumpJSON {
		b, err := jsoniter.Marshal(packetView{
			Index: index,
			PID:   packet.Header.PID,
			PUSI:  packet.Header.PUSI,
			Kind:  payloadKindString(packet),
		})
		if err != nil {
			log.Error().Err(err).Msg("marshalling packet")
			return
		}
		fmt.Println(string(b))
		return
	}
	fmt.Printf("#%d pid=0x%04x pusi=%t kind=%s\n", index, packet.Header.PID, packet.Header.PUSI, payloadKindString(packet))
}

type packetView struct {
	Index int    `json:"index"`
	PID   uint16 `json:"pid"`
	PUSI  bool   `json:"pusi"`
	Kind  string `json:"kind"`
}

func payloadKindString(packet mpegts.Packet) string {
	if packet.Payload == nil {
		return "None"
	}
	return packet.Payload.Kind.String()
}
