package mpegts_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/bugVanisher/mpegts/internal/mpegtsmock"
	"github.com/bugVanisher/mpegts/mpegts"
)

func TestRegisteredPesFactoryReceivesPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mpegtsmock.NewMockPesUnitObject(ctrl)
	mock.EXPECT().ExtendFromSlice(gomock.Any()).Times(1)
	mock.EXPECT().Finish(uint16(0x1200), gomock.Any()).Return(nil).Times(1)

	p := mpegts.NewParser()
	p.RegisterPesFactory(0x1200, 0x121f, mpegtsmock.NewFactory(mock))

	header := []byte{0x47, 0x40, 0x00, 0x10}
	header[1] |= byte(0x1200>>8) & 0x1f
	header[2] = byte(0x1200)

	payload := []byte{0x00, 0x00, 0x01, 0x90, 0x00, 0x04, 0x00, 0x00, 0x00, 0xAB}
	packet := make([]byte, 188)
	copy(packet, header)
	copy(packet[4:], payload)
	for i := 4 + len(payload); i < 188; i++ {
		packet[i] = 0xFF
	}

	pkt, err := p.Parse(packet)
	require.NoError(t, err)
	require.Equal(t, mpegts.PayloadPes, pkt.Payload.Kind)
	require.Same(t, mock, pkt.Payload.Pes.Data)
}
