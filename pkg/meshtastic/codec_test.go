package meshtastic

import (
	"bytes"
	"testing"
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	// console noise before and between frames must be skipped
	buf.WriteString("INFO boot\r\n")
	require.NoError(t, WriteFrame(&buf, []byte{0x01, 0x02}))
	buf.Write([]byte{frameStart1, 0x00, 0xff})
	require.NoError(t, WriteFrame(&buf, []byte("hello")))

	fr := NewFrameReader(&buf)

	got, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, got)

	got, err = fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestWriteFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer

	err := WriteFrame(&buf, make([]byte, MaxPayloadSize+1))
	require.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Zero(t, buf.Len())
}

func TestToRadioReactionEncoding(t *testing.T) {
	msg := &ToRadio{Packet: &MeshPacket{
		To:       0xdeadbeef,
		Channel:  1,
		ID:       42,
		HopLimit: 3,
		Decoded: &Data{
			PortNum: models.PortTextMessage,
			Payload: []byte("👍"),
			ReplyID: 99,
			Emoji:   1,
		},
	}}

	decoded, err := DecodeToRadio(EncodeToRadio(msg))
	require.NoError(t, err)
	require.NotNil(t, decoded.Packet)
	require.NotNil(t, decoded.Packet.Decoded)

	assert.Equal(t, uint32(0xdeadbeef), decoded.Packet.To)
	assert.Equal(t, uint32(1), decoded.Packet.Channel)
	assert.Equal(t, []byte("👍"), decoded.Packet.Decoded.Payload)
	assert.Equal(t, uint32(99), decoded.Packet.Decoded.ReplyID)
	assert.Equal(t, uint32(1), decoded.Packet.Decoded.Emoji)
}

func TestToRadioControlMessages(t *testing.T) {
	hb, err := DecodeToRadio(EncodeToRadio(&ToRadio{Heartbeat: true}))
	require.NoError(t, err)
	assert.True(t, hb.Heartbeat)

	wc, err := DecodeToRadio(EncodeToRadio(&ToRadio{WantConfigID: 1234}))
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), wc.WantConfigID)
	assert.False(t, wc.Heartbeat)
}

func TestFromRadioNodeInfo(t *testing.T) {
	in := &FromRadio{ID: 7, NodeInfo: &NodeInfo{
		Num: 0x0000abcd,
		User: &User{
			ID:        "!0000abcd",
			LongName:  "Base Camp",
			ShortName: "BC",
			MacAddr:   []byte{1, 2, 3, 4, 5, 6},
			HwModel:   43,
			PublicKey: []byte{9, 9},
		},
		Position:      &Position{LatitudeI: -337000000, LongitudeI: 1512000000, Altitude: -5, Time: 1700000000, LocationSource: 2},
		LastHeard:     1700000100,
		DeviceMetrics: &DeviceMetrics{BatteryLevel: 87, Voltage: 4.1, UptimeSeconds: 3600},
	}}

	out, err := DecodeFromRadio(EncodeFromRadio(in))
	require.NoError(t, err)
	require.NotNil(t, out.NodeInfo)
	assert.Equal(t, in.NodeInfo, out.NodeInfo)

	now := time.Unix(1700000200, 0)
	info := ToNodeInfo(out.NodeInfo, now)

	require.NotNil(t, info.User)
	assert.Equal(t, models.NodeID("!0000abcd"), info.User.ID)
	assert.Equal(t, "HELTEC_V3", info.User.HwModel)
	assert.InDelta(t, -33.7, info.Position.Latitude, 1e-6)
	assert.InDelta(t, 151.2, info.Position.Longitude, 1e-6)
	assert.Equal(t, int32(-5), info.Position.Altitude)
	assert.Equal(t, "LOC_INTERNAL", info.Position.LocationSource)
	assert.Equal(t, time.Unix(1700000000, 0), info.Position.ReportedTime)
	assert.Equal(t, now, info.Position.LoggedTime)
	assert.Equal(t, time.Unix(1700000100, 0), info.LastHeard)
	assert.Equal(t, uint32(87), info.DeviceMetrics.BatteryLevel)
}

func TestToPacket(t *testing.T) {
	now := time.Unix(1700000000, 0)
	p := &MeshPacket{
		From:     0x11,
		To:       0xffffffff,
		ID:       5,
		HopStart: 3,
		HopLimit: 2,
		Decoded:  &Data{PortNum: models.PortTextMessage, Payload: []byte("!ping")},
	}

	pkt := ToPacket(p, now)

	assert.Equal(t, models.NodeID("!00000011"), pkt.From)
	assert.Equal(t, models.BroadcastID, pkt.To)
	assert.Equal(t, "!ping", pkt.Text)
	assert.Equal(t, now, pkt.RxTime)
	assert.Equal(t, 1, pkt.HopsAway())
}

func TestDecodeMalformed(t *testing.T) {
	_, err := DecodeFromRadio([]byte{0x12, 0x05, 0x01})
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestTelemetryWithoutDeviceMetrics(t *testing.T) {
	tel, err := DecodeTelemetry(EncodeTelemetry(&Telemetry{Time: 10}))
	require.NoError(t, err)
	assert.Nil(t, tel.DeviceMetrics)
	assert.Equal(t, uint32(10), tel.Time)
}
