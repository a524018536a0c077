/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package meshtastic pkg/meshtastic/codec.go encodes and decodes the subset of
// the radio's ToRadio/FromRadio protobuf messages the bot needs.
package meshtastic

import (
	"fmt"
	"math"

	"github.com/mfreeman451/meshbot/pkg/models"
	"google.golang.org/protobuf/encoding/protowire"
)

// field is one decoded wire field. Only the member matching typ is set.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	varint  uint64
	fixed32 uint32
	bytes   []byte
}

func parseFields(b []byte, fn func(f *field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformedMessage, protowire.ParseError(n))
		}

		b = b[n:]
		f := &field{num: num, typ: typ}

		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			f.fixed32, n = protowire.ConsumeFixed32(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return fmt.Errorf("%w: field %d: %w", ErrMalformedMessage, num, protowire.ParseError(n))
		}

		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}

	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(int64(v)))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}

	return appendVarint(b, num, 1)
}

func appendFixed32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.Fixed32Type)

	return protowire.AppendFixed32(b, v)
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	return appendFixed32(b, num, math.Float32bits(v))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	return appendBytes(b, num, []byte(v))
}

// appendMessage writes a submessage even when it encodes to zero bytes.
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, msg)
}

// EncodeToRadio serializes a ToRadio message.
func EncodeToRadio(m *ToRadio) []byte {
	var b []byte

	switch {
	case m.Packet != nil:
		b = appendMessage(b, 1, encodeMeshPacket(m.Packet))
	case m.WantConfigID != 0:
		b = appendVarint(b, 3, uint64(m.WantConfigID))
	case m.Disconnect:
		b = appendBool(b, 4, true)
	case m.Heartbeat:
		b = appendMessage(b, 7, nil)
	}

	return b
}

// DecodeToRadio parses a ToRadio message.
func DecodeToRadio(b []byte) (*ToRadio, error) {
	m := &ToRadio{}

	err := parseFields(b, func(f *field) error {
		switch f.num {
		case 1:
			p, err := decodeMeshPacket(f.bytes)
			if err != nil {
				return err
			}

			m.Packet = p
		case 3:
			m.WantConfigID = uint32(f.varint)
		case 4:
			m.Disconnect = f.varint != 0
		case 7:
			m.Heartbeat = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// EncodeFromRadio serializes a FromRadio message.
func EncodeFromRadio(m *FromRadio) []byte {
	var b []byte

	b = appendVarint(b, 1, uint64(m.ID))

	switch {
	case m.Packet != nil:
		b = appendMessage(b, 2, encodeMeshPacket(m.Packet))
	case m.HasMyInfo:
		b = appendMessage(b, 3, appendVarint(nil, 1, uint64(m.MyNodeNum)))
	case m.NodeInfo != nil:
		b = appendMessage(b, 4, encodeNodeInfo(m.NodeInfo))
	case m.ConfigCompleteID != 0:
		b = appendVarint(b, 7, uint64(m.ConfigCompleteID))
	case m.Rebooted:
		b = appendBool(b, 8, true)
	}

	return b
}

// DecodeFromRadio parses a FromRadio message. Variants the bot does not use
// (config, channels, log records) are skipped.
func DecodeFromRadio(b []byte) (*FromRadio, error) {
	m := &FromRadio{}

	err := parseFields(b, func(f *field) error {
		var err error

		switch f.num {
		case 1:
			m.ID = uint32(f.varint)
		case 2:
			m.Packet, err = decodeMeshPacket(f.bytes)
		case 3:
			m.HasMyInfo = true
			err = parseFields(f.bytes, func(sf *field) error {
				if sf.num == 1 {
					m.MyNodeNum = uint32(sf.varint)
				}

				return nil
			})
		case 4:
			m.NodeInfo, err = decodeNodeInfo(f.bytes)
		case 7:
			m.ConfigCompleteID = uint32(f.varint)
		case 8:
			m.Rebooted = f.varint != 0
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func encodeMeshPacket(p *MeshPacket) []byte {
	var b []byte

	b = appendFixed32(b, 1, p.From)
	b = appendFixed32(b, 2, p.To)
	b = appendVarint(b, 3, uint64(p.Channel))

	if p.Decoded != nil {
		b = appendMessage(b, 4, encodeData(p.Decoded))
	} else {
		b = appendBytes(b, 5, p.Encrypted)
	}

	b = appendFixed32(b, 6, p.ID)
	b = appendFixed32(b, 7, p.RxTime)
	b = appendFloat(b, 8, p.RxSNR)
	b = appendVarint(b, 9, uint64(p.HopLimit))
	b = appendBool(b, 10, p.WantAck)
	b = appendInt32(b, 12, p.RxRSSI)
	b = appendBool(b, 14, p.ViaMQTT)
	b = appendVarint(b, 15, uint64(p.HopStart))

	return b
}

func decodeMeshPacket(b []byte) (*MeshPacket, error) {
	p := &MeshPacket{}

	err := parseFields(b, func(f *field) error {
		switch f.num {
		case 1:
			p.From = f.fixed32
		case 2:
			p.To = f.fixed32
		case 3:
			p.Channel = uint32(f.varint)
		case 4:
			d, err := decodeData(f.bytes)
			if err != nil {
				return err
			}

			p.Decoded = d
		case 5:
			p.Encrypted = f.bytes
		case 6:
			p.ID = f.fixed32
		case 7:
			p.RxTime = f.fixed32
		case 8:
			p.RxSNR = math.Float32frombits(f.fixed32)
		case 9:
			p.HopLimit = uint32(f.varint)
		case 10:
			p.WantAck = f.varint != 0
		case 12:
			p.RxRSSI = int32(f.varint)
		case 14:
			p.ViaMQTT = f.varint != 0
		case 15:
			p.HopStart = uint32(f.varint)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func encodeData(d *Data) []byte {
	var b []byte

	b = appendVarint(b, 1, uint64(d.PortNum))
	b = appendBytes(b, 2, d.Payload)
	b = appendBool(b, 3, d.WantResponse)
	b = appendFixed32(b, 4, d.Dest)
	b = appendFixed32(b, 5, d.Source)
	b = appendFixed32(b, 6, d.RequestID)
	b = appendFixed32(b, 7, d.ReplyID)
	b = appendFixed32(b, 8, d.Emoji)

	return b
}

func decodeData(b []byte) (*Data, error) {
	d := &Data{}

	err := parseFields(b, func(f *field) error {
		switch f.num {
		case 1:
			d.PortNum = models.PortNum(f.varint)
		case 2:
			d.Payload = f.bytes
		case 3:
			d.WantResponse = f.varint != 0
		case 4:
			d.Dest = f.fixed32
		case 5:
			d.Source = f.fixed32
		case 6:
			d.RequestID = f.fixed32
		case 7:
			d.ReplyID = f.fixed32
		case 8:
			d.Emoji = f.fixed32
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

func encodeNodeInfo(n *NodeInfo) []byte {
	var b []byte

	b = appendVarint(b, 1, uint64(n.Num))

	if n.User != nil {
		b = appendMessage(b, 2, EncodeUser(n.User))
	}

	if n.Position != nil {
		b = appendMessage(b, 3, EncodePosition(n.Position))
	}

	b = appendFloat(b, 4, n.SNR)
	b = appendFixed32(b, 5, n.LastHeard)

	if n.DeviceMetrics != nil {
		b = appendMessage(b, 6, encodeDeviceMetrics(n.DeviceMetrics))
	}

	b = appendVarint(b, 7, uint64(n.Channel))
	b = appendVarint(b, 9, uint64(n.HopsAway))

	return b
}

func decodeNodeInfo(b []byte) (*NodeInfo, error) {
	n := &NodeInfo{}

	err := parseFields(b, func(f *field) error {
		var err error

		switch f.num {
		case 1:
			n.Num = uint32(f.varint)
		case 2:
			n.User, err = DecodeUser(f.bytes)
		case 3:
			n.Position, err = DecodePosition(f.bytes)
		case 4:
			n.SNR = math.Float32frombits(f.fixed32)
		case 5:
			n.LastHeard = f.fixed32
		case 6:
			n.DeviceMetrics, err = decodeDeviceMetrics(f.bytes)
		case 7:
			n.Channel = uint32(f.varint)
		case 9:
			n.HopsAway = uint32(f.varint)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

// EncodeUser serializes a User, the NODEINFO_APP payload.
func EncodeUser(u *User) []byte {
	var b []byte

	b = appendString(b, 1, u.ID)
	b = appendString(b, 2, u.LongName)
	b = appendString(b, 3, u.ShortName)
	b = appendBytes(b, 4, u.MacAddr)
	b = appendVarint(b, 5, uint64(u.HwModel))
	b = appendBool(b, 6, u.IsLicensed)
	b = appendBytes(b, 8, u.PublicKey)

	return b
}

// DecodeUser parses a NODEINFO_APP payload.
func DecodeUser(b []byte) (*User, error) {
	u := &User{}

	err := parseFields(b, func(f *field) error {
		switch f.num {
		case 1:
			u.ID = string(f.bytes)
		case 2:
			u.LongName = string(f.bytes)
		case 3:
			u.ShortName = string(f.bytes)
		case 4:
			u.MacAddr = f.bytes
		case 5:
			u.HwModel = uint32(f.varint)
		case 6:
			u.IsLicensed = f.varint != 0
		case 8:
			u.PublicKey = f.bytes
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// EncodePosition serializes a Position, the POSITION_APP payload.
func EncodePosition(p *Position) []byte {
	var b []byte

	b = appendFixed32(b, 1, uint32(p.LatitudeI))
	b = appendFixed32(b, 2, uint32(p.LongitudeI))
	b = appendInt32(b, 3, p.Altitude)
	b = appendFixed32(b, 4, p.Time)
	b = appendVarint(b, 5, uint64(p.LocationSource))

	return b
}

// DecodePosition parses a POSITION_APP payload.
func DecodePosition(b []byte) (*Position, error) {
	p := &Position{}

	err := parseFields(b, func(f *field) error {
		switch f.num {
		case 1:
			p.LatitudeI = int32(f.fixed32)
		case 2:
			p.LongitudeI = int32(f.fixed32)
		case 3:
			p.Altitude = int32(f.varint)
		case 4:
			p.Time = f.fixed32
		case 5:
			p.LocationSource = uint32(f.varint)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func encodeDeviceMetrics(m *DeviceMetrics) []byte {
	var b []byte

	b = appendVarint(b, 1, uint64(m.BatteryLevel))
	b = appendFloat(b, 2, m.Voltage)
	b = appendFloat(b, 3, m.ChannelUtilization)
	b = appendFloat(b, 4, m.AirUtilTx)
	b = appendVarint(b, 5, uint64(m.UptimeSeconds))

	return b
}

func decodeDeviceMetrics(b []byte) (*DeviceMetrics, error) {
	m := &DeviceMetrics{}

	err := parseFields(b, func(f *field) error {
		switch f.num {
		case 1:
			m.BatteryLevel = uint32(f.varint)
		case 2:
			m.Voltage = math.Float32frombits(f.fixed32)
		case 3:
			m.ChannelUtilization = math.Float32frombits(f.fixed32)
		case 4:
			m.AirUtilTx = math.Float32frombits(f.fixed32)
		case 5:
			m.UptimeSeconds = uint32(f.varint)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// EncodeTelemetry serializes a Telemetry, the TELEMETRY_APP payload.
func EncodeTelemetry(t *Telemetry) []byte {
	var b []byte

	b = appendFixed32(b, 1, t.Time)

	if t.DeviceMetrics != nil {
		b = appendMessage(b, 2, encodeDeviceMetrics(t.DeviceMetrics))
	}

	return b
}

// DecodeTelemetry parses a TELEMETRY_APP payload. Environment and power
// variants leave DeviceMetrics nil.
func DecodeTelemetry(b []byte) (*Telemetry, error) {
	t := &Telemetry{}

	err := parseFields(b, func(f *field) error {
		var err error

		switch f.num {
		case 1:
			t.Time = f.fixed32
		case 2:
			t.DeviceMetrics, err = decodeDeviceMetrics(f.bytes)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
