package meshtastic

import (
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

const degreesScale = 1e-7

func unixOrZero(sec uint32) time.Time {
	if sec == 0 {
		return time.Time{}
	}

	return time.Unix(int64(sec), 0)
}

// ToPacket converts a wire packet into the bot's packet model. A zero rx
// time is replaced with now.
func ToPacket(p *MeshPacket, now time.Time) *models.Packet {
	pkt := &models.Packet{
		ID:       p.ID,
		FromNum:  p.From,
		ToNum:    p.To,
		From:     models.FormatNodeID(p.From),
		To:       models.FormatNodeID(p.To),
		Channel:  p.Channel,
		HopStart: p.HopStart,
		HopLimit: p.HopLimit,
		RxTime:   unixOrZero(p.RxTime),
		RxSNR:    p.RxSNR,
		RxRSSI:   p.RxRSSI,
		WantAck:  p.WantAck,
	}

	if pkt.RxTime.IsZero() {
		pkt.RxTime = now
	}

	if d := p.Decoded; d != nil {
		pkt.PortNum = d.PortNum
		pkt.Payload = d.Payload
		pkt.ReplyID = d.ReplyID
		pkt.Emoji = d.Emoji != 0

		if d.PortNum == models.PortTextMessage {
			pkt.Text = string(d.Payload)
		}
	}

	return pkt
}

func ToUser(u *User) *models.User {
	if u == nil {
		return nil
	}

	return &models.User{
		ID:         models.NodeID(u.ID),
		ShortName:  u.ShortName,
		LongName:   u.LongName,
		MacAddr:    u.MacAddr,
		HwModel:    HwModelName(u.HwModel),
		PublicKey:  u.PublicKey,
		IsLicensed: u.IsLicensed,
	}
}

func ToPosition(p *Position, logged time.Time) *models.Position {
	if p == nil {
		return nil
	}

	return &models.Position{
		Latitude:       float64(p.LatitudeI) * degreesScale,
		Longitude:      float64(p.LongitudeI) * degreesScale,
		Altitude:       p.Altitude,
		LocationSource: LocationSourceName(p.LocationSource),
		ReportedTime:   unixOrZero(p.Time),
		LoggedTime:     logged,
	}
}

func ToDeviceMetrics(m *DeviceMetrics, logged time.Time) *models.DeviceMetrics {
	if m == nil {
		return nil
	}

	return &models.DeviceMetrics{
		BatteryLevel:       m.BatteryLevel,
		Voltage:            m.Voltage,
		ChannelUtilization: m.ChannelUtilization,
		AirUtilTx:          m.AirUtilTx,
		UptimeSeconds:      m.UptimeSeconds,
		LoggedTime:         logged,
	}
}

// ToNodeInfo converts a node database entry. Samples are stamped with now as
// their logged time.
func ToNodeInfo(n *NodeInfo, now time.Time) *models.NodeInfo {
	return &models.NodeInfo{
		Num:           n.Num,
		User:          ToUser(n.User),
		Position:      ToPosition(n.Position, now),
		DeviceMetrics: ToDeviceMetrics(n.DeviceMetrics, now),
		SNR:           n.SNR,
		LastHeard:     unixOrZero(n.LastHeard),
		HopsAway:      n.HopsAway,
	}
}
