package meshtastic

import "github.com/mfreeman451/meshbot/pkg/models"

// Data is the decoded application payload of a MeshPacket.
type Data struct {
	PortNum      models.PortNum
	Payload      []byte
	WantResponse bool
	Dest         uint32
	Source       uint32
	RequestID    uint32
	ReplyID      uint32
	Emoji        uint32
}

// MeshPacket is the over-the-air packet envelope.
type MeshPacket struct {
	From      uint32
	To        uint32
	Channel   uint32
	Decoded   *Data
	Encrypted []byte
	ID        uint32
	RxTime    uint32
	RxSNR     float32
	HopLimit  uint32
	WantAck   bool
	RxRSSI    int32
	ViaMQTT   bool
	HopStart  uint32
}

// NodeInfo mirrors the device's node database entry.
type NodeInfo struct {
	Num           uint32
	User          *User
	Position      *Position
	SNR           float32
	LastHeard     uint32
	DeviceMetrics *DeviceMetrics
	Channel       uint32
	HopsAway      uint32
}

type User struct {
	ID         string
	LongName   string
	ShortName  string
	MacAddr    []byte
	HwModel    uint32
	IsLicensed bool
	PublicKey  []byte
}

type Position struct {
	LatitudeI      int32
	LongitudeI     int32
	Altitude       int32
	Time           uint32
	LocationSource uint32
}

type DeviceMetrics struct {
	BatteryLevel       uint32
	Voltage            float32
	ChannelUtilization float32
	AirUtilTx          float32
	UptimeSeconds      uint32
}

// Telemetry carries one telemetry variant. Only device metrics are decoded.
type Telemetry struct {
	Time          uint32
	DeviceMetrics *DeviceMetrics
}

// ToRadio is a message from the client to the radio.
type ToRadio struct {
	Packet       *MeshPacket
	WantConfigID uint32
	Disconnect   bool
	Heartbeat    bool
}

// FromRadio is a message from the radio to the client.
type FromRadio struct {
	ID               uint32
	Packet           *MeshPacket
	MyNodeNum        uint32
	HasMyInfo        bool
	NodeInfo         *NodeInfo
	ConfigCompleteID uint32
	Rebooted         bool
}

var locationSources = map[uint32]string{
	0: "LOC_UNSET",
	1: "LOC_MANUAL",
	2: "LOC_INTERNAL",
	3: "LOC_EXTERNAL",
}

var hwModels = map[uint32]string{
	0:   "UNSET",
	1:   "TLORA_V2",
	2:   "TLORA_V1",
	3:   "TLORA_V2_1_1P6",
	4:   "TBEAM",
	5:   "HELTEC_V2_0",
	6:   "TBEAM_V0P7",
	7:   "T_ECHO",
	8:   "TLORA_V1_1P3",
	9:   "RAK4631",
	10:  "HELTEC_V2_1",
	11:  "HELTEC_V1",
	12:  "LILYGO_TBEAM_S3_CORE",
	13:  "RAK11200",
	14:  "NANO_G1",
	15:  "TLORA_V2_1_1P8",
	16:  "TLORA_T3_S3",
	17:  "NANO_G1_EXPLORER",
	18:  "NANO_G2_ULTRA",
	25:  "STATION_G1",
	26:  "RAK11310",
	43:  "HELTEC_V3",
	44:  "HELTEC_WSL_V3",
	48:  "HELTEC_WIRELESS_TRACKER",
	50:  "T_DECK",
	51:  "T_WATCH_S3",
	255: "PRIVATE_HW",
}

// HwModelName returns the enum name for a hardware model number.
func HwModelName(n uint32) string {
	if name, ok := hwModels[n]; ok {
		return name
	}

	return "UNSET"
}

// HwModelNumber is the reverse of HwModelName; unknown names map to 0.
func HwModelNumber(name string) uint32 {
	for n, v := range hwModels {
		if v == name {
			return n
		}
	}

	return 0
}

// LocationSourceName returns the enum name for a position source.
func LocationSourceName(n uint32) string {
	if name, ok := locationSources[n]; ok {
		return name
	}

	return "LOC_UNSET"
}
