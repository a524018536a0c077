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

// Package models pkg/models/node.go
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidNodeID = errors.New("invalid node id")
)

const (
	// BroadcastNum is the destination number used for channel-wide packets.
	BroadcastNum uint32 = 0xffffffff

	// BroadcastID is the display form of BroadcastNum.
	BroadcastID NodeID = "^all"
)

// NodeID is the radio-assigned node identifier in "!%08x" form.
type NodeID string

// FormatNodeID converts a numeric node number into its NodeID form.
func FormatNodeID(num uint32) NodeID {
	if num == BroadcastNum {
		return BroadcastID
	}

	return NodeID(fmt.Sprintf("!%08x", num))
}

// ParseNodeID parses "!xxxxxxxx" (or bare hex) into a node number.
func ParseNodeID(s string) (uint32, error) {
	if NodeID(s) == BroadcastID {
		return BroadcastNum, nil
	}

	hex := strings.TrimPrefix(s, "!")
	if hex == "" || len(hex) > 8 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNodeID, s)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidNodeID, s, err)
	}

	return uint32(n), nil
}

// Num returns the numeric form of the id.
func (id NodeID) Num() (uint32, error) {
	return ParseNodeID(string(id))
}

func (id NodeID) String() string {
	return string(id)
}

// User is the identity a node announces about itself.
type User struct {
	ID         NodeID `json:"id"`
	ShortName  string `json:"short_name"`
	LongName   string `json:"long_name"`
	MacAddr    []byte `json:"mac_addr,omitempty"`
	HwModel    string `json:"hw_model"`
	PublicKey  []byte `json:"public_key,omitempty"`
	IsLicensed bool   `json:"is_licensed,omitempty"`
}

// NodeInfo is a node-updated announcement as delivered by the transport.
// Only announcements carrying a User are usable by the directory.
type NodeInfo struct {
	Num           uint32         `json:"num"`
	User          *User          `json:"user,omitempty"`
	Position      *Position      `json:"position,omitempty"`
	DeviceMetrics *DeviceMetrics `json:"device_metrics,omitempty"`
	SNR           float32        `json:"snr,omitempty"`
	LastHeard     time.Time      `json:"last_heard"`
	HopsAway      uint32         `json:"hops_away,omitempty"`
}

// ID returns the announced identity's id, falling back to the numeric form.
func (n *NodeInfo) ID() NodeID {
	if n.User != nil && n.User.ID != "" {
		return n.User.ID
	}

	return FormatNodeID(n.Num)
}
