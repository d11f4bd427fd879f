// Copyright 2024 the usbtree Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package usbtree

// HubDescriptor is the class descriptor of a hub. Data holds the
// trailing, layout-variable region (removable-device bitmap for USB 2
// hubs, header decode latency and delay for SuperSpeed hubs).
// PortStatuses is filled by a port status request per port, not from
// the descriptor itself.
type HubDescriptor struct {
	Length          uint8
	Type            DescriptorType
	NumPorts        uint8
	Characteristics uint16
	PowerOnToGood   uint8
	ControlCurrent  uint8
	Data            []byte
	PortStatuses    [][8]byte
}

func ParseHubDescriptor(b []byte) (*HubDescriptor, error) {
	if len(b) < 7 {
		return nil, errShort("HubDescriptor", 7, len(b))
	}
	return &HubDescriptor{
		Length:          b[0],
		Type:            DescriptorType(b[1]),
		NumPorts:        b[2],
		Characteristics: u16le(b[3:]),
		PowerOnToGood:   b[5],
		ControlCurrent:  b[6],
		Data:            append([]byte(nil), b[7:]...),
	}, nil
}

func (h *HubDescriptor) Bytes() []byte {
	out := []byte{h.Length, byte(h.Type), h.NumPorts}
	out = appendU16(out, h.Characteristics)
	out = append(out, h.PowerOnToGood, h.ControlCurrent)
	return append(out, h.Data...)
}

// DeviceQualifier is the device qualifier descriptor: how a
// high-speed capable device would look at its other speed. The trailing
// reserved byte is kept when the device sent one, so re-encoding
// reproduces the wire bytes whether the read was 9 or 10 bytes long.
type DeviceQualifier struct {
	Length            uint8
	Type              DescriptorType
	Version           BCD
	Class             Class
	SubClass          uint8
	Protocol          Protocol
	MaxPacketSize     uint8
	NumConfigurations uint8
	Reserved          uint8
	HasReserved       bool
}

func ParseDeviceQualifier(b []byte) (*DeviceQualifier, error) {
	if len(b) < 9 {
		return nil, errShort("DeviceQualifier", 9, len(b))
	}
	q := &DeviceQualifier{
		Length:            b[0],
		Type:              DescriptorType(b[1]),
		Version:           BCD(u16le(b[2:])),
		Class:             Class(b[4]),
		SubClass:          b[5],
		Protocol:          Protocol(b[6]),
		MaxPacketSize:     b[7],
		NumConfigurations: b[8],
	}
	if len(b) > 9 {
		q.Reserved = b[9]
		q.HasReserved = true
	}
	return q, nil
}

func (d *DeviceQualifier) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type)}
	out = appendU16(out, uint16(d.Version))
	out = append(out, byte(d.Class), d.SubClass, byte(d.Protocol),
		d.MaxPacketSize, d.NumConfigurations)
	if d.HasReserved {
		out = append(out, d.Reserved)
	}
	return out
}

// DebugDescriptor names the endpoints a debug-capable device uses for
// its debug channel.
type DebugDescriptor struct {
	Length      uint8
	Type        DescriptorType
	InEndpoint  uint8
	OutEndpoint uint8
}

func ParseDebugDescriptor(b []byte) (*DebugDescriptor, error) {
	if len(b) < 4 {
		return nil, errShort("DebugDescriptor", 4, len(b))
	}
	return &DebugDescriptor{
		Length:      b[0],
		Type:        DescriptorType(b[1]),
		InEndpoint:  b[2],
		OutEndpoint: b[3],
	}, nil
}

func (d *DebugDescriptor) Bytes() []byte {
	return []byte{d.Length, byte(d.Type), d.InEndpoint, d.OutEndpoint}
}

// SecurityDescriptor summarizes the wireless security capability of a
// device: the total length of the security descriptor group and the
// number of encryption type descriptors that follow it.
type SecurityDescriptor struct {
	Length             uint8
	Type               DescriptorType
	TotalLength        uint16
	NumEncryptionTypes uint8
}

func ParseSecurityDescriptor(b []byte) (*SecurityDescriptor, error) {
	if len(b) < 5 {
		return nil, errShort("SecurityDescriptor", 5, len(b))
	}
	return &SecurityDescriptor{
		Length:             b[0],
		Type:               DescriptorType(b[1]),
		TotalLength:        u16le(b[2:]),
		NumEncryptionTypes: b[4],
	}, nil
}

func (d *SecurityDescriptor) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type)}
	out = appendU16(out, d.TotalLength)
	return append(out, d.NumEncryptionTypes)
}
