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

// Communications Device Class functional descriptors (CDC 1.2). These
// appear on both the communications and the data class interfaces of
// modems, serial adapters and USB network cards.

package usbtree

// CommsSubtype is the CDC functional descriptor subtype.
type CommsSubtype uint8

const (
	CommsSubtypeHeader             CommsSubtype = 0x00
	CommsSubtypeCallManagement     CommsSubtype = 0x01
	CommsSubtypeACM                CommsSubtype = 0x02
	CommsSubtypeDirectLine         CommsSubtype = 0x03
	CommsSubtypeTelephoneRinger    CommsSubtype = 0x04
	CommsSubtypeTelephoneCall      CommsSubtype = 0x05
	CommsSubtypeUnion              CommsSubtype = 0x06
	CommsSubtypeCountrySelection   CommsSubtype = 0x07
	CommsSubtypeTelephoneOpModes   CommsSubtype = 0x08
	CommsSubtypeUSBTerminal        CommsSubtype = 0x09
	CommsSubtypeNetworkChannel     CommsSubtype = 0x0a
	CommsSubtypeProtocolUnit       CommsSubtype = 0x0b
	CommsSubtypeExtensionUnit      CommsSubtype = 0x0c
	CommsSubtypeMultiChannel       CommsSubtype = 0x0d
	CommsSubtypeCAPIControl        CommsSubtype = 0x0e
	CommsSubtypeEthernetNetworking CommsSubtype = 0x0f
	CommsSubtypeATMNetworking      CommsSubtype = 0x10
	CommsSubtypeWHCM               CommsSubtype = 0x11
	CommsSubtypeMDLM               CommsSubtype = 0x12
	CommsSubtypeMDLMDetail         CommsSubtype = 0x13
	CommsSubtypeDeviceManagement   CommsSubtype = 0x14
	CommsSubtypeOBEX               CommsSubtype = 0x15
	CommsSubtypeCommandSet         CommsSubtype = 0x16
	CommsSubtypeCommandSetDetail   CommsSubtype = 0x17
	CommsSubtypeTelephoneControl   CommsSubtype = 0x18
	CommsSubtypeOBEXServiceID      CommsSubtype = 0x19
	CommsSubtypeNCM                CommsSubtype = 0x1a
)

var commsSubtypeDescription = map[CommsSubtype]string{
	CommsSubtypeHeader:             "header",
	CommsSubtypeCallManagement:     "call management",
	CommsSubtypeACM:                "abstract control management",
	CommsSubtypeDirectLine:         "direct line management",
	CommsSubtypeTelephoneRinger:    "telephone ringer",
	CommsSubtypeTelephoneCall:      "telephone call and line state reporting",
	CommsSubtypeUnion:              "union",
	CommsSubtypeCountrySelection:   "country selection",
	CommsSubtypeTelephoneOpModes:   "telephone operational modes",
	CommsSubtypeUSBTerminal:        "USB terminal",
	CommsSubtypeNetworkChannel:     "network channel terminal",
	CommsSubtypeProtocolUnit:       "protocol unit",
	CommsSubtypeExtensionUnit:      "extension unit",
	CommsSubtypeMultiChannel:       "multi-channel management",
	CommsSubtypeCAPIControl:        "CAPI control management",
	CommsSubtypeEthernetNetworking: "ethernet networking",
	CommsSubtypeATMNetworking:      "ATM networking",
	CommsSubtypeWHCM:               "wireless handset control model",
	CommsSubtypeMDLM:               "mobile direct line model",
	CommsSubtypeMDLMDetail:         "MDLM detail",
	CommsSubtypeDeviceManagement:   "device management",
	CommsSubtypeOBEX:               "OBEX",
	CommsSubtypeCommandSet:         "command set",
	CommsSubtypeCommandSetDetail:   "command set detail",
	CommsSubtypeTelephoneControl:   "telephone control model",
	CommsSubtypeOBEXServiceID:      "OBEX service identifier",
	CommsSubtypeNCM:                "NCM",
}

func (s CommsSubtype) String() string {
	if d, ok := commsSubtypeDescription[s]; ok {
		return d
	}
	return "unknown"
}

// CommsDescriptor is one CDC functional descriptor.
type CommsDescriptor struct {
	Length  uint8
	Type    DescriptorType
	Subtype CommsSubtype
	Payload Payload
}

func (d *CommsDescriptor) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type), byte(d.Subtype)}
	return append(out, d.Payload.Bytes()...)
}

// decodeCommsChunk decodes one CDC functional descriptor chunk.
// Subtypes without a dedicated shape keep their raw payload.
func decodeCommsChunk(gd GenericDescriptor) Descriptor {
	cd := &CommsDescriptor{
		Length:  gd.Length,
		Type:    gd.Type,
		Subtype: CommsSubtype(gd.SubType),
	}
	var payload Payload
	var err error
	switch cd.Subtype {
	case CommsSubtypeHeader:
		payload, err = ParseCommsHeader(gd.Data)
	case CommsSubtypeCallManagement:
		payload, err = ParseCallManagement(gd.Data)
	case CommsSubtypeACM:
		payload, err = ParseACMFunctional(gd.Data)
	case CommsSubtypeTelephoneRinger:
		payload, err = ParseTelephoneRinger(gd.Data)
	case CommsSubtypeTelephoneCall:
		payload, err = ParseTelephoneCall(gd.Data)
	case CommsSubtypeTelephoneOpModes:
		payload, err = ParseTelephoneOpModes(gd.Data)
	case CommsSubtypeUnion:
		payload, err = ParseCommsUnion(gd.Data)
	case CommsSubtypeCountrySelection:
		payload, err = ParseCountrySelection(gd.Data)
	case CommsSubtypeNetworkChannel:
		payload, err = ParseNetworkChannel(gd.Data)
	case CommsSubtypeEthernetNetworking:
		payload, err = ParseEthernetNetworking(gd.Data)
	case CommsSubtypeCommandSet:
		payload, err = ParseCommandSet(gd.Data)
	default:
		payload = GenericPayload(gd.Data)
	}
	if err != nil {
		log.Warnf("CDC descriptor subtype %#02x: %v", gd.SubType, err)
		payload = InvalidPayload(gd.Data)
	}
	cd.Payload = payload
	return cd
}

// CommsHeader is the mandatory first functional descriptor, carrying
// the CDC release number.
type CommsHeader struct {
	Version BCD
}

func ParseCommsHeader(b []byte) (*CommsHeader, error) {
	if len(b) < 2 {
		return nil, errShort("CommsHeader", 2, len(b))
	}
	return &CommsHeader{Version: BCD(u16le(b))}, nil
}

func (h *CommsHeader) Bytes() []byte {
	return appendU16(nil, uint16(h.Version))
}

// CallManagement describes how the device handles call management and
// which data interface carries it.
type CallManagement struct {
	Capabilities  uint8
	DataInterface uint8
}

func ParseCallManagement(b []byte) (*CallManagement, error) {
	if len(b) < 2 {
		return nil, errShort("CallManagement", 2, len(b))
	}
	return &CallManagement{Capabilities: b[0], DataInterface: b[1]}, nil
}

func (c *CallManagement) Bytes() []byte {
	return []byte{c.Capabilities, c.DataInterface}
}

// ACMFunctional advertises the abstract control model requests the
// device supports.
type ACMFunctional struct {
	Capabilities uint8
}

func ParseACMFunctional(b []byte) (*ACMFunctional, error) {
	if len(b) < 1 {
		return nil, errShort("ACMFunctional", 1, len(b))
	}
	return &ACMFunctional{Capabilities: b[0]}, nil
}

func (a *ACMFunctional) Bytes() []byte {
	return []byte{a.Capabilities}
}

// TelephoneRinger describes the ringer of a telephone control model
// function.
type TelephoneRinger struct {
	RingerVolSteps    uint8
	NumRingerPatterns uint8
}

func ParseTelephoneRinger(b []byte) (*TelephoneRinger, error) {
	if len(b) < 2 {
		return nil, errShort("TelephoneRinger", 2, len(b))
	}
	return &TelephoneRinger{RingerVolSteps: b[0], NumRingerPatterns: b[1]}, nil
}

func (r *TelephoneRinger) Bytes() []byte {
	return []byte{r.RingerVolSteps, r.NumRingerPatterns}
}

// TelephoneCall advertises which call and line state changes the device
// reports. The capability bitmap is 32 bits on the wire.
type TelephoneCall struct {
	Capabilities uint32
}

func ParseTelephoneCall(b []byte) (*TelephoneCall, error) {
	if len(b) < 4 {
		return nil, errShort("TelephoneCall", 4, len(b))
	}
	return &TelephoneCall{Capabilities: u32le(b)}, nil
}

func (c *TelephoneCall) Bytes() []byte {
	return appendU32(nil, c.Capabilities)
}

// TelephoneOpModes advertises the operational modes (simple, standalone,
// computer-centric) the telephone function supports.
type TelephoneOpModes struct {
	Capabilities uint8
}

func ParseTelephoneOpModes(b []byte) (*TelephoneOpModes, error) {
	if len(b) < 1 {
		return nil, errShort("TelephoneOpModes", 1, len(b))
	}
	return &TelephoneOpModes{Capabilities: b[0]}, nil
}

func (m *TelephoneOpModes) Bytes() []byte {
	return []byte{m.Capabilities}
}

// CommsUnion groups a control interface with its subordinate
// interfaces.
type CommsUnion struct {
	ControlInterface uint8
	Subordinates     []uint8
}

func ParseCommsUnion(b []byte) (*CommsUnion, error) {
	if len(b) < 1 {
		return nil, errShort("CommsUnion", 1, len(b))
	}
	return &CommsUnion{
		ControlInterface: b[0],
		Subordinates:     append([]uint8(nil), b[1:]...),
	}, nil
}

func (u *CommsUnion) Bytes() []byte {
	out := []byte{u.ControlInterface}
	return append(out, u.Subordinates...)
}

// CountrySelection lists the ISO 3166 country codes the device
// supports, as indices into release-date-stamped code pages.
type CountrySelection struct {
	CountryRelDate uint8
	CountryCodes   []uint16
}

func ParseCountrySelection(b []byte) (*CountrySelection, error) {
	if len(b) < 1 {
		return nil, errShort("CountrySelection", 1, len(b))
	}
	c := &CountrySelection{CountryRelDate: b[0]}
	for i := 1; i+1 < len(b); i += 2 {
		c.CountryCodes = append(c.CountryCodes, u16le(b[i:]))
	}
	return c, nil
}

func (c *CountrySelection) Bytes() []byte {
	out := []byte{c.CountryRelDate}
	for _, code := range c.CountryCodes {
		out = appendU16(out, code)
	}
	return out
}

// NetworkChannel names one network channel terminal of a multi-channel
// device.
type NetworkChannel struct {
	EntityID        uint8
	NameStringIndex uint8
	Name            string
	ChannelIndex    uint8
	PhysicalPort    uint8
}

func ParseNetworkChannel(b []byte) (*NetworkChannel, error) {
	if len(b) < 4 {
		return nil, errShort("NetworkChannel", 4, len(b))
	}
	return &NetworkChannel{
		EntityID:        b[0],
		NameStringIndex: b[1],
		ChannelIndex:    b[2],
		PhysicalPort:    b[3],
	}, nil
}

func (n *NetworkChannel) Bytes() []byte {
	return []byte{n.EntityID, n.NameStringIndex, n.ChannelIndex, n.PhysicalPort}
}

// EthernetNetworking describes an ethernet control model function: the
// MAC address string, segment size and filter capacities.
type EthernetNetworking struct {
	MACAddressIndex    uint8
	MACAddress         string
	EthernetStatistics uint32
	MaxSegmentSize     uint16
	NumberMCFilters    uint16
	NumberPowerFilters uint8
}

func ParseEthernetNetworking(b []byte) (*EthernetNetworking, error) {
	if len(b) < 10 {
		return nil, errShort("EthernetNetworking", 10, len(b))
	}
	return &EthernetNetworking{
		MACAddressIndex:    b[0],
		EthernetStatistics: u32le(b[1:]),
		MaxSegmentSize:     u16le(b[5:]),
		NumberMCFilters:    u16le(b[7:]),
		NumberPowerFilters: b[9],
	}, nil
}

func (e *EthernetNetworking) Bytes() []byte {
	out := []byte{e.MACAddressIndex}
	out = appendU32(out, e.EthernetStatistics)
	out = appendU16(out, e.MaxSegmentSize)
	out = appendU16(out, e.NumberMCFilters)
	return append(out, e.NumberPowerFilters)
}

// CommandSet identifies a vendor command set by version, name string
// and GUID.
type CommandSet struct {
	Version         BCD
	CommandSetIndex uint8
	CommandSetName  string
	GUID            [16]byte
}

func ParseCommandSet(b []byte) (*CommandSet, error) {
	if len(b) < 19 {
		return nil, errShort("CommandSet", 19, len(b))
	}
	c := &CommandSet{
		Version:         BCD(u16le(b)),
		CommandSetIndex: b[2],
	}
	copy(c.GUID[:], b[3:19])
	return c, nil
}

func (c *CommandSet) Bytes() []byte {
	out := appendU16(nil, uint16(c.Version))
	out = append(out, c.CommandSetIndex)
	return append(out, c.GUID[:]...)
}
