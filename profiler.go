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

import (
	"fmt"
	"sort"
)

// Standard request codes used while profiling.
const (
	requestGetStatus     = 0x00
	requestGetDescriptor = 0x06
	requestWebUSBURL     = 0x02
)

// ControlType is the specification defining a control request.
type ControlType uint8

const (
	ControlTypeStandard ControlType = 0
	ControlTypeClass    ControlType = 1
	ControlTypeVendor   ControlType = 2
)

// Recipient is the entity a control request targets.
type Recipient uint8

const (
	RecipientDevice    Recipient = 0
	RecipientInterface Recipient = 1
	RecipientEndpoint  Recipient = 2
	RecipientOther     Recipient = 3
)

// ControlRequest describes one IN control transfer to a device.
type ControlRequest struct {
	Type           ControlType
	Recipient      Recipient
	Request        uint8
	Value          uint16
	Index          uint16
	Length         int
	ClaimInterface bool
}

// Backend is the narrow capability the profiler needs from a host USB
// stack: string descriptor lookup and control transfers on an open
// device. GetDescriptorString returns "" when the string cannot be
// read; a backfill that fails never aborts decoding.
type Backend interface {
	GetDescriptorString(index uint8) string
	GetControlMessage(req ControlRequest) ([]byte, error)
}

// Enumerator produces the raw material for a profile: a flat device
// list and per-bus root hub metadata.
type Enumerator interface {
	// Devices returns all devices on the host, root hubs excluded,
	// with no children populated.
	Devices() ([]*Device, error)
	// Buses returns root-hub-derived bus metadata keyed by bus
	// number. The map may be incomplete or empty.
	Buses() (map[uint8]*Bus, error)
}

// Profile enumerates the host and assembles the bus tree.
func Profile(e Enumerator) (*SystemProfile, error) {
	if e == nil {
		return nil, ErrNoBackend
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, err
	}
	buses, err := e.Buses()
	if err != nil {
		return nil, err
	}
	return Assemble(devices, buses)
}

// Assemble builds a SystemProfile from a flat, unordered device list
// and root-hub bus metadata. Devices are grouped per bus, then per
// parent port path; parent groups are inserted in ascending path depth
// so every parent exists before its children. A device whose parent
// cannot be found makes the assembly fail with ErrParentNotFound
// rather than silently corrupting the tree. Buses with no devices are
// kept, empty.
func Assemble(devices []*Device, buses map[uint8]*Bus) (*SystemProfile, error) {
	profile := &SystemProfile{}

	remaining := make(map[uint8]*Bus, len(buses))
	for n, b := range buses {
		remaining[n] = b
	}

	sorted := append([]*Device(nil), devices...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Location.Bus < sorted[j].Location.Bus
	})

	for i := 0; i < len(sorted); {
		busNumber := sorted[i].Location.Bus
		j := i
		for j < len(sorted) && sorted[j].Location.Bus == busNumber {
			j++
		}
		group := sorted[i:j]
		i = j

		bus := remaining[busNumber]
		if bus == nil {
			bus = NewBus(busNumber)
		} else {
			delete(remaining, busNumber)
		}

		if err := insertBusDevices(bus, group); err != nil {
			return nil, err
		}
		profile.Buses = append(profile.Buses, bus)
	}

	for _, bus := range remaining {
		profile.Buses = append(profile.Buses, bus)
	}
	sort.SliceStable(profile.Buses, func(i, j int) bool {
		return profile.Buses[i].Number < profile.Buses[j].Number
	})

	return profile, nil
}

type parentGroup struct {
	path    PortPath
	devices []*Device
}

// insertBusDevices attaches one bus group of devices to the bus tree,
// parent groups in ascending depth so parents are always inserted
// before their children.
func insertBusDevices(bus *Bus, devices []*Device) error {
	var groups []*parentGroup
	index := make(map[string]*parentGroup)
	for _, d := range devices {
		parent := d.ParentPortPath()
		key := parent.String()
		g := index[key]
		if g == nil {
			g = &parentGroup{path: parent}
			index[key] = g
			groups = append(groups, g)
		}
		g.devices = append(g.devices, d)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].path.Depth() < groups[j].path.Depth()
	})

	for _, g := range groups {
		if g.path.IsRoot() {
			bus.Devices = append(bus.Devices, g.devices...)
			continue
		}
		parent := bus.GetNode(g.path)
		if parent == nil {
			return fmt.Errorf("%w: no device at %s on bus %d", ErrParentNotFound, g.path, bus.Number)
		}
		parent.Devices = append(parent.Devices, g.devices...)
	}
	return nil
}

// Merge replaces the device subtree of every bus in dst matched by bus
// number in src, keeping dst's bus metadata. Used to combine a
// platform bus enumeration with a more detailed but topology-agnostic
// device enumeration.
func Merge(dst, src *SystemProfile) {
	if len(dst.Buses) == 0 {
		dst.Buses = src.Buses
		return
	}
	for _, fresh := range src.Buses {
		if existing := dst.GetBus(fresh.Number); existing != nil {
			existing.Devices = fresh.Devices
		}
	}
}

// BuildDescriptors parses a descriptor extra region under the given
// class context and, when a backend is available, resolves string
// indexes and fetches HID report data while the device handle is still
// open. ifaceNumber is the owning interface number, used as the index
// of interface-recipient requests.
func BuildDescriptors(dev Backend, ctx ClassContext, ifaceNumber uint16, extra []byte) []Descriptor {
	descs := ParseExtra(ctx, extra)
	if dev == nil {
		return descs
	}
	for _, d := range descs {
		resolveStrings(dev, ifaceNumber, d)
	}
	return descs
}

func getString(dev Backend, index uint8) string {
	if index == 0 {
		return ""
	}
	return dev.GetDescriptorString(index)
}

func resolveStrings(dev Backend, ifaceNumber uint16, desc Descriptor) {
	switch d := desc.(type) {
	case *InterfaceAssociation:
		d.Function = getString(dev, d.FunctionIndex)
	case *HIDDescriptor:
		for i := range d.Descriptors {
			rd := &d.Descriptors[i]
			data, err := GetReportDescriptor(dev, ifaceNumber, rd.Length)
			if err != nil {
				log.Debugf("HID report descriptor for interface %d: %v", ifaceNumber, err)
				continue
			}
			rd.Data = data
		}
	case *CommsDescriptor:
		switch p := d.Payload.(type) {
		case *NetworkChannel:
			p.Name = getString(dev, p.NameStringIndex)
		case *EthernetNetworking:
			p.MACAddress = getString(dev, p.MACAddressIndex)
		case *CommandSet:
			p.CommandSetName = getString(dev, p.CommandSetIndex)
		}
	case *MIDIDescriptor:
		switch p := d.Payload.(type) {
		case *MIDIInputJack:
			p.JackString = getString(dev, p.JackStringIndex)
		case *MIDIOutputJack:
			p.JackString = getString(dev, p.JackStringIndex)
		case *MIDIElement:
			p.ElementString = getString(dev, p.ElementStringIndex)
		}
	case *AudioDescriptor:
		resolveAudioStrings(dev, d)
	case *VideoDescriptor:
		resolveVideoStrings(dev, d)
	}
}

func resolveAudioStrings(dev Backend, d *AudioDescriptor) {
	switch p := d.Payload.(type) {
	case *InputTerminal1:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
		p.Terminal = getString(dev, p.TerminalIndex)
	case *InputTerminal2:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
		p.Terminal = getString(dev, p.TerminalIndex)
	case *OutputTerminal1:
		p.Terminal = getString(dev, p.TerminalIndex)
	case *OutputTerminal2:
		p.Terminal = getString(dev, p.TerminalIndex)
	case *StreamingInterface2:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
	case *SelectorUnit1:
		p.Selector = getString(dev, p.SelectorIndex)
	case *SelectorUnit2:
		p.Selector = getString(dev, p.SelectorIndex)
	case *ProcessingUnit1:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
		p.Processing = getString(dev, p.ProcessingIndex)
	case *ProcessingUnit2:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
		p.Processing = getString(dev, p.ProcessingIndex)
	case *EffectUnit2:
		p.Effect = getString(dev, p.EffectIndex)
	case *FeatureUnit1:
		p.Feature = getString(dev, p.FeatureIndex)
	case *FeatureUnit2:
		p.Feature = getString(dev, p.FeatureIndex)
	case *ExtensionUnit1:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
		p.Extension = getString(dev, p.ExtensionIndex)
	case *ExtensionUnit2:
		p.ChannelNames = getString(dev, p.ChannelNamesIndex)
		p.Extension = getString(dev, p.ExtensionIndex)
	case *ClockSource2:
		p.ClockSource = getString(dev, p.ClockSourceIndex)
	case *ClockSelector2:
		p.ClockSelector = getString(dev, p.ClockSelectorIndex)
	case *ClockMultiplier2:
		p.ClockMultiplier = getString(dev, p.ClockMultiplierIndex)
	case *SampleRateConverter2:
		p.SRC = getString(dev, p.SRCIndex)
	}
}

func resolveVideoStrings(dev Backend, d *VideoDescriptor) {
	switch p := d.Payload.(type) {
	case *VideoInputTerminal:
		p.Terminal = getString(dev, p.TerminalIndex)
	case *VideoOutputTerminal:
		p.Terminal = getString(dev, p.TerminalIndex)
	case *VideoSelectorUnit:
		p.Selector = getString(dev, p.SelectorIndex)
	case *VideoProcessingUnit:
		p.Processing = getString(dev, p.ProcessingIndex)
	case *VideoExtensionUnit:
		p.Extension = getString(dev, p.ExtensionIndex)
	case *VideoEncodingUnit:
		p.Encoding = getString(dev, p.EncodingIndex)
	}
}

// GetReportDescriptor fetches a HID report descriptor with a standard
// GET_DESCRIPTOR request to the interface.
func GetReportDescriptor(dev Backend, ifaceNumber uint16, length uint16) ([]byte, error) {
	return dev.GetControlMessage(ControlRequest{
		Type:           ControlTypeStandard,
		Recipient:      RecipientInterface,
		Request:        requestGetDescriptor,
		Value:          uint16(DescriptorTypeReport) << 8,
		Index:          ifaceNumber,
		Length:         int(length),
		ClaimInterface: true,
	})
}

// GetDeviceStatus fetches the standard 16-bit device status.
func GetDeviceStatus(dev Backend) (uint16, error) {
	data, err := dev.GetControlMessage(ControlRequest{
		Type:      ControlTypeStandard,
		Recipient: RecipientDevice,
		Request:   requestGetStatus,
		Length:    2,
	})
	if err != nil {
		return 0, err
	}
	if len(data) < 2 {
		return 0, errShort("device status", 2, len(data))
	}
	return u16le(data), nil
}

// GetDeviceQualifier fetches the device qualifier descriptor of a
// high-speed capable device.
func GetDeviceQualifier(dev Backend) (*DeviceQualifier, error) {
	data, err := dev.GetControlMessage(ControlRequest{
		Type:      ControlTypeStandard,
		Recipient: RecipientDevice,
		Request:   requestGetDescriptor,
		Value:     uint16(DescriptorTypeDeviceQualifier) << 8,
		Length:    10,
	})
	if err != nil {
		return nil, err
	}
	return ParseDeviceQualifier(data)
}

// GetDebugDescriptor fetches the debug descriptor.
func GetDebugDescriptor(dev Backend) (*DebugDescriptor, error) {
	data, err := dev.GetControlMessage(ControlRequest{
		Type:      ControlTypeStandard,
		Recipient: RecipientDevice,
		Request:   requestGetDescriptor,
		Value:     uint16(DescriptorTypeDebug) << 8,
		Length:    4,
	})
	if err != nil {
		return nil, err
	}
	return ParseDebugDescriptor(data)
}

// GetSecurityDescriptor fetches the wireless security descriptor.
func GetSecurityDescriptor(dev Backend) (*SecurityDescriptor, error) {
	data, err := dev.GetControlMessage(ControlRequest{
		Type:      ControlTypeStandard,
		Recipient: RecipientDevice,
		Request:   requestGetDescriptor,
		Value:     uint16(DescriptorTypeSecurity) << 8,
		Length:    5,
	})
	if err != nil {
		return nil, err
	}
	return ParseSecurityDescriptor(data)
}

// FetchExtra runs the verbose profiling requests against an open device
// and stores the results in d.Extra, creating it when absent. Most
// devices answer only a subset of these requests; each failure is
// logged and skipped, never failing the device. The negotiated speed is
// the link speed the enumeration reported.
func FetchExtra(dev Backend, d *Device) {
	if d.Extra == nil {
		d.Extra = &DeviceExtra{}
	}
	d.Extra.NegotiatedSpeed = d.Speed

	if status, err := GetDeviceStatus(dev); err == nil {
		d.Extra.Status = status
	} else {
		log.Debugf("device status: %v", err)
	}
	if d.USBVersion >= USB_2_0 {
		if q, err := GetDeviceQualifier(dev); err == nil {
			d.Extra.Qualifier = q
		} else {
			log.Debugf("device qualifier: %v", err)
		}
	}
	if dbg, err := GetDebugDescriptor(dev); err == nil {
		d.Extra.Debug = dbg
	} else {
		log.Debugf("debug descriptor: %v", err)
	}
	if sec, err := GetSecurityDescriptor(dev); err == nil {
		d.Extra.Security = sec
	} else {
		log.Debugf("security descriptor: %v", err)
	}
	if d.IsHub() {
		hasSSP := d.Speed == SpeedSuperPlus
		if hub, err := GetHubDescriptor(dev, d.Protocol, d.USBVersion, hasSSP); err == nil {
			d.Extra.Hub = hub
		} else {
			log.Debugf("hub descriptor: %v", err)
		}
	}
}

// GetHubDescriptor fetches the hub descriptor of a hub device and the
// status of each of its ports. bcd is the hub's USB version; SuperSpeed
// hubs use a different descriptor type and, from USB 3.1 with
// SuperSpeedPlus, extended port status.
func GetHubDescriptor(dev Backend, protocol Protocol, bcd BCD, hasSSP bool) (*HubDescriptor, error) {
	value := uint16(DescriptorTypeHub) << 8
	if bcd >= USB_3_0 {
		value = uint16(DescriptorTypeSuperSpeedHub) << 8
	}
	req := ControlRequest{
		Type:      ControlTypeClass,
		Recipient: RecipientDevice,
		Request:   requestGetDescriptor,
		Value:     value,
		Length:    12,
	}
	data, err := dev.GetControlMessage(req)
	if err != nil {
		// retry with the minimum length for one port bitmask
		req.Length = 9
		if data, err = dev.GetControlMessage(req); err != nil {
			return nil, err
		}
	}
	hub, err := ParseHubDescriptor(data)
	if err != nil {
		return nil, err
	}

	extStatus := protocol == 3 && bcd >= USB_3_1 && hasSSP
	var statuses [][8]byte
	for p := 0; p < int(hub.NumPorts); p++ {
		req := ControlRequest{
			Type:      ControlTypeClass,
			Recipient: RecipientOther,
			Request:   requestGetStatus,
			Index:     uint16(p + 1),
			Length:    4,
		}
		if extStatus {
			req.Value = 2
			req.Length = 8
		}
		data, err := dev.GetControlMessage(req)
		if err != nil {
			log.Warnf("hub port %d status: %v", p+1, err)
			return hub, nil
		}
		var status [8]byte
		copy(status[:], data)
		statuses = append(statuses, status)
	}
	hub.PortStatuses = statuses
	return hub, nil
}

// GetWebUSBURL fetches and renders a WebUSB landing page URL via the
// device's vendor request.
func GetWebUSBURL(dev Backend, vendorRequest uint8, index uint8) (string, error) {
	req := ControlRequest{
		Type:      ControlTypeVendor,
		Recipient: RecipientDevice,
		Request:   vendorRequest,
		Value:     uint16(index),
		Index:     uint16(requestWebUSBURL) << 8,
		Length:    3,
	}
	data, err := dev.GetControlMessage(req)
	if err != nil {
		return "", err
	}
	if len(data) < 3 {
		return "", errShort("WebUSB URL", 3, len(data))
	}
	if int(data[0]) > len(data) {
		req.Length = int(data[0])
		if data, err = dev.GetControlMessage(req); err != nil {
			return "", err
		}
		if len(data) < 3 {
			return "", errShort("WebUSB URL", 3, len(data))
		}
	}
	if DescriptorType(data[1]) != DescriptorTypeString {
		return "", fmt.Errorf("WebUSB URL: bad descriptor type %#02x", data[1])
	}
	n := int(data[0])
	if len(data) < n {
		return "", errShort("WebUSB URL", n, len(data))
	}
	url := string(data[3:n])
	switch data[2] {
	case 0x00:
		return "http://" + url, nil
	case 0x01:
		return "https://" + url, nil
	case 0xff:
		return url, nil
	}
	return "", fmt.Errorf("WebUSB URL: bad URL scheme %#02x", data[2])
}
