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

// The assembled device model: endpoints inside interfaces inside
// configurations inside devices, devices chained into a tree of buses.

package usbtree

import "sort"

// Endpoint describes one endpoint of an interface alternate setting.
type Endpoint struct {
	Address       uint8
	Attributes    uint8
	MaxPacketSize uint16
	Interval      uint8
	Extra         []Descriptor
}

// Number returns the endpoint number, stripped of the direction bit.
func (e *Endpoint) Number() int { return int(e.Address & 0x0f) }

// Direction returns the endpoint transfer direction.
func (e *Endpoint) Direction() EndpointDirection {
	return EndpointDirection(e.Address&0x80 != 0)
}

// TransferType returns the endpoint transfer type from its attributes.
func (e *Endpoint) TransferType() TransferType {
	return TransferType(e.Attributes) & transferTypeMask
}

// Interface describes one interface alternate setting.
type Interface struct {
	Number      uint8
	Alternate   uint8
	Class       Class
	SubClass    uint8
	Protocol    Protocol
	StringIndex uint8
	Name        string
	Driver      string
	SysPath     string
	Endpoints   []*Endpoint
	Extra       []Descriptor
}

// ClassContext returns the class code triplet under which this
// interface's class-specific descriptors are decoded.
func (i *Interface) ClassContext() ClassContext {
	return ClassContext{Class: i.Class, SubClass: i.SubClass, Protocol: i.Protocol}
}

// Configuration describes one device configuration.
type Configuration struct {
	Number      uint8
	Attributes  uint8
	MaxPower    Milliamperes
	TotalLength uint16
	StringIndex uint8
	Name        string
	Interfaces  []*Interface
	Extra       []Descriptor
}

// SelfPowered reports whether the configuration is self powered.
func (c *Configuration) SelfPowered() bool { return c.Attributes&0x40 != 0 }

// RemoteWakeup reports whether the configuration supports remote wakeup.
func (c *Configuration) RemoteWakeup() bool { return c.Attributes&0x20 != 0 }

// DeviceExtra holds the verbose data gathered with an open device
// handle, beyond what bare enumeration provides.
type DeviceExtra struct {
	MaxPacketSize   uint8
	VendorName      string
	ProductName     string
	Driver          string
	SysPath         string
	Configurations  []*Configuration
	NegotiatedSpeed Speed
	Status          uint16
	Qualifier       *DeviceQualifier
	Debug           *DebugDescriptor
	Security        *SecurityDescriptor
	Hub             *HubDescriptor
}

// Device is one enumerated USB device. Children are owned: the tree
// has no parent pointers, ancestry is recovered from the port path.
type Device struct {
	Location      LocationID
	VendorID      ID
	ProductID     ID
	Name          string
	Manufacturer  string
	Serial        string
	Class         Class
	SubClass      uint8
	Protocol      Protocol
	USBVersion    BCD
	DeviceVersion BCD
	Speed         Speed
	Extra         *DeviceExtra
	Devices       []*Device

	// Hidden marks the device for display suppression without
	// removing it from the tree.
	Hidden bool
}

// PortPath returns the device's hierarchical address.
func (d *Device) PortPath() PortPath {
	return d.Location.PortPath()
}

// ParentPortPath returns the port path of the device's parent, or the
// root path when the device hangs directly off the root hub.
func (d *Device) ParentPortPath() PortPath {
	parent, ok := d.PortPath().Parent()
	if !ok {
		return PortPath{Bus: d.Location.Bus}
	}
	return parent
}

// IsHub reports whether the device is a hub.
func (d *Device) IsHub() bool { return d.Class == ClassHub }

// IsRootHub reports whether the device is a bus root hub pseudo
// device, conventionally at device address 0.
func (d *Device) IsRootHub() bool { return d.Location.Number == 0 && d.IsHub() }

// GetNode returns the descendant of d at the exact port path, d itself
// included, or nil.
func (d *Device) GetNode(path PortPath) *Device {
	if d.PortPath().Equal(path) {
		return d
	}
	for _, child := range d.Devices {
		if n := child.GetNode(path); n != nil {
			return n
		}
	}
	return nil
}

// FlattenedDevices returns d and every descendant, depth first.
func (d *Device) FlattenedDevices() []*Device {
	out := []*Device{d}
	for _, child := range d.Devices {
		out = append(out, child.FlattenedDevices()...)
	}
	return out
}

// Bus is one USB bus: host controller metadata plus the devices
// hanging off its root hub.
type Bus struct {
	Number               uint8
	Name                 string
	HostController       string
	HostControllerVendor string
	HostControllerDevice string
	PCIVendor            uint16
	PCIDevice            uint16
	PCIRevision          uint16
	Devices              []*Device
}

// NewBus returns a bus with default metadata for the bus number, used
// when no root hub information was found.
func NewBus(number uint8) *Bus {
	return &Bus{Number: number, Name: "Unknown"}
}

// RootPath returns the port path of the bus root.
func (b *Bus) RootPath() PortPath {
	return PortPath{Bus: b.Number}
}

// GetNode returns the device at the exact port path anywhere on the
// bus, or nil.
func (b *Bus) GetNode(path PortPath) *Device {
	for _, d := range b.Devices {
		if n := d.GetNode(path); n != nil {
			return n
		}
	}
	return nil
}

// FlattenedDevices returns every device on the bus, depth first.
func (b *Bus) FlattenedDevices() []*Device {
	var out []*Device
	for _, d := range b.Devices {
		out = append(out, d.FlattenedDevices()...)
	}
	return out
}

// IsEmpty reports whether the bus has no devices.
func (b *Bus) IsEmpty() bool { return len(b.Devices) == 0 }

// SystemProfile is the root of the assembled model: every bus on the
// host with its device tree.
type SystemProfile struct {
	Buses []*Bus
}

// GetBus returns the bus with the given number, or nil.
func (p *SystemProfile) GetBus(number uint8) *Bus {
	for _, b := range p.Buses {
		if b.Number == number {
			return b
		}
	}
	return nil
}

// GetNode returns the device at the exact port path anywhere in the
// profile, or nil.
func (p *SystemProfile) GetNode(path PortPath) *Device {
	if b := p.GetBus(path.Bus); b != nil {
		return b.GetNode(path)
	}
	return nil
}

// FlattenedDevices returns every device in the profile, depth first
// bus by bus.
func (p *SystemProfile) FlattenedDevices() []*Device {
	var out []*Device
	for _, b := range p.Buses {
		out = append(out, b.FlattenedDevices()...)
	}
	return out
}

// Sort orders buses by number and every device list by location,
// recursively. Idempotent.
func (p *SystemProfile) Sort() {
	sort.SliceStable(p.Buses, func(i, j int) bool {
		return p.Buses[i].Number < p.Buses[j].Number
	})
	for _, b := range p.Buses {
		sortDevices(b.Devices)
	}
}

func sortDevices(devices []*Device) {
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Location.Number < devices[j].Location.Number
	})
	for _, d := range devices {
		sortDevices(d.Devices)
	}
}
