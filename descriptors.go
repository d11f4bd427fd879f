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
	"bytes"
	"encoding/binary"
	"fmt"
)

// Standard descriptor lengths per USB 2.0 spec, section 9.6.

const (
	deviceDescLen = 18
	configDescLen = 9
	intfDescLen   = 9
	epDescLen     = 7
)

// decoded device descriptor, 18 bytes
type usbDeviceDescriptor struct {
	BLength            uint8  // 0
	BDescriptorType    uint8  // 1
	BCDUSB             uint16 // 2:3
	BDeviceClass       uint8  // 4
	BDeviceSubClass    uint8  // 5
	BDeviceProtocol    uint8  // 6
	BMaxPacketSize0    uint8  // 7
	IDVendor           uint16 // 8:9
	IDProduct          uint16 // 10:11
	BCDDevice          uint16 // 12:13
	IManufacturer      uint8  // 14
	IProduct           uint8  // 15
	ISerialNumber      uint8  // 16
	BNumConfigurations uint8  // 17
}

// ParseDeviceDescriptor decodes a standard device descriptor into a
// Device with no location. The enumerator assigns the location and
// backfills the manufacturer, product and serial strings from the
// returned indexes.
func ParseDeviceDescriptor(descBytes []byte) (*Device, uint8, uint8, uint8, error) {
	if len(descBytes) < deviceDescLen {
		return nil, 0, 0, 0, errShort("device", deviceDescLen, len(descBytes))
	}
	d := &usbDeviceDescriptor{}
	b := bytes.NewReader(descBytes[:deviceDescLen])
	if err := binary.Read(b, binary.LittleEndian, d); err != nil {
		return nil, 0, 0, 0, fmt.Errorf("failed to build the device descriptor: %v", err)
	}
	dev := &Device{
		VendorID:      ID(d.IDVendor),
		ProductID:     ID(d.IDProduct),
		Class:         Class(d.BDeviceClass),
		SubClass:      d.BDeviceSubClass,
		Protocol:      Protocol(d.BDeviceProtocol),
		USBVersion:    BCD(d.BCDUSB),
		DeviceVersion: BCD(d.BCDDevice),
		Extra: &DeviceExtra{
			MaxPacketSize: d.BMaxPacketSize0,
		},
	}
	return dev, d.IManufacturer, d.IProduct, d.ISerialNumber, nil
}

// ParseConfiguration walks one full configuration descriptor blob:
// the 9-byte configuration header followed by interleaved interface,
// endpoint and class-specific descriptors, in bus order. Class
// descriptors attach to the interface or endpoint that precedes them,
// decoded under that interface's class context. An optional backend
// resolves string indexes while the device handle is open.
func ParseConfiguration(dev Backend, raw []byte) (*Configuration, error) {
	if len(raw) < configDescLen {
		return nil, errShort("configuration", configDescLen, len(raw))
	}
	total := int(u16le(raw[2:]))
	if total > len(raw) {
		log.Warnf("configuration reports %d bytes, got %d; decoding what is there", total, len(raw))
		total = len(raw)
	}
	cfg := &Configuration{
		TotalLength: u16le(raw[2:]),
		Number:      raw[5],
		StringIndex: raw[6],
		Attributes:  raw[7],
		MaxPower:    Milliamperes(uint(raw[8]) * 2),
	}
	if dev != nil {
		cfg.Name = getString(dev, cfg.StringIndex)
	}

	var (
		iface   *Interface
		ep      *Endpoint
		pending []byte
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		extra := pending
		pending = nil
		ctx := ClassContext{}
		ifaceNumber := uint16(0)
		if iface != nil {
			ctx = iface.ClassContext()
			ifaceNumber = uint16(iface.Number)
		}
		descs := BuildDescriptors(dev, ctx, ifaceNumber, extra)
		switch {
		case ep != nil:
			ep.Extra = append(ep.Extra, descs...)
		case iface != nil:
			iface.Extra = append(iface.Extra, descs...)
		default:
			cfg.Extra = append(cfg.Extra, descs...)
		}
	}

	for off := configDescLen; off+2 <= total; {
		dLen := int(raw[off])
		if dLen < 2 || off+dLen > total {
			log.Warnf("configuration %d: bad descriptor length %d at offset %d, %d bytes unconsumed",
				cfg.Number, dLen, off, total-off)
			break
		}
		chunk := raw[off : off+dLen]
		switch DescriptorType(chunk[1]) {
		case DescriptorTypeInterface:
			if dLen < intfDescLen {
				return nil, errShort("interface", intfDescLen, dLen)
			}
			flush()
			ep = nil
			iface = &Interface{
				Number:      chunk[2],
				Alternate:   chunk[3],
				Class:       Class(chunk[5]),
				SubClass:    chunk[6],
				Protocol:    Protocol(chunk[7]),
				StringIndex: chunk[8],
			}
			if dev != nil {
				iface.Name = getString(dev, iface.StringIndex)
			}
			cfg.Interfaces = append(cfg.Interfaces, iface)
		case DescriptorTypeEndpoint:
			if dLen < epDescLen {
				return nil, errShort("endpoint", epDescLen, dLen)
			}
			flush()
			if iface == nil {
				return nil, fmt.Errorf("configuration %d: endpoint descriptor before any interface", cfg.Number)
			}
			ep = &Endpoint{
				Address:       chunk[2],
				Attributes:    chunk[3],
				MaxPacketSize: u16le(chunk[4:]),
				Interval:      chunk[6],
			}
			iface.Endpoints = append(iface.Endpoints, ep)
		default:
			pending = append(pending, chunk...)
		}
		off += dLen
	}
	flush()
	return cfg, nil
}
