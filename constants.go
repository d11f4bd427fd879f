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

import "strconv"

// Class is a USB-defined device or interface class code.
type Class uint8

const (
	ClassPerInterface       Class = 0x00
	ClassAudio              Class = 0x01
	ClassComm               Class = 0x02
	ClassHID                Class = 0x03
	ClassPhysical           Class = 0x05
	ClassImage              Class = 0x06
	ClassPrinter            Class = 0x07
	ClassMassStorage        Class = 0x08
	ClassHub                Class = 0x09
	ClassData               Class = 0x0a
	ClassSmartCard          Class = 0x0b
	ClassContentSecurity    Class = 0x0d
	ClassVideo              Class = 0x0e
	ClassPersonalHealthcare Class = 0x0f
	ClassAudioVideo         Class = 0x10
	ClassBillboard          Class = 0x11
	ClassUSBTypeCBridge     Class = 0x12
	ClassDiagnosticDevice   Class = 0xdc
	ClassWireless           Class = 0xe0
	ClassMiscellaneous      Class = 0xef
	ClassApplication        Class = 0xfe
	ClassVendorSpec         Class = 0xff
)

var classDescription = map[Class]string{
	ClassPerInterface:       "per-interface",
	ClassAudio:              "audio",
	ClassComm:               "communications",
	ClassHID:                "human interface device",
	ClassPhysical:           "physical",
	ClassImage:              "image",
	ClassPrinter:            "printer",
	ClassMassStorage:        "mass storage",
	ClassHub:                "hub",
	ClassData:               "data",
	ClassSmartCard:          "smart card",
	ClassContentSecurity:    "content security",
	ClassVideo:              "video",
	ClassPersonalHealthcare: "personal healthcare",
	ClassAudioVideo:         "audio/video",
	ClassBillboard:          "billboard",
	ClassUSBTypeCBridge:     "USB type-C bridge",
	ClassDiagnosticDevice:   "diagnostic device",
	ClassWireless:           "wireless",
	ClassMiscellaneous:      "miscellaneous",
	ClassApplication:        "application-specific",
	ClassVendorSpec:         "vendor-specific",
}

func (c Class) String() string {
	if d, ok := classDescription[c]; ok {
		return d
	}
	return strconv.Itoa(int(c))
}

// Protocol is a USB-defined protocol code, scoped by class and subclass.
type Protocol uint8

func (p Protocol) String() string {
	return strconv.Itoa(int(p))
}

// DescriptorType identifies the layout of a descriptor block.
type DescriptorType uint8

const (
	DescriptorTypeDevice               DescriptorType = 0x01
	DescriptorTypeConfig               DescriptorType = 0x02
	DescriptorTypeString               DescriptorType = 0x03
	DescriptorTypeInterface            DescriptorType = 0x04
	DescriptorTypeEndpoint             DescriptorType = 0x05
	DescriptorTypeDeviceQualifier      DescriptorType = 0x06
	DescriptorTypeOtherSpeedConfig     DescriptorType = 0x07
	DescriptorTypeInterfacePower       DescriptorType = 0x08
	DescriptorTypeOTG                  DescriptorType = 0x09
	DescriptorTypeDebug                DescriptorType = 0x0a
	DescriptorTypeInterfaceAssociation DescriptorType = 0x0b
	DescriptorTypeSecurity             DescriptorType = 0x0c
	DescriptorTypeBOS                  DescriptorType = 0x0f
	DescriptorTypeDeviceCapability     DescriptorType = 0x10
	DescriptorTypeHID                  DescriptorType = 0x21
	DescriptorTypeReport               DescriptorType = 0x22
	DescriptorTypePhysical             DescriptorType = 0x23
	DescriptorTypeClassInterface       DescriptorType = 0x24
	DescriptorTypeClassEndpoint        DescriptorType = 0x25
	DescriptorTypeHub                  DescriptorType = 0x29
	DescriptorTypeSuperSpeedHub        DescriptorType = 0x2a
	DescriptorTypeSSEndpointCompanion  DescriptorType = 0x30
)

var descriptorTypeDescription = map[DescriptorType]string{
	DescriptorTypeDevice:               "device",
	DescriptorTypeConfig:               "configuration",
	DescriptorTypeString:               "string",
	DescriptorTypeInterface:            "interface",
	DescriptorTypeEndpoint:             "endpoint",
	DescriptorTypeDeviceQualifier:      "device qualifier",
	DescriptorTypeOtherSpeedConfig:     "other-speed configuration",
	DescriptorTypeInterfacePower:       "interface power",
	DescriptorTypeOTG:                  "OTG",
	DescriptorTypeDebug:                "debug",
	DescriptorTypeInterfaceAssociation: "interface association",
	DescriptorTypeSecurity:             "security",
	DescriptorTypeBOS:                  "BOS",
	DescriptorTypeDeviceCapability:     "device capability",
	DescriptorTypeHID:                  "HID",
	DescriptorTypeReport:               "HID report",
	DescriptorTypePhysical:             "physical",
	DescriptorTypeClassInterface:       "class-specific interface",
	DescriptorTypeClassEndpoint:        "class-specific endpoint",
	DescriptorTypeHub:                  "hub",
	DescriptorTypeSuperSpeedHub:        "SuperSpeed hub",
	DescriptorTypeSSEndpointCompanion:  "SuperSpeed endpoint companion",
}

func (dt DescriptorType) String() string {
	if d, ok := descriptorTypeDescription[dt]; ok {
		return d
	}
	return strconv.Itoa(int(dt))
}

// EndpointDirection is the direction of an endpoint, relative to the host.
type EndpointDirection bool

const (
	endpointNumMask       = 0x0f
	endpointDirectionMask = 0x80

	// EndpointDirectionIn marks endpoints transferring device to host.
	EndpointDirectionIn EndpointDirection = true
	// EndpointDirectionOut marks endpoints transferring host to device.
	EndpointDirectionOut EndpointDirection = false
)

func (ed EndpointDirection) String() string {
	if ed == EndpointDirectionIn {
		return "IN"
	}
	return "OUT"
}

// TransferType is the transfer mode of an endpoint.
type TransferType uint8

const (
	TransferTypeControl     TransferType = 0x00
	TransferTypeIsochronous TransferType = 0x01
	TransferTypeBulk        TransferType = 0x02
	TransferTypeInterrupt   TransferType = 0x03
	transferTypeMask                     = 0x03
)

var transferTypeDescription = map[TransferType]string{
	TransferTypeControl:     "control",
	TransferTypeIsochronous: "isochronous",
	TransferTypeBulk:        "bulk",
	TransferTypeInterrupt:   "interrupt",
}

func (tt TransferType) String() string {
	return transferTypeDescription[tt]
}

// Speed is a USB connection speed.
type Speed uint8

const (
	SpeedUnknown Speed = iota
	SpeedLow
	SpeedFull
	SpeedHigh
	SpeedSuper
	SpeedSuperPlus
)

var speedDescription = map[Speed]string{
	SpeedUnknown:   "unknown",
	SpeedLow:       "low",
	SpeedFull:      "full",
	SpeedHigh:      "high",
	SpeedSuper:     "super",
	SpeedSuperPlus: "super+",
}

func (s Speed) String() string {
	return speedDescription[s]
}
