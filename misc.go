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

import "fmt"

// BCD is a binary-coded-decimal version number, e.g. 0x0210 for USB 2.10.
type BCD uint16

// Commonly seen USB specification numbers.
const (
	USB_1_0 BCD = 0x0100
	USB_1_1 BCD = 0x0110
	USB_2_0 BCD = 0x0200
	USB_3_0 BCD = 0x0300
	USB_3_1 BCD = 0x0310
)

// Version returns a BCD version number for the given major/minor pair.
func Version(major, minor uint8) BCD {
	return BCD(major)<<8 | BCD(minor)
}

// Major returns the major version number of the BCD.
func (d BCD) Major() uint8 { return uint8(d >> 8) }

// Minor returns the minor version number of the BCD.
func (d BCD) Minor() uint8 { return uint8(d & 0xff) }

func (d BCD) String() string {
	return fmt.Sprintf("%x.%02x", int(d>>8), int(d&0xff))
}

// ID is a vendor or product identifier.
type ID uint16

func (id ID) String() string {
	return fmt.Sprintf("%04x", int(id))
}

// Milliamperes is a unit of current drawn from the USB bus.
type Milliamperes uint

func (m Milliamperes) String() string {
	return fmt.Sprintf("%dmA", uint(m))
}

// Little-endian field accessors for descriptor payloads. All USB
// multi-byte fields are little-endian.

func u16le(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func u24le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func u32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func u64le(b []byte) uint64 {
	return uint64(u32le(b)) | uint64(u32le(b[4:]))<<32
}

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v), byte(v>>8))
}

func appendU24(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendU64(b []byte, v uint64) []byte {
	return appendU32(appendU32(b, uint32(v)), uint32(v>>32))
}
