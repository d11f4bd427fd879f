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

// HIDCountryCode names the keyboard localization of a HID device.
type HIDCountryCode uint8

var hidCountryDescription = map[HIDCountryCode]string{
	0:  "not supported",
	1:  "Arabic",
	2:  "Belgian",
	3:  "Canadian-Bilingual",
	4:  "Canadian-French",
	5:  "Czech Republic",
	6:  "Danish",
	7:  "Finnish",
	8:  "French",
	9:  "German",
	10: "Greek",
	11: "Hebrew",
	12: "Hungary",
	13: "International (ISO)",
	14: "Italian",
	15: "Japan (Katakana)",
	16: "Korean",
	17: "Latin American",
	18: "Netherlands/Dutch",
	19: "Norwegian",
	20: "Persian (Farsi)",
	21: "Poland",
	22: "Portuguese",
	23: "Russia",
	24: "Slovakia",
	25: "Spanish",
	26: "Swedish",
	27: "Swiss/French",
	28: "Swiss/German",
	29: "Switzerland",
	30: "Taiwan",
	31: "Turkish-Q",
	32: "UK",
	33: "US",
	34: "Yugoslavia",
	35: "Turkish-F",
}

func (c HIDCountryCode) String() string {
	if d, ok := hidCountryDescription[c]; ok {
		return d
	}
	return "unknown"
}

// HIDReportDescriptor is one report descriptor reference inside a HID
// descriptor. Data is filled in when the report can be fetched from
// the device; enumeration alone only yields type and length.
type HIDReportDescriptor struct {
	Type   DescriptorType
	Length uint16
	Data   []byte
}

// HIDDescriptor is the class descriptor of a HID interface: the HID
// release, country code and the report descriptors the interface
// offers.
type HIDDescriptor struct {
	Length      uint8
	Type        DescriptorType
	Version     BCD
	CountryCode HIDCountryCode
	Descriptors []HIDReportDescriptor
}

// ParseHIDDescriptor decodes a HID descriptor from a full chunk,
// header included.
func ParseHIDDescriptor(chunk []byte) (*HIDDescriptor, error) {
	if len(chunk) < 6 {
		return nil, errShort("HIDDescriptor", 6, len(chunk))
	}
	n := int(chunk[5])
	if len(chunk) < 6+3*n {
		return nil, errShort("HIDDescriptor reports", 6+3*n, len(chunk))
	}
	d := &HIDDescriptor{
		Length:      chunk[0],
		Type:        DescriptorType(chunk[1]),
		Version:     BCD(u16le(chunk[2:])),
		CountryCode: HIDCountryCode(chunk[4]),
	}
	for i := 0; i < n; i++ {
		off := 6 + 3*i
		d.Descriptors = append(d.Descriptors, HIDReportDescriptor{
			Type:   DescriptorType(chunk[off]),
			Length: u16le(chunk[off+1:]),
		})
	}
	return d, nil
}

func (d *HIDDescriptor) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type)}
	out = appendU16(out, uint16(d.Version))
	out = append(out, byte(d.CountryCode), byte(len(d.Descriptors)))
	for _, r := range d.Descriptors {
		out = append(out, byte(r.Type))
		out = appendU16(out, r.Length)
	}
	return out
}
