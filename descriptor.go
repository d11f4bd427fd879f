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

// Descriptor is one decoded chunk of a descriptor "extra" region: the
// class- or vendor-specific bytes following a standard descriptor.
// Bytes re-encodes the chunk, header included, reproducing the bytes it
// was decoded from; unrecognized or malformed chunks keep their raw
// payload so re-encoding is lossless either way.
type Descriptor interface {
	Bytes() []byte
}

// Payload is the decoded payload of a class-specific descriptor chunk,
// without the 3 byte (length, type, subtype) header. Bytes re-encodes
// the payload.
type Payload interface {
	Bytes() []byte
}

// ClassContext is the interpretation context for class-specific
// descriptors: the owning interface's class, subclass and protocol. The
// same numeric subtype byte maps to different shapes depending on it.
type ClassContext struct {
	Class    Class
	SubClass uint8
	Protocol Protocol
}

// GenericDescriptor is the raw, untyped form of a descriptor chunk.
// Every specialized descriptor round-trips through it losslessly. It
// doubles as the fallback Descriptor for unknown-but-benign chunks.
type GenericDescriptor struct {
	Length  uint8
	Type    DescriptorType
	SubType uint8
	// Data holds the payload after the 3 byte header, nil for 2 byte
	// chunks that carry no subtype.
	Data []byte
}

// ParseGenericDescriptor splits one chunk into its header and payload.
// The chunk must be at least 2 bytes and at least as long as its
// reported length.
func ParseGenericDescriptor(b []byte) (GenericDescriptor, error) {
	if len(b) < 2 {
		return GenericDescriptor{}, errShort("Generic", 2, len(b))
	}
	length := b[0]
	if int(length) > len(b) {
		return GenericDescriptor{}, errShort("Generic reported", int(length), len(b))
	}
	gd := GenericDescriptor{Length: length, Type: DescriptorType(b[1])}
	if length >= 3 {
		gd.SubType = b[2]
		gd.Data = append([]byte(nil), b[3:length]...)
	}
	return gd, nil
}

// Bytes re-encodes the chunk exactly as it was read.
func (g *GenericDescriptor) Bytes() []byte {
	if g.Length < 3 && g.Data == nil {
		return []byte{g.Length, byte(g.Type)}
	}
	out := make([]byte, 0, 3+len(g.Data))
	out = append(out, g.Length, byte(g.Type), g.SubType)
	return append(out, g.Data...)
}

// InvalidDescriptor preserves a chunk whose shape was recognized but
// whose payload failed its bounds checks. Raw is the full chunk.
type InvalidDescriptor struct {
	Raw []byte
}

func (d *InvalidDescriptor) Bytes() []byte { return d.Raw }

// fallback payload variants shared by the class-specific decoders. Each
// keeps the undecoded payload (header stripped) verbatim.

// InvalidPayload is a recognized payload that failed its length checks.
type InvalidPayload []byte

func (p InvalidPayload) Bytes() []byte { return []byte(p) }

// GenericPayload is a payload with a known class but an unsupported
// subtype: unknown but benign.
type GenericPayload []byte

func (p GenericPayload) Bytes() []byte { return []byte(p) }

// UndefinedPayload is a payload carrying the reserved "undefined"
// subtype code.
type UndefinedPayload []byte

func (p UndefinedPayload) Bytes() []byte { return []byte(p) }

// InterfaceAssociation groups interfaces belonging to one function
// (USB 3.0 spec, section 9.6.4).
type InterfaceAssociation struct {
	Length           uint8
	Type             DescriptorType
	FirstInterface   uint8
	InterfaceCount   uint8
	FunctionClass    Class
	FunctionSubClass uint8
	FunctionProtocol Protocol
	FunctionIndex    uint8
	// Function is filled from the string descriptor at FunctionIndex
	// while the device handle is open; not part of the wire format.
	Function string
}

const interfaceAssociationLen = 8

// ParseInterfaceAssociation decodes a full interface association chunk.
func ParseInterfaceAssociation(b []byte) (*InterfaceAssociation, error) {
	if len(b) < interfaceAssociationLen {
		return nil, errShort("InterfaceAssociation", interfaceAssociationLen, len(b))
	}
	return &InterfaceAssociation{
		Length:           b[0],
		Type:             DescriptorType(b[1]),
		FirstInterface:   b[2],
		InterfaceCount:   b[3],
		FunctionClass:    Class(b[4]),
		FunctionSubClass: b[5],
		FunctionProtocol: Protocol(b[6]),
		FunctionIndex:    b[7],
	}, nil
}

func (d *InterfaceAssociation) Bytes() []byte {
	return []byte{
		d.Length, byte(d.Type),
		d.FirstInterface, d.InterfaceCount,
		byte(d.FunctionClass), d.FunctionSubClass, byte(d.FunctionProtocol),
		d.FunctionIndex,
	}
}

// ParseExtra walks a descriptor extra region, splitting it into length
// prefixed chunks and decoding each under ctx. Non-conformant devices
// routinely truncate this region: a chunk length below 2 or beyond the
// remaining bytes stops the walk with a logged warning and the decoded
// prefix is returned. A chunk that fails its typed decode is preserved
// as an InvalidDescriptor; it never fails the region.
func ParseExtra(ctx ClassContext, extra []byte) []Descriptor {
	var out []Descriptor
	for len(extra) > 0 {
		chunkLen := int(extra[0])
		if chunkLen < 2 || chunkLen > len(extra) {
			log.Warnf("descriptor extra: dropping %d unconsumed bytes after invalid chunk length %d", len(extra), chunkLen)
			return out
		}
		out = append(out, decodeChunk(ctx, extra[:chunkLen]))
		extra = extra[chunkLen:]
	}
	return out
}

// decodeChunk resolves one chunk to a typed Descriptor based on its
// descriptor type and the class context. Recognized shapes that fail
// their length checks come back as InvalidDescriptor; combinations this
// package does not understand come back as the raw GenericDescriptor.
func decodeChunk(ctx ClassContext, chunk []byte) Descriptor {
	gd, err := ParseGenericDescriptor(chunk)
	if err != nil {
		// chunk boundary was already validated by the caller
		return &InvalidDescriptor{Raw: append([]byte(nil), chunk...)}
	}

	switch gd.Type {
	case DescriptorTypeInterfaceAssociation:
		iad, err := ParseInterfaceAssociation(chunk)
		if err != nil {
			log.Warnf("interface association: %v", err)
			return &InvalidDescriptor{Raw: gd.Bytes()}
		}
		return iad
	case DescriptorTypeHID:
		if ctx.Class == ClassHID {
			hid, err := ParseHIDDescriptor(chunk)
			if err != nil {
				log.Warnf("HID descriptor: %v", err)
				return &InvalidDescriptor{Raw: gd.Bytes()}
			}
			return hid
		}
	case DescriptorTypeClassInterface, DescriptorTypeClassEndpoint:
		switch ctx.Class {
		case ClassAudio:
			switch AudioSubClass(ctx.SubClass) {
			case AudioSubClassControl, AudioSubClassStreaming:
				return decodeAudioChunk(ctx, gd)
			case AudioSubClassMIDIStreaming:
				return decodeMIDIChunk(gd)
			}
		case ClassVideo:
			return decodeVideoChunk(ctx, gd)
		case ClassComm, ClassData:
			return decodeCommsChunk(gd)
		}
	}
	return &gd
}
