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

// MIDI streaming descriptor decoding (USB MIDI 1.0). MIDI streaming is
// an audio interface subclass but its class-specific descriptors have
// their own subtype space, shared by all UAC protocol versions.

package usbtree

// MIDISubtype is the class-specific MIDI streaming interface subtype.
type MIDISubtype uint8

const (
	MIDISubtypeUndefined  MIDISubtype = 0x00
	MIDISubtypeHeader     MIDISubtype = 0x01
	MIDISubtypeInputJack  MIDISubtype = 0x02
	MIDISubtypeOutputJack MIDISubtype = 0x03
	MIDISubtypeElement    MIDISubtype = 0x04
)

func (s MIDISubtype) String() string {
	switch s {
	case MIDISubtypeHeader:
		return "HEADER"
	case MIDISubtypeInputJack:
		return "MIDI_IN_JACK"
	case MIDISubtypeOutputJack:
		return "MIDI_OUT_JACK"
	case MIDISubtypeElement:
		return "ELEMENT"
	}
	return "Invalid"
}

// MIDIDescriptor is one class-specific descriptor of a MIDI streaming
// interface or endpoint.
type MIDIDescriptor struct {
	Length  uint8
	Type    DescriptorType
	Subtype MIDISubtype
	Payload Payload
}

func (d *MIDIDescriptor) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type), byte(d.Subtype)}
	return append(out, d.Payload.Bytes()...)
}

// decodeMIDIChunk decodes one MIDI streaming chunk. Class-specific
// endpoint chunks carry the jack assignment; interface chunks carry the
// jack and element topology.
func decodeMIDIChunk(gd GenericDescriptor) Descriptor {
	md := &MIDIDescriptor{
		Length:  gd.Length,
		Type:    gd.Type,
		Subtype: MIDISubtype(gd.SubType),
	}
	var payload Payload
	var err error
	if gd.Type == DescriptorTypeClassEndpoint {
		payload, err = ParseMIDIEndpoint(gd.Data)
	} else {
		switch md.Subtype {
		case MIDISubtypeHeader:
			payload, err = ParseMIDIHeader(gd.Data)
		case MIDISubtypeInputJack:
			payload, err = ParseMIDIInputJack(gd.Data)
		case MIDISubtypeOutputJack:
			payload, err = ParseMIDIOutputJack(gd.Data)
		case MIDISubtypeElement:
			payload, err = ParseMIDIElement(gd.Data)
		default:
			payload = UndefinedPayload(gd.Data)
		}
	}
	if err != nil {
		log.Warnf("MIDI descriptor subtype %#02x: %v", gd.SubType, err)
		payload = InvalidPayload(gd.Data)
	}
	md.Payload = payload
	return md
}

// MIDIHeader is the class-specific MS interface header.
type MIDIHeader struct {
	Version     BCD
	TotalLength uint16
}

func ParseMIDIHeader(b []byte) (*MIDIHeader, error) {
	if len(b) < 4 {
		return nil, errShort("MIDIHeader", 4, len(b))
	}
	return &MIDIHeader{
		Version:     BCD(u16le(b)),
		TotalLength: u16le(b[2:]),
	}, nil
}

func (h *MIDIHeader) Bytes() []byte {
	out := appendU16(nil, uint16(h.Version))
	return appendU16(out, h.TotalLength)
}

// MIDI jack types.
const (
	MIDIJackEmbedded uint8 = 0x01
	MIDIJackExternal uint8 = 0x02
)

// MIDIInputJack describes a MIDI IN jack.
type MIDIInputJack struct {
	JackType        uint8
	JackID          uint8
	JackStringIndex uint8
	JackString      string
}

func ParseMIDIInputJack(b []byte) (*MIDIInputJack, error) {
	if len(b) < 3 {
		return nil, errShort("MIDIInputJack", 3, len(b))
	}
	return &MIDIInputJack{
		JackType:        b[0],
		JackID:          b[1],
		JackStringIndex: b[2],
	}, nil
}

func (j *MIDIInputJack) Bytes() []byte {
	return []byte{j.JackType, j.JackID, j.JackStringIndex}
}

// MIDISourcePin is one (entity, output pin) connection of a MIDI OUT
// jack or element input.
type MIDISourcePin struct {
	SourceID  uint8
	SourcePin uint8
}

// MIDIOutputJack describes a MIDI OUT jack and the pins feeding it.
type MIDIOutputJack struct {
	JackType        uint8
	JackID          uint8
	NrInputPins     uint8
	SourcePins      []MIDISourcePin
	JackStringIndex uint8
	JackString      string
}

func ParseMIDIOutputJack(b []byte) (*MIDIOutputJack, error) {
	if len(b) < 4 {
		return nil, errShort("MIDIOutputJack", 4, len(b))
	}
	p := int(b[2])
	if len(b) < 4+2*p {
		return nil, errShort("MIDIOutputJack pins", 4+2*p, len(b))
	}
	j := &MIDIOutputJack{
		JackType:        b[0],
		JackID:          b[1],
		NrInputPins:     b[2],
		JackStringIndex: b[3+2*p],
	}
	for i := 3; i < 3+2*p; i += 2 {
		j.SourcePins = append(j.SourcePins, MIDISourcePin{SourceID: b[i], SourcePin: b[i+1]})
	}
	return j, nil
}

func (j *MIDIOutputJack) Bytes() []byte {
	out := []byte{j.JackType, j.JackID, j.NrInputPins}
	for _, p := range j.SourcePins {
		out = append(out, p.SourceID, p.SourcePin)
	}
	return append(out, j.JackStringIndex)
}

// MIDIElement describes a MIDI element: a processing entity between
// jacks, e.g. a synth engine or a router.
type MIDIElement struct {
	ElementID          uint8
	NrInputPins        uint8
	SourcePins         []MIDISourcePin
	NrOutputPins       uint8
	InTerminalLink     uint8
	OutTerminalLink    uint8
	ElCapsSize         uint8
	ElementCaps        uint16
	ElementStringIndex uint8
	ElementString      string
}

func ParseMIDIElement(b []byte) (*MIDIElement, error) {
	if len(b) < 8 {
		return nil, errShort("MIDIElement", 8, len(b))
	}
	p := int(b[1])
	if len(b) < 6+2*p {
		return nil, errShort("MIDIElement pins", 6+2*p, len(b))
	}
	el := &MIDIElement{
		ElementID:   b[0],
		NrInputPins: b[1],
	}
	for i := 2; i < 2+2*p; i += 2 {
		el.SourcePins = append(el.SourcePins, MIDISourcePin{SourceID: b[i], SourcePin: b[i+1]})
	}
	j := 2 + 2*p
	el.NrOutputPins = b[j]
	el.InTerminalLink = b[j+1]
	el.OutTerminalLink = b[j+2]
	el.ElCapsSize = b[j+3]
	cs := int(el.ElCapsSize)
	if len(b) < j+4+cs+1 {
		return nil, errShort("MIDIElement caps", j+4+cs+1, len(b))
	}
	for i := 0; i < cs; i++ {
		el.ElementCaps |= uint16(b[j+4+i]) << uint(i*8)
	}
	el.ElementStringIndex = b[j+4+cs]
	return el, nil
}

func (el *MIDIElement) Bytes() []byte {
	out := []byte{el.ElementID, el.NrInputPins}
	for _, p := range el.SourcePins {
		out = append(out, p.SourceID, p.SourcePin)
	}
	out = append(out, el.NrOutputPins, el.InTerminalLink, el.OutTerminalLink, el.ElCapsSize)
	for i := 0; i < int(el.ElCapsSize); i++ {
		out = append(out, byte(el.ElementCaps>>uint(i*8)))
	}
	return append(out, el.ElementStringIndex)
}

// MIDIEndpoint is the class-specific MS bulk data endpoint descriptor,
// assigning embedded jacks to the endpoint.
type MIDIEndpoint struct {
	NumJacks uint8
	Jacks    []uint8
}

func ParseMIDIEndpoint(b []byte) (*MIDIEndpoint, error) {
	if len(b) < 1 {
		return nil, errShort("MIDIEndpoint", 1, len(b))
	}
	n := int(b[0])
	if len(b) < 1+n {
		return nil, errShort("MIDIEndpoint jacks", 1+n, len(b))
	}
	return &MIDIEndpoint{
		NumJacks: b[0],
		Jacks:    append([]uint8(nil), b[1:1+n]...),
	}, nil
}

func (e *MIDIEndpoint) Bytes() []byte {
	out := []byte{e.NumJacks}
	return append(out, e.Jacks...)
}
