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

// Audio streaming (AS) interface and endpoint descriptors. The General
// subtype is shared by the class-specific streaming interface and the
// isochronous data endpoint; with no descriptor-type context on the
// wire the two are told apart by the exact data endpoint payload size
// of each UAC generation.

// parseAudioStreamingPayload decodes an audio streaming payload by
// subtype and protocol.
func parseAudioStreamingPayload(subtype AudioStreamingSubtype, protocol UACProtocol, b []byte) (Payload, error) {
	switch subtype {
	case StreamingSubtypeGeneral:
		switch protocol {
		case UACProtocol1:
			if len(b) == dataStreamingEndpoint1Size {
				return ParseDataStreamingEndpoint1(b)
			}
			return ParseStreamingInterface1(b)
		case UACProtocol2:
			if len(b) == dataStreamingEndpoint2Size {
				return ParseDataStreamingEndpoint2(b)
			}
			return ParseStreamingInterface2(b)
		case UACProtocol3:
			if len(b) == dataStreamingEndpoint3Size {
				return ParseDataStreamingEndpoint3(b)
			}
			return ParseStreamingInterface3(b)
		}
	case StreamingSubtypeFormatType:
		return ParseStreamingFormat(protocol, b)
	case StreamingSubtypeFormatSpecific:
		return ParseStreamingFormatSpecific(b)
	case StreamingSubtypeUndefined:
		return UndefinedPayload(b), nil
	}
	return InvalidPayload(b), nil
}

// StreamingInterface1 is the UAC1 class-specific AS interface
// descriptor.
type StreamingInterface1 struct {
	TerminalLink uint8
	Delay        uint8
	FormatTag    uint16
}

func ParseStreamingInterface1(b []byte) (*StreamingInterface1, error) {
	if len(b) < 4 {
		return nil, errShort("StreamingInterface1", 4, len(b))
	}
	return &StreamingInterface1{
		TerminalLink: b[0],
		Delay:        b[1],
		FormatTag:    u16le(b[2:]),
	}, nil
}

func (s *StreamingInterface1) Bytes() []byte {
	out := []byte{s.TerminalLink, s.Delay}
	return appendU16(out, s.FormatTag)
}

// StreamingInterface2 is the UAC2 class-specific AS interface
// descriptor.
type StreamingInterface2 struct {
	TerminalLink      uint8
	Controls          uint8
	FormatType        uint8
	Formats           uint32
	NrChannels        uint8
	ChannelConfig     uint32
	ChannelNamesIndex uint8
	ChannelNames      string
}

func ParseStreamingInterface2(b []byte) (*StreamingInterface2, error) {
	if len(b) < 13 {
		return nil, errShort("StreamingInterface2", 13, len(b))
	}
	return &StreamingInterface2{
		TerminalLink:      b[0],
		Controls:          b[1],
		FormatType:        b[2],
		Formats:           u32le(b[3:]),
		NrChannels:        b[7],
		ChannelConfig:     u32le(b[8:]),
		ChannelNamesIndex: b[12],
	}, nil
}

func (s *StreamingInterface2) Bytes() []byte {
	out := []byte{s.TerminalLink, s.Controls, s.FormatType}
	out = appendU32(out, s.Formats)
	out = append(out, s.NrChannels)
	out = appendU32(out, s.ChannelConfig)
	return append(out, s.ChannelNamesIndex)
}

// StreamingInterface3 is the UAC3 class-specific AS interface
// descriptor.
type StreamingInterface3 struct {
	TerminalLink   uint8
	Controls       uint32
	ClusterDescrID uint16
	Formats        uint64
	SubSlotSize    uint8
	BitResolution  uint8
	AuxProtocols   uint16
	ControlSize    uint8
}

func ParseStreamingInterface3(b []byte) (*StreamingInterface3, error) {
	if len(b) < 20 {
		return nil, errShort("StreamingInterface3", 20, len(b))
	}
	return &StreamingInterface3{
		TerminalLink:   b[0],
		Controls:       u32le(b[1:]),
		ClusterDescrID: u16le(b[5:]),
		Formats:        u64le(b[7:]),
		SubSlotSize:    b[15],
		BitResolution:  b[16],
		AuxProtocols:   u16le(b[17:]),
		ControlSize:    b[19],
	}, nil
}

func (s *StreamingInterface3) Bytes() []byte {
	out := []byte{s.TerminalLink}
	out = appendU32(out, s.Controls)
	out = appendU16(out, s.ClusterDescrID)
	out = appendU64(out, s.Formats)
	out = append(out, s.SubSlotSize, s.BitResolution)
	out = appendU16(out, s.AuxProtocols)
	return append(out, s.ControlSize)
}

// LockDelayUnits qualifies the lock delay field of a data streaming
// endpoint.
type LockDelayUnits uint8

const (
	LockDelayUndefined LockDelayUnits = iota
	LockDelayMilliseconds
	LockDelayDecodedPCMSamples
)

func (u LockDelayUnits) String() string {
	switch u {
	case LockDelayMilliseconds:
		return "Milliseconds"
	case LockDelayDecodedPCMSamples:
		return "Decoded PCM samples"
	}
	return "Undefined"
}

const (
	dataStreamingEndpoint1Size = 4
	dataStreamingEndpoint2Size = 5
	dataStreamingEndpoint3Size = 7
)

// DataStreamingEndpoint1 is the UAC1 class-specific isochronous audio
// data endpoint descriptor.
type DataStreamingEndpoint1 struct {
	Attributes     uint8
	LockDelayUnits LockDelayUnits
	LockDelay      uint16
}

func ParseDataStreamingEndpoint1(b []byte) (*DataStreamingEndpoint1, error) {
	if len(b) < dataStreamingEndpoint1Size {
		return nil, errShort("DataStreamingEndpoint1", dataStreamingEndpoint1Size, len(b))
	}
	return &DataStreamingEndpoint1{
		Attributes:     b[0],
		LockDelayUnits: LockDelayUnits(b[1]),
		LockDelay:      u16le(b[2:]),
	}, nil
}

func (e *DataStreamingEndpoint1) Bytes() []byte {
	out := []byte{e.Attributes, byte(e.LockDelayUnits)}
	return appendU16(out, e.LockDelay)
}

// DataStreamingEndpoint2 is the UAC2 class-specific isochronous audio
// data endpoint descriptor.
type DataStreamingEndpoint2 struct {
	Attributes     uint8
	Controls       uint8
	LockDelayUnits LockDelayUnits
	LockDelay      uint16
}

func ParseDataStreamingEndpoint2(b []byte) (*DataStreamingEndpoint2, error) {
	if len(b) < dataStreamingEndpoint2Size {
		return nil, errShort("DataStreamingEndpoint2", dataStreamingEndpoint2Size, len(b))
	}
	return &DataStreamingEndpoint2{
		Attributes:     b[0],
		Controls:       b[1],
		LockDelayUnits: LockDelayUnits(b[2]),
		LockDelay:      u16le(b[3:]),
	}, nil
}

func (e *DataStreamingEndpoint2) Bytes() []byte {
	out := []byte{e.Attributes, e.Controls, byte(e.LockDelayUnits)}
	return appendU16(out, e.LockDelay)
}

// DataStreamingEndpoint3 is the UAC3 class-specific isochronous audio
// data endpoint descriptor.
type DataStreamingEndpoint3 struct {
	Controls       uint32
	LockDelayUnits LockDelayUnits
	LockDelay      uint16
}

func ParseDataStreamingEndpoint3(b []byte) (*DataStreamingEndpoint3, error) {
	if len(b) < dataStreamingEndpoint3Size {
		return nil, errShort("DataStreamingEndpoint3", dataStreamingEndpoint3Size, len(b))
	}
	return &DataStreamingEndpoint3{
		Controls:       u32le(b),
		LockDelayUnits: LockDelayUnits(b[4]),
		LockDelay:      u16le(b[5:]),
	}, nil
}

func (e *DataStreamingEndpoint3) Bytes() []byte {
	out := appendU32(nil, e.Controls)
	out = append(out, byte(e.LockDelayUnits))
	return appendU16(out, e.LockDelay)
}

// AudioFormatType is the bFormatType code of a format type descriptor.
type AudioFormatType uint8

const (
	FormatTypeUndefined AudioFormatType = 0x00
	FormatTypeI         AudioFormatType = 0x01
	FormatTypeII        AudioFormatType = 0x02
	FormatTypeIII       AudioFormatType = 0x03
	FormatTypeIV        AudioFormatType = 0x04
)

func (t AudioFormatType) String() string {
	switch t {
	case FormatTypeI:
		return "FORMAT_TYPE_I"
	case FormatTypeII:
		return "FORMAT_TYPE_II"
	case FormatTypeIII:
		return "FORMAT_TYPE_III"
	case FormatTypeIV:
		return "FORMAT_TYPE_IV"
	}
	return "invalid"
}

// StreamingFormat is a class-specific AS format type descriptor: the
// format type code plus the type- and protocol-specific shape.
type StreamingFormat struct {
	FormatType AudioFormatType
	Format     Payload
}

// ParseStreamingFormat decodes a format type payload. Types without a
// shape for the protocol keep their raw payload.
func ParseStreamingFormat(protocol UACProtocol, b []byte) (*StreamingFormat, error) {
	if len(b) < 1 {
		return nil, errShort("StreamingFormat", 1, len(b))
	}
	sf := &StreamingFormat{FormatType: AudioFormatType(b[0])}
	rest := b[1:]
	var err error
	switch protocol {
	case UACProtocol1:
		switch sf.FormatType {
		case FormatTypeI:
			sf.Format, err = ParseFormatTypeI1(rest)
		case FormatTypeII:
			sf.Format, err = ParseFormatTypeII1(rest)
		case FormatTypeIII:
			sf.Format, err = ParseFormatTypeIII1(rest)
		default:
			sf.Format = UndefinedPayload(rest)
		}
	case UACProtocol2:
		switch sf.FormatType {
		case FormatTypeI, FormatTypeIII:
			sf.Format, err = ParseFormatTypeI2(rest)
		case FormatTypeII:
			sf.Format, err = ParseFormatTypeII2(rest)
		default:
			sf.Format = UndefinedPayload(rest)
		}
	default:
		sf.Format = InvalidPayload(rest)
	}
	if err != nil {
		return nil, err
	}
	return sf, nil
}

func (sf *StreamingFormat) Bytes() []byte {
	out := []byte{byte(sf.FormatType)}
	return append(out, sf.Format.Bytes()...)
}

// StreamingFormatSpecific is a class-specific AS format-specific
// descriptor, tagged by the compressed format it describes.
type StreamingFormatSpecific struct {
	FormatTag uint16
	Format    Payload
}

const (
	formatTagMPEG = 0x1001
	formatTagAC3  = 0x1002
)

func ParseStreamingFormatSpecific(b []byte) (*StreamingFormatSpecific, error) {
	if len(b) < 2 {
		return nil, errShort("StreamingFormatSpecific", 2, len(b))
	}
	sfs := &StreamingFormatSpecific{FormatTag: u16le(b)}
	rest := b[2:]
	var err error
	switch sfs.FormatTag {
	case formatTagMPEG:
		sfs.Format, err = ParseFormatSpecificMPEG(rest)
	case formatTagAC3:
		sfs.Format, err = ParseFormatSpecificAC3(rest)
	default:
		sfs.Format = UndefinedPayload(rest)
	}
	if err != nil {
		return nil, err
	}
	return sfs, nil
}

func (s *StreamingFormatSpecific) Bytes() []byte {
	out := appendU16(nil, s.FormatTag)
	return append(out, s.Format.Bytes()...)
}

// parseSampleFrequencies decodes the trailing sample frequency table of
// a UAC1 format type descriptor: a count byte of 0 means a continuous
// lower/upper bound pair, any other count a discrete list. Frequencies
// are 24-bit little-endian.
func parseSampleFrequencies(freqType uint8, b []byte) ([]uint32, error) {
	if freqType == 0 {
		if len(b) < 6 {
			return nil, errShort("continuous sample frequency", 6, len(b))
		}
		return []uint32{u24le(b), u24le(b[3:])}, nil
	}
	n := int(freqType)
	if len(b) < n*3 {
		return nil, errShort("discrete sample frequency", n*3, len(b))
	}
	freqs := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		freqs = append(freqs, u24le(b[i*3:]))
	}
	return freqs, nil
}

func appendSampleFrequencies(out []byte, freqs []uint32) []byte {
	for _, f := range freqs {
		out = appendU24(out, f)
	}
	return out
}

// FormatTypeI1 is the UAC1 Type I (PCM) format descriptor.
type FormatTypeI1 struct {
	NrChannels          uint8
	SubframeSize        uint8
	BitResolution       uint8
	SampleFrequencyType uint8
	SampleFrequencies   []uint32
}

func ParseFormatTypeI1(b []byte) (*FormatTypeI1, error) {
	if len(b) < 4 {
		return nil, errShort("FormatTypeI1", 4, len(b))
	}
	freqs, err := parseSampleFrequencies(b[3], b[4:])
	if err != nil {
		return nil, err
	}
	return &FormatTypeI1{
		NrChannels:          b[0],
		SubframeSize:        b[1],
		BitResolution:       b[2],
		SampleFrequencyType: b[3],
		SampleFrequencies:   freqs,
	}, nil
}

func (f *FormatTypeI1) Bytes() []byte {
	out := []byte{f.NrChannels, f.SubframeSize, f.BitResolution, f.SampleFrequencyType}
	return appendSampleFrequencies(out, f.SampleFrequencies)
}

// FormatTypeII1 is the UAC1 Type II (compressed) format descriptor.
type FormatTypeII1 struct {
	MaxBitRate          uint16
	SamplesPerFrame     uint16
	SampleFrequencyType uint8
	SampleFrequencies   []uint32
}

func ParseFormatTypeII1(b []byte) (*FormatTypeII1, error) {
	if len(b) < 5 {
		return nil, errShort("FormatTypeII1", 5, len(b))
	}
	freqs, err := parseSampleFrequencies(b[4], b[5:])
	if err != nil {
		return nil, err
	}
	return &FormatTypeII1{
		MaxBitRate:          u16le(b),
		SamplesPerFrame:     u16le(b[2:]),
		SampleFrequencyType: b[4],
		SampleFrequencies:   freqs,
	}, nil
}

func (f *FormatTypeII1) Bytes() []byte {
	out := appendU16(nil, f.MaxBitRate)
	out = appendU16(out, f.SamplesPerFrame)
	out = append(out, f.SampleFrequencyType)
	return appendSampleFrequencies(out, f.SampleFrequencies)
}

// FormatTypeIII1 is the UAC1 Type III (IEC 61937 in PCM framing)
// format descriptor. It shares the Type I wire shape.
type FormatTypeIII1 struct {
	NrChannels          uint8
	SubframeSize        uint8
	BitResolution       uint8
	SampleFrequencyType uint8
	SampleFrequencies   []uint32
}

func ParseFormatTypeIII1(b []byte) (*FormatTypeIII1, error) {
	if len(b) < 4 {
		return nil, errShort("FormatTypeIII1", 4, len(b))
	}
	freqs, err := parseSampleFrequencies(b[3], b[4:])
	if err != nil {
		return nil, err
	}
	return &FormatTypeIII1{
		NrChannels:          b[0],
		SubframeSize:        b[1],
		BitResolution:       b[2],
		SampleFrequencyType: b[3],
		SampleFrequencies:   freqs,
	}, nil
}

func (f *FormatTypeIII1) Bytes() []byte {
	out := []byte{f.NrChannels, f.SubframeSize, f.BitResolution, f.SampleFrequencyType}
	return appendSampleFrequencies(out, f.SampleFrequencies)
}

// FormatTypeI2 is the UAC2 Type I format descriptor. UAC2 moved the
// channel count and sample rates to the AS interface and clock
// entities, leaving only the slot layout. Type III shares the shape.
type FormatTypeI2 struct {
	SubSlotSize   uint8
	BitResolution uint8
}

func ParseFormatTypeI2(b []byte) (*FormatTypeI2, error) {
	if len(b) < 2 {
		return nil, errShort("FormatTypeI2", 2, len(b))
	}
	return &FormatTypeI2{SubSlotSize: b[0], BitResolution: b[1]}, nil
}

func (f *FormatTypeI2) Bytes() []byte {
	return []byte{f.SubSlotSize, f.BitResolution}
}

// FormatTypeII2 is the UAC2 Type II format descriptor.
type FormatTypeII2 struct {
	MaxBitRate    uint16
	SlotsPerFrame uint16
}

func ParseFormatTypeII2(b []byte) (*FormatTypeII2, error) {
	if len(b) < 4 {
		return nil, errShort("FormatTypeII2", 4, len(b))
	}
	return &FormatTypeII2{
		MaxBitRate:    u16le(b),
		SlotsPerFrame: u16le(b[2:]),
	}, nil
}

func (f *FormatTypeII2) Bytes() []byte {
	out := appendU16(nil, f.MaxBitRate)
	return appendU16(out, f.SlotsPerFrame)
}

// FormatSpecificMPEG is the MPEG format-specific descriptor body.
type FormatSpecificMPEG struct {
	Capabilities uint16
	Features     uint8
}

func ParseFormatSpecificMPEG(b []byte) (*FormatSpecificMPEG, error) {
	if len(b) < 3 {
		return nil, errShort("FormatSpecificMPEG", 3, len(b))
	}
	return &FormatSpecificMPEG{
		Capabilities: u16le(b),
		Features:     b[2],
	}, nil
}

func (f *FormatSpecificMPEG) Bytes() []byte {
	out := appendU16(nil, f.Capabilities)
	return append(out, f.Features)
}

// FormatSpecificAC3 is the AC-3 format-specific descriptor body.
type FormatSpecificAC3 struct {
	BSID     uint32
	Features uint8
}

func ParseFormatSpecificAC3(b []byte) (*FormatSpecificAC3, error) {
	if len(b) < 5 {
		return nil, errShort("FormatSpecificAC3", 5, len(b))
	}
	return &FormatSpecificAC3{
		BSID:     u32le(b),
		Features: b[4],
	}, nil
}

func (f *FormatSpecificAC3) Bytes() []byte {
	out := appendU32(nil, f.BSID)
	return append(out, f.Features)
}
