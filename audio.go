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

// USB Audio Class descriptor decoding. The class-specific interface and
// endpoint descriptors of audio functions come in three incompatible
// generations (UAC1, UAC2, UAC3), distinguished by the interface
// protocol byte. The three generations reuse subtype codes with
// different meanings, so decoding always happens under a ClassContext.

package usbtree

// UACProtocol is the audio function protocol byte, selecting the UAC
// generation the class-specific descriptors conform to.
type UACProtocol uint8

const (
	UACProtocol1 UACProtocol = 0x00
	UACProtocol2 UACProtocol = 0x20
	UACProtocol3 UACProtocol = 0x30
)

func (p UACProtocol) String() string {
	switch p {
	case UACProtocol1:
		return "UAC1"
	case UACProtocol2:
		return "UAC2"
	case UACProtocol3:
		return "UAC3"
	}
	return "Unknown"
}

// AudioSubClass is the audio interface subclass.
type AudioSubClass uint8

const (
	AudioSubClassControl       AudioSubClass = 0x01
	AudioSubClassStreaming     AudioSubClass = 0x02
	AudioSubClassMIDIStreaming AudioSubClass = 0x03
)

var audioSubClassDescription = map[AudioSubClass]string{
	AudioSubClassControl:       "audio control",
	AudioSubClassStreaming:     "audio streaming",
	AudioSubClassMIDIStreaming: "MIDI streaming",
}

func (s AudioSubClass) String() string {
	if d, ok := audioSubClassDescription[s]; ok {
		return d
	}
	return "unknown"
}

// ControlSubtype is the canonical audio control interface subtype. The
// constants follow the UAC3 numbering; UAC1 and UAC2 wire codes are
// remapped onto it by ControlSubtypeForProtocol.
type ControlSubtype uint8

const (
	ControlSubtypeUndefined           ControlSubtype = 0x00
	ControlSubtypeHeader              ControlSubtype = 0x01
	ControlSubtypeInputTerminal       ControlSubtype = 0x02
	ControlSubtypeOutputTerminal      ControlSubtype = 0x03
	ControlSubtypeExtendedTerminal    ControlSubtype = 0x04
	ControlSubtypeMixerUnit           ControlSubtype = 0x05
	ControlSubtypeSelectorUnit        ControlSubtype = 0x06
	ControlSubtypeFeatureUnit         ControlSubtype = 0x07
	ControlSubtypeEffectUnit          ControlSubtype = 0x08
	ControlSubtypeProcessingUnit      ControlSubtype = 0x09
	ControlSubtypeExtensionUnit       ControlSubtype = 0x0a
	ControlSubtypeClockSource         ControlSubtype = 0x0b
	ControlSubtypeClockSelector       ControlSubtype = 0x0c
	ControlSubtypeClockMultiplier     ControlSubtype = 0x0d
	ControlSubtypeSampleRateConverter ControlSubtype = 0x0e
	ControlSubtypeConnectors          ControlSubtype = 0x0f
	ControlSubtypePowerDomain         ControlSubtype = 0x10
)

var controlSubtypeDescription = map[ControlSubtype]string{
	ControlSubtypeUndefined:           "undefined",
	ControlSubtypeHeader:              "header",
	ControlSubtypeInputTerminal:       "input terminal",
	ControlSubtypeOutputTerminal:      "output terminal",
	ControlSubtypeExtendedTerminal:    "extended terminal",
	ControlSubtypeMixerUnit:           "mixer unit",
	ControlSubtypeSelectorUnit:        "selector unit",
	ControlSubtypeFeatureUnit:         "feature unit",
	ControlSubtypeEffectUnit:          "effect unit",
	ControlSubtypeProcessingUnit:      "processing unit",
	ControlSubtypeExtensionUnit:       "extension unit",
	ControlSubtypeClockSource:         "clock source",
	ControlSubtypeClockSelector:       "clock selector",
	ControlSubtypeClockMultiplier:     "clock multiplier",
	ControlSubtypeSampleRateConverter: "sample rate converter",
	ControlSubtypeConnectors:          "connectors",
	ControlSubtypePowerDomain:         "power domain",
}

func (s ControlSubtype) String() string {
	if d, ok := controlSubtypeDescription[s]; ok {
		return d
	}
	return "undefined"
}

// ControlSubtypeForProtocol maps a wire subtype code onto the canonical
// ControlSubtype. UAC1 and UAC2 number the unit descriptors differently
// from UAC3, which introduced the canonical numbering.
func ControlSubtypeForProtocol(subtype uint8, protocol UACProtocol) ControlSubtype {
	switch protocol {
	case UACProtocol1:
		switch subtype {
		case 0x04:
			return ControlSubtypeMixerUnit
		case 0x05:
			return ControlSubtypeSelectorUnit
		case 0x06:
			return ControlSubtypeFeatureUnit
		case 0x07:
			return ControlSubtypeProcessingUnit
		case 0x08:
			return ControlSubtypeExtensionUnit
		}
	case UACProtocol2:
		switch subtype {
		case 0x04:
			return ControlSubtypeMixerUnit
		case 0x05:
			return ControlSubtypeSelectorUnit
		case 0x06:
			return ControlSubtypeFeatureUnit
		case 0x07:
			return ControlSubtypeEffectUnit
		case 0x08:
			return ControlSubtypeProcessingUnit
		case 0x09:
			return ControlSubtypeExtensionUnit
		case 0x0a:
			return ControlSubtypeClockSource
		case 0x0b:
			return ControlSubtypeClockSelector
		case 0x0c:
			return ControlSubtypeClockMultiplier
		case 0x0d:
			return ControlSubtypeSampleRateConverter
		}
	}
	// UAC3 uses the canonical numbering.
	if subtype > uint8(ControlSubtypePowerDomain) {
		return ControlSubtypeUndefined
	}
	return ControlSubtype(subtype)
}

// AudioStreamingSubtype is the audio streaming interface subtype.
type AudioStreamingSubtype uint8

const (
	StreamingSubtypeUndefined      AudioStreamingSubtype = 0x00
	StreamingSubtypeGeneral        AudioStreamingSubtype = 0x01
	StreamingSubtypeFormatType     AudioStreamingSubtype = 0x02
	StreamingSubtypeFormatSpecific AudioStreamingSubtype = 0x03
)

func (s AudioStreamingSubtype) String() string {
	switch s {
	case StreamingSubtypeGeneral:
		return "general"
	case StreamingSubtypeFormatType:
		return "format type"
	case StreamingSubtypeFormatSpecific:
		return "format specific"
	}
	return "undefined"
}

// AudioDescriptor is one class-specific descriptor of an audio control
// or streaming interface: the chunk header plus a payload decoded under
// the owning interface's subclass and UAC protocol.
type AudioDescriptor struct {
	Length   uint8
	Type     DescriptorType
	Protocol UACProtocol
	SubClass AudioSubClass
	// Subtype is the raw wire subtype byte; use ControlSubtype for the
	// remapped canonical value.
	Subtype uint8
	Payload Payload
}

// ControlSubtype returns the canonical control subtype of the chunk.
func (d *AudioDescriptor) ControlSubtype() ControlSubtype {
	return ControlSubtypeForProtocol(d.Subtype, d.Protocol)
}

// StreamingSubtype returns the streaming subtype of the chunk.
func (d *AudioDescriptor) StreamingSubtype() AudioStreamingSubtype {
	if d.Subtype > uint8(StreamingSubtypeFormatSpecific) {
		return StreamingSubtypeUndefined
	}
	return AudioStreamingSubtype(d.Subtype)
}

func (d *AudioDescriptor) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type), d.Subtype}
	return append(out, d.Payload.Bytes()...)
}

// decodeAudioChunk decodes one audio control or streaming chunk. A
// payload that fails its bounds checks is preserved as InvalidPayload;
// the chunk header always survives.
func decodeAudioChunk(ctx ClassContext, gd GenericDescriptor) Descriptor {
	ad := &AudioDescriptor{
		Length:   gd.Length,
		Type:     gd.Type,
		Protocol: UACProtocol(ctx.Protocol),
		SubClass: AudioSubClass(ctx.SubClass),
		Subtype:  gd.SubType,
	}
	var payload Payload
	var err error
	switch ad.SubClass {
	case AudioSubClassControl:
		payload, err = parseAudioControlPayload(ad.ControlSubtype(), ad.Protocol, gd.Data)
	case AudioSubClassStreaming:
		payload, err = parseAudioStreamingPayload(ad.StreamingSubtype(), ad.Protocol, gd.Data)
	}
	if err != nil {
		log.Warnf("audio descriptor subtype %#02x (%s): %v", gd.SubType, ad.Protocol, err)
		payload = InvalidPayload(gd.Data)
	}
	ad.Payload = payload
	return ad
}

// parseAudioControlPayload decodes an audio control payload by its
// canonical subtype and protocol. Subtypes with no shape for the given
// protocol come back as InvalidPayload without error; the reserved
// undefined subtype comes back as UndefinedPayload.
func parseAudioControlPayload(subtype ControlSubtype, protocol UACProtocol, b []byte) (Payload, error) {
	switch subtype {
	case ControlSubtypeHeader:
		switch protocol {
		case UACProtocol1:
			return ParseControlHeader1(b)
		case UACProtocol2:
			return ParseControlHeader2(b)
		case UACProtocol3:
			return ParseControlHeader3(b)
		}
	case ControlSubtypeInputTerminal:
		switch protocol {
		case UACProtocol1:
			return ParseInputTerminal1(b)
		case UACProtocol2:
			return ParseInputTerminal2(b)
		case UACProtocol3:
			return ParseInputTerminal3(b)
		}
	case ControlSubtypeOutputTerminal:
		switch protocol {
		case UACProtocol1:
			return ParseOutputTerminal1(b)
		case UACProtocol2:
			return ParseOutputTerminal2(b)
		case UACProtocol3:
			return ParseOutputTerminal3(b)
		}
	case ControlSubtypeExtendedTerminal:
		if protocol == UACProtocol3 {
			return ParseExtendedTerminalHeader(b)
		}
	case ControlSubtypePowerDomain:
		if protocol == UACProtocol3 {
			return ParsePowerDomain(b)
		}
	case ControlSubtypeMixerUnit:
		switch protocol {
		case UACProtocol1:
			return ParseMixerUnit1(b)
		case UACProtocol2:
			return ParseMixerUnit2(b)
		case UACProtocol3:
			return ParseMixerUnit3(b)
		}
	case ControlSubtypeSelectorUnit:
		switch protocol {
		case UACProtocol1:
			return ParseSelectorUnit1(b)
		case UACProtocol2:
			return ParseSelectorUnit2(b)
		case UACProtocol3:
			return ParseSelectorUnit3(b)
		}
	case ControlSubtypeFeatureUnit:
		switch protocol {
		case UACProtocol1:
			return ParseFeatureUnit1(b)
		case UACProtocol2:
			return ParseFeatureUnit2(b)
		case UACProtocol3:
			return ParseFeatureUnit3(b)
		}
	case ControlSubtypeEffectUnit:
		switch protocol {
		case UACProtocol2:
			return ParseEffectUnit2(b)
		case UACProtocol3:
			return ParseEffectUnit3(b)
		}
	case ControlSubtypeProcessingUnit:
		switch protocol {
		case UACProtocol1:
			return ParseProcessingUnit1(b)
		case UACProtocol2:
			return ParseProcessingUnit2(b)
		case UACProtocol3:
			return ParseProcessingUnit3(b)
		}
	case ControlSubtypeExtensionUnit:
		switch protocol {
		case UACProtocol1:
			return ParseExtensionUnit1(b)
		case UACProtocol2:
			return ParseExtensionUnit2(b)
		case UACProtocol3:
			return ParseExtensionUnit3(b)
		}
	case ControlSubtypeClockSource:
		switch protocol {
		case UACProtocol2:
			return ParseClockSource2(b)
		case UACProtocol3:
			return ParseClockSource3(b)
		}
	case ControlSubtypeClockSelector:
		switch protocol {
		case UACProtocol2:
			return ParseClockSelector2(b)
		case UACProtocol3:
			return ParseClockSelector3(b)
		}
	case ControlSubtypeClockMultiplier:
		switch protocol {
		case UACProtocol2:
			return ParseClockMultiplier2(b)
		case UACProtocol3:
			return ParseClockMultiplier3(b)
		}
	case ControlSubtypeSampleRateConverter:
		switch protocol {
		case UACProtocol2:
			return ParseSampleRateConverter2(b)
		case UACProtocol3:
			return ParseSampleRateConverter3(b)
		}
	case ControlSubtypeUndefined:
		return UndefinedPayload(b), nil
	default:
		return GenericPayload(b), nil
	}
	return InvalidPayload(b), nil
}

// Uac1ChannelNames are the UAC1 wChannelConfig bit names, LSB first.
var uac1ChannelNames = []string{
	"Left Front (L)",
	"Right Front (R)",
	"Center Front (C)",
	"Low Frequency Enhancement (LFE)",
	"Left Surround (LS)",
	"Right Surround (RS)",
	"Left of Center (LC)",
	"Right of Center (RC)",
	"Surround (S)",
	"Side Left (SL)",
	"Side Right (SR)",
	"Top (T)",
}

// uac2ChannelNames are the UAC2 bmChannelConfig bit names, LSB first.
var uac2ChannelNames = []string{
	"Front Left (FL)",
	"Front Right (FR)",
	"Front Center (FC)",
	"Low Frequency Effects (LFE)",
	"Back Left (BL)",
	"Back Right (BR)",
	"Front Left of Center (FLC)",
	"Front Right of Center (FRC)",
	"Back Center (BC)",
	"Side Left (SL)",
	"Side Right (SR)",
	"Top Center (TC)",
	"Top Front Left (TFL)",
	"Top Front Center (TFC)",
	"Top Front Right (TFR)",
	"Top Back Left (TBL)",
	"Top Back Center (TBC)",
	"Top Back Right (TBR)",
	"Top Front Left of Center (TFLC)",
	"Top Front Right of Center (TFRC)",
	"Left Low Frequency Effects (LLFE)",
	"Right Low Frequency Effects (RLFE)",
	"Top Side Left (TSL)",
	"Top Side Right (TSR)",
	"Bottom Center (BC)",
	"Back Left of Center (BLC)",
	"Back Right of Center (BRC)",
}

func namesFromBitmap(bitmap uint32, names []string) []string {
	var out []string
	for i, n := range names {
		if bitmap&(1<<uint(i)) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// ChannelNames decodes a channel config bitmap into spatial channel
// names for the given protocol. UAC3 replaced the bitmap with cluster
// descriptors, so it yields nothing.
func ChannelNames(protocol UACProtocol, channelConfig uint32) []string {
	switch protocol {
	case UACProtocol1:
		return namesFromBitmap(channelConfig, uac1ChannelNames)
	case UACProtocol2:
		return namesFromBitmap(channelConfig, uac2ChannelNames)
	}
	return nil
}

// ControlHeader1 is the UAC1 class-specific AC interface header. The
// interface collection lists the streaming and MIDI interfaces
// belonging to the function.
type ControlHeader1 struct {
	Version     BCD
	TotalLength uint16
	Collection  uint8
	Interfaces  []uint8
}

func ParseControlHeader1(b []byte) (*ControlHeader1, error) {
	if len(b) < 6 {
		return nil, errShort("Header1", 6, len(b))
	}
	return &ControlHeader1{
		Version:     BCD(u16le(b)),
		TotalLength: u16le(b[2:]),
		Collection:  b[4],
		Interfaces:  append([]uint8(nil), b[5:]...),
	}, nil
}

func (h *ControlHeader1) Bytes() []byte {
	out := appendU16(nil, uint16(h.Version))
	out = appendU16(out, h.TotalLength)
	out = append(out, h.Collection)
	return append(out, h.Interfaces...)
}

// ControlHeader2 is the UAC2 class-specific AC interface header.
type ControlHeader2 struct {
	Version     BCD
	Category    uint8
	TotalLength uint16
	Controls    uint8
}

func ParseControlHeader2(b []byte) (*ControlHeader2, error) {
	if len(b) < 6 {
		return nil, errShort("Header2", 6, len(b))
	}
	return &ControlHeader2{
		Version:     BCD(u16le(b)),
		Category:    b[2],
		TotalLength: u16le(b[3:]),
		Controls:    b[5],
	}, nil
}

func (h *ControlHeader2) Bytes() []byte {
	out := appendU16(nil, uint16(h.Version))
	out = append(out, h.Category)
	out = appendU16(out, h.TotalLength)
	return append(out, h.Controls)
}

// ControlHeader3 is the UAC3 class-specific AC interface header. UAC3
// dropped the version field.
type ControlHeader3 struct {
	Category    uint8
	TotalLength uint16
	Controls    uint32
}

func ParseControlHeader3(b []byte) (*ControlHeader3, error) {
	if len(b) < 7 {
		return nil, errShort("Header3", 7, len(b))
	}
	return &ControlHeader3{
		Category:    b[0],
		TotalLength: u16le(b[1:]),
		Controls:    u32le(b[3:]),
	}, nil
}

func (h *ControlHeader3) Bytes() []byte {
	out := []byte{h.Category}
	out = appendU16(out, h.TotalLength)
	return appendU32(out, h.Controls)
}

// InputTerminal1 describes a UAC1 input terminal: where audio enters
// the function (microphone, line in, USB streaming).
type InputTerminal1 struct {
	TerminalID        uint8
	TerminalType      uint16
	AssocTerminal     uint8
	NrChannels        uint8
	ChannelConfig     uint16
	ChannelNamesIndex uint8
	TerminalIndex     uint8
	// ChannelNames and Terminal hold the fetched string descriptors
	// when a backend handle was available during profiling.
	ChannelNames string
	Terminal     string
}

func ParseInputTerminal1(b []byte) (*InputTerminal1, error) {
	if len(b) < 9 {
		return nil, errShort("InputTerminal1", 9, len(b))
	}
	return &InputTerminal1{
		TerminalID:        b[0],
		TerminalType:      u16le(b[1:]),
		AssocTerminal:     b[3],
		NrChannels:        b[4],
		ChannelConfig:     u16le(b[5:]),
		ChannelNamesIndex: b[7],
		TerminalIndex:     b[8],
	}, nil
}

func (t *InputTerminal1) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	out = append(out, t.AssocTerminal, t.NrChannels)
	out = appendU16(out, t.ChannelConfig)
	return append(out, t.ChannelNamesIndex, t.TerminalIndex)
}

// InputTerminal2 describes a UAC2 input terminal.
type InputTerminal2 struct {
	TerminalID        uint8
	TerminalType      uint16
	AssocTerminal     uint8
	CSourceID         uint8
	NrChannels        uint8
	ChannelConfig     uint32
	ChannelNamesIndex uint8
	Controls          uint16
	TerminalIndex     uint8
	ChannelNames      string
	Terminal          string
}

func ParseInputTerminal2(b []byte) (*InputTerminal2, error) {
	if len(b) < 14 {
		return nil, errShort("InputTerminal2", 14, len(b))
	}
	return &InputTerminal2{
		TerminalID:        b[0],
		TerminalType:      u16le(b[1:]),
		AssocTerminal:     b[3],
		CSourceID:         b[4],
		NrChannels:        b[5],
		ChannelConfig:     u32le(b[6:]),
		ChannelNamesIndex: b[10],
		Controls:          u16le(b[11:]),
		TerminalIndex:     b[13],
	}, nil
}

func (t *InputTerminal2) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	out = append(out, t.AssocTerminal, t.CSourceID, t.NrChannels)
	out = appendU32(out, t.ChannelConfig)
	out = append(out, t.ChannelNamesIndex)
	out = appendU16(out, t.Controls)
	return append(out, t.TerminalIndex)
}

// InputTerminal3 describes a UAC3 input terminal. Strings moved to
// class-specific string descriptors referenced by ID.
type InputTerminal3 struct {
	TerminalID          uint8
	TerminalType        uint16
	AssocTerminal       uint8
	CSourceID           uint8
	Controls            uint32
	ClusterDescrID      uint16
	ExTerminalDescrID   uint16
	ConnectorsDescrID   uint16
	TerminalDescrString uint16
}

func ParseInputTerminal3(b []byte) (*InputTerminal3, error) {
	if len(b) < 17 {
		return nil, errShort("InputTerminal3", 17, len(b))
	}
	return &InputTerminal3{
		TerminalID:          b[0],
		TerminalType:        u16le(b[1:]),
		AssocTerminal:       b[3],
		CSourceID:           b[4],
		Controls:            u32le(b[5:]),
		ClusterDescrID:      u16le(b[9:]),
		ExTerminalDescrID:   u16le(b[11:]),
		ConnectorsDescrID:   u16le(b[13:]),
		TerminalDescrString: u16le(b[15:]),
	}, nil
}

func (t *InputTerminal3) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	out = append(out, t.AssocTerminal, t.CSourceID)
	out = appendU32(out, t.Controls)
	out = appendU16(out, t.ClusterDescrID)
	out = appendU16(out, t.ExTerminalDescrID)
	out = appendU16(out, t.ConnectorsDescrID)
	return appendU16(out, t.TerminalDescrString)
}

// OutputTerminal1 describes a UAC1 output terminal: where audio leaves
// the function (speaker, headphones, USB streaming).
type OutputTerminal1 struct {
	TerminalID    uint8
	TerminalType  uint16
	AssocTerminal uint8
	SourceID      uint8
	TerminalIndex uint8
	Terminal      string
}

func ParseOutputTerminal1(b []byte) (*OutputTerminal1, error) {
	if len(b) < 6 {
		return nil, errShort("OutputTerminal1", 6, len(b))
	}
	return &OutputTerminal1{
		TerminalID:    b[0],
		TerminalType:  u16le(b[1:]),
		AssocTerminal: b[3],
		SourceID:      b[4],
		TerminalIndex: b[5],
	}, nil
}

func (t *OutputTerminal1) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	return append(out, t.AssocTerminal, t.SourceID, t.TerminalIndex)
}

// OutputTerminal2 describes a UAC2 output terminal.
type OutputTerminal2 struct {
	TerminalID    uint8
	TerminalType  uint16
	AssocTerminal uint8
	SourceID      uint8
	CSourceID     uint8
	Controls      uint16
	TerminalIndex uint8
	Terminal      string
}

func ParseOutputTerminal2(b []byte) (*OutputTerminal2, error) {
	if len(b) < 9 {
		return nil, errShort("OutputTerminal2", 9, len(b))
	}
	return &OutputTerminal2{
		TerminalID:    b[0],
		TerminalType:  u16le(b[1:]),
		AssocTerminal: b[3],
		SourceID:      b[4],
		CSourceID:     b[5],
		Controls:      u16le(b[6:]),
		TerminalIndex: b[8],
	}, nil
}

func (t *OutputTerminal2) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	out = append(out, t.AssocTerminal, t.SourceID, t.CSourceID)
	out = appendU16(out, t.Controls)
	return append(out, t.TerminalIndex)
}

// OutputTerminal3 describes a UAC3 output terminal.
type OutputTerminal3 struct {
	TerminalID          uint8
	TerminalType        uint16
	AssocTerminal       uint8
	SourceID            uint8
	CSourceID           uint8
	Controls            uint32
	ExTerminalDescrID   uint16
	ConnectorsDescrID   uint16
	TerminalDescrString uint16
}

func ParseOutputTerminal3(b []byte) (*OutputTerminal3, error) {
	if len(b) < 16 {
		return nil, errShort("OutputTerminal3", 16, len(b))
	}
	return &OutputTerminal3{
		TerminalID:          b[0],
		TerminalType:        u16le(b[1:]),
		AssocTerminal:       b[3],
		SourceID:            b[4],
		CSourceID:           b[5],
		Controls:            u32le(b[6:]),
		ExTerminalDescrID:   u16le(b[10:]),
		ConnectorsDescrID:   u16le(b[12:]),
		TerminalDescrString: u16le(b[14:]),
	}, nil
}

func (t *OutputTerminal3) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	out = append(out, t.AssocTerminal, t.SourceID, t.CSourceID)
	out = appendU32(out, t.Controls)
	out = appendU16(out, t.ExTerminalDescrID)
	out = appendU16(out, t.ConnectorsDescrID)
	return appendU16(out, t.TerminalDescrString)
}

// ExtendedTerminalHeader is the UAC3 extended terminal descriptor
// header.
type ExtendedTerminalHeader struct {
	DescriptorID uint8
	NrChannels   uint8
}

func ParseExtendedTerminalHeader(b []byte) (*ExtendedTerminalHeader, error) {
	if len(b) < 2 {
		return nil, errShort("ExtendedTerminalHeader", 2, len(b))
	}
	return &ExtendedTerminalHeader{DescriptorID: b[0], NrChannels: b[1]}, nil
}

func (h *ExtendedTerminalHeader) Bytes() []byte {
	return []byte{h.DescriptorID, h.NrChannels}
}

// PowerDomain is the UAC3 power domain descriptor, listing the entities
// the domain controls and its wake-up recovery times.
type PowerDomain struct {
	PowerDomainID     uint8
	RecoveryTime1     uint16
	RecoveryTime2     uint16
	NrEntities        uint8
	EntityIDs         []uint8
	DomainDescrString uint16
}

func ParsePowerDomain(b []byte) (*PowerDomain, error) {
	if len(b) < 8 {
		return nil, errShort("PowerDomain", 8, len(b))
	}
	n := int(b[5])
	if len(b) < 8+n {
		return nil, errShort("PowerDomain entities", 8+n, len(b))
	}
	return &PowerDomain{
		PowerDomainID:     b[0],
		RecoveryTime1:     u16le(b[1:]),
		RecoveryTime2:     u16le(b[3:]),
		NrEntities:        b[5],
		EntityIDs:         append([]uint8(nil), b[6:6+n]...),
		DomainDescrString: u16le(b[6+n:]),
	}, nil
}

func (p *PowerDomain) Bytes() []byte {
	out := []byte{p.PowerDomainID}
	out = appendU16(out, p.RecoveryTime1)
	out = appendU16(out, p.RecoveryTime2)
	out = append(out, p.NrEntities)
	out = append(out, p.EntityIDs...)
	return appendU16(out, p.DomainDescrString)
}

// MixerUnit1 describes a UAC1 mixer unit.
type MixerUnit1 struct {
	UnitID            uint8
	NrInPins          uint8
	SourceIDs         []uint8
	NrChannels        uint8
	ChannelConfig     uint16
	ChannelNamesIndex uint8
	Controls          []uint8
	MixerIndex        uint8
	Mixer             string
}

func ParseMixerUnit1(b []byte) (*MixerUnit1, error) {
	if len(b) < 7 {
		return nil, errShort("MixerUnit1", 7, len(b))
	}
	p, c := int(b[1]), 0
	if 2+p < len(b) {
		c = int(b[2+p])
	}
	if len(b) < 7+p+c {
		return nil, errShort("MixerUnit1 pins and channels", 7+p+c, len(b))
	}
	return &MixerUnit1{
		UnitID:            b[0],
		NrInPins:          b[1],
		SourceIDs:         append([]uint8(nil), b[2:2+p]...),
		NrChannels:        b[2+p],
		ChannelConfig:     u16le(b[3+p:]),
		ChannelNamesIndex: b[5+p],
		Controls:          append([]uint8(nil), b[6+p:6+p+c]...),
		MixerIndex:        b[6+p+c],
	}, nil
}

func (m *MixerUnit1) Bytes() []byte {
	out := []byte{m.UnitID, m.NrInPins}
	out = append(out, m.SourceIDs...)
	out = append(out, m.NrChannels)
	out = appendU16(out, m.ChannelConfig)
	out = append(out, m.ChannelNamesIndex)
	out = append(out, m.Controls...)
	return append(out, m.MixerIndex)
}

// MixerUnit2 describes a UAC2 mixer unit.
type MixerUnit2 struct {
	UnitID            uint8
	NrInPins          uint8
	SourceIDs         []uint8
	NrChannels        uint8
	ChannelConfig     uint32
	ChannelNamesIndex uint8
	MixerControls     []uint8
	Controls          uint8
	MixerIndex        uint8
	Mixer             string
}

func ParseMixerUnit2(b []byte) (*MixerUnit2, error) {
	if len(b) < 10 {
		return nil, errShort("MixerUnit2", 10, len(b))
	}
	p, c := int(b[1]), 0
	if 2+p < len(b) {
		c = int(b[2+p])
	}
	if len(b) < 10+p+c {
		return nil, errShort("MixerUnit2 pins and channels", 10+p+c, len(b))
	}
	return &MixerUnit2{
		UnitID:            b[0],
		NrInPins:          b[1],
		SourceIDs:         append([]uint8(nil), b[2:2+p]...),
		NrChannels:        b[2+p],
		ChannelConfig:     u32le(b[3+p:]),
		ChannelNamesIndex: b[7+p],
		MixerControls:     append([]uint8(nil), b[8+p:8+p+c]...),
		Controls:          b[8+p+c],
		MixerIndex:        b[9+p+c],
	}, nil
}

func (m *MixerUnit2) Bytes() []byte {
	out := []byte{m.UnitID, m.NrInPins}
	out = append(out, m.SourceIDs...)
	out = append(out, m.NrChannels)
	out = appendU32(out, m.ChannelConfig)
	out = append(out, m.ChannelNamesIndex)
	out = append(out, m.MixerControls...)
	return append(out, m.Controls, m.MixerIndex)
}

// MixerUnit3 describes a UAC3 mixer unit.
type MixerUnit3 struct {
	UnitID           uint8
	NrInPins         uint8
	SourceIDs        []uint8
	ClusterDescrID   uint16
	MixerControls    uint8
	Controls         uint32
	MixerDescrString uint16
}

func ParseMixerUnit3(b []byte) (*MixerUnit3, error) {
	if len(b) < 11 {
		return nil, errShort("MixerUnit3", 11, len(b))
	}
	p := int(b[1])
	if len(b) < 11+p {
		return nil, errShort("MixerUnit3 pins", 11+p, len(b))
	}
	return &MixerUnit3{
		UnitID:           b[0],
		NrInPins:         b[1],
		SourceIDs:        append([]uint8(nil), b[2:2+p]...),
		ClusterDescrID:   u16le(b[2+p:]),
		MixerControls:    b[4+p],
		Controls:         u32le(b[5+p:]),
		MixerDescrString: u16le(b[9+p:]),
	}, nil
}

func (m *MixerUnit3) Bytes() []byte {
	out := []byte{m.UnitID, m.NrInPins}
	out = append(out, m.SourceIDs...)
	out = appendU16(out, m.ClusterDescrID)
	out = append(out, m.MixerControls)
	out = appendU32(out, m.Controls)
	return appendU16(out, m.MixerDescrString)
}

// SelectorUnit1 describes a UAC1 selector unit.
type SelectorUnit1 struct {
	UnitID        uint8
	NrInPins      uint8
	SourceIDs     []uint8
	SelectorIndex uint8
	Selector      string
}

func ParseSelectorUnit1(b []byte) (*SelectorUnit1, error) {
	if len(b) < 3 {
		return nil, errShort("SelectorUnit1", 3, len(b))
	}
	p := int(b[1])
	if len(b) < 3+p {
		return nil, errShort("SelectorUnit1 pins", 3+p, len(b))
	}
	return &SelectorUnit1{
		UnitID:        b[0],
		NrInPins:      b[1],
		SourceIDs:     append([]uint8(nil), b[2:2+p]...),
		SelectorIndex: b[2+p],
	}, nil
}

func (s *SelectorUnit1) Bytes() []byte {
	out := []byte{s.UnitID, s.NrInPins}
	out = append(out, s.SourceIDs...)
	return append(out, s.SelectorIndex)
}

// SelectorUnit2 describes a UAC2 selector unit.
type SelectorUnit2 struct {
	UnitID        uint8
	NrInPins      uint8
	SourceIDs     []uint8
	Controls      uint8
	SelectorIndex uint8
	Selector      string
}

func ParseSelectorUnit2(b []byte) (*SelectorUnit2, error) {
	if len(b) < 4 {
		return nil, errShort("SelectorUnit2", 4, len(b))
	}
	p := int(b[1])
	if len(b) < 4+p {
		return nil, errShort("SelectorUnit2 pins", 4+p, len(b))
	}
	return &SelectorUnit2{
		UnitID:        b[0],
		NrInPins:      b[1],
		SourceIDs:     append([]uint8(nil), b[2:2+p]...),
		Controls:      b[2+p],
		SelectorIndex: b[3+p],
	}, nil
}

func (s *SelectorUnit2) Bytes() []byte {
	out := []byte{s.UnitID, s.NrInPins}
	out = append(out, s.SourceIDs...)
	return append(out, s.Controls, s.SelectorIndex)
}

// SelectorUnit3 describes a UAC3 selector unit.
type SelectorUnit3 struct {
	UnitID              uint8
	NrInPins            uint8
	SourceIDs           []uint8
	Controls            uint32
	SelectorDescrString uint16
}

func ParseSelectorUnit3(b []byte) (*SelectorUnit3, error) {
	if len(b) < 8 {
		return nil, errShort("SelectorUnit3", 8, len(b))
	}
	p := int(b[1])
	if len(b) < 8+p {
		return nil, errShort("SelectorUnit3 pins", 8+p, len(b))
	}
	return &SelectorUnit3{
		UnitID:              b[0],
		NrInPins:            b[1],
		SourceIDs:           append([]uint8(nil), b[2:2+p]...),
		Controls:            u32le(b[2+p:]),
		SelectorDescrString: u16le(b[6+p:]),
	}, nil
}

func (s *SelectorUnit3) Bytes() []byte {
	out := []byte{s.UnitID, s.NrInPins}
	out = append(out, s.SourceIDs...)
	out = appendU32(out, s.Controls)
	return appendU16(out, s.SelectorDescrString)
}

// AudioProcessingUnitType classifies the algorithm of a processing
// unit; the numeric process type codes differ by protocol.
type AudioProcessingUnitType uint8

const (
	ProcessingTypeUndefined AudioProcessingUnitType = iota
	ProcessingTypeUpDownMix
	ProcessingTypeDolbyPrologic
	ProcessingTypeStereoExtender3D
	ProcessingTypeStereoExtender
	ProcessingTypeReverberation
	ProcessingTypeChorus
	ProcessingTypeDynRangeComp
	ProcessingTypeMultiFunction
)

var processingTypeDescription = map[AudioProcessingUnitType]string{
	ProcessingTypeUndefined:        "Undefined",
	ProcessingTypeUpDownMix:        "Up/Down-mix",
	ProcessingTypeDolbyPrologic:    "Dolby Prologic",
	ProcessingTypeStereoExtender3D: "3D Stereo Extender",
	ProcessingTypeStereoExtender:   "Stereo Extender",
	ProcessingTypeReverberation:    "Reverberation",
	ProcessingTypeChorus:           "Chorus",
	ProcessingTypeDynRangeComp:     "Dyn Range Comp",
	ProcessingTypeMultiFunction:    "Multi-Function",
}

func (t AudioProcessingUnitType) String() string {
	if d, ok := processingTypeDescription[t]; ok {
		return d
	}
	return "Undefined"
}

// ProcessingUnitType resolves a wire process type code under the given
// protocol.
func ProcessingUnitType(protocol UACProtocol, processType uint16) AudioProcessingUnitType {
	switch protocol {
	case UACProtocol1:
		switch processType {
		case 1:
			return ProcessingTypeUpDownMix
		case 2:
			return ProcessingTypeDolbyPrologic
		case 3:
			return ProcessingTypeStereoExtender3D
		case 4:
			return ProcessingTypeReverberation
		case 5:
			return ProcessingTypeChorus
		case 6:
			return ProcessingTypeDynRangeComp
		}
	case UACProtocol2:
		switch processType {
		case 1:
			return ProcessingTypeUpDownMix
		case 2:
			return ProcessingTypeDolbyPrologic
		case 3:
			return ProcessingTypeStereoExtender
		}
	case UACProtocol3:
		switch processType {
		case 1:
			return ProcessingTypeUpDownMix
		case 2:
			return ProcessingTypeStereoExtender
		case 3:
			return ProcessingTypeMultiFunction
		}
	}
	return ProcessingTypeUndefined
}

// ProcessingUnitExtended1 is the UAC1 mode list appended to up/down-mix
// and Dolby Prologic processing units.
type ProcessingUnitExtended1 struct {
	NrModes uint8
	Modes   []uint16
}

func ParseProcessingUnitExtended1(b []byte) (*ProcessingUnitExtended1, error) {
	if len(b) < 3 {
		return nil, errShort("ProcessingUnitExtended1", 3, len(b))
	}
	e := &ProcessingUnitExtended1{NrModes: b[0]}
	for i := 1; i+1 < len(b); i += 2 {
		e.Modes = append(e.Modes, u16le(b[i:]))
	}
	return e, nil
}

func (e *ProcessingUnitExtended1) Bytes() []byte {
	out := []byte{e.NrModes}
	for _, m := range e.Modes {
		out = appendU16(out, m)
	}
	return out
}

// ProcessingUnit1 describes a UAC1 processing unit. Up/down-mix and
// Dolby Prologic process types append a mode list after the base
// descriptor.
type ProcessingUnit1 struct {
	UnitID            uint8
	ProcessType       uint16
	NrInPins          uint8
	SourceIDs         []uint8
	NrChannels        uint8
	ChannelConfig     uint16
	ChannelNamesIndex uint8
	ControlSize       uint8
	Controls          []uint8
	ProcessingIndex   uint8
	ChannelNames      string
	Processing        string
	Specific          *ProcessingUnitExtended1
}

func ParseProcessingUnit1(b []byte) (*ProcessingUnit1, error) {
	if len(b) < 10 {
		return nil, errShort("ProcessingUnit1", 10, len(b))
	}
	p := int(b[3])
	if 8+p >= len(b) {
		return nil, errShort("ProcessingUnit1", 10+p, len(b))
	}
	cs := int(b[8+p])
	expected := 10 + p + cs
	if len(b) < expected {
		return nil, errShort("ProcessingUnit1 pins and controls", expected, len(b))
	}
	u := &ProcessingUnit1{
		UnitID:            b[0],
		ProcessType:       u16le(b[1:]),
		NrInPins:          b[3],
		SourceIDs:         append([]uint8(nil), b[4:4+p]...),
		NrChannels:        b[4+p],
		ChannelConfig:     u16le(b[5+p:]),
		ChannelNamesIndex: b[7+p],
		ControlSize:       b[8+p],
		Controls:          append([]uint8(nil), b[9+p:9+p+cs]...),
		ProcessingIndex:   b[expected-1],
	}
	if b[1] == 1 || b[1] == 2 {
		s, err := ParseProcessingUnitExtended1(b[expected:])
		if err != nil {
			return nil, err
		}
		u.Specific = s
	}
	return u, nil
}

func (u *ProcessingUnit1) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.ProcessType)
	out = append(out, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = append(out, u.NrChannels)
	out = appendU16(out, u.ChannelConfig)
	out = append(out, u.ChannelNamesIndex, u.ControlSize)
	out = append(out, u.Controls...)
	out = append(out, u.ProcessingIndex)
	if u.Specific != nil {
		out = append(out, u.Specific.Bytes()...)
	}
	return out
}

// ProcessingUnitModes2 is the UAC2 mode list appended to up/down-mix
// and Dolby Prologic processing units.
type ProcessingUnitModes2 struct {
	NrModes uint8
	Modes   []uint32
}

func ParseProcessingUnitModes2(b []byte) (*ProcessingUnitModes2, error) {
	if len(b) < 5 {
		return nil, errShort("ProcessingUnitModes2", 5, len(b))
	}
	m := &ProcessingUnitModes2{NrModes: b[0]}
	for i := 1; i+3 < len(b); i += 4 {
		m.Modes = append(m.Modes, u32le(b[i:]))
	}
	return m, nil
}

func (m *ProcessingUnitModes2) Bytes() []byte {
	out := []byte{m.NrModes}
	for _, mode := range m.Modes {
		out = appendU32(out, mode)
	}
	return out
}

// ProcessingUnit2 describes a UAC2 processing unit.
type ProcessingUnit2 struct {
	UnitID            uint8
	ProcessType       uint16
	NrInPins          uint8
	SourceIDs         []uint8
	NrChannels        uint8
	ChannelConfig     uint32
	ChannelNamesIndex uint8
	Controls          uint16
	ProcessingIndex   uint8
	ChannelNames      string
	Processing        string
	Specific          *ProcessingUnitModes2
}

func ParseProcessingUnit2(b []byte) (*ProcessingUnit2, error) {
	if len(b) < 13 {
		return nil, errShort("ProcessingUnit2", 13, len(b))
	}
	p := int(b[3])
	expected := 13 + p
	if len(b) < expected {
		return nil, errShort("ProcessingUnit2 pins", expected, len(b))
	}
	u := &ProcessingUnit2{
		UnitID:            b[0],
		ProcessType:       u16le(b[1:]),
		NrInPins:          b[3],
		SourceIDs:         append([]uint8(nil), b[4:4+p]...),
		NrChannels:        b[4+p],
		ChannelConfig:     u32le(b[5+p:]),
		ChannelNamesIndex: b[9+p],
		Controls:          u16le(b[10+p:]),
		ProcessingIndex:   b[12+p],
	}
	if b[1] == 1 || b[1] == 2 {
		s, err := ParseProcessingUnitModes2(b[expected:])
		if err != nil {
			return nil, err
		}
		u.Specific = s
	}
	return u, nil
}

func (u *ProcessingUnit2) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.ProcessType)
	out = append(out, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = append(out, u.NrChannels)
	out = appendU32(out, u.ChannelConfig)
	out = append(out, u.ChannelNamesIndex)
	out = appendU16(out, u.Controls)
	out = append(out, u.ProcessingIndex)
	if u.Specific != nil {
		out = append(out, u.Specific.Bytes()...)
	}
	return out
}

// ProcessingUnit3Specific is the process-type specific extension of a
// UAC3 processing unit: one of the UpDownMix, StereoExtender or
// MultiFunction shapes.
type ProcessingUnit3Specific interface {
	Payload
}

// ProcessingUnit3UpDownMix is the UAC3 up/down-mix extension.
type ProcessingUnit3UpDownMix struct {
	Controls        uint32
	NrModes         uint8
	ClusterDescrIDs []uint16
}

func ParseProcessingUnit3UpDownMix(b []byte) (*ProcessingUnit3UpDownMix, error) {
	if len(b) < 7 {
		return nil, errShort("ProcessingUnit3UpDownMix", 7, len(b))
	}
	u := &ProcessingUnit3UpDownMix{
		Controls: u32le(b),
		NrModes:  b[4],
	}
	for i := 5; i+1 < len(b); i += 2 {
		u.ClusterDescrIDs = append(u.ClusterDescrIDs, u16le(b[i:]))
	}
	return u, nil
}

func (u *ProcessingUnit3UpDownMix) Bytes() []byte {
	out := appendU32(nil, u.Controls)
	out = append(out, u.NrModes)
	for _, id := range u.ClusterDescrIDs {
		out = appendU16(out, id)
	}
	return out
}

// ProcessingUnit3StereoExtender is the UAC3 stereo extender extension.
type ProcessingUnit3StereoExtender struct {
	Controls uint32
}

func ParseProcessingUnit3StereoExtender(b []byte) (*ProcessingUnit3StereoExtender, error) {
	if len(b) < 4 {
		return nil, errShort("ProcessingUnit3StereoExtender", 4, len(b))
	}
	return &ProcessingUnit3StereoExtender{Controls: u32le(b)}, nil
}

func (u *ProcessingUnit3StereoExtender) Bytes() []byte {
	return appendU32(nil, u.Controls)
}

// ProcessingUnit3MultiFunction is the UAC3 multi-function extension.
// Algorithms is a bitmap of the supported processing algorithms.
type ProcessingUnit3MultiFunction struct {
	Controls       uint32
	ClusterDescrID uint16
	Algorithms     uint32
}

func ParseProcessingUnit3MultiFunction(b []byte) (*ProcessingUnit3MultiFunction, error) {
	if len(b) < 10 {
		return nil, errShort("ProcessingUnit3MultiFunction", 10, len(b))
	}
	return &ProcessingUnit3MultiFunction{
		Controls:       u32le(b),
		ClusterDescrID: u16le(b[4:]),
		Algorithms:     u32le(b[6:]),
	}, nil
}

func (u *ProcessingUnit3MultiFunction) Bytes() []byte {
	out := appendU32(nil, u.Controls)
	out = appendU16(out, u.ClusterDescrID)
	return appendU32(out, u.Algorithms)
}

// multiFunctionAlgorithms are the UAC3 multi-function algorithm bitmap
// names, LSB first.
var multiFunctionAlgorithms = []string{
	"Algorithm Undefined",
	"Beam Forming",
	"Acoustic Echo Cancellation",
	"Active Noise Cancellation",
	"Blind Source Separation",
	"Noise Suppression/Reduction",
}

// Algorithms lists the processing algorithms named by the bitmap.
func (u *ProcessingUnit3MultiFunction) AlgorithmNames() []string {
	return namesFromBitmap(u.Algorithms, multiFunctionAlgorithms)
}

// ProcessingUnit3 describes a UAC3 processing unit.
type ProcessingUnit3 struct {
	UnitID                uint8
	ProcessType           uint16
	NrInPins              uint8
	SourceIDs             []uint8
	ProcessingDescrString uint16
	Specific              ProcessingUnit3Specific
}

func ParseProcessingUnit3(b []byte) (*ProcessingUnit3, error) {
	if len(b) < 7 {
		return nil, errShort("ProcessingUnit3", 7, len(b))
	}
	p := int(b[3])
	expected := 7 + p
	if len(b) < expected {
		return nil, errShort("ProcessingUnit3 pins", expected, len(b))
	}
	u := &ProcessingUnit3{
		UnitID:                b[0],
		ProcessType:           u16le(b[1:]),
		NrInPins:              b[3],
		SourceIDs:             append([]uint8(nil), b[4:4+p]...),
		ProcessingDescrString: u16le(b[5+p:]),
	}
	var err error
	switch b[1] {
	case 1:
		u.Specific, err = ParseProcessingUnit3UpDownMix(b[expected:])
	case 2:
		u.Specific, err = ParseProcessingUnit3StereoExtender(b[expected:])
	case 3:
		u.Specific, err = ParseProcessingUnit3MultiFunction(b[expected:])
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *ProcessingUnit3) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.ProcessType)
	out = append(out, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = appendU16(out, u.ProcessingDescrString)
	if u.Specific != nil {
		out = append(out, u.Specific.Bytes()...)
	}
	return out
}

// EffectUnit2 describes a UAC2 effect unit. Controls carries one
// bitmap per logical channel.
type EffectUnit2 struct {
	UnitID      uint8
	EffectType  uint16
	SourceID    uint8
	Controls    []uint32
	EffectIndex uint8
	Effect      string
}

func ParseEffectUnit2(b []byte) (*EffectUnit2, error) {
	if len(b) < 9 {
		return nil, errShort("EffectUnit2", 9, len(b))
	}
	u := &EffectUnit2{
		UnitID:      b[0],
		EffectType:  u16le(b[1:]),
		SourceID:    b[3],
		EffectIndex: b[len(b)-1],
	}
	for i := 4; i+3 < len(b)-1; i += 4 {
		u.Controls = append(u.Controls, u32le(b[i:]))
	}
	return u, nil
}

func (u *EffectUnit2) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.EffectType)
	out = append(out, u.SourceID)
	for _, c := range u.Controls {
		out = appendU32(out, c)
	}
	return append(out, u.EffectIndex)
}

// EffectUnit3 describes a UAC3 effect unit.
type EffectUnit3 struct {
	UnitID            uint8
	EffectType        uint16
	SourceID          uint8
	Controls          []uint32
	EffectDescrString uint16
}

func ParseEffectUnit3(b []byte) (*EffectUnit3, error) {
	if len(b) < 10 {
		return nil, errShort("EffectUnit3", 10, len(b))
	}
	u := &EffectUnit3{
		UnitID:            b[0],
		EffectType:        u16le(b[1:]),
		SourceID:          b[3],
		EffectDescrString: u16le(b[len(b)-2:]),
	}
	for i := 4; i+3 < len(b)-2; i += 4 {
		u.Controls = append(u.Controls, u32le(b[i:]))
	}
	return u, nil
}

func (u *EffectUnit3) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.EffectType)
	out = append(out, u.SourceID)
	for _, c := range u.Controls {
		out = appendU32(out, c)
	}
	return appendU16(out, u.EffectDescrString)
}

// FeatureUnit1 describes a UAC1 feature unit: per-channel mute, volume
// and tone controls on its upstream audio path.
type FeatureUnit1 struct {
	UnitID       uint8
	SourceID     uint8
	ControlSize  uint8
	Controls     []uint8
	FeatureIndex uint8
	Feature      string
}

func ParseFeatureUnit1(b []byte) (*FeatureUnit1, error) {
	if len(b) < 4 {
		return nil, errShort("FeatureUnit1", 4, len(b))
	}
	cs := int(b[2])
	if len(b) < 4+cs {
		return nil, errShort("FeatureUnit1 controls", 4+cs, len(b))
	}
	return &FeatureUnit1{
		UnitID:       b[0],
		SourceID:     b[1],
		ControlSize:  b[2],
		Controls:     append([]uint8(nil), b[3:3+cs]...),
		FeatureIndex: b[3+cs],
	}, nil
}

func (u *FeatureUnit1) Bytes() []byte {
	out := []byte{u.UnitID, u.SourceID, u.ControlSize}
	out = append(out, u.Controls...)
	return append(out, u.FeatureIndex)
}

// FeatureUnit2 describes a UAC2 feature unit. Only the master channel
// control bitmap is decoded.
type FeatureUnit2 struct {
	UnitID       uint8
	SourceID     uint8
	Controls     [4]uint8
	FeatureIndex uint8
	Feature      string
}

func ParseFeatureUnit2(b []byte) (*FeatureUnit2, error) {
	if len(b) < 8 {
		return nil, errShort("FeatureUnit2", 8, len(b))
	}
	u := &FeatureUnit2{
		UnitID:       b[0],
		SourceID:     b[1],
		FeatureIndex: b[7],
	}
	copy(u.Controls[:], b[2:6])
	return u, nil
}

func (u *FeatureUnit2) Bytes() []byte {
	out := []byte{u.UnitID, u.SourceID}
	out = append(out, u.Controls[:]...)
	return append(out, u.FeatureIndex)
}

// FeatureUnit3 describes a UAC3 feature unit.
type FeatureUnit3 struct {
	UnitID             uint8
	SourceID           uint8
	Controls           [4]uint8
	FeatureDescrString uint16
}

func ParseFeatureUnit3(b []byte) (*FeatureUnit3, error) {
	if len(b) < 8 {
		return nil, errShort("FeatureUnit3", 8, len(b))
	}
	u := &FeatureUnit3{
		UnitID:             b[0],
		SourceID:           b[1],
		FeatureDescrString: u16le(b[6:]),
	}
	copy(u.Controls[:], b[2:6])
	return u, nil
}

func (u *FeatureUnit3) Bytes() []byte {
	out := []byte{u.UnitID, u.SourceID}
	out = append(out, u.Controls[:]...)
	return appendU16(out, u.FeatureDescrString)
}

// ExtensionUnit1 describes a UAC1 vendor extension unit.
type ExtensionUnit1 struct {
	UnitID            uint8
	ExtensionCode     uint16
	NrInPins          uint8
	SourceIDs         []uint8
	NrChannels        uint8
	ChannelConfig     uint16
	ChannelNamesIndex uint8
	ChannelNames      string
	ControlSize       uint8
	Controls          []uint8
	ExtensionIndex    uint8
	Extension         string
}

func ParseExtensionUnit1(b []byte) (*ExtensionUnit1, error) {
	if len(b) < 10 {
		return nil, errShort("ExtensionUnit1", 10, len(b))
	}
	p := int(b[3])
	if 8+p >= len(b) {
		return nil, errShort("ExtensionUnit1", 10+p, len(b))
	}
	cs := int(b[8+p])
	if len(b) < 10+p+cs {
		return nil, errShort("ExtensionUnit1 pins and controls", 10+p+cs, len(b))
	}
	return &ExtensionUnit1{
		UnitID:            b[0],
		ExtensionCode:     u16le(b[1:]),
		NrInPins:          b[3],
		SourceIDs:         append([]uint8(nil), b[4:4+p]...),
		NrChannels:        b[4+p],
		ChannelConfig:     u16le(b[5+p:]),
		ChannelNamesIndex: b[7+p],
		ControlSize:       b[8+p],
		Controls:          append([]uint8(nil), b[9+p:9+p+cs]...),
		ExtensionIndex:    b[9+p+cs],
	}, nil
}

func (u *ExtensionUnit1) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.ExtensionCode)
	out = append(out, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = append(out, u.NrChannels)
	out = appendU16(out, u.ChannelConfig)
	out = append(out, u.ChannelNamesIndex, u.ControlSize)
	out = append(out, u.Controls...)
	return append(out, u.ExtensionIndex)
}

// ExtensionUnit2 describes a UAC2 vendor extension unit.
type ExtensionUnit2 struct {
	UnitID            uint8
	ExtensionCode     uint16
	NrInPins          uint8
	SourceIDs         []uint8
	NrChannels        uint8
	ChannelConfig     uint32
	ChannelNamesIndex uint8
	ChannelNames      string
	Controls          uint8
	ExtensionIndex    uint8
	Extension         string
}

func ParseExtensionUnit2(b []byte) (*ExtensionUnit2, error) {
	if len(b) < 12 {
		return nil, errShort("ExtensionUnit2", 12, len(b))
	}
	p := int(b[3])
	if len(b) < 12+p {
		return nil, errShort("ExtensionUnit2 pins", 12+p, len(b))
	}
	return &ExtensionUnit2{
		UnitID:            b[0],
		ExtensionCode:     u16le(b[1:]),
		NrInPins:          b[3],
		SourceIDs:         append([]uint8(nil), b[4:4+p]...),
		NrChannels:        b[4+p],
		ChannelConfig:     u32le(b[5+p:]),
		ChannelNamesIndex: b[9+p],
		Controls:          b[10+p],
		ExtensionIndex:    b[11+p],
	}, nil
}

func (u *ExtensionUnit2) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.ExtensionCode)
	out = append(out, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = append(out, u.NrChannels)
	out = appendU32(out, u.ChannelConfig)
	return append(out, u.ChannelNamesIndex, u.Controls, u.ExtensionIndex)
}

// ExtensionUnit3 describes a UAC3 vendor extension unit.
type ExtensionUnit3 struct {
	UnitID               uint8
	ExtensionCode        uint16
	NrInPins             uint8
	SourceIDs            []uint8
	ExtensionDescrString uint16
	Controls             uint32
	ClusterDescrID       uint16
}

func ParseExtensionUnit3(b []byte) (*ExtensionUnit3, error) {
	if len(b) < 12 {
		return nil, errShort("ExtensionUnit3", 12, len(b))
	}
	p := int(b[3])
	if len(b) < 12+p {
		return nil, errShort("ExtensionUnit3 pins", 12+p, len(b))
	}
	return &ExtensionUnit3{
		UnitID:               b[0],
		ExtensionCode:        u16le(b[1:]),
		NrInPins:             b[3],
		SourceIDs:            append([]uint8(nil), b[4:4+p]...),
		ExtensionDescrString: u16le(b[4+p:]),
		Controls:             u32le(b[6+p:]),
		ClusterDescrID:       u16le(b[10+p:]),
	}, nil
}

func (u *ExtensionUnit3) Bytes() []byte {
	out := []byte{u.UnitID}
	out = appendU16(out, u.ExtensionCode)
	out = append(out, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = appendU16(out, u.ExtensionDescrString)
	out = appendU32(out, u.Controls)
	return appendU16(out, u.ClusterDescrID)
}

// ClockSource2 describes a UAC2 clock source entity.
type ClockSource2 struct {
	ClockID          uint8
	Attributes       uint8
	Controls         uint8
	AssocTerminal    uint8
	ClockSourceIndex uint8
	ClockSource      string
}

func ParseClockSource2(b []byte) (*ClockSource2, error) {
	if len(b) < 5 {
		return nil, errShort("ClockSource2", 5, len(b))
	}
	return &ClockSource2{
		ClockID:          b[0],
		Attributes:       b[1],
		Controls:         b[2],
		AssocTerminal:    b[3],
		ClockSourceIndex: b[4],
	}, nil
}

func (c *ClockSource2) Bytes() []byte {
	return []byte{c.ClockID, c.Attributes, c.Controls, c.AssocTerminal, c.ClockSourceIndex}
}

// ClockSource3 describes a UAC3 clock source entity.
type ClockSource3 struct {
	ClockID           uint8
	Attributes        uint8
	Controls          uint32
	ReferenceTerminal uint8
	ClockSourceString uint16
}

func ParseClockSource3(b []byte) (*ClockSource3, error) {
	if len(b) < 9 {
		return nil, errShort("ClockSource3", 9, len(b))
	}
	return &ClockSource3{
		ClockID:           b[0],
		Attributes:        b[1],
		Controls:          u32le(b[2:]),
		ReferenceTerminal: b[6],
		ClockSourceString: u16le(b[7:]),
	}, nil
}

func (c *ClockSource3) Bytes() []byte {
	out := []byte{c.ClockID, c.Attributes}
	out = appendU32(out, c.Controls)
	out = append(out, c.ReferenceTerminal)
	return appendU16(out, c.ClockSourceString)
}

// ClockSelector2 describes a UAC2 clock selector entity.
type ClockSelector2 struct {
	ClockID            uint8
	NrInPins           uint8
	CSourceIDs         []uint8
	Controls           uint8
	ClockSelectorIndex uint8
	ClockSelector      string
}

func ParseClockSelector2(b []byte) (*ClockSelector2, error) {
	if len(b) < 4 {
		return nil, errShort("ClockSelector2", 4, len(b))
	}
	p := int(b[1])
	if len(b) < 4+p {
		return nil, errShort("ClockSelector2 pins", 4+p, len(b))
	}
	return &ClockSelector2{
		ClockID:            b[0],
		NrInPins:           b[1],
		CSourceIDs:         append([]uint8(nil), b[2:2+p]...),
		Controls:           b[2+p],
		ClockSelectorIndex: b[3+p],
	}, nil
}

func (c *ClockSelector2) Bytes() []byte {
	out := []byte{c.ClockID, c.NrInPins}
	out = append(out, c.CSourceIDs...)
	return append(out, c.Controls, c.ClockSelectorIndex)
}

// ClockSelector3 describes a UAC3 clock selector entity.
type ClockSelector3 struct {
	ClockID              uint8
	NrInPins             uint8
	CSourceIDs           []uint8
	Controls             uint32
	CSelectorDescrString uint16
}

func ParseClockSelector3(b []byte) (*ClockSelector3, error) {
	if len(b) < 8 {
		return nil, errShort("ClockSelector3", 8, len(b))
	}
	p := int(b[1])
	if len(b) < 8+p {
		return nil, errShort("ClockSelector3 pins", 8+p, len(b))
	}
	return &ClockSelector3{
		ClockID:              b[0],
		NrInPins:             b[1],
		CSourceIDs:           append([]uint8(nil), b[2:2+p]...),
		Controls:             u32le(b[2+p:]),
		CSelectorDescrString: u16le(b[6+p:]),
	}, nil
}

func (c *ClockSelector3) Bytes() []byte {
	out := []byte{c.ClockID, c.NrInPins}
	out = append(out, c.CSourceIDs...)
	out = appendU32(out, c.Controls)
	return appendU16(out, c.CSelectorDescrString)
}

// ClockMultiplier2 describes a UAC2 clock multiplier entity.
type ClockMultiplier2 struct {
	ClockID              uint8
	CSourceID            uint8
	Controls             uint8
	ClockMultiplierIndex uint8
	ClockMultiplier      string
}

func ParseClockMultiplier2(b []byte) (*ClockMultiplier2, error) {
	if len(b) < 4 {
		return nil, errShort("ClockMultiplier2", 4, len(b))
	}
	return &ClockMultiplier2{
		ClockID:              b[0],
		CSourceID:            b[1],
		Controls:             b[2],
		ClockMultiplierIndex: b[3],
	}, nil
}

func (c *ClockMultiplier2) Bytes() []byte {
	return []byte{c.ClockID, c.CSourceID, c.Controls, c.ClockMultiplierIndex}
}

// ClockMultiplier3 describes a UAC3 clock multiplier entity.
type ClockMultiplier3 struct {
	ClockID                uint8
	CSourceID              uint8
	Controls               uint32
	CMultiplierDescrString uint16
}

func ParseClockMultiplier3(b []byte) (*ClockMultiplier3, error) {
	if len(b) < 8 {
		return nil, errShort("ClockMultiplier3", 8, len(b))
	}
	return &ClockMultiplier3{
		ClockID:                b[0],
		CSourceID:              b[1],
		Controls:               u32le(b[2:]),
		CMultiplierDescrString: u16le(b[6:]),
	}, nil
}

func (c *ClockMultiplier3) Bytes() []byte {
	out := []byte{c.ClockID, c.CSourceID}
	out = appendU32(out, c.Controls)
	return appendU16(out, c.CMultiplierDescrString)
}

// SampleRateConverter2 describes a UAC2 sample rate converter unit.
type SampleRateConverter2 struct {
	UnitID       uint8
	SourceID     uint8
	CSourceInID  uint8
	CSourceOutID uint8
	SRCIndex     uint8
	SRC          string
}

func ParseSampleRateConverter2(b []byte) (*SampleRateConverter2, error) {
	if len(b) < 5 {
		return nil, errShort("SampleRateConverter2", 5, len(b))
	}
	return &SampleRateConverter2{
		UnitID:       b[0],
		SourceID:     b[1],
		CSourceInID:  b[2],
		CSourceOutID: b[3],
		SRCIndex:     b[4],
	}, nil
}

func (s *SampleRateConverter2) Bytes() []byte {
	return []byte{s.UnitID, s.SourceID, s.CSourceInID, s.CSourceOutID, s.SRCIndex}
}

// SampleRateConverter3 describes a UAC3 sample rate converter unit.
type SampleRateConverter3 struct {
	UnitID         uint8
	SourceID       uint8
	CSourceInID    uint8
	CSourceOutID   uint8
	SRCDescrString uint16
}

func ParseSampleRateConverter3(b []byte) (*SampleRateConverter3, error) {
	if len(b) < 6 {
		return nil, errShort("SampleRateConverter3", 6, len(b))
	}
	return &SampleRateConverter3{
		UnitID:         b[0],
		SourceID:       b[1],
		CSourceInID:    b[2],
		CSourceOutID:   b[3],
		SRCDescrString: u16le(b[4:]),
	}, nil
}

func (s *SampleRateConverter3) Bytes() []byte {
	out := []byte{s.UnitID, s.SourceID, s.CSourceInID, s.CSourceOutID}
	return appendU16(out, s.SRCDescrString)
}
