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

// USB Video Class (UVC) descriptor decoding: the class-specific video
// control and video streaming interface descriptors of webcams and
// capture devices.

package usbtree

// VideoSubClass is the video interface subclass.
type VideoSubClass uint8

const (
	VideoSubClassControl             VideoSubClass = 0x01
	VideoSubClassStreaming           VideoSubClass = 0x02
	VideoSubClassInterfaceCollection VideoSubClass = 0x03
)

func (s VideoSubClass) String() string {
	switch s {
	case VideoSubClassControl:
		return "video control"
	case VideoSubClassStreaming:
		return "video streaming"
	case VideoSubClassInterfaceCollection:
		return "video interface collection"
	}
	return "unknown"
}

// VideoControlSubtype is the class-specific VC interface subtype.
type VideoControlSubtype uint8

const (
	VideoControlSubtypeUndefined      VideoControlSubtype = 0x00
	VideoControlSubtypeHeader         VideoControlSubtype = 0x01
	VideoControlSubtypeInputTerminal  VideoControlSubtype = 0x02
	VideoControlSubtypeOutputTerminal VideoControlSubtype = 0x03
	VideoControlSubtypeSelectorUnit   VideoControlSubtype = 0x04
	VideoControlSubtypeProcessingUnit VideoControlSubtype = 0x05
	VideoControlSubtypeExtensionUnit  VideoControlSubtype = 0x06
	VideoControlSubtypeEncodingUnit   VideoControlSubtype = 0x07
)

var videoControlSubtypeDescription = map[VideoControlSubtype]string{
	VideoControlSubtypeUndefined:      "undefined",
	VideoControlSubtypeHeader:         "header",
	VideoControlSubtypeInputTerminal:  "input terminal",
	VideoControlSubtypeOutputTerminal: "output terminal",
	VideoControlSubtypeSelectorUnit:   "selector unit",
	VideoControlSubtypeProcessingUnit: "processing unit",
	VideoControlSubtypeExtensionUnit:  "extension unit",
	VideoControlSubtypeEncodingUnit:   "encoding unit",
}

func (s VideoControlSubtype) String() string {
	if d, ok := videoControlSubtypeDescription[s]; ok {
		return d
	}
	return "undefined"
}

// VideoStreamingSubtype is the class-specific VS interface subtype.
// The headers, the still image frame and the color format are decoded;
// the per-codec format and frame descriptors between them are preserved
// raw.
type VideoStreamingSubtype uint8

const (
	VideoStreamingSubtypeUndefined       VideoStreamingSubtype = 0x00
	VideoStreamingSubtypeInputHeader     VideoStreamingSubtype = 0x01
	VideoStreamingSubtypeOutputHeader    VideoStreamingSubtype = 0x02
	VideoStreamingSubtypeStillImageFrame VideoStreamingSubtype = 0x03
	VideoStreamingSubtypeColorFormat     VideoStreamingSubtype = 0x0d
)

// InputTerminalTypeCamera is the wTerminalType of a camera sensor
// input terminal, which carries lens and control extras.
const InputTerminalTypeCamera = 0x0201

// VideoDescriptor is one class-specific descriptor of a video control
// or streaming interface.
type VideoDescriptor struct {
	Length   uint8
	Type     DescriptorType
	SubClass VideoSubClass
	Subtype  uint8
	Payload  Payload
}

func (d *VideoDescriptor) Bytes() []byte {
	out := []byte{d.Length, byte(d.Type), d.Subtype}
	return append(out, d.Payload.Bytes()...)
}

// decodeVideoChunk decodes one video class chunk under the owning
// interface's subclass.
func decodeVideoChunk(ctx ClassContext, gd GenericDescriptor) Descriptor {
	vd := &VideoDescriptor{
		Length:   gd.Length,
		Type:     gd.Type,
		SubClass: VideoSubClass(ctx.SubClass),
		Subtype:  gd.SubType,
	}
	var payload Payload
	var err error
	switch vd.SubClass {
	case VideoSubClassControl:
		payload, err = parseVideoControlPayload(VideoControlSubtype(gd.SubType), gd.Data)
	case VideoSubClassStreaming:
		payload, err = parseVideoStreamingPayload(VideoStreamingSubtype(gd.SubType), gd.Data)
	default:
		payload = GenericPayload(gd.Data)
	}
	if err != nil {
		log.Warnf("video descriptor subtype %#02x: %v", gd.SubType, err)
		payload = InvalidPayload(gd.Data)
	}
	vd.Payload = payload
	return vd
}

func parseVideoControlPayload(subtype VideoControlSubtype, b []byte) (Payload, error) {
	switch subtype {
	case VideoControlSubtypeHeader:
		return ParseVideoControlHeader(b)
	case VideoControlSubtypeInputTerminal:
		return ParseVideoInputTerminal(b)
	case VideoControlSubtypeOutputTerminal:
		return ParseVideoOutputTerminal(b)
	case VideoControlSubtypeSelectorUnit:
		return ParseVideoSelectorUnit(b)
	case VideoControlSubtypeProcessingUnit:
		return ParseVideoProcessingUnit(b)
	case VideoControlSubtypeExtensionUnit:
		return ParseVideoExtensionUnit(b)
	case VideoControlSubtypeEncodingUnit:
		return ParseVideoEncodingUnit(b)
	case VideoControlSubtypeUndefined:
		return UndefinedPayload(b), nil
	}
	return GenericPayload(b), nil
}

func parseVideoStreamingPayload(subtype VideoStreamingSubtype, b []byte) (Payload, error) {
	switch subtype {
	case VideoStreamingSubtypeInputHeader:
		return ParseVideoStreamingInputHeader(b)
	case VideoStreamingSubtypeOutputHeader:
		return ParseVideoStreamingOutputHeader(b)
	case VideoStreamingSubtypeStillImageFrame:
		return ParseVideoStillImageFrame(b)
	case VideoStreamingSubtypeColorFormat:
		return ParseVideoColorFormat(b)
	case VideoStreamingSubtypeUndefined:
		return UndefinedPayload(b), nil
	}
	return GenericPayload(b), nil
}

// VideoControlHeader is the class-specific VC interface header. The
// interface collection lists the streaming interfaces of the function.
type VideoControlHeader struct {
	Version        BCD
	TotalLength    uint16
	ClockFrequency uint32
	Collection     uint8
	Interfaces     []uint8
}

func ParseVideoControlHeader(b []byte) (*VideoControlHeader, error) {
	if len(b) < 9 {
		return nil, errShort("VideoControlHeader", 9, len(b))
	}
	n := int(b[8])
	if len(b) < 9+n {
		return nil, errShort("VideoControlHeader interfaces", 9+n, len(b))
	}
	return &VideoControlHeader{
		Version:        BCD(u16le(b)),
		TotalLength:    u16le(b[2:]),
		ClockFrequency: u32le(b[4:]),
		Collection:     b[8],
		Interfaces:     append([]uint8(nil), b[9:9+n]...),
	}, nil
}

func (h *VideoControlHeader) Bytes() []byte {
	out := appendU16(nil, uint16(h.Version))
	out = appendU16(out, h.TotalLength)
	out = appendU32(out, h.ClockFrequency)
	out = append(out, h.Collection)
	return append(out, h.Interfaces...)
}

// CameraTerminal holds the lens and control extras a camera sensor
// input terminal appends to the base terminal fields.
type CameraTerminal struct {
	ObjectiveFocalLengthMin uint16
	ObjectiveFocalLengthMax uint16
	OcularFocalLength       uint16
	ControlSize             uint8
	Controls                []uint8
}

// VideoInputTerminal describes a VC input terminal; camera sensor
// terminals carry the CameraTerminal extras.
type VideoInputTerminal struct {
	TerminalID    uint8
	TerminalType  uint16
	AssocTerminal uint8
	TerminalIndex uint8
	Terminal      string
	Camera        *CameraTerminal
}

func ParseVideoInputTerminal(b []byte) (*VideoInputTerminal, error) {
	if len(b) < 5 {
		return nil, errShort("VideoInputTerminal", 5, len(b))
	}
	t := &VideoInputTerminal{
		TerminalID:    b[0],
		TerminalType:  u16le(b[1:]),
		AssocTerminal: b[3],
		TerminalIndex: b[4],
	}
	if t.TerminalType == InputTerminalTypeCamera {
		if len(b) < 12 {
			return nil, errShort("VideoInputTerminal camera", 12, len(b))
		}
		cs := int(b[11])
		if len(b) < 12+cs {
			return nil, errShort("VideoInputTerminal camera controls", 12+cs, len(b))
		}
		t.Camera = &CameraTerminal{
			ObjectiveFocalLengthMin: u16le(b[5:]),
			ObjectiveFocalLengthMax: u16le(b[7:]),
			OcularFocalLength:       u16le(b[9:]),
			ControlSize:             b[11],
			Controls:                append([]uint8(nil), b[12:12+cs]...),
		}
	}
	return t, nil
}

func (t *VideoInputTerminal) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	out = append(out, t.AssocTerminal, t.TerminalIndex)
	if t.Camera != nil {
		out = appendU16(out, t.Camera.ObjectiveFocalLengthMin)
		out = appendU16(out, t.Camera.ObjectiveFocalLengthMax)
		out = appendU16(out, t.Camera.OcularFocalLength)
		out = append(out, t.Camera.ControlSize)
		out = append(out, t.Camera.Controls...)
	}
	return out
}

// VideoOutputTerminal describes a VC output terminal.
type VideoOutputTerminal struct {
	TerminalID    uint8
	TerminalType  uint16
	AssocTerminal uint8
	SourceID      uint8
	TerminalIndex uint8
	Terminal      string
}

func ParseVideoOutputTerminal(b []byte) (*VideoOutputTerminal, error) {
	if len(b) < 6 {
		return nil, errShort("VideoOutputTerminal", 6, len(b))
	}
	return &VideoOutputTerminal{
		TerminalID:    b[0],
		TerminalType:  u16le(b[1:]),
		AssocTerminal: b[3],
		SourceID:      b[4],
		TerminalIndex: b[5],
	}, nil
}

func (t *VideoOutputTerminal) Bytes() []byte {
	out := []byte{t.TerminalID}
	out = appendU16(out, t.TerminalType)
	return append(out, t.AssocTerminal, t.SourceID, t.TerminalIndex)
}

// VideoSelectorUnit describes a VC selector unit.
type VideoSelectorUnit struct {
	UnitID        uint8
	NrInPins      uint8
	SourceIDs     []uint8
	SelectorIndex uint8
	Selector      string
}

func ParseVideoSelectorUnit(b []byte) (*VideoSelectorUnit, error) {
	if len(b) < 3 {
		return nil, errShort("VideoSelectorUnit", 3, len(b))
	}
	p := int(b[1])
	if len(b) < 3+p {
		return nil, errShort("VideoSelectorUnit pins", 3+p, len(b))
	}
	return &VideoSelectorUnit{
		UnitID:        b[0],
		NrInPins:      b[1],
		SourceIDs:     append([]uint8(nil), b[2:2+p]...),
		SelectorIndex: b[2+p],
	}, nil
}

func (u *VideoSelectorUnit) Bytes() []byte {
	out := []byte{u.UnitID, u.NrInPins}
	out = append(out, u.SourceIDs...)
	return append(out, u.SelectorIndex)
}

// VideoProcessingUnit describes the VC processing unit: brightness,
// contrast, white balance and related image controls. The trailing
// video standards bitmap was added in UVC 1.1 and may be absent.
type VideoProcessingUnit struct {
	UnitID          uint8
	SourceID        uint8
	MaxMultiplier   uint16
	ControlSize     uint8
	Controls        []uint8
	ProcessingIndex uint8
	Processing      string
	VideoStandards  uint8
	HasStandards    bool
}

func ParseVideoProcessingUnit(b []byte) (*VideoProcessingUnit, error) {
	if len(b) < 7 {
		return nil, errShort("VideoProcessingUnit", 7, len(b))
	}
	cs := int(b[4])
	if len(b) < 6+cs {
		return nil, errShort("VideoProcessingUnit controls", 6+cs, len(b))
	}
	u := &VideoProcessingUnit{
		UnitID:          b[0],
		SourceID:        b[1],
		MaxMultiplier:   u16le(b[2:]),
		ControlSize:     b[4],
		Controls:        append([]uint8(nil), b[5:5+cs]...),
		ProcessingIndex: b[5+cs],
	}
	if len(b) > 6+cs {
		u.VideoStandards = b[6+cs]
		u.HasStandards = true
	}
	return u, nil
}

func (u *VideoProcessingUnit) Bytes() []byte {
	out := []byte{u.UnitID, u.SourceID}
	out = appendU16(out, u.MaxMultiplier)
	out = append(out, u.ControlSize)
	out = append(out, u.Controls...)
	out = append(out, u.ProcessingIndex)
	if u.HasStandards {
		out = append(out, u.VideoStandards)
	}
	return out
}

// VideoExtensionUnit describes a vendor extension unit, keyed by its
// extension GUID.
type VideoExtensionUnit struct {
	UnitID         uint8
	GUID           [16]byte
	NumControls    uint8
	NrInPins       uint8
	SourceIDs      []uint8
	ControlSize    uint8
	Controls       []uint8
	ExtensionIndex uint8
	Extension      string
}

func ParseVideoExtensionUnit(b []byte) (*VideoExtensionUnit, error) {
	if len(b) < 21 {
		return nil, errShort("VideoExtensionUnit", 21, len(b))
	}
	p := int(b[18])
	if len(b) < 20+p {
		return nil, errShort("VideoExtensionUnit pins", 20+p, len(b))
	}
	cs := int(b[19+p])
	if len(b) < 21+p+cs {
		return nil, errShort("VideoExtensionUnit controls", 21+p+cs, len(b))
	}
	u := &VideoExtensionUnit{
		UnitID:         b[0],
		NumControls:    b[17],
		NrInPins:       b[18],
		SourceIDs:      append([]uint8(nil), b[19:19+p]...),
		ControlSize:    b[19+p],
		Controls:       append([]uint8(nil), b[20+p:20+p+cs]...),
		ExtensionIndex: b[20+p+cs],
	}
	copy(u.GUID[:], b[1:17])
	return u, nil
}

func (u *VideoExtensionUnit) Bytes() []byte {
	out := []byte{u.UnitID}
	out = append(out, u.GUID[:]...)
	out = append(out, u.NumControls, u.NrInPins)
	out = append(out, u.SourceIDs...)
	out = append(out, u.ControlSize)
	out = append(out, u.Controls...)
	return append(out, u.ExtensionIndex)
}

// VideoEncodingUnit describes a UVC 1.5 encoding unit. The control
// bitmaps are 3 bytes each on the wire.
type VideoEncodingUnit struct {
	UnitID          uint8
	SourceID        uint8
	EncodingIndex   uint8
	Encoding        string
	Controls        uint32
	ControlsRuntime uint32
}

func ParseVideoEncodingUnit(b []byte) (*VideoEncodingUnit, error) {
	if len(b) < 9 {
		return nil, errShort("VideoEncodingUnit", 9, len(b))
	}
	return &VideoEncodingUnit{
		UnitID:          b[0],
		SourceID:        b[1],
		EncodingIndex:   b[2],
		Controls:        u24le(b[3:]),
		ControlsRuntime: u24le(b[6:]),
	}, nil
}

func (u *VideoEncodingUnit) Bytes() []byte {
	out := []byte{u.UnitID, u.SourceID, u.EncodingIndex}
	out = appendU24(out, u.Controls)
	return appendU24(out, u.ControlsRuntime)
}

// VideoStreamingInputHeader is the class-specific VS input header,
// leading the format descriptors of a video-in streaming interface.
// Controls holds one bitmap of ControlSize bytes per format.
type VideoStreamingInputHeader struct {
	NumFormats         uint8
	TotalLength        uint16
	EndpointAddress    uint8
	Info               uint8
	TerminalLink       uint8
	StillCaptureMethod uint8
	TriggerSupport     uint8
	TriggerUsage       uint8
	ControlSize        uint8
	Controls           []uint8
}

func ParseVideoStreamingInputHeader(b []byte) (*VideoStreamingInputHeader, error) {
	if len(b) < 10 {
		return nil, errShort("VideoStreamingInputHeader", 10, len(b))
	}
	n := int(b[0]) * int(b[9])
	if len(b) < 10+n {
		return nil, errShort("VideoStreamingInputHeader controls", 10+n, len(b))
	}
	return &VideoStreamingInputHeader{
		NumFormats:         b[0],
		TotalLength:        u16le(b[1:]),
		EndpointAddress:    b[3],
		Info:               b[4],
		TerminalLink:       b[5],
		StillCaptureMethod: b[6],
		TriggerSupport:     b[7],
		TriggerUsage:       b[8],
		ControlSize:        b[9],
		Controls:           append([]uint8(nil), b[10:10+n]...),
	}, nil
}

func (h *VideoStreamingInputHeader) Bytes() []byte {
	out := []byte{h.NumFormats}
	out = appendU16(out, h.TotalLength)
	out = append(out, h.EndpointAddress, h.Info, h.TerminalLink,
		h.StillCaptureMethod, h.TriggerSupport, h.TriggerUsage, h.ControlSize)
	return append(out, h.Controls...)
}

// VideoStreamingOutputHeader is the class-specific VS output header of
// a video-out streaming interface.
type VideoStreamingOutputHeader struct {
	NumFormats      uint8
	TotalLength     uint16
	EndpointAddress uint8
	TerminalLink    uint8
	ControlSize     uint8
	Controls        []uint8
}

func ParseVideoStreamingOutputHeader(b []byte) (*VideoStreamingOutputHeader, error) {
	if len(b) < 6 {
		return nil, errShort("VideoStreamingOutputHeader", 6, len(b))
	}
	n := int(b[0]) * int(b[5])
	if len(b) < 6+n {
		return nil, errShort("VideoStreamingOutputHeader controls", 6+n, len(b))
	}
	return &VideoStreamingOutputHeader{
		NumFormats:      b[0],
		TotalLength:     u16le(b[1:]),
		EndpointAddress: b[3],
		TerminalLink:    b[4],
		ControlSize:     b[5],
		Controls:        append([]uint8(nil), b[6:6+n]...),
	}, nil
}

func (h *VideoStreamingOutputHeader) Bytes() []byte {
	out := []byte{h.NumFormats}
	out = appendU16(out, h.TotalLength)
	out = append(out, h.EndpointAddress, h.TerminalLink, h.ControlSize)
	return append(out, h.Controls...)
}

// StillImageSize is one width/height pattern of a still image frame.
type StillImageSize struct {
	Width  uint16
	Height uint16
}

// VideoStillImageFrame lists the image size and compression patterns a
// streaming interface supports for still image capture.
type VideoStillImageFrame struct {
	EndpointAddress uint8
	ImageSizes      []StillImageSize
	Compressions    []uint8
}

func ParseVideoStillImageFrame(b []byte) (*VideoStillImageFrame, error) {
	if len(b) < 3 {
		return nil, errShort("VideoStillImageFrame", 3, len(b))
	}
	n := int(b[1])
	if len(b) < 3+4*n {
		return nil, errShort("VideoStillImageFrame sizes", 3+4*n, len(b))
	}
	f := &VideoStillImageFrame{EndpointAddress: b[0]}
	for i := 0; i < n; i++ {
		f.ImageSizes = append(f.ImageSizes, StillImageSize{
			Width:  u16le(b[2+4*i:]),
			Height: u16le(b[4+4*i:]),
		})
	}
	m := int(b[2+4*n])
	if len(b) < 3+4*n+m {
		return nil, errShort("VideoStillImageFrame compressions", 3+4*n+m, len(b))
	}
	f.Compressions = append([]uint8(nil), b[3+4*n:3+4*n+m]...)
	return f, nil
}

func (f *VideoStillImageFrame) Bytes() []byte {
	out := []byte{f.EndpointAddress, uint8(len(f.ImageSizes))}
	for _, s := range f.ImageSizes {
		out = appendU16(out, s.Width)
		out = appendU16(out, s.Height)
	}
	out = append(out, uint8(len(f.Compressions)))
	return append(out, f.Compressions...)
}

// VideoColorFormat describes the color matching of the formats that
// precede it: primaries, transfer characteristics and matrix
// coefficients.
type VideoColorFormat struct {
	ColorPrimaries          uint8
	TransferCharacteristics uint8
	MatrixCoefficients      uint8
}

func ParseVideoColorFormat(b []byte) (*VideoColorFormat, error) {
	if len(b) < 3 {
		return nil, errShort("VideoColorFormat", 3, len(b))
	}
	return &VideoColorFormat{
		ColorPrimaries:          b[0],
		TransferCharacteristics: b[1],
		MatrixCoefficients:      b[2],
	}, nil
}

func (c *VideoColorFormat) Bytes() []byte {
	return []byte{c.ColorPrimaries, c.TransferCharacteristics, c.MatrixCoefficients}
}
