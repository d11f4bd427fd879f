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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlSubtypeForProtocol(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		subtype  uint8
		protocol UACProtocol
		want     ControlSubtype
	}{
		{"header is stable", 0x01, UACProtocol1, ControlSubtypeHeader},
		{"input terminal is stable", 0x02, UACProtocol2, ControlSubtypeInputTerminal},
		{"uac1 mixer", 0x04, UACProtocol1, ControlSubtypeMixerUnit},
		{"uac1 selector", 0x05, UACProtocol1, ControlSubtypeSelectorUnit},
		{"uac1 feature", 0x06, UACProtocol1, ControlSubtypeFeatureUnit},
		{"uac1 processing", 0x07, UACProtocol1, ControlSubtypeProcessingUnit},
		{"uac1 extension", 0x08, UACProtocol1, ControlSubtypeExtensionUnit},
		{"uac2 mixer", 0x04, UACProtocol2, ControlSubtypeMixerUnit},
		{"uac2 selector", 0x05, UACProtocol2, ControlSubtypeSelectorUnit},
		{"uac2 feature", 0x06, UACProtocol2, ControlSubtypeFeatureUnit},
		{"uac2 effect", 0x07, UACProtocol2, ControlSubtypeEffectUnit},
		{"uac2 processing", 0x08, UACProtocol2, ControlSubtypeProcessingUnit},
		{"uac2 extension", 0x09, UACProtocol2, ControlSubtypeExtensionUnit},
		{"uac2 clock source", 0x0a, UACProtocol2, ControlSubtypeClockSource},
		{"uac2 clock selector", 0x0b, UACProtocol2, ControlSubtypeClockSelector},
		{"uac2 clock multiplier", 0x0c, UACProtocol2, ControlSubtypeClockMultiplier},
		{"uac2 sample rate converter", 0x0d, UACProtocol2, ControlSubtypeSampleRateConverter},
		{"uac3 extended terminal", 0x04, UACProtocol3, ControlSubtypeExtendedTerminal},
		{"uac3 selector", 0x06, UACProtocol3, ControlSubtypeSelectorUnit},
		{"uac3 power domain", 0x10, UACProtocol3, ControlSubtypePowerDomain},
		{"uac3 out of range", 0x11, UACProtocol3, ControlSubtypeUndefined},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ControlSubtypeForProtocol(tc.subtype, tc.protocol))
		})
	}
}

func TestParseExtraAudioControl(t *testing.T) {
	t.Parallel()
	// UAC1 AC header (interface collection [1]) followed by a stereo
	// USB-streaming input terminal.
	extra := []byte{
		0x09, 0x24, 0x01, 0x00, 0x01, 0x27, 0x00, 0x01, 0x01,
		0x0c, 0x24, 0x02, 0x02, 0x01, 0x01, 0x00, 0x02, 0x03, 0x00, 0x00, 0x00,
	}
	ctx := ClassContext{Class: ClassAudio, SubClass: uint8(AudioSubClassControl), Protocol: 0}
	out := ParseExtra(ctx, extra)
	require.Len(t, out, 2)

	hdr, ok := out[0].(*AudioDescriptor)
	require.True(t, ok)
	assert.Equal(t, ControlSubtypeHeader, hdr.ControlSubtype())
	h1, ok := hdr.Payload.(*ControlHeader1)
	require.True(t, ok)
	assert.Equal(t, BCD(0x0100), h1.Version)
	assert.Equal(t, uint16(0x27), h1.TotalLength)
	assert.Equal(t, []uint8{1}, h1.Interfaces)

	term, ok := out[1].(*AudioDescriptor)
	require.True(t, ok)
	assert.Equal(t, ControlSubtypeInputTerminal, term.ControlSubtype())
	it, ok := term.Payload.(*InputTerminal1)
	require.True(t, ok)
	assert.Equal(t, uint8(2), it.TerminalID)
	assert.Equal(t, uint16(0x0101), it.TerminalType)
	assert.Equal(t, uint8(2), it.NrChannels)
	assert.Equal(t, uint16(0x0003), it.ChannelConfig)

	// both chunks re-encode to the bytes they came from
	assert.Equal(t, extra[:9], out[0].Bytes())
	assert.Equal(t, extra[9:], out[1].Bytes())
}

func TestParseExtraTruncatedRegion(t *testing.T) {
	t.Parallel()
	ctx := ClassContext{Class: ClassAudio, SubClass: uint8(AudioSubClassControl)}

	// second chunk claims 12 bytes but only 4 remain: the walk stops
	// and the decoded prefix survives
	extra := []byte{
		0x09, 0x24, 0x01, 0x00, 0x01, 0x0d, 0x00, 0x01, 0x01,
		0x0c, 0x24, 0x02, 0x02,
	}
	out := ParseExtra(ctx, extra)
	require.Len(t, out, 1)

	// a chunk length below 2 also stops the walk
	out = ParseExtra(ctx, []byte{0x01, 0x24, 0x02})
	assert.Empty(t, out)
}

func TestParseExtraInvalidPayloadPreserved(t *testing.T) {
	t.Parallel()
	ctx := ClassContext{Class: ClassAudio, SubClass: uint8(AudioSubClassControl)}

	// an input terminal chunk with too few payload bytes for its shape:
	// the chunk header survives with an InvalidPayload and re-encodes
	// losslessly
	chunk := []byte{0x06, 0x24, 0x02, 0x02, 0x01, 0x01}
	out := ParseExtra(ctx, chunk)
	require.Len(t, out, 1)
	ad, ok := out[0].(*AudioDescriptor)
	require.True(t, ok)
	_, ok = ad.Payload.(InvalidPayload)
	assert.True(t, ok)
	assert.Equal(t, chunk, out[0].Bytes())
}

func TestAudioControlRoundTrips(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		protocol    UACProtocol
		wireSubtype uint8
		payload     Payload
	}{
		{"header1", UACProtocol1, 0x01,
			&ControlHeader1{Version: 0x0100, TotalLength: 60, Collection: 2, Interfaces: []uint8{1, 2}}},
		{"header2", UACProtocol2, 0x01,
			&ControlHeader2{Version: 0x0200, Category: 0x08, TotalLength: 77, Controls: 0x03}},
		{"header3", UACProtocol3, 0x01,
			&ControlHeader3{Category: 0x01, TotalLength: 190, Controls: 0x0f}},
		{"input terminal1", UACProtocol1, 0x02,
			&InputTerminal1{TerminalID: 1, TerminalType: 0x0201, NrChannels: 1, ChannelConfig: 0x0001, TerminalIndex: 4}},
		{"input terminal2", UACProtocol2, 0x02,
			&InputTerminal2{TerminalID: 1, TerminalType: 0x0101, CSourceID: 9, NrChannels: 2, ChannelConfig: 0x3, Controls: 0x0c00}},
		{"output terminal1", UACProtocol1, 0x03,
			&OutputTerminal1{TerminalID: 3, TerminalType: 0x0301, SourceID: 2}},
		{"selector unit1", UACProtocol1, 0x05,
			&SelectorUnit1{UnitID: 5, NrInPins: 2, SourceIDs: []uint8{2, 4}, SelectorIndex: 6}},
		{"selector unit2", UACProtocol2, 0x05,
			&SelectorUnit2{UnitID: 5, NrInPins: 3, SourceIDs: []uint8{2, 4, 6}, Controls: 0x03}},
		{"feature unit1", UACProtocol1, 0x06,
			&FeatureUnit1{UnitID: 6, SourceID: 2, ControlSize: 2, Controls: []uint8{0x01, 0x02}, FeatureIndex: 0}},
		{"clock source2", UACProtocol2, 0x0a,
			&ClockSource2{ClockID: 9, Attributes: 0x01, Controls: 0x07, AssocTerminal: 0}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := tc.payload.Bytes()
			chunk := append([]byte{uint8(3 + len(raw)), byte(DescriptorTypeClassInterface), tc.wireSubtype}, raw...)
			ctx := ClassContext{
				Class:    ClassAudio,
				SubClass: uint8(AudioSubClassControl),
				Protocol: Protocol(tc.protocol),
			}
			out := ParseExtra(ctx, chunk)
			require.Len(t, out, 1)
			ad, ok := out[0].(*AudioDescriptor)
			require.True(t, ok)
			assert.IsType(t, tc.payload, ad.Payload)
			assert.Equal(t, tc.payload, ad.Payload)
			assert.Equal(t, chunk, out[0].Bytes())
		})
	}
}

func TestAudioControlParseEncodeSymmetry(t *testing.T) {
	t.Parallel()
	// decode concrete wire payloads and re-encode them byte for byte
	tests := []struct {
		name  string
		parse func([]byte) (Payload, error)
		raw   []byte
	}{
		{"input terminal1", func(b []byte) (Payload, error) { return ParseInputTerminal1(b) },
			[]byte{0x01, 0x01, 0x02, 0x00, 0x02, 0x03, 0x00, 0x00, 0x00}},
		{"feature unit1", func(b []byte) (Payload, error) { return ParseFeatureUnit1(b) },
			[]byte{0x06, 0x02, 0x01, 0x03, 0x00, 0x00}},
		{"selector unit1", func(b []byte) (Payload, error) { return ParseSelectorUnit1(b) },
			[]byte{0x05, 0x02, 0x02, 0x04, 0x00}},
		{"mixer unit1", func(b []byte) (Payload, error) { return ParseMixerUnit1(b) },
			[]byte{0x07, 0x02, 0x01, 0x04, 0x02, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"clock source2", func(b []byte) (Payload, error) { return ParseClockSource2(b) },
			[]byte{0x09, 0x01, 0x07, 0x00, 0x00}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := tc.parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.raw, p.Bytes())
		})
	}
}

func TestAudioControlParseShort(t *testing.T) {
	t.Parallel()
	parsers := map[string]func([]byte) error{
		"header1":          func(b []byte) error { _, err := ParseControlHeader1(b); return err },
		"header2":          func(b []byte) error { _, err := ParseControlHeader2(b); return err },
		"header3":          func(b []byte) error { _, err := ParseControlHeader3(b); return err },
		"input terminal1":  func(b []byte) error { _, err := ParseInputTerminal1(b); return err },
		"input terminal2":  func(b []byte) error { _, err := ParseInputTerminal2(b); return err },
		"input terminal3":  func(b []byte) error { _, err := ParseInputTerminal3(b); return err },
		"output terminal1": func(b []byte) error { _, err := ParseOutputTerminal1(b); return err },
		"selector unit1":   func(b []byte) error { _, err := ParseSelectorUnit1(b); return err },
		"feature unit1":    func(b []byte) error { _, err := ParseFeatureUnit1(b); return err },
		"feature unit2":    func(b []byte) error { _, err := ParseFeatureUnit2(b); return err },
		"clock source2":    func(b []byte) error { _, err := ParseClockSource2(b); return err },
	}
	for name, parse := range parsers {
		name, parse := name, parse
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := parse([]byte{0x01})
			var lenErr *DescriptorLengthError
			assert.ErrorAs(t, err, &lenErr)
		})
	}
}

func TestChannelNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		[]string{"Left Front (L)", "Right Front (R)"},
		ChannelNames(UACProtocol1, 0x0003))
	assert.Equal(t,
		[]string{"Front Center (FC)", "Low Frequency Effects (LFE)"},
		ChannelNames(UACProtocol2, 0x000c))
	assert.Nil(t, ChannelNames(UACProtocol3, 0x0003))
	assert.Nil(t, ChannelNames(UACProtocol1, 0))
}
