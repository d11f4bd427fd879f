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

func streamingCtx(protocol UACProtocol) ClassContext {
	return ClassContext{
		Class:    ClassAudio,
		SubClass: uint8(AudioSubClassStreaming),
		Protocol: Protocol(protocol),
	}
}

// The General subtype is shared by the AS interface and the data
// endpoint; only the payload size tells them apart.
func TestStreamingGeneralDisambiguation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		protocol UACProtocol
		payload  []byte
		want     Payload
	}{
		{
			name:     "uac1 endpoint by size",
			protocol: UACProtocol1,
			payload:  []byte{0x01, 0x01, 0xe8, 0x03},
			want:     &DataStreamingEndpoint1{Attributes: 1, LockDelayUnits: LockDelayMilliseconds, LockDelay: 1000},
		},
		{
			name:     "uac1 interface",
			protocol: UACProtocol1,
			payload:  []byte{0x02, 0x01, 0x01, 0x00, 0x00},
			want:     &StreamingInterface1{TerminalLink: 2, Delay: 1, FormatTag: 1},
		},
		{
			name:     "uac2 endpoint by size",
			protocol: UACProtocol2,
			payload:  []byte{0x00, 0x00, 0x02, 0x08, 0x00},
			want:     &DataStreamingEndpoint2{LockDelayUnits: LockDelayDecodedPCMSamples, LockDelay: 8},
		},
		{
			name:     "uac2 interface",
			protocol: UACProtocol2,
			payload:  []byte{0x03, 0x05, 0x01, 0x01, 0x00, 0x00, 0x00, 0x02, 0x03, 0x00, 0x00, 0x00, 0x00},
			want: &StreamingInterface2{
				TerminalLink: 3, Controls: 5, FormatType: 1, Formats: 1,
				NrChannels: 2, ChannelConfig: 3,
			},
		},
		{
			name:     "uac3 endpoint by size",
			protocol: UACProtocol3,
			payload:  []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x40, 0x00},
			want:     &DataStreamingEndpoint3{Controls: 1, LockDelayUnits: LockDelayMilliseconds, LockDelay: 64},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			chunk := append([]byte{uint8(3 + len(tc.payload)), byte(DescriptorTypeClassInterface), uint8(StreamingSubtypeGeneral)}, tc.payload...)
			out := ParseExtra(streamingCtx(tc.protocol), chunk)
			require.Len(t, out, 1)
			ad, ok := out[0].(*AudioDescriptor)
			require.True(t, ok)
			assert.Equal(t, StreamingSubtypeGeneral, ad.StreamingSubtype())
			assert.Equal(t, tc.want, ad.Payload)
			assert.Equal(t, chunk, out[0].Bytes())
		})
	}
}

func TestParseStreamingFormat(t *testing.T) {
	t.Parallel()

	t.Run("uac1 type I discrete rates", func(t *testing.T) {
		t.Parallel()
		// stereo 16-bit PCM at 44100 and 48000 Hz
		b := []byte{0x01, 0x02, 0x02, 0x10, 0x02, 0x44, 0xac, 0x00, 0x80, 0xbb, 0x00}
		sf, err := ParseStreamingFormat(UACProtocol1, b)
		require.NoError(t, err)
		assert.Equal(t, FormatTypeI, sf.FormatType)
		f, ok := sf.Format.(*FormatTypeI1)
		require.True(t, ok)
		assert.Equal(t, uint8(2), f.NrChannels)
		assert.Equal(t, uint8(16), f.BitResolution)
		assert.Equal(t, []uint32{44100, 48000}, f.SampleFrequencies)
		assert.Equal(t, b, sf.Bytes())
	})

	t.Run("uac1 type I continuous range", func(t *testing.T) {
		t.Parallel()
		b := []byte{0x01, 0x01, 0x02, 0x10, 0x00, 0x40, 0x1f, 0x00, 0x80, 0xbb, 0x00}
		sf, err := ParseStreamingFormat(UACProtocol1, b)
		require.NoError(t, err)
		f, ok := sf.Format.(*FormatTypeI1)
		require.True(t, ok)
		assert.Equal(t, uint8(0), f.SampleFrequencyType)
		assert.Equal(t, []uint32{8000, 48000}, f.SampleFrequencies)
		assert.Equal(t, b, sf.Bytes())
	})

	t.Run("uac2 type I", func(t *testing.T) {
		t.Parallel()
		b := []byte{0x01, 0x04, 0x20}
		sf, err := ParseStreamingFormat(UACProtocol2, b)
		require.NoError(t, err)
		f, ok := sf.Format.(*FormatTypeI2)
		require.True(t, ok)
		assert.Equal(t, uint8(4), f.SubSlotSize)
		assert.Equal(t, uint8(32), f.BitResolution)
		assert.Equal(t, b, sf.Bytes())
	})

	t.Run("uac1 unknown type keeps raw payload", func(t *testing.T) {
		t.Parallel()
		b := []byte{0x04, 0xde, 0xad}
		sf, err := ParseStreamingFormat(UACProtocol1, b)
		require.NoError(t, err)
		assert.Equal(t, FormatTypeIV, sf.FormatType)
		_, ok := sf.Format.(UndefinedPayload)
		assert.True(t, ok)
		assert.Equal(t, b, sf.Bytes())
	})

	t.Run("truncated rate table fails", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStreamingFormat(UACProtocol1, []byte{0x01, 0x02, 0x02, 0x10, 0x02, 0x44, 0xac, 0x00})
		var lenErr *DescriptorLengthError
		assert.ErrorAs(t, err, &lenErr)
	})
}

func TestParseStreamingFormatSpecific(t *testing.T) {
	t.Parallel()

	t.Run("mpeg", func(t *testing.T) {
		t.Parallel()
		b := []byte{0x01, 0x10, 0x03, 0x00, 0x05}
		sfs, err := ParseStreamingFormatSpecific(b)
		require.NoError(t, err)
		f, ok := sfs.Format.(*FormatSpecificMPEG)
		require.True(t, ok)
		assert.Equal(t, uint16(3), f.Capabilities)
		assert.Equal(t, uint8(5), f.Features)
		assert.Equal(t, b, sfs.Bytes())
	})

	t.Run("ac3", func(t *testing.T) {
		t.Parallel()
		b := []byte{0x02, 0x10, 0xff, 0x00, 0x00, 0x00, 0x01}
		sfs, err := ParseStreamingFormatSpecific(b)
		require.NoError(t, err)
		f, ok := sfs.Format.(*FormatSpecificAC3)
		require.True(t, ok)
		assert.Equal(t, uint32(0xff), f.BSID)
		assert.Equal(t, b, sfs.Bytes())
	})

	t.Run("unknown tag keeps raw payload", func(t *testing.T) {
		t.Parallel()
		b := []byte{0x34, 0x12, 0xaa}
		sfs, err := ParseStreamingFormatSpecific(b)
		require.NoError(t, err)
		_, ok := sfs.Format.(UndefinedPayload)
		assert.True(t, ok)
		assert.Equal(t, b, sfs.Bytes())
	})
}
