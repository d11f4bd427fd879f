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

func videoCtx(sub VideoSubClass) ClassContext {
	return ClassContext{Class: ClassVideo, SubClass: uint8(sub)}
}

func TestDecodeVideoControlHeader(t *testing.T) {
	t.Parallel()
	// UVC 1.1, 6 MHz clock, one streaming interface
	chunk := []byte{
		0x0d, 0x24, 0x01,
		0x10, 0x01, 0x4d, 0x00, 0x80, 0x8d, 0x5b, 0x00, 0x01, 0x01,
	}
	out := ParseExtra(videoCtx(VideoSubClassControl), chunk)
	require.Len(t, out, 1)
	vd, ok := out[0].(*VideoDescriptor)
	require.True(t, ok)
	assert.Equal(t, VideoSubClassControl, vd.SubClass)
	h, ok := vd.Payload.(*VideoControlHeader)
	require.True(t, ok)
	assert.Equal(t, BCD(0x0110), h.Version)
	assert.Equal(t, uint16(0x4d), h.TotalLength)
	assert.Equal(t, uint32(6000000), h.ClockFrequency)
	assert.Equal(t, []uint8{1}, h.Interfaces)
	assert.Equal(t, chunk, out[0].Bytes())
}

func TestDecodeVideoInputTerminal(t *testing.T) {
	t.Parallel()

	t.Run("camera terminal carries lens extras", func(t *testing.T) {
		t.Parallel()
		chunk := []byte{
			0x12, 0x24, 0x02,
			0x01, 0x01, 0x02, 0x00, 0x00, // id 1, type 0x0201, no assoc, no string
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // focal lengths
			0x03, 0x0e, 0x20, 0x00, // 3 control bytes
		}
		out := ParseExtra(videoCtx(VideoSubClassControl), chunk)
		require.Len(t, out, 1)
		vd := out[0].(*VideoDescriptor)
		term, ok := vd.Payload.(*VideoInputTerminal)
		require.True(t, ok)
		assert.Equal(t, uint16(InputTerminalTypeCamera), term.TerminalType)
		require.NotNil(t, term.Camera)
		assert.Equal(t, uint8(3), term.Camera.ControlSize)
		assert.Equal(t, []uint8{0x0e, 0x20, 0x00}, term.Camera.Controls)
		assert.Equal(t, chunk, out[0].Bytes())
	})

	t.Run("composite terminal has no extras", func(t *testing.T) {
		t.Parallel()
		chunk := []byte{0x08, 0x24, 0x02, 0x02, 0x01, 0x04, 0x00, 0x00}
		out := ParseExtra(videoCtx(VideoSubClassControl), chunk)
		require.Len(t, out, 1)
		term, ok := out[0].(*VideoDescriptor).Payload.(*VideoInputTerminal)
		require.True(t, ok)
		assert.Equal(t, uint16(0x0401), term.TerminalType)
		assert.Nil(t, term.Camera)
		assert.Equal(t, chunk, out[0].Bytes())
	})

	t.Run("camera terminal too short is invalid", func(t *testing.T) {
		t.Parallel()
		chunk := []byte{0x08, 0x24, 0x02, 0x01, 0x01, 0x02, 0x00, 0x00}
		out := ParseExtra(videoCtx(VideoSubClassControl), chunk)
		require.Len(t, out, 1)
		_, ok := out[0].(*VideoDescriptor).Payload.(InvalidPayload)
		assert.True(t, ok)
		assert.Equal(t, chunk, out[0].Bytes())
	})
}

func TestDecodeVideoProcessingUnit(t *testing.T) {
	t.Parallel()

	t.Run("uvc 1.1 with standards byte", func(t *testing.T) {
		t.Parallel()
		raw := []byte{0x03, 0x01, 0x00, 0x40, 0x02, 0x5b, 0x17, 0x00, 0x04}
		u, err := ParseVideoProcessingUnit(raw)
		require.NoError(t, err)
		assert.Equal(t, uint8(3), u.UnitID)
		assert.Equal(t, uint16(0x4000), u.MaxMultiplier)
		assert.Equal(t, []uint8{0x5b, 0x17}, u.Controls)
		assert.True(t, u.HasStandards)
		assert.Equal(t, uint8(0x04), u.VideoStandards)
		assert.Equal(t, raw, u.Bytes())
	})

	t.Run("uvc 1.0 without standards byte", func(t *testing.T) {
		t.Parallel()
		raw := []byte{0x03, 0x01, 0x00, 0x00, 0x02, 0x5b, 0x17, 0x00}
		u, err := ParseVideoProcessingUnit(raw)
		require.NoError(t, err)
		assert.False(t, u.HasStandards)
		assert.Equal(t, raw, u.Bytes())
	})
}

func TestDecodeVideoExtensionUnit(t *testing.T) {
	t.Parallel()
	guid := []byte{
		0x70, 0x33, 0xf0, 0x28, 0x11, 0x63, 0x2e, 0x4a,
		0xba, 0x2c, 0x68, 0x90, 0xeb, 0x33, 0x40, 0x16,
	}
	raw := []byte{0x06}
	raw = append(raw, guid...)
	raw = append(raw, 0x08, 0x01, 0x03) // 8 controls, 1 pin, source 3
	raw = append(raw, 0x01, 0xff, 0x00) // control size 1, bitmap, no string

	u, err := ParseVideoExtensionUnit(raw)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), u.UnitID)
	assert.Equal(t, guid, u.GUID[:])
	assert.Equal(t, uint8(8), u.NumControls)
	assert.Equal(t, []uint8{3}, u.SourceIDs)
	assert.Equal(t, []uint8{0xff}, u.Controls)
	assert.Equal(t, raw, u.Bytes())
}

func TestDecodeVideoStreamingHeaders(t *testing.T) {
	t.Parallel()

	t.Run("input header", func(t *testing.T) {
		t.Parallel()
		chunk := []byte{
			0x0f, 0x24, 0x01,
			0x02,       // two formats
			0x4d, 0x01, // total length
			0x81,       // endpoint
			0x00, 0x02, // info, terminal link
			0x01, 0x01, 0x00, // still capture, trigger support/usage
			0x01,       // control size
			0x00, 0x04, // one bitmap per format
		}
		out := ParseExtra(videoCtx(VideoSubClassStreaming), chunk)
		require.Len(t, out, 1)
		h, ok := out[0].(*VideoDescriptor).Payload.(*VideoStreamingInputHeader)
		require.True(t, ok)
		assert.Equal(t, uint8(2), h.NumFormats)
		assert.Equal(t, uint16(0x014d), h.TotalLength)
		assert.Equal(t, uint8(0x81), h.EndpointAddress)
		assert.Equal(t, []uint8{0x00, 0x04}, h.Controls)
		assert.Equal(t, chunk, out[0].Bytes())
	})

	t.Run("output header", func(t *testing.T) {
		t.Parallel()
		raw := []byte{0x01, 0x20, 0x00, 0x02, 0x03, 0x01, 0x00}
		h, err := ParseVideoStreamingOutputHeader(raw)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), h.NumFormats)
		assert.Equal(t, uint8(0x02), h.EndpointAddress)
		assert.Equal(t, []uint8{0x00}, h.Controls)
		assert.Equal(t, raw, h.Bytes())
	})

	t.Run("frame descriptors stay generic", func(t *testing.T) {
		t.Parallel()
		// VS_FORMAT_UNCOMPRESSED subtype has no decoder; payload stays raw
		chunk := []byte{0x05, 0x24, 0x04, 0x01, 0x01}
		out := ParseExtra(videoCtx(VideoSubClassStreaming), chunk)
		require.Len(t, out, 1)
		vd := out[0].(*VideoDescriptor)
		_, ok := vd.Payload.(GenericPayload)
		assert.True(t, ok)
		assert.Equal(t, chunk, out[0].Bytes())
	})
}

func TestDecodeVideoStillImageFrame(t *testing.T) {
	t.Parallel()
	chunk := []byte{
		0x0f, 0x24, 0x03,
		0x00,                   // method 2, no dedicated endpoint
		0x02,                   // two size patterns
		0x80, 0x02, 0xe0, 0x01, // 640x480
		0x00, 0x05, 0xd0, 0x02, // 1280x720
		0x01, 0x05, // one compression pattern
	}
	out := ParseExtra(videoCtx(VideoSubClassStreaming), chunk)
	require.Len(t, out, 1)
	f, ok := out[0].(*VideoDescriptor).Payload.(*VideoStillImageFrame)
	require.True(t, ok)
	assert.Equal(t, []StillImageSize{{640, 480}, {1280, 720}}, f.ImageSizes)
	assert.Equal(t, []uint8{5}, f.Compressions)
	assert.Equal(t, chunk, out[0].Bytes())

	// size table cut off mid-pattern
	var lenErr *DescriptorLengthError
	_, err := ParseVideoStillImageFrame(chunk[3:8])
	assert.ErrorAs(t, err, &lenErr)
}

func TestDecodeVideoColorFormat(t *testing.T) {
	t.Parallel()
	// BT.709/sRGB primaries, sRGB transfer, SMPTE 170M matrix
	chunk := []byte{0x06, 0x24, 0x0d, 0x01, 0x02, 0x04}
	out := ParseExtra(videoCtx(VideoSubClassStreaming), chunk)
	require.Len(t, out, 1)
	c, ok := out[0].(*VideoDescriptor).Payload.(*VideoColorFormat)
	require.True(t, ok)
	assert.Equal(t, uint8(1), c.ColorPrimaries)
	assert.Equal(t, uint8(2), c.TransferCharacteristics)
	assert.Equal(t, uint8(4), c.MatrixCoefficients)
	assert.Equal(t, chunk, out[0].Bytes())
}

func TestVideoEncodingUnitRoundTrip(t *testing.T) {
	t.Parallel()
	raw := []byte{0x07, 0x03, 0x00, 0x0f, 0x00, 0x00, 0x03, 0x00, 0x00}
	u, err := ParseVideoEncodingUnit(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0f), u.Controls)
	assert.Equal(t, uint32(0x03), u.ControlsRuntime)
	assert.Equal(t, raw, u.Bytes())

	var lenErr *DescriptorLengthError
	_, err = ParseVideoEncodingUnit(raw[:5])
	assert.ErrorAs(t, err, &lenErr)
}
