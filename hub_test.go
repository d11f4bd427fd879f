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

func TestParseHubDescriptor(t *testing.T) {
	t.Parallel()
	// 4 port USB 2 hub, per-port power switching, removable bitmap
	b := []byte{0x09, 0x29, 0x04, 0x09, 0x00, 0x32, 0x64, 0x00, 0xff}
	hub, err := ParseHubDescriptor(b)
	require.NoError(t, err)
	assert.Equal(t, DescriptorTypeHub, hub.Type)
	assert.Equal(t, uint8(4), hub.NumPorts)
	assert.Equal(t, uint16(0x0009), hub.Characteristics)
	assert.Equal(t, uint8(0x32), hub.PowerOnToGood)
	assert.Equal(t, uint8(0x64), hub.ControlCurrent)
	assert.Equal(t, []byte{0x00, 0xff}, hub.Data)
	assert.Equal(t, b, hub.Bytes())

	_, err = ParseHubDescriptor(b[:5])
	var lenErr *DescriptorLengthError
	assert.ErrorAs(t, err, &lenErr)
}

func TestParseDeviceQualifier(t *testing.T) {
	t.Parallel()
	b := []byte{0x0a, 0x06, 0x00, 0x02, 0x00, 0x00, 0x00, 0x40, 0x01, 0x00}
	q, err := ParseDeviceQualifier(b)
	require.NoError(t, err)
	assert.Equal(t, USB_2_0, q.Version)
	assert.Equal(t, ClassPerInterface, q.Class)
	assert.Equal(t, uint8(64), q.MaxPacketSize)
	assert.Equal(t, uint8(1), q.NumConfigurations)
	assert.Equal(t, b, q.Bytes())

	// a truncated 9 byte read round-trips to 9 bytes, not 10
	short, err := ParseDeviceQualifier(b[:9])
	require.NoError(t, err)
	assert.False(t, short.HasReserved)
	assert.Equal(t, b[:9], short.Bytes())

	_, err = ParseDeviceQualifier(b[:8])
	var lenErr *DescriptorLengthError
	assert.ErrorAs(t, err, &lenErr)
}

func TestParseSecurityDescriptor(t *testing.T) {
	t.Parallel()
	b := []byte{0x05, 0x0c, 0x21, 0x00, 0x02}
	sec, err := ParseSecurityDescriptor(b)
	require.NoError(t, err)
	assert.Equal(t, DescriptorTypeSecurity, sec.Type)
	assert.Equal(t, uint16(0x0021), sec.TotalLength)
	assert.Equal(t, uint8(2), sec.NumEncryptionTypes)
	assert.Equal(t, b, sec.Bytes())

	_, err = ParseSecurityDescriptor(b[:4])
	var lenErr *DescriptorLengthError
	assert.ErrorAs(t, err, &lenErr)
}

func TestParseDebugDescriptor(t *testing.T) {
	t.Parallel()
	b := []byte{0x04, 0x0a, 0x81, 0x02}
	d, err := ParseDebugDescriptor(b)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x81), d.InEndpoint)
	assert.Equal(t, uint8(0x02), d.OutEndpoint)
	assert.Equal(t, b, d.Bytes())
}
