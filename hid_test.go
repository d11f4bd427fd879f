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

func TestParseHIDDescriptor(t *testing.T) {
	t.Parallel()
	// two report descriptor references
	chunk := []byte{
		0x0c, 0x21, 0x10, 0x01, 0x00, 0x02,
		0x22, 0x3f, 0x00,
		0x23, 0x10, 0x00,
	}
	hid, err := ParseHIDDescriptor(chunk)
	require.NoError(t, err)
	assert.Equal(t, BCD(0x0110), hid.Version)
	assert.Equal(t, HIDCountryCode(0), hid.CountryCode)
	assert.Equal(t, "not supported", hid.CountryCode.String())
	require.Len(t, hid.Descriptors, 2)
	assert.Equal(t, DescriptorTypeReport, hid.Descriptors[0].Type)
	assert.Equal(t, uint16(63), hid.Descriptors[0].Length)
	assert.Equal(t, uint16(16), hid.Descriptors[1].Length)
	assert.Equal(t, chunk, hid.Bytes())
}

func TestParseHIDDescriptorShort(t *testing.T) {
	t.Parallel()
	var lenErr *DescriptorLengthError

	_, err := ParseHIDDescriptor([]byte{0x09, 0x21, 0x10, 0x01})
	assert.ErrorAs(t, err, &lenErr)

	// claims two report references but carries one
	_, err = ParseHIDDescriptor([]byte{0x0c, 0x21, 0x10, 0x01, 0x00, 0x02, 0x22, 0x3f, 0x00})
	assert.ErrorAs(t, err, &lenErr)
}

func TestHIDCountryCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "US", HIDCountryCode(33).String())
	assert.Equal(t, "German", HIDCountryCode(9).String())
	assert.Equal(t, "Turkish-F", HIDCountryCode(35).String())
	assert.Equal(t, "unknown", HIDCountryCode(200).String())
}
