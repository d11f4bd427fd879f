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

package usbid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usbtree/usbtree"
)

const testDB = `
abcd  Vendor One
	0123  Product One
efef  Vendor Two

C 01  Audio
	01  Control Device
`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usb.ids")
	require.NoError(t, os.WriteFile(path, []byte(testDB), 0o644))
	require.NoError(t, LoadFromFile(path))

	assert.Equal(t, "Vendor One", VendorName(0xabcd))
	assert.Equal(t, "Product One", ProductName(0xabcd, 0x0123))
	assert.Equal(t, "", ProductName(0xefef, 0x9999))

	dev := &usbtree.Device{VendorID: 0xabcd, ProductID: 0x0123}
	assert.Equal(t, "Product One (Vendor One)", Describe(dev))
	assert.Equal(t, "Audio (Control Device)", Classify(usbtree.ClassAudio, 1, 0))
}

func TestLoadFromFileMissing(t *testing.T) {
	require.Error(t, LoadFromFile(filepath.Join(t.TempDir(), "nope.ids")))
}
