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

// filterProfile builds a two-bus profile: bus 1 has a hub chain ending
// in a mouse, plus a flash drive on the root; bus 2 has a camera.
func filterProfile() *SystemProfile {
	mouse := testDevice(1, 9, 1, 4, 3)
	mouse.VendorID = 0x046d
	mouse.ProductID = 0xc526
	mouse.Name = "USB Receiver"

	innerHub := testHub(1, 6, 1, 4)
	innerHub.Devices = []*Device{mouse}

	outerHub := testHub(1, 5, 1)
	outerHub.Devices = []*Device{innerHub}

	drive := testDevice(1, 7, 2)
	drive.VendorID = 0x0781
	drive.Name = "Ultra Fit"
	drive.Serial = "4C530000"

	camera := testDevice(2, 3, 1)
	camera.VendorID = 0x046d
	camera.Name = "HD Pro Webcam"

	return &SystemProfile{Buses: []*Bus{
		{Number: 1, Devices: []*Device{outerHub, drive}},
		{Number: 2, Devices: []*Device{camera}},
	}}
}

func TestFilterIsMatch(t *testing.T) {
	t.Parallel()
	vid := ID(0x046d)
	bus := uint8(2)

	tests := []struct {
		name   string
		filter Filter
		device *Device
		want   bool
	}{
		{"empty filter matches", Filter{}, &Device{Name: "anything"}, true},
		{"vendor match", Filter{VendorID: &vid}, &Device{VendorID: 0x046d}, true},
		{"vendor mismatch", Filter{VendorID: &vid}, &Device{VendorID: 0x0781}, false},
		{"bus match", Filter{Bus: &bus}, &Device{Location: LocationID{Bus: 2}}, true},
		{"name is case insensitive substring", Filter{Name: "webcam"}, &Device{Name: "HD Pro Webcam"}, true},
		{"serial substring", Filter{Serial: "4c53"}, &Device{Serial: "4C530000"}, true},
		{"serial mismatch", Filter{Serial: "ffff"}, &Device{Serial: "4C530000"}, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.filter.IsMatch(tc.device))
		})
	}
}

func TestFilterMatchClassThroughInterfaces(t *testing.T) {
	t.Parallel()
	class := ClassHID
	f := Filter{Class: &class}

	// composite device: class deferred to the interfaces
	d := &Device{
		Class: ClassPerInterface,
		Extra: &DeviceExtra{Configurations: []*Configuration{{
			Interfaces: []*Interface{
				{Number: 0, Class: ClassAudio},
				{Number: 1, Class: ClassHID},
			},
		}}},
	}
	assert.True(t, f.IsMatch(d))

	d.Extra.Configurations[0].Interfaces = d.Extra.Configurations[0].Interfaces[:1]
	assert.False(t, f.IsMatch(d))
}

func TestFilterRetainKeepsAncestors(t *testing.T) {
	t.Parallel()
	p := filterProfile()
	vid := ID(0x046d)
	pid := ID(0xc526)
	f := Filter{VendorID: &vid, ProductID: &pid}

	f.Retain(p)

	// the hub chain above the mouse survives, the drive does not
	bus := p.GetBus(1)
	require.Len(t, bus.Devices, 1)
	outer := bus.Devices[0]
	assert.Equal(t, uint8(5), outer.Location.Number)
	require.Len(t, outer.Devices, 1)
	inner := outer.Devices[0]
	require.Len(t, inner.Devices, 1)
	assert.Equal(t, uint8(9), inner.Devices[0].Location.Number)

	// bus 2 had no match and is left empty but present
	require.NotNil(t, p.GetBus(2))
	assert.True(t, p.GetBus(2).IsEmpty())
}

func TestFilterRetainExcludeEmptyHubs(t *testing.T) {
	t.Parallel()
	p := filterProfile()
	vid := ID(0x0781)
	f := Filter{VendorID: &vid, ExcludeEmptyHubs: true}

	f.Retain(p)

	// only the flash drive remains; the childless hub chain is dropped
	bus := p.GetBus(1)
	require.Len(t, bus.Devices, 1)
	assert.Equal(t, uint8(7), bus.Devices[0].Location.Number)
}

func TestFilterHideMarksWithoutRemoving(t *testing.T) {
	t.Parallel()
	p := filterProfile()
	f := Filter{Name: "webcam"}

	f.Hide(p)

	// nothing was removed
	assert.Len(t, p.FlattenedDevices(), 5)

	camera := p.GetNode(PortPath{Bus: 2, Ports: []uint8{1}})
	require.NotNil(t, camera)
	assert.False(t, camera.Hidden)

	// everything on bus 1 is hidden, including the hub chain
	for _, d := range p.GetBus(1).FlattenedDevices() {
		assert.True(t, d.Hidden, "device %d should be hidden", d.Location.Number)
	}
}

func TestFilterHideSubtreeMatchKeepsAncestorsVisible(t *testing.T) {
	t.Parallel()
	p := filterProfile()
	f := Filter{Name: "receiver"}

	f.Hide(p)

	// the mouse matches, so the hubs above it stay visible
	for _, ports := range [][]uint8{{1}, {1, 4}, {1, 4, 3}} {
		d := p.GetNode(PortPath{Bus: 1, Ports: ports})
		require.NotNil(t, d)
		assert.False(t, d.Hidden)
	}
	drive := p.GetNode(PortPath{Bus: 1, Ports: []uint8{2}})
	require.NotNil(t, drive)
	assert.True(t, drive.Hidden)
}
