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

func TestEndpointAccessors(t *testing.T) {
	t.Parallel()
	in := &Endpoint{Address: 0x81, Attributes: 0x03, MaxPacketSize: 8}
	assert.Equal(t, 1, in.Number())
	assert.Equal(t, EndpointDirectionIn, in.Direction())
	assert.Equal(t, TransferTypeInterrupt, in.TransferType())

	out := &Endpoint{Address: 0x02, Attributes: 0x02}
	assert.Equal(t, 2, out.Number())
	assert.Equal(t, EndpointDirectionOut, out.Direction())
	assert.Equal(t, TransferTypeBulk, out.TransferType())
}

func TestConfigurationAttributes(t *testing.T) {
	t.Parallel()
	cfg := &Configuration{Attributes: 0xe0}
	assert.True(t, cfg.SelfPowered())
	assert.True(t, cfg.RemoteWakeup())

	cfg = &Configuration{Attributes: 0x80}
	assert.False(t, cfg.SelfPowered())
	assert.False(t, cfg.RemoteWakeup())
}

func TestDeviceIsRootHub(t *testing.T) {
	t.Parallel()
	root := &Device{Class: ClassHub, Location: LocationID{Bus: 1, Number: 0}}
	assert.True(t, root.IsRootHub())

	hub := testHub(1, 2, 1)
	assert.True(t, hub.IsHub())
	assert.False(t, hub.IsRootHub())
}

func TestSystemProfileSort(t *testing.T) {
	t.Parallel()
	p := &SystemProfile{Buses: []*Bus{
		{Number: 2, Devices: []*Device{testDevice(2, 5, 2), testDevice(2, 3, 1)}},
		{Number: 1},
	}}

	p.Sort()
	require.Len(t, p.Buses, 2)
	assert.Equal(t, uint8(1), p.Buses[0].Number)
	bus2 := p.Buses[1]
	assert.Equal(t, uint8(3), bus2.Devices[0].Location.Number)
	assert.Equal(t, uint8(5), bus2.Devices[1].Location.Number)

	// sorting again changes nothing
	before := p.FlattenedDevices()
	p.Sort()
	assert.Equal(t, before, p.FlattenedDevices())
}

func TestDeviceGetNode(t *testing.T) {
	t.Parallel()
	leaf := testDevice(1, 4, 1, 2)
	hub := testHub(1, 2, 1)
	hub.Devices = []*Device{leaf}

	assert.Equal(t, hub, hub.GetNode(PortPath{Bus: 1, Ports: []uint8{1}}))
	assert.Equal(t, leaf, hub.GetNode(PortPath{Bus: 1, Ports: []uint8{1, 2}}))
	assert.Nil(t, hub.GetNode(PortPath{Bus: 1, Ports: []uint8{3}}))
}
