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

import "strings"

// Filter selects devices in an assembled profile. Nil pointer fields
// are wildcards; Name and Serial match as case-insensitive substrings.
type Filter struct {
	VendorID  *ID
	ProductID *ID
	Bus       *uint8
	Name      string
	Serial    string
	Class     *Class

	// ExcludeEmptyHubs drops hubs left without children by Retain.
	ExcludeEmptyHubs bool
}

// IsMatch reports whether the device itself satisfies the filter,
// ignoring descendants.
func (f *Filter) IsMatch(d *Device) bool {
	if f.VendorID != nil && *f.VendorID != d.VendorID {
		return false
	}
	if f.ProductID != nil && *f.ProductID != d.ProductID {
		return false
	}
	if f.Bus != nil && *f.Bus != d.Location.Bus {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Serial != "" && !strings.Contains(strings.ToLower(d.Serial), strings.ToLower(f.Serial)) {
		return false
	}
	if f.Class != nil && !f.matchClass(d) {
		return false
	}
	return true
}

// matchClass checks the device class and, for composite devices that
// defer class to their interfaces, every interface class.
func (f *Filter) matchClass(d *Device) bool {
	if d.Class == *f.Class {
		return true
	}
	if d.Extra == nil {
		return false
	}
	for _, c := range d.Extra.Configurations {
		for _, i := range c.Interfaces {
			if i.Class == *f.Class {
				return true
			}
		}
	}
	return false
}

// Retain prunes the profile, removing every device subtree with no
// matching device in it. Ancestors of a match are kept even when they
// do not match themselves. Buses are kept, possibly empty.
func (f *Filter) Retain(p *SystemProfile) {
	for _, b := range p.Buses {
		b.Devices = f.retainDevices(b.Devices)
	}
}

// retainDevices decides children before parents so a hub's fate
// follows its pruned subtree.
func (f *Filter) retainDevices(devices []*Device) []*Device {
	kept := devices[:0]
	for _, d := range devices {
		d.Devices = f.retainDevices(d.Devices)
		if f.ExcludeEmptyHubs && d.IsHub() && len(d.Devices) == 0 {
			continue
		}
		if f.IsMatch(d) || len(d.Devices) > 0 {
			kept = append(kept, d)
		}
	}
	return kept
}

// Hide marks every device with no match in its subtree as hidden,
// without removing anything. Used by live views where removal would
// lose device identity across refreshes.
func (f *Filter) Hide(p *SystemProfile) {
	for _, b := range p.Buses {
		for _, d := range b.Devices {
			f.hideDevice(d)
		}
	}
}

func (f *Filter) hideDevice(d *Device) bool {
	visible := f.IsMatch(d)
	for _, child := range d.Devices {
		if f.hideDevice(child) {
			visible = true
		}
	}
	d.Hidden = !visible
	return visible
}
