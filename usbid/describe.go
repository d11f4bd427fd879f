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
	"fmt"

	"github.com/usbtree/usbtree"
)

// VendorName returns the vendor name for the id, or "".
func VendorName(vendor usbtree.ID) string {
	if v, ok := Vendors[vendor]; ok {
		return v.Name
	}
	return ""
}

// ProductName returns the product name for the vendor/product pair,
// or "".
func ProductName(vendor, product usbtree.ID) string {
	if v, ok := Vendors[vendor]; ok {
		if p, ok := v.Product[product]; ok {
			return p.Name
		}
	}
	return ""
}

// FillNames backfills VendorName and ProductName on every device of a
// profile from the id database. Devices without an id entry are left
// untouched; devices without an Extra get one so the names have a home.
func FillNames(p *usbtree.SystemProfile) {
	for _, d := range p.FlattenedDevices() {
		vendor := VendorName(d.VendorID)
		product := ProductName(d.VendorID, d.ProductID)
		if vendor == "" && product == "" {
			continue
		}
		if d.Extra == nil {
			d.Extra = &usbtree.DeviceExtra{}
		}
		d.Extra.VendorName = vendor
		d.Extra.ProductName = product
	}
}

// Describe returns a human readable "Product (Vendor)" string for a
// device, degrading to the raw ids when the database has no entry.
func Describe(d *usbtree.Device) string {
	if v, ok := Vendors[d.VendorID]; ok {
		if p, ok := v.Product[d.ProductID]; ok {
			return fmt.Sprintf("%s (%s)", p, v)
		}
		return fmt.Sprintf("Unknown (%s)", v)
	}
	return fmt.Sprintf("Unknown %s:%s", d.VendorID, d.ProductID)
}

// Classify returns a human readable class description for a class
// code triplet.
func Classify(class usbtree.Class, subclass uint8, protocol usbtree.Protocol) string {
	if c, ok := Classes[uint8(class)]; ok {
		if s, ok := c.SubClass[subclass]; ok {
			if p, ok := s.Protocol[uint8(protocol)]; ok {
				return fmt.Sprintf("%s (%s) %s", c, s, p)
			}
			return fmt.Sprintf("%s (%s)", c, s)
		}
		return c.String()
	}
	return fmt.Sprintf("Unknown %s.%02x.%s", class, subclass, protocol)
}
