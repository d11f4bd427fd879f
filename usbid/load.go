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
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/usbtree/usbtree"
)

// LinuxUsbDotOrg is the canonical source of the usb.ids database.
const LinuxUsbDotOrg = "http://www.linux-usb.org/usb.ids"

// Paths where distributions install usb.ids, in lookup order.
var systemPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/usr/share/misc/usb.ids",
	"/var/lib/usbutils/usb.ids",
}

var (
	// Vendors stores the vendor and product ID mappings. Empty until
	// a database is loaded.
	Vendors map[usbtree.ID]*Vendor

	// Classes stores the class, subclass and protocol mappings.
	Classes map[uint8]*Class
)

// LoadFromFile replaces the mappings with ones loaded from the given
// usb.ids file.
func LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ids, cls, err := ParseIDs(f)
	if err != nil {
		return err
	}

	Vendors = ids
	Classes = cls
	return nil
}

// LoadFromURL replaces the mappings with ones downloaded from the
// given URL, usually LinuxUsbDotOrg. Only needed when no system
// usb.ids is installed or it is stale.
func LoadFromURL(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	ids, cls, err := ParseIDs(resp.Body)
	if err != nil {
		return err
	}

	Vendors = ids
	Classes = cls
	return nil
}

func init() {
	for _, path := range systemPaths {
		if err := LoadFromFile(path); err == nil {
			return
		}
	}
	logrus.Debug("usbid: no system usb.ids database found, names unavailable")
}
