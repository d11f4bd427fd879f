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

// lsusb lists the USB devices of the host in flat or tree form,
// reading the Linux sysfs USB tree.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jaypipes/pcidb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/usbtree/usbtree"
	"github.com/usbtree/usbtree/usbid"
)

var (
	flagTree    bool
	flagVerbose bool
	flagDebug   bool
	flagVendor  string
	flagProduct string
	flagBus     int
	flagName    string
	flagSerial  string
)

func main() {
	root := &cobra.Command{
		Use:   "lsusb",
		Short: "list USB devices",
		RunE:  run,
		Args:  cobra.NoArgs,
	}
	root.Flags().BoolVarP(&flagTree, "tree", "t", false, "dump the hierarchy as a tree")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "show configurations, interfaces and endpoints")
	root.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&flagVendor, "vendor", "", "filter by vendor id (hex)")
	root.Flags().StringVar(&flagProduct, "product", "", "filter by product id (hex)")
	root.Flags().IntVar(&flagBus, "bus", -1, "filter by bus number")
	root.Flags().StringVar(&flagName, "name", "", "filter by product name substring")
	root.Flags().StringVar(&flagSerial, "serial", "", "filter by serial substring")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	profile, err := usbtree.Profile(&usbtree.SysfsEnumerator{})
	if err != nil {
		return err
	}
	profile.Sort()
	usbid.FillNames(profile)

	filter, err := buildFilter()
	if err != nil {
		return err
	}
	if filter != nil {
		filter.Retain(profile)
	}

	if flagTree {
		printTree(profile)
		return nil
	}
	printFlat(profile)
	return nil
}

func buildFilter() (*usbtree.Filter, error) {
	f := &usbtree.Filter{Name: flagName, Serial: flagSerial}
	used := flagName != "" || flagSerial != ""
	if flagVendor != "" {
		v, err := strconv.ParseUint(flagVendor, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad vendor id %q: %w", flagVendor, err)
		}
		id := usbtree.ID(v)
		f.VendorID = &id
		used = true
	}
	if flagProduct != "" {
		p, err := strconv.ParseUint(flagProduct, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad product id %q: %w", flagProduct, err)
		}
		id := usbtree.ID(p)
		f.ProductID = &id
		used = true
	}
	if flagBus >= 0 {
		b := uint8(flagBus)
		f.Bus = &b
		used = true
	}
	if !used {
		return nil, nil
	}
	return f, nil
}

func deviceName(d *usbtree.Device) string {
	if d.Extra != nil && d.Extra.ProductName != "" {
		return fmt.Sprintf("%s %s", d.Extra.VendorName, d.Extra.ProductName)
	}
	if d.Name != "" {
		return d.Name
	}
	return usbid.Describe(d)
}

func printFlat(profile *usbtree.SystemProfile) {
	for _, d := range profile.FlattenedDevices() {
		fmt.Printf("Bus %03d Device %03d: ID %s:%s %s\n",
			d.Location.Bus, d.Location.Number, d.VendorID, d.ProductID, deviceName(d))
		if flagVerbose {
			printDetails(d, "  ")
		}
	}
}

func printDetails(d *usbtree.Device, indent string) {
	fmt.Printf("%s%s, USB %s, %s speed\n",
		indent, usbid.Classify(d.Class, d.SubClass, d.Protocol), d.USBVersion, d.Speed)
	if d.Extra == nil {
		return
	}
	for _, cfg := range d.Extra.Configurations {
		fmt.Printf("%sConfiguration %d: %s\n", indent, cfg.Number, cfg.MaxPower)
		for _, iface := range cfg.Interfaces {
			fmt.Printf("%s  Interface %d.%d: %s\n", indent, iface.Number, iface.Alternate,
				usbid.Classify(iface.Class, iface.SubClass, iface.Protocol))
			for _, ep := range iface.Endpoints {
				fmt.Printf("%s    Endpoint %d %s %s, %d bytes\n", indent,
					ep.Number(), ep.Direction(), ep.TransferType(), ep.MaxPacketSize)
			}
		}
	}
}

func printTree(profile *usbtree.SystemProfile) {
	pci, err := pcidb.New()
	if err != nil {
		logrus.Debugf("pcidb: %v", err)
		pci = nil
	}
	for _, bus := range profile.Buses {
		fmt.Printf("/: Bus %03d %s\n", bus.Number, busController(pci, bus))
		for _, d := range bus.Devices {
			printTreeDevice(d, 1)
		}
	}
}

func busController(pci *pcidb.PCIDB, bus *usbtree.Bus) string {
	if pci == nil || bus.PCIVendor == 0 {
		return bus.Name
	}
	vendorKey := fmt.Sprintf("%04x", bus.PCIVendor)
	vendor, ok := pci.Vendors[vendorKey]
	if !ok {
		return bus.Name
	}
	for _, product := range vendor.Products {
		if product.ID == fmt.Sprintf("%04x", bus.PCIDevice) {
			return fmt.Sprintf("%s %s", vendor.Name, product.Name)
		}
	}
	return vendor.Name
}

func printTreeDevice(d *usbtree.Device, depth int) {
	indent := strings.Repeat("    ", depth)
	fmt.Printf("%s|__ Port %s: Dev %d, ID %s:%s %s\n",
		indent, d.PortPath(), d.Location.Number, d.VendorID, d.ProductID, deviceName(d))
	for _, child := range d.Devices {
		printTreeDevice(child, depth+1)
	}
}
