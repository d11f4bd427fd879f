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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sysfsUSBPrefix is where the Linux kernel exposes enumerated USB
// devices.
const sysfsUSBPrefix = "/sys/bus/usb/devices/"

// SysfsEnumerator reads the USB tree from Linux sysfs. It needs no
// libusb and no device access beyond the attribute files the kernel
// already populated, so it works unprivileged; descriptor extra bytes
// come from each device's binary "descriptors" attribute.
type SysfsEnumerator struct {
	// Prefix overrides the sysfs device directory, for tests.
	Prefix string
}

func (e *SysfsEnumerator) prefix() string {
	if e.Prefix != "" {
		return e.Prefix
	}
	return sysfsUSBPrefix
}

type sysfsDevice struct {
	path string
}

func (d sysfsDevice) attr(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (d sysfsDevice) attrInt(name string, base int) (uint64, error) {
	s, err := d.attr(name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), base, 64)
}

func (d sysfsDevice) attrString(name string) string {
	s, err := d.attr(name)
	if err != nil {
		return ""
	}
	return s
}

// sysfsSpeed maps the kernel's speed attribute (Mbps as text) to a
// Speed.
func sysfsSpeed(s string) Speed {
	switch s {
	case "1.5":
		return SpeedLow
	case "12":
		return SpeedFull
	case "480":
		return SpeedHigh
	case "5000":
		return SpeedSuper
	case "10000", "20000":
		return SpeedSuperPlus
	}
	return SpeedUnknown
}

// Devices scans the sysfs device directory for port-path-named
// entries (root hubs "usbN" and interface nodes are skipped) and
// builds flat devices with decoded configurations.
func (e *SysfsEnumerator) Devices() ([]*Device, error) {
	entries, err := os.ReadDir(e.prefix())
	if err != nil {
		return nil, fmt.Errorf("sysfs: %w", err)
	}
	var devices []*Device
	for _, entry := range entries {
		name := entry.Name()
		// device nodes look like "2-1.4"; interfaces carry a colon
		if strings.HasPrefix(name, "usb") || strings.ContainsRune(name, ':') {
			continue
		}
		path, err := ParsePortPath(name)
		if err != nil {
			continue
		}
		dev, err := e.readDevice(name, path)
		if err != nil {
			log.Warnf("sysfs device %s: %v", name, err)
			continue
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func (e *SysfsEnumerator) readDevice(name string, path PortPath) (*Device, error) {
	sd := sysfsDevice{path: filepath.Join(e.prefix(), name)}

	devnum, err := sd.attrInt("devnum", 10)
	if err != nil {
		return nil, err
	}
	vid, err := sd.attrInt("idVendor", 16)
	if err != nil {
		return nil, err
	}
	pid, err := sd.attrInt("idProduct", 16)
	if err != nil {
		return nil, err
	}

	dev := &Device{
		Location: LocationID{
			Bus:           path.Bus,
			Number:        uint8(devnum),
			TreePositions: path.Ports,
		},
		VendorID:     ID(vid),
		ProductID:    ID(pid),
		Name:         sd.attrString("product"),
		Manufacturer: sd.attrString("manufacturer"),
		Serial:       sd.attrString("serial"),
		Speed:        sysfsSpeed(sd.attrString("speed")),
	}
	if class, err := sd.attrInt("bDeviceClass", 16); err == nil {
		dev.Class = Class(class)
	}
	if sub, err := sd.attrInt("bDeviceSubClass", 16); err == nil {
		dev.SubClass = uint8(sub)
	}
	if proto, err := sd.attrInt("bDeviceProtocol", 16); err == nil {
		dev.Protocol = Protocol(proto)
	}
	if ver, err := sd.attr("version"); err == nil {
		dev.USBVersion = parseSysfsVersion(ver)
	}

	if raw, err := os.ReadFile(filepath.Join(sd.path, "descriptors")); err == nil {
		dev.Extra = buildSysfsExtra(raw)
		if dev.Extra != nil {
			dev.Extra.SysPath = sd.path
			dev.Extra.Driver = readDriverLink(sd.path)
			e.fillInterfaceNodes(name, dev.Extra)
		}
	}
	return dev, nil
}

// fillInterfaceNodes attaches the kernel's per-interface node path and
// bound driver to each decoded interface. The kernel names interface
// nodes "<device>:<config value>.<interface number>"; every alternate
// setting of an interface shares one node.
func (e *SysfsEnumerator) fillInterfaceNodes(name string, extra *DeviceExtra) {
	for _, cfg := range extra.Configurations {
		for _, iface := range cfg.Interfaces {
			node := fmt.Sprintf("%s:%d.%d", name, cfg.Number, iface.Number)
			path := filepath.Join(e.prefix(), node)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			iface.SysPath = path
			iface.Driver = readDriverLink(path)
		}
	}
}

// buildSysfsExtra decodes the binary descriptors attribute: the
// device descriptor followed by every configuration blob.
func buildSysfsExtra(raw []byte) *DeviceExtra {
	if len(raw) < deviceDescLen {
		return nil
	}
	parsed, _, _, _, err := ParseDeviceDescriptor(raw)
	if err != nil {
		return nil
	}
	extra := parsed.Extra
	for off := deviceDescLen; off+configDescLen <= len(raw); {
		if DescriptorType(raw[off+1]) != DescriptorTypeConfig {
			break
		}
		total := int(u16le(raw[off+2:]))
		if total < configDescLen || off+total > len(raw) {
			break
		}
		cfg, err := ParseConfiguration(nil, raw[off:off+total])
		if err != nil {
			log.Warnf("sysfs configuration at offset %d: %v", off, err)
			break
		}
		extra.Configurations = append(extra.Configurations, cfg)
		off += total
	}
	return extra
}

// parseSysfsVersion parses the kernel's " 2.00" version attribute
// into a BCD.
func parseSysfsVersion(s string) BCD {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return 0
	}
	hi, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return 0
	}
	lo, err := strconv.ParseUint(minor, 16, 8)
	if err != nil {
		return 0
	}
	return BCD(hi<<8 | lo)
}

func readDriverLink(path string) string {
	target, err := os.Readlink(filepath.Join(path, "driver"))
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}

// Buses derives bus metadata from the root hub pseudo devices
// ("usbN" entries).
func (e *SysfsEnumerator) Buses() (map[uint8]*Bus, error) {
	entries, err := os.ReadDir(e.prefix())
	if err != nil {
		return nil, fmt.Errorf("sysfs: %w", err)
	}
	buses := make(map[uint8]*Bus)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "usb") {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimPrefix(name, "usb"), 10, 8)
		if err != nil {
			continue
		}
		sd := sysfsDevice{path: filepath.Join(e.prefix(), name)}
		bus := NewBus(uint8(n))
		if s := sd.attrString("product"); s != "" {
			bus.Name = s
		}
		bus.HostController = sd.attrString("manufacturer")

		// the root hub's parent is the PCI host controller
		pci := sysfsDevice{path: filepath.Join(sd.path, "..")}
		if vendor, err := pci.attrInt("vendor", 16); err == nil {
			bus.PCIVendor = uint16(vendor)
		}
		if device, err := pci.attrInt("device", 16); err == nil {
			bus.PCIDevice = uint16(device)
		}
		if rev, err := pci.attrInt("revision", 16); err == nil {
			bus.PCIRevision = uint16(rev)
		}
		buses[uint8(n)] = bus
	}
	return buses, nil
}
