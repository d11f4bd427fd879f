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
	"strconv"
	"strings"
)

// PortPath is the hierarchical address of a device: the bus number and
// the ordered hub port numbers traversed to reach it. An empty Ports
// sequence addresses the bus root (root hub).
type PortPath struct {
	Bus   uint8
	Ports []uint8
}

// ParsePortPath parses the Linux sysfs style path rendered by
// PortPath.String, e.g. "2-1.4.3". "2-0" addresses the root of bus 2.
func ParsePortPath(s string) (PortPath, error) {
	busStr, portsStr, ok := strings.Cut(s, "-")
	if !ok {
		return PortPath{}, fmt.Errorf("port path %q: missing bus separator", s)
	}
	bus, err := strconv.ParseUint(busStr, 10, 8)
	if err != nil {
		return PortPath{}, fmt.Errorf("port path %q: bad bus number: %w", s, err)
	}
	p := PortPath{Bus: uint8(bus)}
	if portsStr == "0" {
		return p, nil
	}
	for _, ps := range strings.Split(portsStr, ".") {
		port, err := strconv.ParseUint(ps, 10, 8)
		if err != nil {
			return PortPath{}, fmt.Errorf("port path %q: bad port number %q: %w", s, ps, err)
		}
		p.Ports = append(p.Ports, uint8(port))
	}
	return p, nil
}

// String renders the path in Linux sysfs style: bus number, a dash, then
// dot-joined port numbers. The bus root renders as "bus-0".
func (p PortPath) String() string {
	if len(p.Ports) == 0 {
		return fmt.Sprintf("%d-0", p.Bus)
	}
	ports := make([]string, len(p.Ports))
	for i, port := range p.Ports {
		ports[i] = strconv.Itoa(int(port))
	}
	return fmt.Sprintf("%d-%s", p.Bus, strings.Join(ports, "."))
}

// Depth is the number of hubs traversed from the bus root; 0 for the
// root itself, 1 for devices plugged directly into the root hub.
func (p PortPath) Depth() int {
	return len(p.Ports)
}

// IsRoot reports whether the path addresses the bus root.
func (p PortPath) IsRoot() bool {
	return len(p.Ports) == 0
}

// Parent returns the path of the hub the device is plugged into and
// false if the path is already the bus root.
func (p PortPath) Parent() (PortPath, bool) {
	if len(p.Ports) == 0 {
		return PortPath{}, false
	}
	parent := PortPath{Bus: p.Bus, Ports: make([]uint8, len(p.Ports)-1)}
	copy(parent.Ports, p.Ports[:len(p.Ports)-1])
	return parent, true
}

// Child returns the path of the device plugged into the given port of p.
func (p PortPath) Child(port uint8) PortPath {
	child := PortPath{Bus: p.Bus, Ports: make([]uint8, len(p.Ports), len(p.Ports)+1)}
	copy(child.Ports, p.Ports)
	child.Ports = append(child.Ports, port)
	return child
}

// Equal reports whether two paths address the same location.
func (p PortPath) Equal(o PortPath) bool {
	if p.Bus != o.Bus || len(p.Ports) != len(o.Ports) {
		return false
	}
	for i := range p.Ports {
		if p.Ports[i] != o.Ports[i] {
			return false
		}
	}
	return true
}

// Compare orders paths by (bus, ports) lexicographically, returning
// -1, 0 or 1 in the manner of strings.Compare.
func (p PortPath) Compare(o PortPath) int {
	if p.Bus != o.Bus {
		if p.Bus < o.Bus {
			return -1
		}
		return 1
	}
	n := len(p.Ports)
	if len(o.Ports) < n {
		n = len(o.Ports)
	}
	for i := 0; i < n; i++ {
		if p.Ports[i] != o.Ports[i] {
			if p.Ports[i] < o.Ports[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p.Ports) < len(o.Ports):
		return -1
	case len(p.Ports) > len(o.Ports):
		return 1
	}
	return 0
}

// LocationID is the device-local address used for sorting and keying:
// the bus number, the device address assigned by the host, and the port
// positions down the tree. It does not own any topology.
type LocationID struct {
	Bus           uint8
	Number        uint8
	TreePositions []uint8
}

// PortPath returns the port path addressed by the location.
func (l LocationID) PortPath() PortPath {
	return PortPath{Bus: l.Bus, Ports: l.TreePositions}
}

func (l LocationID) String() string {
	return l.PortPath().String()
}
