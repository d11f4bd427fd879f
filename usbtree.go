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

// Package usbtree builds a structured, navigable model of the USB buses,
// devices, configurations, interfaces and endpoints attached to a host.
//
// The package consumes raw descriptor bytes from a narrow Backend
// capability, decodes standard and class-specific descriptors into typed
// values, and assembles the flat device enumeration into a tree of Bus
// and Device nodes keyed by port path. On Linux the SysfsEnumerator
// reads the kernel's sysfs USB tree without any device access; other
// enumeration sources plug in through the Enumerator interface.
package usbtree

import (
	"github.com/sirupsen/logrus"
)

// log is the package logger. Descriptor decode problems are recoverable
// and reported here rather than failing the enclosing device.
var log = logrus.StandardLogger()

// SetLogger replaces the package logger. Passing nil restores the
// standard logrus logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	log = l
}
