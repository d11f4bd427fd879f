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
	"errors"
	"fmt"
)

// DescriptorLengthError reports a descriptor payload shorter than the
// decoded shape requires. It is recoverable at the caller: the chunk is
// preserved as an Invalid fallback and decoding continues.
type DescriptorLengthError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *DescriptorLengthError) Error() string {
	return fmt.Sprintf("%s descriptor reported %d bytes, got %d", e.Name, e.Expected, e.Actual)
}

// errShort builds the length-mismatch error every typed decoder returns
// when its fixed prefix or a count-driven region does not fit.
func errShort(name string, expected, actual int) error {
	return &DescriptorLengthError{Name: name, Expected: expected, Actual: actual}
}

// ErrParentNotFound is reported by Assemble when a non-root parent group
// has no node at its parent path. Depth-ascending insertion makes this
// impossible for well-formed port paths, so hitting it means the input
// topology is inconsistent.
var ErrParentNotFound = errors.New("parent node not found in bus tree")

// ErrNoBackend is returned when an operation requiring the backend
// capability is invoked without one.
var ErrNoBackend = errors.New("no usb backend available")
