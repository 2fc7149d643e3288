// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lang

import (
	"fmt"
)

// An Address is an absolute virtual address in the analyzed binary.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// A Label identifies a program location: an address, possibly qualified by an execution context (for example a
// call string). Labels are comparable and can be used as map keys.
type Label struct {
	Addr    Address
	Context string
}

// NewLabel returns the context-free label at address a.
func NewLabel(a Address) Label {
	return Label{Addr: a}
}

// WithAddress returns a label at address a in the same context as l.
func (l Label) WithAddress(a Address) Label {
	return Label{Addr: a, Context: l.Context}
}

func (l Label) String() string {
	if l.Context == "" {
		return l.Addr.String()
	}
	return fmt.Sprintf("%s@%s", l.Addr, l.Context)
}

// Compare orders labels by address first, and then by context. It returns -1, 0 or +1.
func (l Label) Compare(o Label) int {
	switch {
	case l.Addr < o.Addr:
		return -1
	case l.Addr > o.Addr:
		return 1
	case l.Context < o.Context:
		return -1
	case l.Context > o.Context:
		return 1
	default:
		return 0
	}
}

// Less returns true if l is strictly before o in the label order.
func (l Label) Less(o Label) bool {
	return l.Compare(o) < 0
}
