// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// Message records the use of a default value
type Message struct {
	Field     string // name of field
	InputName string // input name of field
	Region    string // region label
	Default   string // default value used
}

// Messages holds the table of default values used by fields
type Messages struct {
	List []Message
}

// Add adds a message
func (o *Messages) Add(field, inputName, region, dflt string) {
	o.List = append(o.List, Message{field, inputName, region, dflt})
}

// Len returns the number of messages
func (o *Messages) Len() int { return len(o.List) }

// String returns the table
func (o *Messages) String() string {
	if len(o.List) == 0 {
		return ""
	}
	nf, nr := len("field"), len("region")
	for _, m := range o.List {
		if len(m.InputName) > nf {
			nf = len(m.InputName)
		}
		if len(m.Region) > nr {
			nr = len(m.Region)
		}
	}
	var b bytes.Buffer
	io.Ff(&b, "Default values used:\n")
	io.Ff(&b, "%-*s %-*s value\n", nf, "field", nr, "region")
	for _, m := range o.List {
		io.Ff(&b, "%-*s %-*s %s\n", nf, m.InputName, nr, m.Region, m.Default)
	}
	return b.String()
}
