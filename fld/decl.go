// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// New returns a Field or a MultiField from a declaration
func New(decl *inp.FieldDecl, flags Flags) (f Common, err error) {
	shape, err := NewShape(decl.Shape, decl.Dim)
	if err != nil {
		return nil, chk.Err("cannot declare field %q:\n%v", decl.Name, err)
	}
	if len(decl.Limits) != 0 && len(decl.Limits) != 2 {
		return nil, chk.Err("limits of field %q must have 2 values: [min, max]", decl.Name)
	}
	if shape.Kind == KindVectorRuntime {
		if len(decl.Components) == 0 {
			return nil, chk.Err("multi field %q requires component names", decl.Name)
		}
		m, e := NewMultiField(decl.Name, decl.Components)
		if e != nil {
			return nil, e
		}
		m.SetInputName(decl.GetInputName()).SetUnits(decl.Units).SetDefault(decl.Default).SetNoCheck(decl.NoCheck...).SetFlags(flags)
		if len(decl.Limits) == 2 {
			m.SetLimits(decl.Limits[0], decl.Limits[1])
		}
		return m, nil
	}
	g := NewField(decl.Name, shape)
	g.SetInputName(decl.GetInputName()).SetUnits(decl.Units).SetDefault(decl.Default).SetNoCheck(decl.NoCheck...).SetFlags(flags)
	if len(decl.Limits) == 2 {
		g.SetLimits(decl.Limits[0], decl.Limits[1])
	}
	return g, nil
}

// CopyFrom copies the input of src into dst; both must be of the same type
func CopyFrom(dst, src Common) error {
	switch d := dst.(type) {
	case *Field:
		if s, ok := src.(*Field); ok {
			return d.CopyFrom(s)
		}
	case *MultiField:
		if s, ok := src.(*MultiField); ok {
			return d.CopyFrom(s)
		}
	}
	return chk.Err("cannot copy field %q (%T) into field %q (%T): types differ", src.Name(), src, dst.Name(), dst)
}

// Parts returns the fields holding values of f: f itself or the components of a MultiField
func Parts(f Common) []*Field {
	switch t := f.(type) {
	case *Field:
		return []*Field{t}
	case *MultiField:
		return t.Subs
	}
	return nil
}
