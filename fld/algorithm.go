// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// Algorithm defines how the values of a field are computed on one region
type Algorithm interface {
	Init(dat *inp.FieldData, ctx *Context) error                 // initialises algorithm from field descriptor
	SetTime(t float64) (changed bool)                            // updates time dependent data; returns whether values changed
	Value(res []float64, t float64, cid int, x []float64) error // computes value at cell cid with centroid x
	Result() Result                                              // classification of values
	TimeDependent() bool                                         // values may change without a new descriptor
}

// Context holds data needed to initialise algorithms
type Context struct {
	Field   string           // name of field (for messages)
	Shape   Shape            // shape of values
	Comp    int              // component of multi field; -1 => whole value
	Msh     *inp.Mesh        // mesh
	Funcs   inp.FuncsData    // functions database
	Readers *inp.ReaderCache // cache of data tables
}

// allocators holds all available algorithms
var allocators = make(map[string]func() Algorithm)

// SetAllocator sets a new algorithm allocator
func SetAllocator(name string, allocator func() Algorithm) {
	if _, ok := allocators[name]; ok {
		chk.Panic("cannot set allocator because algorithm named %q exists already", name)
	}
	allocators[name] = allocator
}

// NewAlgorithm allocates and initialises an algorithm from a field descriptor
func NewAlgorithm(dat *inp.FieldData, ctx *Context) (o Algorithm, err error) {
	name := dat.Algo()
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find algorithm named %q (field %q)", name, ctx.Field)
	}
	o = allocator()
	err = o.Init(dat, ctx)
	if err != nil {
		return nil, chk.Err("cannot initialise algorithm %q of field %q defined at time %g:\n%v", name, ctx.Field, dat.Time, err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// parse parses a JSON value and converts it to the shape of context
func (o *Context) parse(raw []byte) (val []float64, err error) {
	if len(raw) == 0 {
		return nil, chk.Err("value is missing")
	}
	vals, rank, ncol, err := inp.ParseValue(raw)
	if err != nil {
		return
	}
	return o.convert(vals, rank, ncol)
}

// convert converts parsed values to the shape of context, selecting the component of multi fields
func (o *Context) convert(vals []float64, rank, ncol int) (val []float64, err error) {
	if o.Comp >= 0 && rank > 0 {
		if rank != 1 {
			return nil, chk.Err("value of multi field component must be a scalar or a vector")
		}
		if o.Comp >= len(vals) {
			return nil, chk.Err("value has %d components; component %d is required", len(vals), o.Comp)
		}
		vals, rank, ncol = []float64{vals[o.Comp]}, 0, 1
	}
	return o.Shape.FromInput(vals, rank, ncol)
}

// row returns the values of component (or all components) in a table row
func (o *Context) row(res, row []float64) error {
	if o.Comp >= 0 {
		if o.Comp >= len(row) {
			return chk.Err("table row has %d columns; component %d is required", len(row), o.Comp)
		}
		res[0] = row[o.Comp]
		return nil
	}
	if len(row) != len(res) {
		return chk.Err("table row has %d columns; %d are required by %v", len(row), len(res), o.Shape)
	}
	copy(res, row)
	return nil
}
