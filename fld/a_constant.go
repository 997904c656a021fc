// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// Constant implements values that are constant in space and time
type Constant struct {
	val []float64 // value
	res Result    // classification
}

// add algorithm to factory
func init() {
	SetAllocator(inp.AlgoConstant, func() Algorithm { return new(Constant) })
}

// NewConstant returns a constant algorithm from a JSON text; e.g. a default value
func NewConstant(text string, ctx *Context) (o *Constant, err error) {
	o = new(Constant)
	o.val, err = ctx.parse([]byte(text))
	if err != nil {
		return nil, chk.Err("cannot parse value %q of field %q:\n%v", text, ctx.Field, err)
	}
	o.res = Classify(ctx.Shape, o.val)
	return
}

// Init initialises algorithm
func (o *Constant) Init(dat *inp.FieldData, ctx *Context) (err error) {
	o.val, err = ctx.parse(dat.Value)
	if err != nil {
		return
	}
	o.res = Classify(ctx.Shape, o.val)
	return
}

// SetTime does nothing
func (o *Constant) SetTime(t float64) bool { return false }

// Value returns the constant value
func (o *Constant) Value(res []float64, t float64, cid int, x []float64) error {
	copy(res, o.val)
	return nil
}

// Result returns the classification of value
func (o *Constant) Result() Result { return o.res }

// TimeDependent returns false
func (o *Constant) TimeDependent() bool { return false }

// Values returns the value
func (o *Constant) Values() []float64 { return o.val }
