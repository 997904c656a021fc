// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Formula implements values given by functions f(t, x) of the functions database
type Formula struct {
	fcns []dbf.T // one function per component
}

// add algorithm to factory
func init() {
	SetAllocator(inp.AlgoFormula, func() Algorithm { return new(Formula) })
}

// Init initialises algorithm
func (o *Formula) Init(dat *inp.FieldData, ctx *Context) (err error) {
	names := dat.Funcs
	if len(names) == 0 {
		return chk.Err("formula requires at least one function")
	}
	if ctx.Comp >= 0 && len(names) > 1 {
		if ctx.Comp >= len(names) {
			return chk.Err("formula has %d functions; component %d is required", len(names), ctx.Comp)
		}
		names = names[ctx.Comp : ctx.Comp+1]
	}
	ncomp := ctx.Shape.NComp()
	if ctx.Comp >= 0 {
		ncomp = 1
	}
	if len(names) != 1 && len(names) != ncomp {
		return chk.Err("formula of %v requires 1 or %d functions; %d given", ctx.Shape, ncomp, len(names))
	}
	o.fcns = make([]dbf.T, ncomp)
	for i := 0; i < ncomp; i++ {
		name := names[0]
		if len(names) > 1 {
			name = names[i]
		}
		o.fcns[i], err = ctx.Funcs.Get(name)
		if err != nil {
			return
		}
	}
	return
}

// SetTime returns true since functions may depend on time
func (o *Formula) SetTime(t float64) bool { return true }

// Value computes the functions at (t, x)
func (o *Formula) Value(res []float64, t float64, cid int, x []float64) error {
	for i, f := range o.fcns {
		res[i] = f.F(t, x)
	}
	return nil
}

// Result returns ResultOther
func (o *Formula) Result() Result { return ResultOther }

// TimeDependent returns true
func (o *Formula) TimeDependent() bool { return true }
