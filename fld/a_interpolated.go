// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// Interpolated implements values given at scattered points; cells take the value of the
// point nearest to their centroid
type Interpolated struct {
	ctx *Context       // context (for component selection)
	tab *inp.DataTable // table with points and values
	loc *PointLocator  // point locator
}

// add algorithm to factory
func init() {
	SetAllocator(inp.AlgoInterpolated, func() Algorithm { return new(Interpolated) })
}

// Init initialises algorithm
func (o *Interpolated) Init(dat *inp.FieldData, ctx *Context) (err error) {
	if ctx.Readers == nil {
		return chk.Err("cache of tables is not available")
	}
	o.tab, err = ctx.Readers.Get(dat.TablePath())
	if err != nil {
		return
	}
	if len(o.tab.Points) == 0 {
		return chk.Err("table %q has no points", dat.Table)
	}
	o.ctx = ctx
	o.loc = NewPointLocator(o.tab.Points)
	return
}

// SetTime does nothing
func (o *Interpolated) SetTime(t float64) bool { return false }

// Value returns the value at the point nearest to x
func (o *Interpolated) Value(res []float64, t float64, cid int, x []float64) error {
	idx, _ := o.loc.Nearest(x)
	if idx < 0 {
		return chk.Err("cannot locate point nearest to %v", x)
	}
	return o.ctx.row(res, o.tab.Values[idx])
}

// Result returns ResultOther
func (o *Interpolated) Result() Result { return ResultOther }

// TimeDependent returns false
func (o *Interpolated) TimeDependent() bool { return false }
