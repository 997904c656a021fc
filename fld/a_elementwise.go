// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// Elementwise implements values given cell by cell
type Elementwise struct {
	ctx *Context       // context (for component selection)
	tab *inp.DataTable // table with one row per cell
}

// add algorithm to factory
func init() {
	SetAllocator(inp.AlgoElementwise, func() Algorithm { return new(Elementwise) })
}

// Init initialises algorithm
func (o *Elementwise) Init(dat *inp.FieldData, ctx *Context) (err error) {
	if ctx.Readers == nil {
		return chk.Err("cache of tables is not available")
	}
	o.tab, err = ctx.Readers.Get(dat.TablePath())
	if err != nil {
		return
	}
	if ctx.Msh != nil && len(o.tab.Values) < len(ctx.Msh.Cells) {
		return chk.Err("table %q has %d rows but mesh has %d cells", dat.Table, len(o.tab.Values), len(ctx.Msh.Cells))
	}
	o.ctx = ctx
	return
}

// SetTime does nothing
func (o *Elementwise) SetTime(t float64) bool { return false }

// Value returns the row of cell
func (o *Elementwise) Value(res []float64, t float64, cid int, x []float64) error {
	if cid < 0 || cid >= len(o.tab.Values) {
		return chk.Err("table has no row for cell %d", cid)
	}
	return o.ctx.row(res, o.tab.Values[cid])
}

// Result returns ResultOther
func (o *Elementwise) Result() Result { return ResultOther }

// TimeDependent returns false
func (o *Elementwise) TimeDependent() bool { return false }
