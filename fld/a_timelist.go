// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// TimeList implements values constant in space given at a list of times; values between
// times are linearly interpolated and values outside the list take the nearest end value
type TimeList struct {
	shape Shape                     // shape of values
	times []float64                 // times
	vals  [][]float64               // [ntimes][ncomp] values
	lins  []*interp.PiecewiseLinear // one interpolator per component; nil if one time only
	cur   []float64                 // value at current time
	res   Result                    // classification of current value
}

// add algorithm to factory
func init() {
	SetAllocator(inp.AlgoTimeList, func() Algorithm { return new(TimeList) })
}

// Init initialises algorithm
func (o *TimeList) Init(dat *inp.FieldData, ctx *Context) (err error) {
	if len(dat.Times) == 0 {
		return chk.Err("time list requires at least one time")
	}
	if len(dat.Times) != len(dat.Values) {
		return chk.Err("time list has %d times but %d values", len(dat.Times), len(dat.Values))
	}
	for i := 1; i < len(dat.Times); i++ {
		if dat.Times[i] <= dat.Times[i-1] {
			return chk.Err("times of time list must be strictly ascending. t[%d]=%g <= t[%d]=%g", i, dat.Times[i], i-1, dat.Times[i-1])
		}
	}
	o.shape = ctx.Shape
	o.times = dat.Times
	o.vals = make([][]float64, len(dat.Times))
	for i, raw := range dat.Values {
		o.vals[i], err = ctx.parse(raw)
		if err != nil {
			return chk.Err("value #%d of time list is invalid:\n%v", i, err)
		}
	}
	ncomp := ctx.Shape.NComp()
	if len(o.times) > 1 {
		o.lins = make([]*interp.PiecewiseLinear, ncomp)
		for k := 0; k < ncomp; k++ {
			ys := make([]float64, len(o.times))
			for i := range o.times {
				ys[i] = o.vals[i][k]
			}
			o.lins[k] = new(interp.PiecewiseLinear)
			err = o.lins[k].Fit(o.times, ys)
			if err != nil {
				return chk.Err("cannot fit time list of component %d:\n%v", k, err)
			}
		}
	}
	o.cur = make([]float64, ncomp)
	o.SetTime(o.times[0])
	return
}

// SetTime updates the current value; returns whether it changed
func (o *TimeList) SetTime(t float64) bool {
	prev := make([]float64, len(o.cur))
	copy(prev, o.cur)
	o.eval(o.cur, t)
	o.res = Classify(o.shape, o.cur)
	return !floats.Equal(prev, o.cur)
}

// Value returns the value at time t
func (o *TimeList) Value(res []float64, t float64, cid int, x []float64) error {
	o.eval(res, t)
	return nil
}

// Result returns the classification of the value at the current time
func (o *TimeList) Result() Result { return o.res }

// TimeDependent returns true
func (o *TimeList) TimeDependent() bool { return true }

// eval computes the value at time t
func (o *TimeList) eval(res []float64, t float64) {
	n := len(o.times)
	switch {
	case t <= o.times[0]:
		copy(res, o.vals[0])
	case t >= o.times[n-1]:
		copy(res, o.vals[n-1])
	default:
		for k, pl := range o.lins {
			res[k] = pl.Predict(t)
		}
	}
}
