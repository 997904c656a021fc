// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"math"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// LimitSide selects the one-sided value at a discontinuity in time
type LimitSide int

// limit sides
const (
	LimitLeft  LimitSide = iota // value just before the time
	LimitRight                  // value from the time on
)

// String returns "left" or "right"
func (o LimitSide) String() string {
	if o == LimitLeft {
		return "left"
	}
	return "right"
}

// TimeStatus holds the result of the last SetTime
type TimeStatus int

// time status
const (
	StatusChanged       TimeStatus = iota // algorithm changed on some region
	StatusConstant                        // no algorithm changed
	StatusChangedForced                   // change forced by ForceChanged
)

// Flags holds options of fields
type Flags int

// flags
const (
	FlagDeclareInput   Flags = 1 << iota // field reads its values from the input list
	FlagAllowInputCopy                   // field may share the input of another field (CopyFrom)
)

// historyLength is the maximum number of algorithms kept per region
const historyLength = 3

// histItem holds an algorithm valid from a given time
type histItem struct {
	time float64        // time from which algo is valid
	algo Algorithm      // algorithm
	dat  *inp.FieldData // descriptor; nil for default values
}

// SharedData holds the data shared by a field and its copies
type SharedData struct {

	// declaration
	InputName string     // key in field descriptors
	Units     string     // units
	Limits    [2]float64 // min and max allowed values
	Default   string     // default value (JSON text); empty => none
	NoCheck   []string   // labels of regions not checked for completeness
	Shape     Shape      // shape of values
	CompName  string     // component name if this field is a component of a multi field
	comp      int        // component index in multi field; -1 => not a component

	// collaborators
	Msh      *inp.Mesh        // mesh
	Regions  []int            // tags of regions where field is declared
	Funcs    inp.FuncsData    // functions database
	Readers  *inp.ReaderCache // cache of data tables
	Messages *Messages        // table of default values used; may be nil

	// input and history
	list    inp.FieldsData     // descriptors of this field
	regs    [][]int            // region tags of each descriptor
	listIdx int                // next descriptor to be pushed into history
	history map[int][]histItem // region tag => algorithms, newest first
	checked bool               // completeness check done
}

// Field holds a quantity that varies in space (by region and cell) and time
type Field struct {
	name    string            // name of field
	flags   Flags             // options
	data    *SharedData       // shared with copies
	algos   map[int]Algorithm // region tag => active algorithm
	results map[int]Result    // region tag => classification of values at last time
	tLast   float64           // time of last SetTime
	sLast   LimitSide         // limit side of last SetTime
	status  TimeStatus        // result of last SetTime
	jump    bool              // last time is a discontinuity
	cache   *FieldValueCache  // values on current patch
}

// NewField returns a new field
func NewField(name string, shape Shape) (o *Field) {
	o = new(Field)
	o.name = name
	o.flags = FlagDeclareInput
	o.data = &SharedData{
		InputName: name,
		Limits:    [2]float64{-math.MaxFloat64, math.MaxFloat64},
		Shape:     shape,
		comp:      -1,
		history:   make(map[int][]histItem),
	}
	o.reset()
	o.cache = new(FieldValueCache)
	return
}

// setters ////////////////////////////////////////////////////////////////////////////////////////

// SetInputName sets the key used in field descriptors
func (o *Field) SetInputName(name string) *Field { o.data.InputName = name; return o }

// SetUnits sets units
func (o *Field) SetUnits(units string) *Field { o.data.Units = units; return o }

// SetLimits sets the limits of constant values
func (o *Field) SetLimits(min, max float64) *Field { o.data.Limits = [2]float64{min, max}; return o }

// SetDefault sets the default value (JSON text)
func (o *Field) SetDefault(text string) *Field { o.data.Default = text; return o }

// SetNoCheck sets the labels of regions skipped by the completeness check
func (o *Field) SetNoCheck(labels ...string) *Field { o.data.NoCheck = labels; return o }

// SetFlags sets options
func (o *Field) SetFlags(flags Flags) *Field { o.flags = flags; return o }

// SetMessages sets the table of default values used
func (o *Field) SetMessages(m *Messages) *Field { o.data.Messages = m; return o }

// SetMesh sets mesh and the regions where field is declared; no regions => all regions
func (o *Field) SetMesh(msh *inp.Mesh, regions ...int) {
	o.data.Msh = msh
	o.data.Regions = regions
	if len(regions) == 0 {
		o.data.Regions = msh.Tags
	}
}

// SetInputList sets the descriptors of this field, keeping the list order. Fields without
// FlagDeclareInput only reset their time state and leave the (possibly shared) input untouched
func (o *Field) SetInputList(list inp.FieldsData, funcs inp.FuncsData, readers *inp.ReaderCache) (err error) {
	if o.data.Msh == nil {
		return chk.Err("mesh of field %q must be set before input list", o.name)
	}
	o.reset()
	if o.flags&FlagDeclareInput == 0 {
		return // input may be shared with the declaring field
	}
	o.data.Funcs = funcs
	o.data.Readers = readers
	o.data.list = nil
	o.data.regs = nil
	o.data.listIdx = 0
	o.data.history = make(map[int][]histItem)
	o.data.checked = false
	for _, d := range list.For(o.data.InputName) {
		if n := len(o.data.list); n > 0 && d.Time < o.data.list[n-1].Time {
			return chk.Err("non-ascending time of input field %q (%q): descriptor at time %g follows descriptor at time %g", o.data.InputName, o.name, d.Time, o.data.list[n-1].Time)
		}
		tags, e := o.data.Msh.Select(d.Region)
		if e != nil {
			return chk.Err("input field %q (%q):\n%v", o.data.InputName, o.name, e)
		}
		o.data.list = append(o.data.list, d)
		o.data.regs = append(o.data.regs, tags)
	}
	return
}

// getters ////////////////////////////////////////////////////////////////////////////////////////

// Name returns the name of field
func (o *Field) Name() string { return o.name }

// InputName returns the key used in field descriptors
func (o *Field) InputName() string { return o.data.InputName }

// Units returns the units
func (o *Field) Units() string { return o.data.Units }

// Shape returns the shape of values
func (o *Field) Shape() Shape { return o.data.Shape }

// Flags returns the options
func (o *Field) Flags() Flags { return o.flags }

// Shared returns the data shared with copies
func (o *Field) Shared() *SharedData { return o.data }

// Mesh returns the mesh
func (o *Field) Mesh() *inp.Mesh { return o.data.Msh }

// NComp returns the number of components
func (o *Field) NComp() int { return o.data.Shape.NComp() }

// FullCompName returns the component name followed by the name of field; all components
// of a field with fixed shape share this name
func (o *Field) FullCompName(i int) string {
	if o.data.CompName == "" {
		return o.name
	}
	return o.data.CompName + "_" + o.name
}

// Time returns the time and limit side of the last SetTime
func (o *Field) Time() (float64, LimitSide) { return o.tLast, o.sLast }

// Status returns the result of the last SetTime
func (o *Field) Status() TimeStatus { return o.status }

// Changed tells whether some algorithm changed in the last SetTime or a change was forced
func (o *Field) Changed() bool { return o.status != StatusConstant }

// ForceChanged makes Changed return true until the next SetTime
func (o *Field) ForceChanged() { o.status = StatusChangedForced }

// IsJumpTime tells whether the algorithm of some region differs at the left and right of the
// last time
func (o *Field) IsJumpTime() bool { return o.jump }

// IsConstant tells whether the active algorithm on region is a constant
func (o *Field) IsConstant(tag int) bool {
	_, ok := o.algos[tag].(*Constant)
	return ok
}

// IsTimeDependent tells whether some active algorithm may change its values in time
func (o *Field) IsTimeDependent() bool {
	for _, a := range o.algos {
		if a.TimeDependent() {
			return true
		}
	}
	return false
}

// Algorithm returns the active algorithm on region; nil if none
func (o *Field) Algorithm(tag int) Algorithm { return o.algos[tag] }

// FieldResult classifies the values on all given regions
func (o *Field) FieldResult(tags []int) (res Result) {
	for i, tag := range tags {
		r, ok := o.results[tag]
		if !ok {
			r = ResultNone
		}
		if i == 0 {
			res = r
			continue
		}
		res = Combine(res, r)
	}
	return
}

// NextInputTime returns the smallest descriptor time greater than t
func (o *Field) NextInputTime(t float64) (tnext float64, found bool) {
	for _, d := range o.data.list {
		if d.Time > t {
			return d.Time, true
		}
	}
	return
}

// time dispatch //////////////////////////////////////////////////////////////////////////////////

// SetTime selects the algorithm of each region at time t and limit side; returns whether
// some algorithm changed
func (o *Field) SetTime(t float64, side LimitSide) (changed bool, err error) {

	// same time and side
	if t == o.tLast && side == o.sLast {
		return o.Changed(), nil
	}

	// check
	if o.data.Msh == nil {
		return false, chk.Err("mesh of field %q is not set", o.name)
	}
	if t < o.tLast {
		return false, chk.Err("non-ascending time of field %q: cannot set time %g after time %g", o.name, t, o.tLast)
	}

	// history
	if !o.data.checked {
		err = o.data.checkInput(o.name, t)
		if err != nil {
			return
		}
	}
	err = o.data.updateHistory(o.name, t)
	if err != nil {
		return
	}

	// select algorithms
	changed = o.status == StatusChangedForced
	o.jump = false
	for _, tag := range o.data.Regions {
		hist := o.data.history[tag]
		right := pick(hist, t, LimitRight)
		left := pick(hist, t, LimitLeft)
		if left.algorithm() != right.algorithm() {
			o.jump = true
		}
		sel := right
		if side == LimitLeft {
			sel = left
		}
		if sel == nil {
			if _, ok := o.algos[tag]; ok {
				delete(o.algos, tag)
				changed = true
			}
			continue
		}
		if o.algos[tag] != sel.algo {
			o.algos[tag] = sel.algo
			changed = true
		}
	}

	// time dependent values; algorithms are shared with copies, so results are kept here
	o.results = make(map[int]Result, len(o.algos))
	for tag, a := range o.algos {
		a.SetTime(t)
		o.results[tag] = a.Result()
	}

	// results
	o.tLast, o.sLast = t, side
	o.status = StatusConstant
	if changed {
		o.status = StatusChanged
	}
	return
}

// CopyFrom shares the input and history of other field; the time state of this field is reset.
// Nothing is done unless this field allows input copy and, if it declares input, has no own
// input list
func (o *Field) CopyFrom(other *Field) (err error) {
	if o.data.Shape != other.data.Shape {
		return chk.Err("cannot copy field %q (%v) into field %q (%v): shapes differ", other.name, other.data.Shape, o.name, o.data.Shape)
	}
	if o.flags&FlagAllowInputCopy == 0 {
		return
	}
	if o.flags&FlagDeclareInput != 0 && len(o.data.list) > 0 {
		return
	}
	o.data = other.data
	o.reset()
	return
}

// Value computes the value at cell using the active algorithm at the last time
func (o *Field) Value(res []float64, cid int) error {
	tag := o.data.Msh.RegionOf(cid)
	a, ok := o.algos[tag]
	if !ok {
		return chk.Err("field %q has no value on region %q (cell %d)", o.name, o.data.Msh.RegionLabel(tag), cid)
	}
	return a.Value(res, o.tLast, cid, o.data.Msh.Centroid(cid))
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// reset resets the time state
func (o *Field) reset() {
	o.algos = make(map[int]Algorithm)
	o.results = make(map[int]Result)
	o.tLast = math.Inf(-1)
	o.sLast = LimitRight
	o.status = StatusChanged
	o.jump = false
}

// context returns the context to initialise algorithms
func (o *SharedData) context(name string) *Context {
	return &Context{Field: name, Shape: o.Shape, Comp: o.comp, Msh: o.Msh, Funcs: o.Funcs, Readers: o.Readers}
}

// checkInput checks that all regions have a descriptor at or before t; missing regions
// receive the default value
func (o *SharedData) checkInput(name string, t float64) (err error) {
	var dflt Algorithm
	for _, tag := range o.Regions {
		found := false
		for i, d := range o.list {
			if d.Time > t {
				break
			}
			if utl.IntIndexSmall(o.regs[i], tag) >= 0 {
				found = true
				break
			}
		}
		if found {
			continue
		}
		label := o.Msh.RegionLabel(tag)
		if o.Default != "" {
			if dflt == nil {
				cte, e := NewConstant(o.Default, o.context(name))
				if e != nil {
					return e
				}
				err = o.checkLimits(name, label, cte)
				if err != nil {
					return
				}
				dflt = cte
			}
			o.history[tag] = append(o.history[tag], histItem{math.Inf(-1), dflt, nil})
			if o.Messages != nil {
				o.Messages.Add(name, o.InputName, label, o.Default)
			}
			continue
		}
		if utl.StrIndexSmall(o.NoCheck, label) >= 0 {
			continue
		}
		return chk.Err("Missing value of the input field %q (%q) on region ID: %d label: %q.", o.InputName, name, o.Msh.RegionId(tag), label)
	}
	o.checked = true
	return
}

// updateHistory pushes the descriptors with time <= t into the history of their regions
func (o *SharedData) updateHistory(name string, t float64) (err error) {
	for ; o.listIdx < len(o.list); o.listIdx++ {
		d := o.list[o.listIdx]
		if d.Time > t {
			break
		}
		a, e := NewAlgorithm(d, o.context(name))
		if e != nil {
			return e
		}
		for _, tag := range o.regs[o.listIdx] {
			if utl.IntIndexSmall(o.Regions, tag) < 0 {
				continue
			}
			err = o.checkLimits(name, o.Msh.RegionLabel(tag), a)
			if err != nil {
				return
			}
			hist := o.history[tag]
			item := histItem{d.Time, a, d}
			if len(hist) > 0 && hist[0].time == d.Time {
				hist[0] = item
			} else {
				hist = append([]histItem{item}, hist...)
			}
			if len(hist) > historyLength {
				hist = hist[:historyLength]
			}
			o.history[tag] = hist
		}
	}
	return
}

// checkLimits checks the values of constant algorithms
func (o *SharedData) checkLimits(name, label string, a Algorithm) error {
	cte, ok := a.(*Constant)
	if !ok {
		return nil
	}
	for _, v := range cte.Values() {
		if v < o.Limits[0] || v > o.Limits[1] {
			return chk.Err("value %g of field %q on region %q is out of limits [%g, %g]", v, name, label, o.Limits[0], o.Limits[1])
		}
	}
	return nil
}

// algorithm returns the algorithm of item; nil if item is nil
func (o *histItem) algorithm() Algorithm {
	if o == nil {
		return nil
	}
	return o.algo
}

// pick returns the newest item valid at t for the given limit side; nil if none
func pick(hist []histItem, t float64, side LimitSide) *histItem {
	if side == LimitLeft {
		for i := range hist {
			if hist[i].time < t {
				return &hist[i]
			}
		}
	}
	for i := range hist {
		if hist[i].time <= t {
			return &hist[i]
		}
	}
	return nil
}
