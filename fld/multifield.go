// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// MultiField holds a field with a number of scalar components known at runtime; e.g. one
// component per transported substance
type MultiField struct {
	name  string   // name of field
	comps []string // names of components
	Subs  []*Field // one scalar field per component
}

// NewMultiField returns a new multi field with given component names
func NewMultiField(name string, comps []string) (o *MultiField, err error) {
	seen := make(map[string]bool)
	for _, c := range comps {
		if seen[c] {
			return nil, chk.Err("component names of multi field %q must be unique. %q is repeated", name, c)
		}
		seen[c] = true
	}
	o = &MultiField{name: name, comps: comps}
	o.Subs = make([]*Field, len(comps))
	for i, c := range comps {
		o.Subs[i] = NewField(name, Scalar())
		o.Subs[i].data.CompName = c
		o.Subs[i].data.comp = i
	}
	return
}

// Name returns the name of field
func (o *MultiField) Name() string { return o.name }

// InputName returns the key used in field descriptors
func (o *MultiField) InputName() string {
	if len(o.Subs) == 0 {
		return o.name
	}
	return o.Subs[0].InputName()
}

// Shape returns the shape of values
func (o *MultiField) Shape() Shape { return VectorRuntime(len(o.comps)) }

// NComp returns the number of components
func (o *MultiField) NComp() int { return len(o.comps) }

// FullCompName returns the name of component i followed by the name of field
func (o *MultiField) FullCompName(i int) string { return o.Subs[i].FullCompName(0) }

// Components returns the sub-fields
func (o *MultiField) Components() []*Field { return o.Subs }

// SetInputName sets the key used in field descriptors
func (o *MultiField) SetInputName(name string) *MultiField {
	for _, s := range o.Subs {
		s.SetInputName(name)
	}
	return o
}

// SetUnits sets units
func (o *MultiField) SetUnits(units string) *MultiField {
	for _, s := range o.Subs {
		s.SetUnits(units)
	}
	return o
}

// SetLimits sets limits
func (o *MultiField) SetLimits(min, max float64) *MultiField {
	for _, s := range o.Subs {
		s.SetLimits(min, max)
	}
	return o
}

// SetDefault sets the default value of all components
func (o *MultiField) SetDefault(text string) *MultiField {
	for _, s := range o.Subs {
		s.SetDefault(text)
	}
	return o
}

// SetNoCheck sets the labels of regions skipped by the completeness check
func (o *MultiField) SetNoCheck(labels ...string) *MultiField {
	for _, s := range o.Subs {
		s.SetNoCheck(labels...)
	}
	return o
}

// SetFlags sets options
func (o *MultiField) SetFlags(flags Flags) *MultiField {
	for _, s := range o.Subs {
		s.SetFlags(flags)
	}
	return o
}

// SetMessages sets the table of default values used
func (o *MultiField) SetMessages(m *Messages) *MultiField {
	for _, s := range o.Subs {
		s.SetMessages(m)
	}
	return o
}

// SetMesh sets the mesh of all components
func (o *MultiField) SetMesh(msh *inp.Mesh, regions ...int) {
	for _, s := range o.Subs {
		s.SetMesh(msh, regions...)
	}
}

// SetInputList sets the descriptors of all components
func (o *MultiField) SetInputList(list inp.FieldsData, funcs inp.FuncsData, readers *inp.ReaderCache) (err error) {
	for _, s := range o.Subs {
		err = s.SetInputList(list, funcs, readers)
		if err != nil {
			return
		}
	}
	return
}

// SetTime sets the time of all components; returns whether some component changed
func (o *MultiField) SetTime(t float64, side LimitSide) (changed bool, err error) {
	for _, s := range o.Subs {
		c, e := s.SetTime(t, side)
		if e != nil {
			return false, e
		}
		changed = changed || c
	}
	return
}

// Changed tells whether some component changed
func (o *MultiField) Changed() bool {
	for _, s := range o.Subs {
		if s.Changed() {
			return true
		}
	}
	return false
}

// ForceChanged forces a change of all components
func (o *MultiField) ForceChanged() {
	for _, s := range o.Subs {
		s.ForceChanged()
	}
}

// IsJumpTime tells whether some component has a discontinuity at the last time
func (o *MultiField) IsJumpTime() bool {
	for _, s := range o.Subs {
		if s.IsJumpTime() {
			return true
		}
	}
	return false
}

// IsTimeDependent tells whether some component is time dependent
func (o *MultiField) IsTimeDependent() bool {
	for _, s := range o.Subs {
		if s.IsTimeDependent() {
			return true
		}
	}
	return false
}

// IsConstant tells whether all components are constants on region
func (o *MultiField) IsConstant(tag int) bool {
	for _, s := range o.Subs {
		if !s.IsConstant(tag) {
			return false
		}
	}
	return len(o.Subs) > 0
}

// FieldResult returns the classification common to all components
func (o *MultiField) FieldResult(tags []int) (res Result) {
	for i, s := range o.Subs {
		r := s.FieldResult(tags)
		if i == 0 {
			res = r
			continue
		}
		res = Combine(res, r)
	}
	return
}

// NextInputTime returns the smallest descriptor time greater than t
func (o *MultiField) NextInputTime(t float64) (tnext float64, found bool) {
	for _, s := range o.Subs {
		if tn, ok := s.NextInputTime(t); ok && (!found || tn < tnext) {
			tnext, found = tn, true
		}
	}
	return
}

// CopyFrom copies each component from the matching component of other
func (o *MultiField) CopyFrom(other *MultiField) (err error) {
	if len(o.Subs) != len(other.Subs) {
		return chk.Err("cannot copy multi field %q with %d components into multi field %q with %d components", other.name, len(other.Subs), o.name, len(o.Subs))
	}
	for i, s := range o.Subs {
		if other.comps[i] != o.comps[i] {
			return chk.Err("cannot copy multi field %q into %q: component %d is %q instead of %q", other.name, o.name, i, other.comps[i], o.comps[i])
		}
		err = s.CopyFrom(other.Subs[i])
		if err != nil {
			return
		}
	}
	return
}

// CacheReallocate sizes the caches of all components
func (o *MultiField) CacheReallocate(cm *ElementCacheMap) {
	for _, s := range o.Subs {
		s.CacheReallocate(cm)
	}
}

// CacheUpdate fills the caches of all components on a region chunk
func (o *MultiField) CacheUpdate(cm *ElementCacheMap, chunk int) (err error) {
	for _, s := range o.Subs {
		err = s.CacheUpdate(cm, chunk)
		if err != nil {
			return
		}
	}
	return
}
