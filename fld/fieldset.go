// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	log "github.com/sirupsen/logrus"
)

// Common defines the operations shared by Field and MultiField
type Common interface {
	Name() string
	InputName() string
	Shape() Shape
	NComp() int
	FullCompName(i int) string
	SetMesh(msh *inp.Mesh, regions ...int)
	SetInputList(list inp.FieldsData, funcs inp.FuncsData, readers *inp.ReaderCache) error
	SetTime(t float64, side LimitSide) (bool, error)
	Changed() bool
	ForceChanged()
	IsJumpTime() bool
	IsTimeDependent() bool
	IsConstant(tag int) bool
	FieldResult(tags []int) Result
	NextInputTime(t float64) (float64, bool)
	CacheReallocate(cm *ElementCacheMap)
	CacheUpdate(cm *ElementCacheMap, chunk int) error
}

// FieldSet holds the fields of one equation
type FieldSet struct {
	Name     string    // name of equation
	Messages *Messages // default values used by fields of this set
	list     []Common  // fields in order of insertion
	index    map[string]Common
}

// NewFieldSet returns a new set of fields
func NewFieldSet(name string) *FieldSet {
	return &FieldSet{Name: name, Messages: new(Messages), index: make(map[string]Common)}
}

// Add adds field to set
func (o *FieldSet) Add(f Common) (err error) {
	if _, ok := o.index[f.Name()]; ok {
		return chk.Err("field %q is already in field set %q", f.Name(), o.Name)
	}
	switch t := f.(type) {
	case *Field:
		t.SetMessages(o.Messages)
	case *MultiField:
		t.SetMessages(o.Messages)
	}
	o.list = append(o.list, f)
	o.index[f.Name()] = f
	return
}

// Get returns field by name
//  Note: returns nil if not found
func (o *FieldSet) Get(name string) Common {
	return o.index[name]
}

// Fields returns all fields in order of insertion
func (o *FieldSet) Fields() []Common { return o.list }

// SetMesh sets the mesh of all fields
func (o *FieldSet) SetMesh(msh *inp.Mesh) {
	for _, f := range o.list {
		f.SetMesh(msh)
	}
}

// SetInputList sets the descriptors of all fields
func (o *FieldSet) SetInputList(list inp.FieldsData, funcs inp.FuncsData, readers *inp.ReaderCache) (err error) {
	for _, f := range o.list {
		err = f.SetInputList(list, funcs, readers)
		if err != nil {
			return
		}
	}
	return
}

// SetTime sets the time of all fields; returns whether some field changed
func (o *FieldSet) SetTime(t float64, side LimitSide) (changed bool, err error) {
	nmsg := o.Messages.Len()
	for _, f := range o.list {
		c, e := f.SetTime(t, side)
		if e != nil {
			return false, e
		}
		changed = changed || c
	}
	for _, m := range o.Messages.List[nmsg:] {
		log.WithFields(log.Fields{
			"equation": o.Name,
			"field":    m.InputName,
			"region":   m.Region,
			"default":  m.Default,
		}).Info("default value used")
	}
	return
}

// Changed tells whether some field changed
func (o *FieldSet) Changed() bool {
	for _, f := range o.list {
		if f.Changed() {
			return true
		}
	}
	return false
}

// IsJumpTime tells whether some field has a discontinuity at the last time
func (o *FieldSet) IsJumpTime() bool {
	for _, f := range o.list {
		if f.IsJumpTime() {
			return true
		}
	}
	return false
}

// NextInputTime returns the smallest descriptor time greater than t among all fields
func (o *FieldSet) NextInputTime(t float64) (tnext float64, found bool) {
	for _, f := range o.list {
		if tn, ok := f.NextInputTime(t); ok && (!found || tn < tnext) {
			tnext, found = tn, true
		}
	}
	return
}

// CacheReallocate sizes the caches of all fields
func (o *FieldSet) CacheReallocate(cm *ElementCacheMap) {
	for _, f := range o.list {
		f.CacheReallocate(cm)
	}
}

// CacheUpdate fills the caches of all fields on all chunks of cm
func (o *FieldSet) CacheUpdate(cm *ElementCacheMap) (err error) {
	for _, f := range o.list {
		for i := range cm.Chunks() {
			err = f.CacheUpdate(cm, i)
			if err != nil {
				return
			}
		}
	}
	return
}

// String returns the names of fields and the table of default values used
func (o *FieldSet) String() string {
	l := "field set " + o.Name + ":"
	for _, f := range o.list {
		l += " " + f.Name()
	}
	return l + "\n" + o.Messages.String()
}
