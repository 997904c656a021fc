// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gosl/chk"
)

// FieldValueCache holds the values of a field at the cells of the current patch
type FieldValueCache struct {
	ncomp      int              // number of components
	data       []float64        // [capacity*ncomp] values
	filled     []bool           // [capacity] slot has been updated
	cmap       *ElementCacheMap // cache map when reallocated
	generation uint64           // generation of cache map when reallocated
}

// Reallocate sizes the cache for the patch of cm; must be called after each rebuild of cm
func (o *FieldValueCache) Reallocate(cm *ElementCacheMap, ncomp int) {
	n := cm.Capacity() * ncomp
	if len(o.data) != n {
		o.data = make([]float64, n)
		o.filled = make([]bool, cm.Capacity())
	} else {
		for i := range o.filled {
			o.filled[i] = false
		}
	}
	o.ncomp = ncomp
	o.cmap = cm
	o.generation = cm.Generation()
}

// NComp returns the number of components
func (o *FieldValueCache) NComp() int { return o.ncomp }

// Data returns all values ordered by slot
func (o *FieldValueCache) Data() []float64 { return o.data }

// Get returns the value in slot
func (o *FieldValueCache) Get(cm *ElementCacheMap, slot int) (val []float64, err error) {
	if err = o.check(cm); err != nil {
		return
	}
	if slot < 0 || slot >= cm.Size() {
		return nil, chk.Err("slot %d is out of the current patch with %d cells", slot, cm.Size())
	}
	if !o.filled[slot] {
		return nil, chk.Err("slot %d (cell %d) has not been updated", slot, cm.Cell(slot))
	}
	return o.data[slot*o.ncomp : (slot+1)*o.ncomp], nil
}

// Value returns the value at cell
func (o *FieldValueCache) Value(cm *ElementCacheMap, cid int) (val []float64, err error) {
	slot, err := cm.Slot(cid)
	if err != nil {
		return
	}
	return o.Get(cm, slot)
}

// check checks that the cache corresponds to the current patch of cm
func (o *FieldValueCache) check(cm *ElementCacheMap) error {
	if o.data == nil {
		return chk.Err("value cache has not been allocated")
	}
	if o.cmap != cm {
		return chk.Err("value cache is stale: allocated for another cache map")
	}
	if o.generation != cm.Generation() {
		return chk.Err("value cache is stale: allocated for patch generation %d but current generation is %d", o.generation, cm.Generation())
	}
	return nil
}

// field cache //////////////////////////////////////////////////////////////////////////////////

// ValueCache returns the cache of values
func (o *Field) ValueCache() *FieldValueCache { return o.cache }

// CacheCurrent tells whether the cache holds the current patch of cm and all slots of regions
// with an active algorithm have been updated
func (o *Field) CacheCurrent(cm *ElementCacheMap) bool {
	if o.cache.check(cm) != nil {
		return false
	}
	for _, ch := range cm.Chunks() {
		if _, ok := o.algos[ch.Tag]; !ok {
			continue
		}
		for s := ch.Begin; s < ch.End; s++ {
			if !o.cache.filled[s] {
				return false
			}
		}
	}
	return true
}

// CacheReallocate sizes the cache of values for the patch of cm
func (o *Field) CacheReallocate(cm *ElementCacheMap) {
	o.cache.Reallocate(cm, o.NComp())
}

// CacheUpdate computes the values at the cells of one region chunk of cm using the active
// algorithm of the region. Values constant in space are computed once
func (o *Field) CacheUpdate(cm *ElementCacheMap, chunk int) (err error) {
	c := o.cache
	if err = c.check(cm); err != nil {
		return chk.Err("cannot update cache of field %q:\n%v", o.name, err)
	}
	if chunk < 0 || chunk >= len(cm.Chunks()) {
		return chk.Err("cannot update cache of field %q: chunk %d does not exist", o.name, chunk)
	}
	ch := cm.Chunks()[chunk]
	a, ok := o.algos[ch.Tag]
	if !ok {
		return chk.Err("cannot update cache of field %q: no value on region %q at time %g", o.name, cm.Mesh().RegionLabel(ch.Tag), o.tLast)
	}
	n := c.ncomp
	if o.results[ch.Tag].IsConstant() {
		first := c.data[ch.Begin*n : (ch.Begin+1)*n]
		cid := cm.Cell(ch.Begin)
		err = a.Value(first, o.tLast, cid, cm.Mesh().Centroid(cid))
		if err != nil {
			return
		}
		for s := ch.Begin; s < ch.End; s++ {
			copy(c.data[s*n:(s+1)*n], first)
			c.filled[s] = true
		}
		return
	}
	for s := ch.Begin; s < ch.End; s++ {
		cid := cm.Cell(s)
		err = a.Value(c.data[s*n:(s+1)*n], o.tLast, cid, cm.Mesh().Centroid(cid))
		if err != nil {
			return chk.Err("cannot compute field %q at cell %d:\n%v", o.name, cid, err)
		}
		c.filled[s] = true
	}
	return
}
