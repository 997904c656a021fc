// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// RegionChunk holds a contiguous run of slots whose cells belong to the same region
type RegionChunk struct {
	Tag   int // region tag
	Begin int // first slot
	End   int // one past the last slot
}

// ElementCacheMap maps the cells of a patch to dense cache slots
type ElementCacheMap struct {
	capacity   int           // maximum number of cells in patch
	cells      []int         // slot => cell id
	slots      map[int]int   // cell id => slot
	chunks     []RegionChunk // runs of slots with the same region
	generation uint64        // incremented at each rebuild
	msh        *inp.Mesh     // mesh of current patch
}

// NewElementCacheMap returns a new map with given capacity
func NewElementCacheMap(capacity int) (o *ElementCacheMap, err error) {
	if capacity < 1 {
		return nil, chk.Err("capacity of element cache map must be positive. %d is invalid", capacity)
	}
	return &ElementCacheMap{capacity: capacity, slots: make(map[int]int)}, nil
}

// Rebuild discards the current patch and maps the given cells to slots; cells are grouped by
// region in the order their regions first appear
func (o *ElementCacheMap) Rebuild(msh *inp.Mesh, cids []int) (err error) {
	if len(cids) > o.capacity {
		return chk.Err("patch with %d cells exceeds the capacity (%d) of element cache map", len(cids), o.capacity)
	}

	// group by region
	var order []int
	groups := make(map[int][]int)
	seen := make(map[int]bool, len(cids))
	for _, cid := range cids {
		if cid < 0 || cid >= len(msh.Cells) {
			return chk.Err("cell %d does not exist in mesh", cid)
		}
		if seen[cid] {
			return chk.Err("cell %d appears more than once in patch", cid)
		}
		seen[cid] = true
		tag := msh.Cells[cid].Tag
		if _, ok := groups[tag]; !ok {
			order = append(order, tag)
		}
		groups[tag] = append(groups[tag], cid)
	}

	// slots and chunks
	o.msh = msh
	o.cells = o.cells[:0]
	o.slots = make(map[int]int, len(cids))
	o.chunks = o.chunks[:0]
	for _, tag := range order {
		begin := len(o.cells)
		for _, cid := range groups[tag] {
			o.slots[cid] = len(o.cells)
			o.cells = append(o.cells, cid)
		}
		o.chunks = append(o.chunks, RegionChunk{tag, begin, len(o.cells)})
	}
	o.generation++
	return
}

// Capacity returns the maximum number of cells in patch
func (o *ElementCacheMap) Capacity() int { return o.capacity }

// Size returns the number of cells in patch
func (o *ElementCacheMap) Size() int { return len(o.cells) }

// Generation returns the number of rebuilds so far
func (o *ElementCacheMap) Generation() uint64 { return o.generation }

// Chunks returns the region chunks of patch
func (o *ElementCacheMap) Chunks() []RegionChunk { return o.chunks }

// Mesh returns the mesh of current patch
func (o *ElementCacheMap) Mesh() *inp.Mesh { return o.msh }

// Cell returns the cell id in slot
func (o *ElementCacheMap) Cell(slot int) int { return o.cells[slot] }

// Cells returns the cell ids of patch ordered by slot
func (o *ElementCacheMap) Cells() []int { return o.cells }

// Slot returns the slot of cell
func (o *ElementCacheMap) Slot(cid int) (slot int, err error) {
	slot, ok := o.slots[cid]
	if !ok {
		return -1, chk.Err("cell %d is not in the current patch (generation %d)", cid, o.generation)
	}
	return
}
