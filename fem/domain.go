// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// Domain holds the mesh split into patches of cells and the cache maps used to evaluate fields
type Domain struct {
	Sim      *inp.Simulation      // [from Main] input data
	Msh      *inp.Mesh            // mesh data
	Cmap     *fld.ElementCacheMap // cache map used by equations
	OutCmap  *fld.ElementCacheMap // cache map used by output streams
	Patches  [][]int              // cells sorted by region in batches of at most the cache capacity
	Measures []float64            // [ncells] length, area or volume of cells

	// auxiliary
	active int // index of patch in Cmap; -1 => none
}

// NewDomain returns a new domain
func NewDomain(sim *inp.Simulation) (o *Domain, err error) {
	o = &Domain{Sim: sim, Msh: sim.Msh, active: -1}
	capacity := sim.Cfg.Capacity
	o.Cmap, err = fld.NewElementCacheMap(capacity)
	if err != nil {
		return nil, err
	}
	o.OutCmap, _ = fld.NewElementCacheMap(capacity)

	// patches
	var patch []int
	for _, tag := range o.Msh.Tags {
		for _, c := range o.Msh.CellTag2cells[tag] {
			patch = append(patch, c.Id)
			if len(patch) == capacity {
				o.Patches = append(o.Patches, patch)
				patch = nil
			}
		}
	}
	if len(patch) > 0 {
		o.Patches = append(o.Patches, patch)
	}

	// measures
	o.Measures = make([]float64, len(o.Msh.Cells))
	for cid := range o.Msh.Cells {
		o.Measures[cid] = o.Msh.Measure(cid)
		if o.Measures[cid] <= 0 {
			return nil, chk.Err("cell %d has a non-positive measure: %g", cid, o.Measures[cid])
		}
	}
	return
}

// Activate maps the cells of patch to Cmap; nothing is done if the patch is already active
func (o *Domain) Activate(patch int) (cm *fld.ElementCacheMap, err error) {
	if patch < 0 || patch >= len(o.Patches) {
		return nil, chk.Err("patch %d does not exist; number of patches = %d", patch, len(o.Patches))
	}
	if patch != o.active {
		err = o.Cmap.Rebuild(o.Msh, o.Patches[patch])
		if err != nil {
			o.active = -1
			return
		}
		o.active = patch
	}
	return o.Cmap, nil
}
