// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// constants
const (
	Ztol      = 1e-7  // tolerance to decide whether z-coordinates are zero
	AllRegion = "ALL" // selector of all regions
)

// CellTypes holds the supported cell types and their number of vertices
var CellTypes = map[string]int{
	"lin2": 2,
	"tri3": 3,
	"qua4": 4,
	"tet4": 4,
	"hex8": 8,
}

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag
	C   []float64 `json:"c"`   // coordinates (size==2 or 3)
}

// Cell holds cell data
type Cell struct {
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag == region tag (negative)
	Type  string `json:"type"`  // geometry type. ex: "tri3", "qua4"
	Part  int    `json:"part"`  // partition id
	Verts []int  `json:"verts"` // vertices
}

// RegionData holds the label of a region
type RegionData struct {
	Tag  int    `json:"tag"`  // cell tag of region
	Name string `json:"name"` // label; e.g. "rock", "aquifer"
}

// Mesh holds the mesh used by fields and output
type Mesh struct {

	// from JSON
	Verts   []*Vert       `json:"verts"`   // vertices
	Cells   []*Cell       `json:"cells"`   // cells
	Regions []*RegionData `json:"regions"` // region labels

	// derived
	FnamePath  string  // complete filename path
	Ndim       int     // space dimension
	Xmin, Xmax float64 // min and max x-coordinate
	Ymin, Ymax float64 // min and max y-coordinate
	Zmin, Zmax float64 // min and max z-coordinate
	Tags       []int   // region tags sorted by region id

	// derived: maps
	CellTag2cells map[int][]*Cell // cell tag => set of cells
	Part2cells    map[int][]*Cell // partition number => set of cells
	Vert2cells    [][]int         // vertex id => ids of incident cells
	tag2name      map[int]string  // cell tag => region label
	name2tag      map[string]int  // region label => cell tag
}

// ReadMsh reads a mesh from a JSON file
func ReadMsh(dir, fn string) (o *Mesh, err error) {

	// read file
	fnamepath := filepath.Join(dir, fn)
	b, err := io.ReadFile(fnamepath)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", fnamepath, err)
	}

	// decode
	o = new(Mesh)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", fnamepath, err)
	}
	o.FnamePath = fnamepath

	// derived data
	err = o.Init()
	if err != nil {
		return nil, chk.Err("mesh file %q is invalid:\n%v", fnamepath, err)
	}
	return
}

// Init checks the mesh data and computes derived data
func (o *Mesh) Init() (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("at least 2 vertices are required in mesh")
	}
	if len(o.Cells) < 1 {
		return chk.Err("at least 1 cell is required in mesh")
	}

	// vertex related derived data
	o.Ndim = 2
	o.Xmin, o.Xmax = math.MaxFloat64, -math.MaxFloat64
	o.Ymin, o.Ymax = math.MaxFloat64, -math.MaxFloat64
	o.Zmin, o.Zmax = 0, 0
	for i, v := range o.Verts {

		// check vertex id
		if v.Id != i {
			return chk.Err("vertices ids must coincide with order in \"verts\" list. %d != %d", v.Id, i)
		}

		// ndim
		nd := len(v.C)
		if nd < 2 || nd > 3 {
			return chk.Err("number of space dimensions must be 2 or 3. vertex %d has %d coordinates", v.Id, nd)
		}
		if nd == 3 {
			if math.Abs(v.C[2]) > Ztol {
				o.Ndim = 3
			}
		}

		// limits
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
		if nd > 2 {
			o.Zmin = utl.Min(o.Zmin, v.C[2])
			o.Zmax = utl.Max(o.Zmax, v.C[2])
		}
	}

	// cell related derived data
	o.CellTag2cells = make(map[int][]*Cell)
	o.Part2cells = make(map[int][]*Cell)
	o.Vert2cells = make([][]int, len(o.Verts))
	for i, c := range o.Cells {

		// check id, tag and type
		if c.Id != i {
			return chk.Err("cells ids must coincide with order in \"cells\" list. %d != %d", c.Id, i)
		}
		if c.Tag >= 0 {
			return chk.Err("cells tags must be negative. %d is invalid (cell %d)", c.Tag, c.Id)
		}
		nv, ok := CellTypes[c.Type]
		if !ok {
			return chk.Err("cell type %q is not available (cell %d)", c.Type, c.Id)
		}
		if len(c.Verts) != nv {
			return chk.Err("cell %d of type %q must have %d vertices; %d given", c.Id, c.Type, nv, len(c.Verts))
		}

		// maps
		if _, found := o.CellTag2cells[c.Tag]; !found {
			o.Tags = append(o.Tags, c.Tag)
		}
		o.CellTag2cells[c.Tag] = append(o.CellTag2cells[c.Tag], c)
		o.Part2cells[c.Part] = append(o.Part2cells[c.Part], c)
		for _, vid := range c.Verts {
			if vid < 0 || vid >= len(o.Verts) {
				return chk.Err("cell %d references vertex %d which does not exist", c.Id, vid)
			}
			o.Vert2cells[vid] = append(o.Vert2cells[vid], c.Id)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(o.Tags)))

	// region labels
	o.tag2name = make(map[int]string)
	o.name2tag = make(map[string]int)
	for _, r := range o.Regions {
		if _, found := o.CellTag2cells[r.Tag]; !found {
			return chk.Err("region %q has tag %d which is not used by any cell", r.Name, r.Tag)
		}
		if r.Name == "" || r.Name == AllRegion {
			return chk.Err("region with tag %d has an invalid label %q", r.Tag, r.Name)
		}
		if _, found := o.name2tag[r.Name]; found {
			return chk.Err("region label %q is repeated", r.Name)
		}
		o.tag2name[r.Tag] = r.Name
		o.name2tag[r.Name] = r.Tag
	}
	return
}

// RegionId returns the (positive) id of region with given tag
func (o *Mesh) RegionId(tag int) int {
	return -tag
}

// RegionLabel returns the label of region with given tag
func (o *Mesh) RegionLabel(tag int) string {
	if name, ok := o.tag2name[tag]; ok {
		return name
	}
	return io.Sf("region%d", -tag)
}

// RegionOf returns the region tag of cell
func (o *Mesh) RegionOf(cid int) int {
	return o.Cells[cid].Tag
}

// Select returns the region tags corresponding to a selector: a label, a numeric id or "ALL"
func (o *Mesh) Select(selector string) (tags []int, err error) {
	if selector == AllRegion || selector == "" {
		return o.Tags, nil
	}
	if tag, ok := o.name2tag[selector]; ok {
		return []int{tag}, nil
	}
	if id, e := strconv.Atoi(selector); e == nil {
		if _, ok := o.CellTag2cells[-id]; ok {
			return []int{-id}, nil
		}
	}
	for _, tag := range o.Tags {
		if o.RegionLabel(tag) == selector {
			return []int{tag}, nil
		}
	}
	return nil, chk.Err("cannot find region %q in mesh", selector)
}

// Centroid returns the centroid of cell (with 3 coordinates)
func (o *Mesh) Centroid(cid int) (x []float64) {
	x = make([]float64, 3)
	c := o.Cells[cid]
	for _, vid := range c.Verts {
		for i, v := range o.Verts[vid].C {
			x[i] += v
		}
	}
	for i := 0; i < 3; i++ {
		x[i] /= float64(len(c.Verts))
	}
	return
}

// Measure returns the length, area or volume of cell
func (o *Mesh) Measure(cid int) float64 {
	c := o.Cells[cid]
	p := func(i int) []float64 { return o.coords(c.Verts[i]) }
	switch c.Type {
	case "lin2":
		return dist(p(0), p(1))
	case "tri3":
		return triArea(p(0), p(1), p(2))
	case "qua4":
		return triArea(p(0), p(1), p(2)) + triArea(p(0), p(2), p(3))
	case "tet4":
		return tetVolume(p(0), p(1), p(2), p(3))
	case "hex8":
		return tetVolume(p(0), p(1), p(3), p(4)) +
			tetVolume(p(1), p(2), p(3), p(6)) +
			tetVolume(p(1), p(4), p(5), p(6)) +
			tetVolume(p(3), p(4), p(6), p(7)) +
			tetVolume(p(1), p(3), p(4), p(6))
	}
	return 0
}

// NumCorners returns the total number of (cell, local vertex) pairs
func (o *Mesh) NumCorners() (n int) {
	for _, c := range o.Cells {
		n += len(c.Verts)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// coords returns the coordinates of vertex padded to 3 components
func (o *Mesh) coords(vid int) []float64 {
	x := make([]float64, 3)
	copy(x, o.Verts[vid].C)
	return x
}

func dist(a, b []float64) float64 {
	return math.Sqrt((b[0]-a[0])*(b[0]-a[0]) + (b[1]-a[1])*(b[1]-a[1]) + (b[2]-a[2])*(b[2]-a[2]))
}

func cross(u, v []float64) []float64 {
	return []float64{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
}

func sub(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func triArea(a, b, c []float64) float64 {
	n := cross(sub(b, a), sub(c, a))
	return 0.5 * math.Sqrt(n[0]*n[0]+n[1]*n[1]+n[2]*n[2])
}

func tetVolume(a, b, c, d []float64) float64 {
	n := cross(sub(b, a), sub(c, a))
	w := sub(d, a)
	return math.Abs(n[0]*w[0]+n[1]*w[1]+n[2]*w[2]) / 6.0
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%g", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Cell
func (o *Cell) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"part\":%d, \"verts\":[", o.Id, o.Tag, o.Type, o.Part)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Mesh
func (o Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, x := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
