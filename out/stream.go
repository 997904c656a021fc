// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements output streams that stage field values on the mesh and write them
// in time frames
package out

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	log "github.com/sirupsen/logrus"
)

// Writer writes the staged data of a stream
type Writer interface {
	WriteData(s *Stream) error // writes one time frame
	Close() error              // flushes and releases resources
}

// WriterAllocator defines a function that allocates a writer for a stream
type WriterAllocator func(s *Stream, dat *inp.StreamData) (Writer, error)

// allocators holds all available writers; format => allocator
var allocators = make(map[string]WriterAllocator)

// SetAllocator sets the allocator of writers with given format
func SetAllocator(format string, fcn WriterAllocator) {
	if _, ok := allocators[format]; ok {
		chk.Panic("cannot set allocator of output format %q because it exists already", format)
	}
	allocators[format] = fcn
}

// valueStore defines staging buffers that can be modified
type valueStore interface {
	Data
	StoreValue(idx int, val []float64) error
	Add(idx int, val []float64) error
	Zero(idx int) error
	Normalize(idx, divisor int) error
}

// Stream holds the staged output of one set of fields
type Stream struct {
	Name  string          // name of stream
	Fname string          // filename path of main output file
	Msh   *inp.Mesh       // mesh
	Dat   *inp.StreamData // input data
	Time  float64         // time of current frame
	Step  int             // number of frames written so far

	data    [NumSpaces][]Data                // [space][column] staged data; real or dummy
	stores  [NumSpaces]map[string]valueStore // [space] field name => staging buffer
	offsets []int                            // [ncells] first corner of each cell
	writer  Writer                           // writer
	started bool                             // time has been set at least once
}

// NewStream returns a new stream writing to dirout
func NewStream(dirout string, msh *inp.Mesh, dat *inp.StreamData) (o *Stream, err error) {
	if dat.Name == "" {
		return nil, chk.Err("name of output stream must not be empty")
	}
	fname := dat.Fname
	if fname == "" {
		fname = dat.Name
	}
	o = &Stream{Name: dat.Name, Fname: filepath.Join(dirout, fname), Msh: msh, Dat: dat, Time: math.Inf(-1)}
	for i := range o.stores {
		o.stores[i] = make(map[string]valueStore)
	}
	o.offsets = make([]int, len(msh.Cells))
	var n int
	for i, c := range msh.Cells {
		o.offsets[i] = n
		n += len(c.Verts)
	}
	alloc, ok := allocators[dat.Format]
	if !ok {
		return nil, chk.Err("output format %q of stream %q is not available", dat.Format, dat.Name)
	}
	o.writer, err = alloc(o, dat)
	if err != nil {
		return nil, chk.Err("cannot allocate %s writer of stream %q:\n%v", dat.Format, dat.Name, err)
	}
	return
}

// Data returns the staged data (real or dummy) of space in order of registration
func (o *Stream) Data(space DiscreteSpace) []Data { return o.data[space] }

// Find returns the staged data of field in space
//  Note: returns nil if not found
func (o *Stream) Find(name string, space DiscreteSpace) Data {
	for _, d := range o.data[space] {
		if d.FieldName() == name {
			return d
		}
	}
	return nil
}

// CornerOffset returns the index of the first corner of cell
func (o *Stream) CornerOffset(cid int) int { return o.offsets[cid] }

// NumValues returns the number of values of space
func (o *Stream) NumValues(space DiscreteSpace) int {
	switch space {
	case NodeData:
		return len(o.Msh.Verts)
	case CornerData:
		return o.Msh.NumCorners()
	}
	return len(o.Msh.Cells)
}

// Register returns the staging buffer of field in space; the buffer is allocated at the first
// call and a dummy placeholder is swapped back to it afterwards
func (o *Stream) Register(name string, shape fld.Shape, space DiscreteSpace) (Data, error) {
	return o.register(name, shape, space)
}

// SetTime sets the time of the next frame
func (o *Stream) SetTime(t float64) error {
	if o.started && t < o.Time {
		return chk.Err("time of output stream %q cannot decrease: last time = %g, requested time = %g", o.Name, o.Time, t)
	}
	o.Time, o.started = t, true
	return nil
}

// ComputeFieldData stages the values of f in space using the value caches over the given
// patches. Values are taken per cell and then:
//  ElemData   -- stored at the cell
//  NodeData   -- averaged over the cells incident to each vertex
//  CornerData -- stored at each (cell, local vertex) pair
// Cells of regions without values are zero and do not count in the node averages. A field
// without values on all regions is skipped
func (o *Stream) ComputeFieldData(space DiscreteSpace, f fld.Common, cm *fld.ElementCacheMap, patches [][]int) (err error) {
	if space < 0 || space >= NumSpaces {
		return chk.Err("discrete space %d is invalid", int(space))
	}
	for _, p := range fld.Parts(f) {
		if !hasValues(p, o.Msh.Tags) {
			log.WithFields(log.Fields{"stream": o.Name, "field": p.FullCompName(0)}).Debug("field without values skipped")
			continue
		}
		if t, _ := p.Time(); t != o.Time {
			return chk.Err("time of field %q (%g) differs from the time of output stream %q (%g)", p.Name(), t, o.Name, o.Time)
		}
		d, e := o.register(p.FullCompName(0), p.Shape(), space)
		if e != nil {
			return e
		}
		if err = zeroAll(d); err != nil {
			return chk.Err("cannot reset %s data of field %q in output stream %q:\n%v", space, p.Name(), o.Name, err)
		}
		switch space {
		case ElemData:
			err = eachValue(p, cm, patches, func(cid int, val []float64) error {
				return d.StoreValue(cid, val)
			})
		case CornerData:
			err = eachValue(p, cm, patches, func(cid int, val []float64) error {
				for i := range o.Msh.Cells[cid].Verts {
					if e := d.StoreValue(o.offsets[cid]+i, val); e != nil {
						return e
					}
				}
				return nil
			})
		case NodeData:
			count := make([]int, len(o.Msh.Verts))
			err = eachValue(p, cm, patches, func(cid int, val []float64) error {
				for _, vid := range o.Msh.Cells[cid].Verts {
					if e := d.Add(vid, val); e != nil {
						return e
					}
					count[vid]++
				}
				return nil
			})
			for vid, n := range count {
				if err == nil && n > 0 {
					err = d.Normalize(vid, n)
				}
			}
		}
		if err != nil {
			return chk.Err("cannot compute %s data of field %q in output stream %q:\n%v", space, p.Name(), o.Name, err)
		}
	}
	return
}

// ComputeFields stages all fields requested by the stream taking values from set
func (o *Stream) ComputeFields(set *fld.FieldSet, cm *fld.ElementCacheMap, patches [][]int) (err error) {
	for _, req := range o.Dat.Fields {
		f := set.Get(req.Name)
		if f == nil {
			return chk.Err("field %q of output stream %q is not in equation %q", req.Name, o.Name, set.Name)
		}
		spaces := req.Spaces
		if len(spaces) == 0 {
			spaces = []string{ElemData.String()}
		}
		for _, name := range spaces {
			space, e := SpaceByName(name)
			if e != nil {
				return chk.Err("field %q of output stream %q:\n%v", req.Name, o.Name, e)
			}
			err = o.ComputeFieldData(space, f, cm, patches)
			if err != nil {
				return
			}
		}
	}
	return
}

// ClearData replaces all staged data by dummy placeholders; the columns of the next frame keep
// their order
func (o *Stream) ClearData() {
	for space := range o.data {
		for i, d := range o.data[space] {
			if !d.IsDummy() {
				o.data[space][i] = NewDummyData(d)
			}
		}
	}
}

// WriteTimeFrame writes the staged data as one frame and clears the staged data
func (o *Stream) WriteTimeFrame() (err error) {
	err = o.writer.WriteData(o)
	if err != nil {
		return chk.Err("cannot write frame %d of output stream %q:\n%v", o.Step, o.Name, err)
	}
	log.WithFields(log.Fields{"stream": o.Name, "time": o.Time, "step": o.Step}).Debug("frame written")
	o.Step++
	o.ClearData()
	return
}

// Close closes the writer
func (o *Stream) Close() error {
	return o.writer.Close()
}

// FixMainFileExtension replaces the extension of the main file by ext; a name without
// extension gets ext appended
func (o *Stream) FixMainFileExtension(ext string) {
	if strings.HasSuffix(o.Fname, ext) {
		return
	}
	o.Fname = strings.TrimSuffix(o.Fname, filepath.Ext(o.Fname)) + ext
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Stream) register(name string, shape fld.Shape, space DiscreteSpace) (d valueStore, err error) {
	if space < 0 || space >= NumSpaces {
		return nil, chk.Err("discrete space %d is invalid", int(space))
	}
	d, ok := o.stores[space][name]
	if !ok {
		n := o.NumValues(space)
		if shape.IsInteger() {
			d, err = NewElementDataCache[int64](name, shape, n)
		} else {
			d, err = NewElementDataCache[float64](name, shape, n)
		}
		if err != nil {
			return nil, err
		}
		o.stores[space][name] = d
	}
	for i, c := range o.data[space] {
		if c.FieldName() == name {
			o.data[space][i] = d
			return
		}
	}
	o.data[space] = append(o.data[space], d)
	return
}

// eachValue calls fcn with the value of p at each cell of the patches; cells of regions
// without an algorithm are skipped
func eachValue(p *fld.Field, cm *fld.ElementCacheMap, patches [][]int, fcn func(cid int, val []float64) error) (err error) {
	for _, patch := range patches {
		err = cm.Rebuild(p.Mesh(), patch)
		if err != nil {
			return
		}
		p.CacheReallocate(cm)
		for i, ch := range cm.Chunks() {
			if p.Algorithm(ch.Tag) == nil {
				continue
			}
			err = p.CacheUpdate(cm, i)
			if err != nil {
				return
			}
			for s := ch.Begin; s < ch.End; s++ {
				val, e := p.ValueCache().Get(cm, s)
				if e != nil {
					return e
				}
				err = fcn(cm.Cell(s), val)
				if err != nil {
					return
				}
			}
		}
	}
	return
}

// hasValues tells whether p has an algorithm on some region
func hasValues(p *fld.Field, tags []int) bool {
	for _, tag := range tags {
		if p.Algorithm(tag) != nil {
			return true
		}
	}
	return false
}

// zeroAll sets all values of d to zero
func zeroAll(d valueStore) (err error) {
	for i := 0; i < d.NValues(); i++ {
		if err = d.Zero(i); err != nil {
			return
		}
	}
	return
}
