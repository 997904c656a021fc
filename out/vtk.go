// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"encoding/base64"
	"path/filepath"

	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// VtkTypes maps cell types to VTK cell codes
var VtkTypes = map[string]int{
	"lin2": 3,
	"tri3": 5,
	"qua4": 9,
	"tet4": 10,
	"hex8": 12,
}

// VtkFrame holds one entry of the collection (.pvd) file
type VtkFrame struct {
	Time float64 // time of frame
	File string  // name of .vtu file
}

// VtkWriter writes one .vtu file per frame and keeps the .pvd collection up to date
type VtkWriter struct {
	Binary bool       // base64 encoded values
	Dir    string     // output directory
	Key    string     // filename key
	Frames []VtkFrame // frames written so far
}

func init() {
	SetAllocator("vtk", func(s *Stream, dat *inp.StreamData) (Writer, error) {
		s.FixMainFileExtension(".pvd")
		return &VtkWriter{
			Binary: dat.Binary,
			Dir:    filepath.Dir(s.Fname),
			Key:    io.FnKey(filepath.Base(s.Fname)),
		}, nil
	})
}

// WriteData writes the .vtu file of one frame. When the stream has corner data, each cell gets
// its own copies of its vertices (discontinuous point set) and node data are repeated on them
func (o *VtkWriter) WriteData(s *Stream) (err error) {

	// geometry
	msh := s.Msh
	discont := len(s.Data(CornerData)) > 0
	npts := len(msh.Verts)
	if discont {
		npts = msh.NumCorners()
	}
	geo := new(bytes.Buffer)
	err = vtkTopology(geo, msh, discont)
	if err != nil {
		return
	}

	// point data
	dat := new(bytes.Buffer)
	var idx func(int) int
	if discont {
		verts := make([]int, 0, npts)
		for _, c := range msh.Cells {
			verts = append(verts, c.Verts...)
		}
		idx = func(i int) int { return verts[i] }
	}
	io.Ff(dat, "<PointData>\n")
	for _, d := range s.Data(NodeData) {
		err = o.array(dat, d, npts, idx)
		if err != nil {
			return
		}
	}
	for _, d := range s.Data(CornerData) {
		err = o.array(dat, d, npts, nil)
		if err != nil {
			return
		}
	}
	io.Ff(dat, "</PointData>\n<CellData>\n")
	for _, d := range s.Data(ElemData) {
		err = o.array(dat, d, len(msh.Cells), nil)
		if err != nil {
			return
		}
	}
	io.Ff(dat, "</CellData>\n")

	// vtu file
	fn := io.Sf("%s-%06d.vtu", o.Key, s.Step)
	var hdr, foo bytes.Buffer
	io.Ff(&hdr, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"1.0\" byte_order=\"LittleEndian\" header_type=\"UInt64\">\n<UnstructuredGrid>\n")
	io.Ff(&hdr, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", npts, len(msh.Cells))
	io.Ff(&foo, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	io.WriteFileD(o.Dir, fn, &hdr, geo, dat, &foo)

	// collection
	o.Frames = append(o.Frames, VtkFrame{s.Time, fn})
	var pvd bytes.Buffer
	io.Ff(&pvd, "<?xml version=\"1.0\"?>\n<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n<Collection>\n")
	for _, f := range o.Frames {
		io.Ff(&pvd, "<DataSet timestep=\"%g\" group=\"\" part=\"0\" file=\"%s\"/>\n", f.Time, f.File)
	}
	io.Ff(&pvd, "</Collection>\n</VTKFile>\n")
	io.WriteFileD(o.Dir, filepath.Base(s.Fname), &pvd)
	return
}

// Close does nothing; the collection file is complete after each frame
func (o *VtkWriter) Close() error { return nil }

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// array writes one DataArray with n values; idx maps output positions to positions in d.
// Dummy data are expanded to n zero values
func (o *VtkWriter) array(buf *bytes.Buffer, d Data, n int, idx func(int) int) (err error) {
	if idx != nil || d.IsDummy() || d.NValues() != n {
		if !d.IsDummy() && idx == nil {
			return chk.Err("field %q has %d values but %d are required", d.FieldName(), d.NValues(), n)
		}
		d, err = expand(d, n, idx)
		if err != nil {
			return
		}
	}
	format := "ascii"
	if o.Binary {
		format = "binary"
	}
	io.Ff(buf, "<DataArray type=\"%s\" Name=\"%s\" NumberOfComponents=\"%d\" format=\"%s\"", d.VtkType(), d.FieldName(), d.NElem(), format)
	if n > 0 {
		min, max := d.MinMaxRange()
		io.Ff(buf, " RangeMin=\"%g\" RangeMax=\"%g\"", min, max)
	}
	io.Ff(buf, ">\n")
	if o.Binary {
		raw := new(bytes.Buffer)
		d.PrintBinaryAll(raw, true)
		io.Ff(buf, "%s", base64.StdEncoding.EncodeToString(raw.Bytes()))
	} else {
		d.PrintAsciiAll(buf)
	}
	io.Ff(buf, "\n</DataArray>\n")
	return
}

// expand returns a staging buffer with n values copied from d at positions idx(i); a nil idx
// means the same position
func expand(d Data, n int, idx func(int) int) (Data, error) {
	c, err := NewElementDataCache[float64](d.FieldName(), shapeOf(d.NElem()), n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		j := i
		if idx != nil {
			j = idx(i)
		}
		if err = c.StoreValue(i, d.Value(j)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// shapeOf returns the shape of staged values with nelem components
func shapeOf(nelem int) fld.Shape {
	switch nelem {
	case 3:
		return fld.Vector(3)
	case 9:
		return fld.Tensor(3)
	}
	return fld.Scalar()
}

func vtkTopology(buf *bytes.Buffer, msh *inp.Mesh, discont bool) error {

	// coordinates
	io.Ff(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	point := func(vid int) {
		x := make([]float64, 3)
		copy(x, msh.Verts[vid].C)
		io.Ff(buf, "%23.15e %23.15e %23.15e ", x[0], x[1], x[2])
	}
	if discont {
		for _, c := range msh.Cells {
			for _, vid := range c.Verts {
				point(vid)
			}
		}
	} else {
		for vid := range msh.Verts {
			point(vid)
		}
	}
	io.Ff(buf, "\n</DataArray>\n</Points>\n")

	// connectivities
	io.Ff(buf, "<Cells>\n<DataArray type=\"Int64\" Name=\"connectivity\" format=\"ascii\">\n")
	var corner int
	for _, c := range msh.Cells {
		for _, vid := range c.Verts {
			if discont {
				vid = corner
			}
			io.Ff(buf, "%d ", vid)
			corner++
		}
	}

	// offsets
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int64\" Name=\"offsets\" format=\"ascii\">\n")
	var offset int
	for _, c := range msh.Cells {
		offset += len(c.Verts)
		io.Ff(buf, "%d ", offset)
	}

	// types
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		code, ok := VtkTypes[c.Type]
		if !ok {
			return chk.Err("cell type %q has no VTK equivalent", c.Type)
		}
		io.Ff(buf, "%d ", code)
	}
	io.Ff(buf, "\n</DataArray>\n</Cells>\n")
	return nil
}
