// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"math"
	"os"
	"path/filepath"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// GmshTypes maps cell types to GMSH element types
var GmshTypes = map[string]int{
	"lin2": 1,
	"tri3": 2,
	"qua4": 3,
	"tet4": 4,
	"hex8": 5,
}

// gmshSections holds the section names of each discrete space
var gmshSections = [NumSpaces]string{
	NodeData:   "NodeData",
	CornerData: "ElementNodeData",
	ElemData:   "ElementData",
}

// GmshWriter writes all frames into one GMSH (2.0 ascii) file
type GmshWriter struct {
	file       *os.File // output file
	headerDone bool     // header, nodes and elements have been written
}

func init() {
	SetAllocator("gmsh", func(s *Stream, dat *inp.StreamData) (Writer, error) {
		s.FixMainFileExtension(".msh")
		if err := os.MkdirAll(filepath.Dir(s.Fname), 0777); err != nil {
			return nil, err
		}
		file, err := os.Create(s.Fname)
		if err != nil {
			return nil, err
		}
		return &GmshWriter{file: file}, nil
	})
}

// WriteData writes the mesh at the first call and then the data sections of one frame.
// Dummy data are not written
func (o *GmshWriter) WriteData(s *Stream) (err error) {
	buf := new(bytes.Buffer)
	if !o.headerDone {
		err = gmshMesh(buf, s.Msh)
		if err != nil {
			return
		}
		o.headerDone = true
	}
	for space := DiscreteSpace(0); space < NumSpaces; space++ {
		for _, d := range s.Data(space) {
			if d.IsDummy() {
				continue
			}
			err = gmshSection(buf, s, space, d)
			if err != nil {
				return
			}
		}
	}
	_, err = buf.WriteTo(o.file)
	return
}

// Close closes the file
func (o *GmshWriter) Close() error {
	return o.file.Close()
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func gmshMesh(buf *bytes.Buffer, msh *inp.Mesh) error {
	io.Ff(buf, "$MeshFormat\n2 0 8\n$EndMeshFormat\n")
	io.Ff(buf, "$Nodes\n%d\n", len(msh.Verts))
	for _, v := range msh.Verts {
		x := make([]float64, 3)
		copy(x, v.C)
		io.Ff(buf, "%d %v %v %v\n", v.Id+1, x[0], x[1], x[2])
	}
	io.Ff(buf, "$EndNodes\n$Elements\n%d\n", len(msh.Cells))
	for _, c := range msh.Cells {
		typ, ok := GmshTypes[c.Type]
		if !ok {
			return chk.Err("cell type %q has no GMSH equivalent", c.Type)
		}
		tag := iabs(c.Tag)
		io.Ff(buf, "%d %d 3 %d %d %d", c.Id+1, typ, tag, tag, c.Part)
		for _, vid := range c.Verts {
			io.Ff(buf, " %d", vid+1)
		}
		io.Ff(buf, "\n")
	}
	io.Ff(buf, "$EndElements\n")
	return nil
}

func gmshSection(buf *bytes.Buffer, s *Stream, space DiscreteSpace, d Data) (err error) {
	t := s.Time
	if math.IsInf(t, 0) || math.IsNaN(t) {
		t = 0
	}
	nrows := d.NValues()
	if space == CornerData {
		nrows = len(s.Msh.Cells)
	}
	sec := gmshSections[space]
	io.Ff(buf, "$%s\n1\n\"%s\"\n1\n%v\n3\n%d\n%d\n%d\n", sec, d.FieldName(), t, s.Step, d.NElem(), nrows)
	switch space {
	case CornerData:
		for _, c := range s.Msh.Cells {
			io.Ff(buf, "%d %d ", c.Id+1, len(c.Verts))
			for i := range c.Verts {
				if err = d.PrintAscii(buf, s.CornerOffset(c.Id)+i); err != nil {
					return
				}
			}
			io.Ff(buf, "\n")
		}
	default:
		for idx := 0; idx < nrows; idx++ {
			io.Ff(buf, "%d ", idx+1)
			if err = d.PrintAscii(buf, idx); err != nil {
				return
			}
			io.Ff(buf, "\n")
		}
	}
	io.Ff(buf, "$End%s\n", sec)
	return
}

func iabs(val int) int {
	if val < 0 {
		return -val
	}
	return val
}
