// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// frameK stages field k with values 1 (rock) and 3 (sand) at time t in the given spaces
func frameK(tst *testing.T, s *Stream, k *fld.Field, t float64, spaces ...DiscreteSpace) {
	_, err := k.SetTime(t, fld.LimitRight)
	require.NoError(tst, err)
	require.NoError(tst, s.SetTime(t))
	cm, _ := fld.NewElementCacheMap(3)
	for _, space := range spaces {
		require.NoError(tst, s.ComputeFieldData(space, k, cm, [][]int{{0, 1, 2}}))
	}
}

func Test_gmsh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gmsh01. mesh and data sections")

	msh := stripMesh()
	k := rockSand(msh, "k", fld.Scalar(), "1", "3")
	s, err := NewStream("/tmp/gofield/out", msh, &inp.StreamData{Name: "gmsh01", Format: "gmsh"})
	require.NoError(tst, err)
	frameK(tst, s, k, 0, ElemData, CornerData)
	require.NoError(tst, s.WriteTimeFrame())
	frameK(tst, s, k, 1)
	require.NoError(tst, s.WriteTimeFrame())
	require.NoError(tst, s.Close())

	b, err := io.ReadFile("/tmp/gofield/out/gmsh01.msh")
	require.NoError(tst, err)
	correct := `$MeshFormat
2 0 8
$EndMeshFormat
$Nodes
8
1 0 0 0
2 1 0 0
3 2 0 0
4 3 0 0
5 0 1 0
6 1 1 0
7 2 1 0
8 3 1 0
$EndNodes
$Elements
3
1 3 3 1 1 0 1 2 6 5
2 3 3 1 1 0 2 3 7 6
3 3 3 2 2 0 3 4 8 7
$EndElements
$ElementNodeData
1
"k"
1
0
3
0
1
3
1 4 1 1 1 1
2 4 1 1 1 1
3 4 3 3 3 3
$EndElementNodeData
$ElementData
1
"k"
1
0
3
0
1
3
1 1
2 1
3 3
$EndElementData
`
	chk.String(tst, strings.ReplaceAll(string(b), " \n", "\n"), correct)
}

func Test_vtk01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vtk01. ascii frames and collection")

	msh := stripMesh()
	k := rockSand(msh, "k", fld.Scalar(), "1", "3")
	s, err := NewStream("/tmp/gofield/out", msh, &inp.StreamData{Name: "vtk01", Format: "vtk", Fname: "vtk01.msh"})
	require.NoError(tst, err)
	chk.String(tst, s.Fname, "/tmp/gofield/out/vtk01.pvd")
	frameK(tst, s, k, 0, ElemData, NodeData)
	require.NoError(tst, s.WriteTimeFrame())
	frameK(tst, s, k, 0.5)
	require.NoError(tst, s.WriteTimeFrame())
	require.NoError(tst, s.Close())

	b, err := io.ReadFile("/tmp/gofield/out/vtk01.pvd")
	require.NoError(tst, err)
	pvd := string(b)
	assert.Contains(tst, pvd, `<DataSet timestep="0" group="" part="0" file="vtk01-000000.vtu"/>`)
	assert.Contains(tst, pvd, `<DataSet timestep="0.5" group="" part="0" file="vtk01-000001.vtu"/>`)

	b, err = io.ReadFile("/tmp/gofield/out/vtk01-000000.vtu")
	require.NoError(tst, err)
	vtu := string(b)
	assert.Contains(tst, vtu, `<Piece NumberOfPoints="8" NumberOfCells="3">`)
	assert.Contains(tst, vtu, "<PointData>\n<DataArray type=\"Float64\" Name=\"k\" NumberOfComponents=\"1\" format=\"ascii\" RangeMin=\"1\" RangeMax=\"3\">\n1 1 2 3 1 1 2 3 \n</DataArray>")
	assert.Contains(tst, vtu, "<CellData>\n<DataArray type=\"Float64\" Name=\"k\" NumberOfComponents=\"1\" format=\"ascii\" RangeMin=\"1\" RangeMax=\"3\">\n1 1 3 \n</DataArray>")
	assert.Contains(tst, vtu, "<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n9 9 9 \n")

	// dummies are written as zeros
	b, err = io.ReadFile("/tmp/gofield/out/vtk01-000001.vtu")
	require.NoError(tst, err)
	assert.Contains(tst, string(b), "<CellData>\n<DataArray type=\"Float64\" Name=\"k\" NumberOfComponents=\"1\" format=\"ascii\" RangeMin=\"0\" RangeMax=\"0\">\n0 0 0 \n</DataArray>")
}

func Test_vtk02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vtk02. binary and discontinuous points")

	msh := stripMesh()
	k := rockSand(msh, "k", fld.Scalar(), "1", "3")
	s, err := NewStream("/tmp/gofield/out", msh, &inp.StreamData{Name: "vtk02", Format: "vtk", Binary: true})
	require.NoError(tst, err)
	frameK(tst, s, k, 0, ElemData, CornerData)
	require.NoError(tst, s.WriteTimeFrame())
	s.Close()

	b, err := io.ReadFile("/tmp/gofield/out/vtk02-000000.vtu")
	require.NoError(tst, err)
	vtu := string(b)
	assert.Contains(tst, vtu, `header_type="UInt64"`)
	assert.Contains(tst, vtu, `<Piece NumberOfPoints="12" NumberOfCells="3">`)

	// decode cell data
	tag := "<CellData>\n<DataArray type=\"Float64\" Name=\"k\" NumberOfComponents=\"1\" format=\"binary\" RangeMin=\"1\" RangeMax=\"3\">\n"
	i := strings.Index(vtu, tag)
	require.True(tst, i >= 0)
	enc := vtu[i+len(tag):]
	enc = enc[:strings.Index(enc, "\n")]
	raw, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(tst, err)
	var size uint64
	vals := make([]float64, 3)
	buf := bytes.NewBuffer(raw)
	binary.Read(buf, binary.LittleEndian, &size)
	binary.Read(buf, binary.LittleEndian, vals)
	assert.Equal(tst, uint64(24), size)
	chk.Array(tst, "k", 1e-15, vals, []float64{1, 1, 3})
}

func Test_observe01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("observe01. values at observe points")

	msh := stripMesh()
	k := rockSand(msh, "k", fld.Scalar(), "1", "3")
	dat := &inp.StreamData{
		Name:      "observe01",
		Format:    "observe",
		Precision: 6,
		Points:    []*inp.PointData{{Name: "p1", X: []float64{0.4, 0.5}}, {Name: "p2", X: []float64{2.9, 0.1, 0}}},
	}
	s, err := NewStream("/tmp/gofield/out", msh, dat)
	require.NoError(tst, err)
	w := s.writer.(*ObserveWriter)
	chk.Int(tst, "cell of p1", w.Points[0].ElementIdx, 0)
	chk.Int(tst, "cell of p2", w.Points[1].ElementIdx, 2)
	chk.Array(tst, "global point of p2", 1e-15, w.Points[1].GlobalPoint, []float64{2.5, 0.5, 0})

	frameK(tst, s, k, 0, ElemData, NodeData)
	require.NoError(tst, s.WriteTimeFrame())
	frameK(tst, s, k, 1)
	require.NoError(tst, s.WriteTimeFrame())
	require.NoError(tst, s.Close())

	b, err := io.ReadFile("/tmp/gofield/out/observe01.yaml")
	require.NoError(tst, err)
	io.Pf("%s\n", b)
	var res struct {
		Points []*ObservePoint  `yaml:"points"`
		Data   []map[string]any `yaml:"data"`
	}
	require.NoError(tst, yaml.Unmarshal(b, &res))
	require.Len(tst, res.Points, 2)
	chk.String(tst, res.Points[1].Name, "p2")
	chk.Array(tst, "observe point of p1", 1e-15, res.Points[0].ObservePoint, []float64{0.4, 0.5})
	require.Len(tst, res.Data, 2)
	assert.Equal(tst, 0, res.Data[0]["time"])
	assert.Equal(tst, []any{1, 3}, res.Data[0]["k"])
	assert.Equal(tst, 1, res.Data[1]["time"])
	assert.NotContains(tst, res.Data[1], "k")

	// no points
	_, err = NewStream("/tmp/gofield/out", msh, &inp.StreamData{Name: "observe02", Format: "observe"})
	assert.Error(tst, err)
}

func Test_live01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("live01. websocket frames")

	msh := stripMesh()
	k := rockSand(msh, "k", fld.Scalar(), "1", "3")
	s, err := NewStream("", msh, &inp.StreamData{Name: "live01", Format: "live", Address: "127.0.0.1:0"})
	require.NoError(tst, err)
	w := s.writer.(*LiveWriter)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+w.Addr()+"/ws", nil)
	require.NoError(tst, err)
	defer conn.Close()
	for i := 0; i < 100 && w.NumClients() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	chk.Int(tst, "number of clients", w.NumClients(), 1)

	frameK(tst, s, k, 0, ElemData)
	require.NoError(tst, s.WriteTimeFrame())
	var frame LiveFrame
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(tst, conn.ReadJSON(&frame))
	chk.String(tst, frame.Stream, "live01")
	chk.Int(tst, "step", frame.Step, 0)
	require.Len(tst, frame.Fields, 1)
	chk.String(tst, frame.Fields[0].Name, "k")
	chk.String(tst, frame.Fields[0].Space, "elem")
	assert.Equal(tst, [][]float64{{1}, {1}, {3}}, frame.Fields[0].Values)

	require.NoError(tst, s.Close())
	_, _, err = conn.ReadMessage()
	assert.Error(tst, err)

	_, err = NewLiveWriter("")
	assert.Error(tst, err)
}
