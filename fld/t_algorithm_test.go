// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"encoding/json"
	"testing"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_algo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo01. formula")

	msh := stripMesh()
	funcs := inp.FuncsData{
		{Name: "grow", Type: "lin", Prms: dbf.Params{&dbf.P{N: "m", V: 2}, &dbf.P{N: "ts", V: 0}}},
		{Name: "one", Type: "cte", Prms: dbf.Params{&dbf.P{N: "c", V: 1}}},
	}

	f := NewField("k", Scalar())
	f.SetMesh(msh)
	err := f.SetInputList(inp.FieldsData{{Name: "k", Region: "ALL", Funcs: []string{"grow"}}}, funcs, nil)
	require.NoError(tst, err)
	_, err = f.SetTime(1.5, LimitRight)
	require.NoError(tst, err)
	assert.True(tst, f.IsTimeDependent())
	assert.Equal(tst, ResultOther, f.FieldResult(msh.Tags))
	checkValue(tst, f, 2, []float64{3})

	v := NewField("v", Vector(3))
	v.SetMesh(msh)
	err = v.SetInputList(inp.FieldsData{{Name: "v", Region: "ALL", Funcs: []string{"one", "zero", "grow"}}}, funcs, nil)
	require.NoError(tst, err)
	_, err = v.SetTime(2, LimitRight)
	require.NoError(tst, err)
	checkValue(tst, v, 0, []float64{1, 0, 4})

	// wrong number of functions
	v = NewField("v", Vector(3))
	v.SetMesh(msh)
	v.SetInputList(inp.FieldsData{{Name: "v", Region: "ALL", Funcs: []string{"one", "grow"}}}, funcs, nil)
	_, err = v.SetTime(0, LimitRight)
	assert.Error(tst, err)

	// unknown function
	f = NewField("k", Scalar())
	f.SetMesh(msh)
	f.SetInputList(inp.FieldsData{{Name: "k", Region: "ALL", Funcs: []string{"shrink"}}}, funcs, nil)
	_, err = f.SetTime(0, LimitRight)
	assert.Error(tst, err)
}

func Test_algo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo02. elementwise and interpolated")

	msh := stripMesh()
	readers := inp.NewReaderCache()

	f := NewField("perm", Scalar())
	f.SetMesh(msh)
	err := f.SetInputList(inp.FieldsData{{Name: "perm", Region: "ALL", Type: inp.AlgoElementwise, Table: "perm-cells.json", Dir: "data"}}, nil, readers)
	require.NoError(tst, err)
	_, err = f.SetTime(0, LimitRight)
	require.NoError(tst, err)
	assert.Equal(tst, ResultOther, f.FieldResult(msh.Tags))
	checkValue(tst, f, 0, []float64{1})
	checkValue(tst, f, 2, []float64{3})

	// second field reading the same table
	g := NewField("perm2", Scalar())
	g.SetMesh(msh)
	g.SetInputList(inp.FieldsData{{Name: "perm2", Region: "rock", Type: inp.AlgoElementwise, Table: "perm-cells.json", Dir: "data"}}, nil, readers)
	g.SetNoCheck("sand")
	_, err = g.SetTime(0, LimitRight)
	require.NoError(tst, err)
	checkValue(tst, g, 1, []float64{2})
	assert.Equal(tst, 1, readers.NumReads())

	// interpolated
	v := NewField("vel", Vector(2))
	v.SetMesh(msh)
	err = v.SetInputList(inp.FieldsData{{Name: "vel", Region: "ALL", Table: "perm-points.yaml", Dir: "data"}}, nil, readers)
	require.NoError(tst, err)
	_, err = v.SetTime(0, LimitRight)
	require.NoError(tst, err)
	checkValue(tst, v, 0, []float64{10, 11})
	checkValue(tst, v, 1, []float64{30, 31})
	checkValue(tst, v, 2, []float64{30, 31})
	assert.Equal(tst, 2, readers.NumReads())

	// component of multi field
	m, err := NewMultiField("conc", []string{"A", "B"})
	require.NoError(tst, err)
	m.SetMesh(msh)
	err = m.SetInputList(inp.FieldsData{{Name: "conc", Region: "ALL", Table: "perm-points.yaml", Dir: "data"}}, nil, readers)
	require.NoError(tst, err)
	_, err = m.SetTime(0, LimitRight)
	require.NoError(tst, err)
	checkValue(tst, m.Subs[1], 0, []float64{11})

	// wrong number of columns
	s := NewField("s", Scalar())
	s.SetMesh(msh)
	s.SetInputList(inp.FieldsData{{Name: "s", Region: "ALL", Table: "perm-points.yaml", Dir: "data"}}, nil, readers)
	_, err = s.SetTime(0, LimitRight)
	require.NoError(tst, err)
	res := make([]float64, 1)
	assert.Error(tst, s.Value(res, 0))

	// unsupported file
	s = NewField("s", Scalar())
	s.SetMesh(msh)
	s.SetInputList(inp.FieldsData{{Name: "s", Region: "ALL", Type: inp.AlgoElementwise, Table: "perm.txt", Dir: "data"}}, nil, readers)
	_, err = s.SetTime(0, LimitRight)
	assert.Error(tst, err)
}

func Test_algo03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo03. time list")

	msh := stripMesh()
	f := NewField("head", Scalar())
	f.SetMesh(msh)
	err := f.SetInputList(inp.FieldsData{{
		Name:   "head",
		Region: "ALL",
		Times:  []float64{0, 2},
		Values: []json.RawMessage{json.RawMessage("0"), json.RawMessage("4")},
	}}, nil, nil)
	require.NoError(tst, err)

	_, err = f.SetTime(0, LimitRight)
	require.NoError(tst, err)
	assert.True(tst, f.IsTimeDependent())
	assert.Equal(tst, ResultZeros, f.FieldResult(msh.Tags))
	checkValue(tst, f, 0, []float64{0})

	_, err = f.SetTime(1, LimitRight)
	require.NoError(tst, err)
	assert.Equal(tst, ResultConstant, f.FieldResult(msh.Tags))
	checkValue(tst, f, 1, []float64{2})

	_, err = f.SetTime(3, LimitRight)
	require.NoError(tst, err)
	checkValue(tst, f, 2, []float64{4})

	// copy at another time shares the algorithm but not its classification
	c := NewField("head", Scalar()).SetFlags(FlagAllowInputCopy)
	c.SetMesh(msh)
	require.NoError(tst, c.CopyFrom(f))
	_, err = c.SetTime(0, LimitRight)
	require.NoError(tst, err)
	assert.Same(tst, f.Algorithm(-1), c.Algorithm(-1))
	assert.Equal(tst, ResultZeros, c.FieldResult(msh.Tags))
	assert.Equal(tst, ResultConstant, f.FieldResult(msh.Tags))
	checkValue(tst, c, 0, []float64{0})
	checkValue(tst, f, 0, []float64{4})

	// direct use
	a := new(TimeList)
	err = a.Init(&inp.FieldData{
		Times:  []float64{0, 1},
		Values: []json.RawMessage{json.RawMessage("[0, 0, 0]"), json.RawMessage("[2, 2, 2]")},
	}, &Context{Field: "v", Shape: Vector(3), Comp: -1})
	require.NoError(tst, err)
	assert.Equal(tst, ResultZeros, a.Result())
	assert.True(tst, a.SetTime(0.5))
	assert.Equal(tst, ResultOnes, a.Result())
	assert.False(tst, a.SetTime(0.5))

	// wrong times
	err = a.Init(&inp.FieldData{
		Times:  []float64{1, 1},
		Values: []json.RawMessage{json.RawMessage("0"), json.RawMessage("1")},
	}, &Context{Field: "s", Shape: Scalar(), Comp: -1})
	assert.Error(tst, err)
}

func Test_algo04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo04. allocators and locator")

	_, err := NewAlgorithm(&inp.FieldData{Type: "spline"}, &Context{Field: "k", Shape: Scalar(), Comp: -1})
	assert.Error(tst, err)

	assert.Panics(tst, func() {
		SetAllocator(inp.AlgoConstant, func() Algorithm { return new(Constant) })
	})

	loc := NewPointLocator([][]float64{{0, 0}, {1, 0, 0}, {0, 2}})
	idx, d2 := loc.Nearest([]float64{0.9, 0.1})
	assert.Equal(tst, 1, idx)
	chk.Float64(tst, "dist2", 1e-15, d2, 0.02)
	idx, _ = loc.Nearest([]float64{0, 5, 0})
	assert.Equal(tst, 2, idx)
}
