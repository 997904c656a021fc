// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"testing"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func checkTime(tst *testing.T, f Common, t float64, side LimitSide, changedCorrect, jumpCorrect bool) {
	changed, err := f.SetTime(t, side)
	if err != nil {
		tst.Errorf("SetTime(%g, %v) failed:\n%v", t, side, err)
		return
	}
	io.Pforan("t=%g side=%v: changed=%v jump=%v\n", t, side, changed, f.IsJumpTime())
	if changed != changedCorrect {
		tst.Errorf("SetTime(%g, %v): changed should be %v", t, side, changedCorrect)
	}
	if f.Changed() != changedCorrect {
		tst.Errorf("SetTime(%g, %v): Changed() should be %v", t, side, changedCorrect)
	}
	if f.IsJumpTime() != jumpCorrect {
		tst.Errorf("SetTime(%g, %v): IsJumpTime() should be %v", t, side, jumpCorrect)
	}
}

func checkValue(tst *testing.T, f *Field, cid int, correct []float64) {
	res := make([]float64, f.NComp())
	err := f.Value(res, cid)
	if err != nil {
		tst.Errorf("Value at cell %d failed:\n%v", cid, err)
		return
	}
	chk.Array(tst, io.Sf("%s @ cell %d", f.Name(), cid), 1e-15, res, correct)
}

func Test_field01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field01. default value and change detection")

	msh := stripMesh()
	f := NewField("conductivity", Scalar()).SetDefault("1.3").SetUnits("m/s")
	set := NewFieldSet("flow")
	err := set.Add(f)
	if err != nil {
		tst.Errorf("Add failed:\n%v", err)
		return
	}
	set.SetMesh(msh)
	err = set.SetInputList(nil, nil, nil)
	if err != nil {
		tst.Errorf("SetInputList failed:\n%v", err)
		return
	}

	checkTime(tst, f, 0, LimitRight, true, false)
	checkValue(tst, f, 0, []float64{1.3})
	checkValue(tst, f, 2, []float64{1.3})
	if f.FieldResult(msh.Tags) != ResultConstant {
		tst.Errorf("field result should be constant. %v is incorrect", f.FieldResult(msh.Tags))
	}
	if !f.IsConstant(-1) || !f.IsConstant(-2) {
		tst.Errorf("field should be constant on all regions")
	}
	if f.IsTimeDependent() {
		tst.Errorf("field should not be time dependent")
	}

	io.Pf("%v", set)
	chk.Int(tst, "number of messages", set.Messages.Len(), 2)
	chk.String(tst, set.Messages.List[0].Region, "rock")
	chk.String(tst, set.Messages.List[1].Region, "sand")
	chk.String(tst, set.Messages.List[1].Default, "1.3")

	checkTime(tst, f, 1, LimitRight, false, false)
	checkTime(tst, f, 1, LimitRight, false, false)
	if f.Status() != StatusConstant {
		tst.Errorf("status should be constant")
	}

	f.ForceChanged()
	if !f.Changed() || f.Status() != StatusChangedForced {
		tst.Errorf("change should be forced")
	}
	checkTime(tst, f, 2, LimitRight, true, false)
	checkTime(tst, f, 3, LimitRight, false, false)
	chk.Int(tst, "number of messages", set.Messages.Len(), 2)
}

func Test_field02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field02. jump times and limit sides")

	msh := stripMesh()
	f := NewField("k", Scalar())
	f.SetMesh(msh)
	err := f.SetInputList(inp.FieldsData{
		desc("k", 0, "ALL", "0"),
		desc("k", 1, "rock", "2"),
	}, nil, nil)
	if err != nil {
		tst.Errorf("SetInputList failed:\n%v", err)
		return
	}

	checkTime(tst, f, 0, LimitRight, true, false)
	if f.FieldResult(msh.Tags) != ResultZeros {
		tst.Errorf("field result should be zeros")
	}
	checkTime(tst, f, 0.5, LimitRight, false, false)

	tnext, found := f.NextInputTime(0.5)
	if !found {
		tst.Errorf("next input time should be found")
		return
	}
	chk.Float64(tst, "next input time", 1e-15, tnext, 1)

	checkTime(tst, f, 1, LimitLeft, false, true)
	checkValue(tst, f, 0, []float64{0})
	if f.FieldResult([]int{-1}) != ResultZeros {
		tst.Errorf("left value on rock should be zeros")
	}

	checkTime(tst, f, 1, LimitRight, true, true)
	checkValue(tst, f, 0, []float64{2})
	checkValue(tst, f, 2, []float64{0})
	if f.FieldResult([]int{-1}) != ResultConstant {
		tst.Errorf("right value on rock should be constant")
	}
	if f.FieldResult(msh.Tags) != ResultOther {
		tst.Errorf("field result over rock and sand should be other. %v is incorrect", f.FieldResult(msh.Tags))
	}

	// same time and side => no-op
	checkTime(tst, f, 1, LimitRight, true, true)

	checkTime(tst, f, 2, LimitRight, false, false)
	if _, found = f.NextInputTime(1); found {
		tst.Errorf("there should be no input after t=1")
	}
}

func Test_field03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field03. input errors")

	msh := stripMesh()

	// missing value
	f := NewField("k", Scalar())
	f.SetMesh(msh)
	f.SetInputList(inp.FieldsData{desc("k", 0, "rock", "1"), desc("k", 1, "sand", "1")}, nil, nil)
	_, err := f.SetTime(0, LimitRight)
	if err == nil {
		tst.Errorf("missing value on sand should cause an error")
		return
	}
	io.Pforan("%v\n", err)
	chk.String(tst, err.Error(), `Missing value of the input field "k" ("k") on region ID: 2 label: "sand".`)

	// region not checked
	f = NewField("k", Scalar()).SetNoCheck("sand")
	f.SetMesh(msh)
	f.SetInputList(inp.FieldsData{desc("k", 0, "rock", "1")}, nil, nil)
	checkTime(tst, f, 0, LimitRight, true, false)
	if f.FieldResult([]int{-2}) != ResultNone || f.FieldResult(msh.Tags) != ResultNone {
		tst.Errorf("field result with a region without value should be none")
	}

	// non-ascending time
	_, err = f.SetTime(-1, LimitRight)
	if err == nil {
		tst.Errorf("non-ascending time should cause an error")
	}
	io.Pforan("%v\n", err)

	// descending descriptors
	f = NewField("k", Scalar())
	f.SetMesh(msh)
	err = f.SetInputList(inp.FieldsData{desc("k", 1, "ALL", "1"), desc("k", 0, "ALL", "1")}, nil, nil)
	if err == nil {
		tst.Errorf("descending descriptors should cause an error")
	}
	io.Pforan("%v\n", err)

	// unknown region
	err = f.SetInputList(inp.FieldsData{desc("k", 0, "clay", "1")}, nil, nil)
	if err == nil {
		tst.Errorf("unknown region should cause an error")
	}
	io.Pforan("%v\n", err)

	// limits
	f = NewField("k", Scalar()).SetLimits(0, 10)
	f.SetMesh(msh)
	f.SetInputList(inp.FieldsData{desc("k", 0, "ALL", "20")}, nil, nil)
	_, err = f.SetTime(0, LimitRight)
	if err == nil {
		tst.Errorf("value out of limits should cause an error")
	}
	io.Pforan("%v\n", err)
}

func Test_field04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field04. descriptors with the same time")

	msh := stripMesh()
	f := NewField("k", Scalar())
	f.SetMesh(msh)
	f.SetInputList(inp.FieldsData{
		desc("k", 0, "ALL", "1"),
		desc("k", 0, "rock", "5"),
		desc("k", 0, "2", "7"),
	}, nil, nil)
	checkTime(tst, f, 0, LimitRight, true, false)
	checkValue(tst, f, 0, []float64{5})
	checkValue(tst, f, 1, []float64{5})
	checkValue(tst, f, 2, []float64{7})
}

func Test_field05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field05. copy from other field")

	msh := stripMesh()
	src := NewField("k", Scalar()).SetFlags(FlagDeclareInput | FlagAllowInputCopy)
	src.SetMesh(msh)
	src.SetInputList(inp.FieldsData{desc("k", 0, "ALL", "1"), desc("k", 1, "ALL", "2")}, nil, nil)

	// copy not allowed
	dst := NewField("k_transport", Scalar())
	err := dst.CopyFrom(src)
	if err != nil {
		tst.Errorf("CopyFrom failed:\n%v", err)
		return
	}
	if dst.Shared() == src.Shared() {
		tst.Errorf("copy should be a no-op without FlagAllowInputCopy")
	}

	// destination with own input
	own := NewField("k", Scalar()).SetFlags(FlagDeclareInput | FlagAllowInputCopy)
	own.SetMesh(msh)
	own.SetInputList(inp.FieldsData{desc("k", 0, "ALL", "3")}, nil, nil)
	own.CopyFrom(src)
	if own.Shared() == src.Shared() {
		tst.Errorf("copy should be a no-op when destination has own input")
	}

	// copy
	dst.SetFlags(FlagAllowInputCopy)
	err = dst.CopyFrom(src)
	if err != nil {
		tst.Errorf("CopyFrom failed:\n%v", err)
		return
	}
	if dst.Shared() != src.Shared() {
		tst.Errorf("copy should share data")
	}
	chk.String(tst, dst.Name(), "k_transport")
	chk.String(tst, dst.InputName(), "k")

	// independent times
	checkTime(tst, src, 0, LimitRight, true, false)
	checkTime(tst, src, 1, LimitRight, true, true)
	checkTime(tst, dst, 0, LimitRight, true, false)
	checkValue(tst, src, 0, []float64{2})
	checkValue(tst, dst, 0, []float64{1})
	checkTime(tst, dst, 1, LimitRight, true, true)
	checkValue(tst, dst, 0, []float64{2})

	// incompatible shapes
	vec := NewField("v", Vector(3)).SetFlags(FlagAllowInputCopy)
	err = vec.CopyFrom(src)
	if err == nil {
		tst.Errorf("copy between different shapes should cause an error")
	}
	io.Pforan("%v\n", err)
	err = CopyFrom(vec, newMulti(tst))
	if err == nil {
		tst.Errorf("copy between field and multi field should cause an error")
	}
	io.Pforan("%v\n", err)
}

func newMulti(tst *testing.T) *MultiField {
	m, err := NewMultiField("conc", []string{"A", "B"})
	if err != nil {
		tst.Errorf("NewMultiField failed:\n%v", err)
	}
	return m
}

func Test_field06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field06. classification of constants")

	msh := stripMesh()
	for i, c := range []struct {
		shape Shape
		value string
		res   Result
		val   []float64
	}{
		{Scalar(), "0", ResultZeros, []float64{0}},
		{Scalar(), "1", ResultOnes, []float64{1}},
		{Integer(), "3", ResultConstant, []float64{3}},
		{Vector(3), "[1, 1, 1]", ResultOnes, []float64{1, 1, 1}},
		{Vector(3), "[0, 0, 0]", ResultZeros, []float64{0, 0, 0}},
		{Vector(3), "[1.2, 3.4, 5.6]", ResultConstant, []float64{1.2, 3.4, 5.6}},
		{Tensor(3), "1", ResultEye, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}},
		{Tensor(3), "[1, 2, 3]", ResultConstant, []float64{1, 0, 0, 0, 2, 0, 0, 0, 3}},
		{Tensor(3), "[1, 2, 3, 4, 5, 6]", ResultConstant, []float64{1, 4, 6, 4, 2, 5, 6, 5, 3}},
		{Tensor(3), "[[1, 2, 0], [2, 4, 3], [0, 3, 5]]", ResultConstant, []float64{1, 2, 0, 2, 4, 3, 0, 3, 5}},
	} {
		f := NewField("f", c.shape)
		f.SetMesh(msh)
		err := f.SetInputList(inp.FieldsData{desc("f", 0, "ALL", c.value)}, nil, nil)
		if err != nil {
			tst.Errorf("SetInputList failed:\n%v", err)
			return
		}
		_, err = f.SetTime(0, LimitRight)
		if err != nil {
			tst.Errorf("SetTime failed:\n%v", err)
			return
		}
		if f.FieldResult(msh.Tags) != c.res {
			tst.Errorf("test %d: result should be %v. %v is incorrect", i, c.res, f.FieldResult(msh.Tags))
		}
		checkValue(tst, f, 1, c.val)
	}

	// wrong values
	for _, c := range []struct {
		shape Shape
		value string
	}{
		{Integer(), "1.5"},
		{Enum(), "-1"},
		{Vector(3), "[1, 2]"},
		{Tensor(3), "[1, 2, 3, 4]"},
		{Scalar(), "\"abc\""},
	} {
		f := NewField("f", c.shape)
		f.SetMesh(msh)
		f.SetInputList(inp.FieldsData{desc("f", 0, "ALL", c.value)}, nil, nil)
		_, err := f.SetTime(0, LimitRight)
		if err == nil {
			tst.Errorf("value %s of %v should cause an error", c.value, c.shape)
			continue
		}
		io.Pforan("%v\n", err)
	}
}

func Test_multi01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("multi01. multi field")

	_, err := NewMultiField("conc", []string{"A", "B", "A"})
	if err == nil {
		tst.Errorf("repeated component names should cause an error")
	}
	io.Pforan("%v\n", err)

	msh := stripMesh()
	m, err := NewMultiField("conc", []string{"A", "B", ""})
	if err != nil {
		tst.Errorf("NewMultiField failed:\n%v", err)
		return
	}
	chk.Int(tst, "ncomp", m.NComp(), 3)
	chk.String(tst, m.FullCompName(0), "A_conc")
	chk.String(tst, m.FullCompName(1), "B_conc")
	chk.String(tst, m.FullCompName(2), "conc")
	if m.Shape().Kind != KindVectorRuntime {
		tst.Errorf("shape of multi field should be a runtime vector")
	}

	m.SetMesh(msh)
	err = m.SetInputList(inp.FieldsData{
		desc("conc", 0, "ALL", "[0, 1, 0]"),
		desc("conc", 1, "sand", "[0, 1, 2]"),
	}, nil, nil)
	if err != nil {
		tst.Errorf("SetInputList failed:\n%v", err)
		return
	}
	checkTime(tst, m, 0, LimitRight, true, false)
	if m.FieldResult(msh.Tags) != ResultOther {
		tst.Errorf("components disagree => result should be other")
	}
	if m.Subs[0].FieldResult(msh.Tags) != ResultZeros {
		tst.Errorf("result of component A should be zeros")
	}
	if !m.IsConstant(-2) {
		tst.Errorf("multi field should be constant on sand")
	}
	checkValue(tst, m.Subs[1], 2, []float64{1})

	checkTime(tst, m, 1, LimitRight, true, true)
	checkValue(tst, m.Subs[2], 2, []float64{2})
	checkValue(tst, m.Subs[2], 0, []float64{0})
}

func Test_field07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("field07. input list of copies")

	msh := stripMesh()
	src := NewField("k", Scalar())
	src.SetMesh(msh)
	list := inp.FieldsData{desc("k", 0, "ALL", "1")}
	err := src.SetInputList(list, nil, nil)
	if err != nil {
		tst.Errorf("SetInputList failed:\n%v", err)
		return
	}

	cpy := NewField("k", Scalar()).SetFlags(FlagAllowInputCopy)
	set := NewFieldSet("transport")
	if err = set.Add(cpy); err != nil {
		tst.Errorf("Add failed:\n%v", err)
		return
	}
	set.SetMesh(msh)
	if err = cpy.CopyFrom(src); err != nil {
		tst.Errorf("CopyFrom failed:\n%v", err)
		return
	}
	if cpy.Shared() != src.Shared() {
		tst.Errorf("copy should share the input of source")
		return
	}

	// the copy does not declare input; the shared list is kept
	if err = set.SetInputList(list, nil, nil); err != nil {
		tst.Errorf("SetInputList of copies failed:\n%v", err)
		return
	}
	checkTime(tst, src, 0, LimitRight, true, false)
	checkValue(tst, src, 0, []float64{1})
	checkTime(tst, cpy, 0, LimitRight, true, false)
	checkValue(tst, cpy, 2, []float64{1})
}
