// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// DiscreteSpace defines where output values live
type DiscreteSpace int

// discrete spaces
const (
	NodeData   DiscreteSpace = iota // one value per mesh vertex (averaged over incident cells)
	CornerData                      // one value per (cell, local vertex) pair; discontinuous
	ElemData                        // one value per cell
	NumSpaces                       // number of discrete spaces
)

var spaceNames = []string{"node", "corner", "elem"}

// String returns the name of space
func (o DiscreteSpace) String() string {
	if o < 0 || o >= NumSpaces {
		return io.Sf("space(%d)", int(o))
	}
	return spaceNames[o]
}

// SpaceByName returns the discrete space with given name
func SpaceByName(name string) (DiscreteSpace, error) {
	for i, n := range spaceNames {
		if n == name {
			return DiscreteSpace(i), nil
		}
	}
	return -1, chk.Err("discrete space %q is not available. options are %v", name, spaceNames)
}

// Data defines staged output values of one field on one discrete space
type Data interface {
	FieldName() string                                // name of field (column)
	NElem() int                                       // number of components of each value: 1, 3 or 9
	NValues() int                                     // number of values
	Value(idx int) []float64                          // copy of value idx
	VtkType() string                                  // VTK type of components; e.g. "Float64"
	PrintAscii(buf *bytes.Buffer, idx int) error      // prints value idx; components separated by spaces
	PrintAsciiAll(buf *bytes.Buffer)                  // prints all values
	PrintBinaryAll(buf *bytes.Buffer, printSize bool) // prints all values in little endian; optionally preceded by the byte size
	PrintAllYaml(buf *bytes.Buffer, prec int)         // prints all values as a YAML flow sequence
	MinMaxRange() (min, max float64)                  // range of all components
	IsDummy() bool                                    // placeholder of a field not computed in the current frame
}

// Number defines the types of components of staged values
type Number interface {
	~int64 | ~float64
}

// ElementDataCache holds a flat buffer of nValues × nElem components
type ElementDataCache[T Number] struct {
	name    string // field name
	nElem   int    // number of components: 1 (scalar), 3 (vector) or 9 (tensor)
	nRows   int    // rows of value
	nCols   int    // columns of value
	nValues int    // number of values
	data    []T    // [nValues*nElem] components
}

// NewElementDataCache returns a new staging buffer for values of given shape. Vectors with up
// to 3 components are padded to 3; tensors must be 3×3
func NewElementDataCache[T Number](name string, shape fld.Shape, nValues int) (o *ElementDataCache[T], err error) {
	o = &ElementDataCache[T]{name: name, nValues: nValues}
	switch shape.Kind {
	case fld.KindInteger, fld.KindEnum, fld.KindScalar:
		o.nElem, o.nRows, o.nCols = 1, 1, 1
	case fld.KindVector:
		if shape.N > 3 {
			return nil, chk.Err("Do not support output of vectors with fixed size >3. Field: %s", name)
		}
		o.nElem, o.nRows, o.nCols = 3, 3, 1
	case fld.KindTensor:
		if shape.N != 3 {
			return nil, chk.Err("Do not support output of tensors with size %dx%d; only 3x3 tensors are supported. Field: %s", shape.N, shape.N, name)
		}
		o.nElem, o.nRows, o.nCols = 9, 3, 3
	default:
		return nil, chk.Err("Do not support output of %v values. Field: %s", shape, name)
	}
	if nValues < 0 {
		return nil, chk.Err("number of values must be non-negative. %d is invalid. Field: %s", nValues, name)
	}
	o.data = make([]T, nValues*o.nElem)
	return
}

// FieldName returns the name of field
func (o *ElementDataCache[T]) FieldName() string { return o.name }

// NElem returns the number of components of each value
func (o *ElementDataCache[T]) NElem() int { return o.nElem }

// NValues returns the number of values
func (o *ElementDataCache[T]) NValues() int { return o.nValues }

// IsDummy returns false
func (o *ElementDataCache[T]) IsDummy() bool { return false }

// VtkType returns "Int64" or "Float64"
func (o *ElementDataCache[T]) VtkType() string {
	var x T
	if _, ok := any(x).(int64); ok {
		return "Int64"
	}
	return "Float64"
}

// Value returns a copy of value idx
func (o *ElementDataCache[T]) Value(idx int) (val []float64) {
	if idx < 0 || idx >= o.nValues {
		return nil
	}
	val = make([]float64, o.nElem)
	for i, v := range o.data[idx*o.nElem : (idx+1)*o.nElem] {
		val[i] = float64(v)
	}
	return
}

// StoreValue overwrites value idx; missing vector components are set to zero
func (o *ElementDataCache[T]) StoreValue(idx int, val []float64) error {
	return o.operate(idx, val, func(raw *T, v float64) { *raw = T(v) })
}

// Add adds val to value idx
func (o *ElementDataCache[T]) Add(idx int, val []float64) error {
	return o.operate(idx, val, func(raw *T, v float64) { *raw += T(v) })
}

// Zero sets value idx to zero
func (o *ElementDataCache[T]) Zero(idx int) error {
	return o.operate(idx, nil, func(raw *T, v float64) { *raw = 0 })
}

// Normalize divides value idx by divisor
func (o *ElementDataCache[T]) Normalize(idx, divisor int) error {
	if divisor == 0 {
		return chk.Err("cannot normalize value %d of field %q by zero", idx, o.name)
	}
	return o.operate(idx, nil, func(raw *T, v float64) { *raw /= T(divisor) })
}

// PrintAscii prints value idx
func (o *ElementDataCache[T]) PrintAscii(buf *bytes.Buffer, idx int) error {
	if idx < 0 || idx >= o.nValues {
		return chk.Err("index %d of field %q is out of range [0, %d)", idx, o.name, o.nValues)
	}
	for _, v := range o.data[idx*o.nElem : (idx+1)*o.nElem] {
		io.Ff(buf, "%v ", v)
	}
	return nil
}

// PrintAsciiAll prints all values
func (o *ElementDataCache[T]) PrintAsciiAll(buf *bytes.Buffer) {
	for _, v := range o.data {
		io.Ff(buf, "%v ", v)
	}
}

// PrintBinaryAll prints all values in little endian, optionally preceded by the uint64 byte size
func (o *ElementDataCache[T]) PrintBinaryAll(buf *bytes.Buffer, printSize bool) {
	if printSize {
		binary.Write(buf, binary.LittleEndian, uint64(len(o.data)*8))
	}
	binary.Write(buf, binary.LittleEndian, o.data)
}

// PrintAllYaml prints all values as a YAML flow sequence: [ v, v ] for scalars,
// [ [a, b, c], ... ] for vectors and [ [[a, b, c], [d, e, f], [g, h, i]], ... ] for tensors
func (o *ElementDataCache[T]) PrintAllYaml(buf *bytes.Buffer, prec int) {
	io.Ff(buf, "[ ")
	for idx := 0; idx < o.nValues; idx++ {
		if idx != 0 {
			io.Ff(buf, ", ")
		}
		val := o.data[idx*o.nElem : (idx+1)*o.nElem]
		switch {
		case o.nElem == 1:
			io.Ff(buf, "%s", yamlNumber(val[0], prec))
		case o.nCols == 1:
			o.yamlRow(buf, val, prec)
		default:
			io.Ff(buf, "[")
			for i := 0; i < o.nRows; i++ {
				if i != 0 {
					io.Ff(buf, ", ")
				}
				o.yamlRow(buf, val[i*o.nCols:(i+1)*o.nCols], prec)
			}
			io.Ff(buf, "]")
		}
	}
	io.Ff(buf, " ]")
}

// MinMaxRange returns the minimum and maximum components
func (o *ElementDataCache[T]) MinMaxRange() (min, max float64) {
	min, max = math.MaxFloat64, -math.MaxFloat64
	for _, v := range o.data {
		x := float64(v)
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// operate applies op to each component of value idx; val may be shorter than the value
func (o *ElementDataCache[T]) operate(idx int, val []float64, op func(raw *T, v float64)) error {
	if idx < 0 || idx >= o.nValues {
		return chk.Err("index %d of field %q is out of range [0, %d)", idx, o.name, o.nValues)
	}
	if len(val) > o.nElem {
		return chk.Err("value of field %q has %d components; at most %d are supported", o.name, len(val), o.nElem)
	}
	raw := o.data[idx*o.nElem : (idx+1)*o.nElem]
	for i := range raw {
		var v float64
		if i < len(val) {
			v = val[i]
		}
		op(&raw[i], v)
	}
	return nil
}

func (o *ElementDataCache[T]) yamlRow(buf *bytes.Buffer, row []T, prec int) {
	io.Ff(buf, "[")
	for i, v := range row {
		if i != 0 {
			io.Ff(buf, ", ")
		}
		io.Ff(buf, "%s", yamlNumber(v, prec))
	}
	io.Ff(buf, "]")
}

// yamlNumber formats v with prec significant digits
func yamlNumber[T Number](v T, prec int) string {
	if prec < 1 {
		return io.Sf("%v", v)
	}
	return io.Sf("%.*g", prec, float64(v))
}

// dummy ///////////////////////////////////////////////////////////////////////////////////////////

// DummyData holds a zero placeholder for a field not computed in the current frame
type DummyData struct {
	name  string // field name
	nElem int    // number of components
}

// NewDummyData returns a placeholder with the name and number of components of d
func NewDummyData(d Data) *DummyData {
	return &DummyData{d.FieldName(), d.NElem()}
}

// FieldName returns the name of field
func (o *DummyData) FieldName() string { return o.name }

// NElem returns the number of components
func (o *DummyData) NElem() int { return o.nElem }

// NValues returns 1
func (o *DummyData) NValues() int { return 1 }

// Value returns zeros
func (o *DummyData) Value(idx int) []float64 { return make([]float64, o.nElem) }

// VtkType returns "Float64"
func (o *DummyData) VtkType() string { return "Float64" }

// IsDummy returns true
func (o *DummyData) IsDummy() bool { return true }

// PrintAscii prints zeros for any index
func (o *DummyData) PrintAscii(buf *bytes.Buffer, idx int) error {
	o.PrintAsciiAll(buf)
	return nil
}

// PrintAsciiAll prints one zero value
func (o *DummyData) PrintAsciiAll(buf *bytes.Buffer) {
	for i := 0; i < o.nElem; i++ {
		io.Ff(buf, "0 ")
	}
}

// PrintBinaryAll prints one zero value
func (o *DummyData) PrintBinaryAll(buf *bytes.Buffer, printSize bool) {
	if printSize {
		binary.Write(buf, binary.LittleEndian, uint64(o.nElem*8))
	}
	binary.Write(buf, binary.LittleEndian, make([]float64, o.nElem))
}

// PrintAllYaml prints nothing
func (o *DummyData) PrintAllYaml(buf *bytes.Buffer, prec int) {}

// MinMaxRange returns zeros
func (o *DummyData) MinMaxRange() (min, max float64) { return }
