// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
)

// algorithm types
const (
	AlgoConstant     = "constant"
	AlgoFormula      = "formula"
	AlgoInterpolated = "interpolated"
	AlgoTimeList     = "timelist"
	AlgoElementwise  = "elementwise"
)

// FieldDecl declares a field used by the equations
type FieldDecl struct {
	Name       string    `json:"name"`       // name of field. ex: "conductivity"
	InputName  string    `json:"input"`      // key used by field descriptors; default is Name
	Shape      string    `json:"shape"`      // "integer", "enum", "scalar", "vector", "tensor" or "multi"
	Dim        int       `json:"dim"`        // size of vector or dimension of tensor; 0 => 3
	Units      string    `json:"units"`      // units. ex: "m/s"
	Limits     []float64 `json:"limits"`     // [min, max] allowed values
	Default    string    `json:"default"`    // default value (JSON text). ex: "1.3", "[0,0,-9.81]"
	Components []string  `json:"components"` // component names of multi fields. ex: ["A", "B"]
	NoCheck    []string  `json:"nocheck"`    // regions not checked for completeness
}

// GetInputName returns the input name of field
func (o *FieldDecl) GetInputName() string {
	if o.InputName == "" {
		return o.Name
	}
	return o.InputName
}

// FieldData holds one field descriptor: the algorithm of a field on a set of regions from a given time
type FieldData struct {
	Time   float64           `json:"time"`   // time from which this descriptor is valid
	Region string            `json:"region"` // region selector: label, id or "ALL"
	Name   string            `json:"name"`   // input name of field
	Type   string            `json:"type"`   // algorithm type; empty => derived from given data
	Value  json.RawMessage   `json:"value"`  // constant: scalar, vector or matrix
	Funcs  []string          `json:"funcs"`  // formula: one function name per component (or one for all)
	Table  string            `json:"table"`  // interpolated and elementwise: data file
	Times  []float64         `json:"times"`  // timelist: times
	Values []json.RawMessage `json:"values"` // timelist: values at each time

	// derived
	Index int    // position in the input list
	Dir   string // directory of the simulation file
}

// Algo returns the algorithm type, derived from the given data if Type is empty
func (o *FieldData) Algo() string {
	if o.Type != "" {
		return o.Type
	}
	switch {
	case len(o.Funcs) > 0:
		return AlgoFormula
	case len(o.Times) > 0:
		return AlgoTimeList
	case o.Table != "":
		return AlgoInterpolated
	}
	return AlgoConstant
}

// TablePath returns the path to the table file
func (o *FieldData) TablePath() string {
	if filepath.IsAbs(o.Table) {
		return o.Table
	}
	return filepath.Join(o.Dir, o.Table)
}

// FieldsData holds a list of field descriptors
type FieldsData []*FieldData

// For returns the descriptors of field with given input name, keeping the list order
func (o FieldsData) For(inputName string) (res FieldsData) {
	for _, d := range o {
		if d.Name == inputName {
			res = append(res, d)
		}
	}
	return
}

// ParseValue parses a JSON scalar, vector or matrix
//  Output:
//   vals -- values; matrices are flattened row by row
//   rank -- 0 => scalar, 1 => vector, 2 => matrix
//   ncol -- number of columns of matrix
func ParseValue(raw []byte) (vals []float64, rank, ncol int, err error) {
	var s float64
	if err = json.Unmarshal(raw, &s); err == nil {
		return []float64{s}, 0, 1, nil
	}
	var v []float64
	if err = json.Unmarshal(raw, &v); err == nil {
		return v, 1, 1, nil
	}
	var m [][]float64
	if err = json.Unmarshal(raw, &m); err == nil {
		if len(m) == 0 {
			return nil, 0, 0, chk.Err("matrix value %q is empty", string(raw))
		}
		ncol = len(m[0])
		for i, row := range m {
			if len(row) != ncol {
				return nil, 0, 0, chk.Err("matrix value %q has rows with different lengths: row %d", string(raw), i)
			}
			vals = append(vals, row...)
		}
		return vals, 2, ncol, nil
	}
	return nil, 0, 0, chk.Err("cannot parse value %q as scalar, vector or matrix", string(raw))
}
