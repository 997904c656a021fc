// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result classifies the values of a field over a set of regions
type Result int

// results
const (
	ResultNone     Result = iota // no algorithm (field not set)
	ResultZeros                  // all values are zero
	ResultOnes                   // all values are one
	ResultEye                    // identity tensor
	ResultConstant               // constant in space
	ResultOther                  // general values
)

var resultNames = []string{"none", "zeros", "ones", "eye", "constant", "other"}

// String returns the name of result
func (o Result) String() string {
	if o < 0 || int(o) >= len(resultNames) {
		return io.Sf("result(%d)", int(o))
	}
	return resultNames[o]
}

// IsConstant tells whether the values are constant in space
func (o Result) IsConstant() bool {
	return o == ResultZeros || o == ResultOnes || o == ResultEye || o == ResultConstant
}

// Combine returns the classification common to a and b
func Combine(a, b Result) Result {
	if a == ResultNone || b == ResultNone {
		return ResultNone
	}
	if a == b {
		return a
	}
	return ResultOther
}

// Classify classifies a constant value of given shape
func Classify(shape Shape, val []float64) Result {
	if floats.Norm(val, 1) == 0 {
		return ResultZeros
	}
	if shape.Kind == KindTensor {
		n := shape.N
		if mat.Equal(mat.NewDense(n, n, val), eye(n)) {
			return ResultEye
		}
		return ResultConstant
	}
	ones := make([]float64, len(val))
	floats.AddConst(1, ones)
	if floats.Equal(val, ones) {
		return ResultOnes
	}
	return ResultConstant
}

// eye returns the n×n identity matrix
func eye(n int) *mat.DiagDense {
	d := make([]float64, n)
	floats.AddConst(1, d)
	return mat.NewDiagDense(n, d)
}
