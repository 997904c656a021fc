// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fld implements fields: time and region dependent quantities, their algorithms and caches
package fld

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Kind defines the kind of values of a field
type Kind int

// kinds of values
const (
	KindInteger       Kind = iota // integer
	KindEnum                      // enumeration (non-negative integer)
	KindScalar                    // real number
	KindVector                    // vector with fixed size
	KindTensor                    // square tensor with fixed size
	KindVectorRuntime             // vector with size known at runtime; e.g. multi-component fields
)

var kindNames = map[string]Kind{
	"integer": KindInteger,
	"enum":    KindEnum,
	"scalar":  KindScalar,
	"vector":  KindVector,
	"tensor":  KindTensor,
	"multi":   KindVectorRuntime,
}

// String returns the name of kind
func (o Kind) String() string {
	for name, k := range kindNames {
		if k == o {
			return name
		}
	}
	return io.Sf("kind(%d)", int(o))
}

// Shape holds the kind and size of field values
type Shape struct {
	Kind Kind // kind of values
	N    int  // size of vector or dimension of tensor; 1 for integer, enum and scalar
}

// Scalar returns the shape of real scalars
func Scalar() Shape { return Shape{KindScalar, 1} }

// Integer returns the shape of integers
func Integer() Shape { return Shape{KindInteger, 1} }

// Enum returns the shape of enumerations
func Enum() Shape { return Shape{KindEnum, 1} }

// Vector returns the shape of vectors with n components
func Vector(n int) Shape { return Shape{KindVector, n} }

// Tensor returns the shape of n×n tensors
func Tensor(n int) Shape { return Shape{KindTensor, n} }

// VectorRuntime returns the shape of vectors with size known at runtime
func VectorRuntime(n int) Shape { return Shape{KindVectorRuntime, n} }

// NewShape returns a shape by name
//  Input:
//   name -- "integer", "enum", "scalar", "vector", "tensor" or "multi"
//   dim  -- size of vector or dimension of tensor; 0 => 3
func NewShape(name string, dim int) (o Shape, err error) {
	kind, ok := kindNames[name]
	if !ok {
		if name != "" {
			return o, chk.Err("shape %q is not available", name)
		}
		kind = KindScalar
	}
	if dim < 1 {
		dim = 3
	}
	switch kind {
	case KindInteger, KindEnum, KindScalar:
		return Shape{kind, 1}, nil
	}
	return Shape{kind, dim}, nil
}

// NComp returns the number of components
func (o Shape) NComp() int {
	if o.Kind == KindTensor {
		return o.N * o.N
	}
	return o.N
}

// Rows returns the number of rows
func (o Shape) Rows() int {
	return o.N
}

// Cols returns the number of columns
func (o Shape) Cols() int {
	if o.Kind == KindTensor {
		return o.N
	}
	return 1
}

// Zero returns a zero value
func (o Shape) Zero() []float64 {
	return make([]float64, o.NComp())
}

// IsInteger tells whether values are integers (integer or enum)
func (o Shape) IsInteger() bool {
	return o.Kind == KindInteger || o.Kind == KindEnum
}

// String returns a representation of shape. ex: "scalar", "vector(3)", "tensor(3x3)"
func (o Shape) String() string {
	switch o.Kind {
	case KindVector, KindVectorRuntime:
		return io.Sf("%v(%d)", o.Kind, o.N)
	case KindTensor:
		return io.Sf("%v(%dx%d)", o.Kind, o.N, o.N)
	}
	return o.Kind.String()
}

// FromInput converts parsed input values to a value of this shape
//  Input:
//   vals -- values; matrices flattened row by row
//   rank -- 0 => scalar, 1 => vector, 2 => matrix
//   ncol -- number of columns of matrix
//  Note: for tensors, a scalar gives s·I, n values give a diagonal and n(n+1)/2 values give
//        a symmetric tensor in the order [t00, t11, ..., t01, t12, ..., t02, ...]
func (o Shape) FromInput(vals []float64, rank, ncol int) (res []float64, err error) {
	res = o.Zero()
	n := o.NComp()
	switch o.Kind {

	case KindInteger, KindEnum, KindScalar:
		if len(vals) != 1 {
			return nil, chk.Err("%v value requires 1 component; %d given", o, len(vals))
		}
		res[0] = vals[0]
		if o.IsInteger() && res[0] != float64(int64(res[0])) {
			return nil, chk.Err("%v value must be an integer; %g given", o, res[0])
		}
		if o.Kind == KindEnum && res[0] < 0 {
			return nil, chk.Err("%v value must be non-negative; %g given", o, res[0])
		}

	case KindVector, KindVectorRuntime:
		switch {
		case rank == 0:
			for i := 0; i < n; i++ {
				res[i] = vals[0]
			}
		case rank == 1 && len(vals) == n:
			copy(res, vals)
		default:
			return nil, chk.Err("%v value requires %d components; %d given", o, n, len(vals))
		}

	case KindTensor:
		m := o.N
		switch {
		case rank == 0:
			for i := 0; i < m; i++ {
				res[i*m+i] = vals[0]
			}
		case rank == 1 && len(vals) == m:
			for i := 0; i < m; i++ {
				res[i*m+i] = vals[i]
			}
		case rank == 1 && len(vals) == m*(m+1)/2:
			k := 0
			for d := 0; d < m; d++ {
				for i := 0; i+d < m; i++ {
					res[i*m+i+d] = vals[k]
					res[(i+d)*m+i] = vals[k]
					k++
				}
			}
		case rank == 2 && ncol == m && len(vals) == n:
			copy(res, vals)
		default:
			return nil, chk.Err("%v value cannot be built from %d values (rank %d)", o, len(vals), rank)
		}
	}
	return
}
