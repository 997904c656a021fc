// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// PointLocator finds the nearest point among a set of points
type PointLocator struct {
	tree *kdtree.Tree
}

// NewPointLocator returns a locator of points. Coordinates are padded to 3 components
func NewPointLocator(points [][]float64) *PointLocator {
	pts := make(indexedPoints, len(points))
	for i, x := range points {
		pts[i] = indexedPoint{pad3(x), i}
	}
	return &PointLocator{kdtree.New(pts, false)}
}

// Nearest returns the index of the nearest point and its squared distance to x
func (o *PointLocator) Nearest(x []float64) (idx int, dist2 float64) {
	c, d := o.tree.Nearest(indexedPoint{pad3(x), -1})
	if c == nil {
		return -1, 0
	}
	return c.(indexedPoint).idx, d
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// indexedPoint is a point that remembers its position in the input list
type indexedPoint struct {
	x   []float64
	idx int
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.x[d] - c.(indexedPoint).x[d]
}

func (p indexedPoint) Dims() int { return len(p.x) }

func (p indexedPoint) Distance(c kdtree.Comparable) (sum float64) {
	q := c.(indexedPoint)
	for i := range p.x {
		d := p.x[i] - q.x[i]
		sum += d * d
	}
	return
}

// indexedPoints implements kdtree.Interface
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int        { return plane{p, d}.Pivot() }
func (p indexedPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// plane sorts points along one dimension
type plane struct {
	indexedPoints
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.indexedPoints[i].x[p.Dim] < p.indexedPoints[j].x[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.indexedPoints = p.indexedPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}

func pad3(x []float64) []float64 {
	y := make([]float64, 3)
	copy(y, x)
	return y
}
