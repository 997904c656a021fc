// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fld

import (
	"encoding/json"

	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// stripMesh returns a strip with 3 quads; cells 0 and 1 are in region "rock" (tag -1) and
// cell 2 is in region "sand" (tag -2)
//
//    4-----5-----6-----7
//    |  0  |  1  |  2  |
//    0-----1-----2-----3
func stripMesh() *inp.Mesh {
	msh := &inp.Mesh{
		Verts: []*inp.Vert{
			{Id: 0, C: []float64{0, 0}}, {Id: 1, C: []float64{1, 0}}, {Id: 2, C: []float64{2, 0}}, {Id: 3, C: []float64{3, 0}},
			{Id: 4, C: []float64{0, 1}}, {Id: 5, C: []float64{1, 1}}, {Id: 6, C: []float64{2, 1}}, {Id: 7, C: []float64{3, 1}},
		},
		Cells: []*inp.Cell{
			{Id: 0, Tag: -1, Type: "qua4", Verts: []int{0, 1, 5, 4}},
			{Id: 1, Tag: -1, Type: "qua4", Verts: []int{1, 2, 6, 5}},
			{Id: 2, Tag: -2, Type: "qua4", Verts: []int{2, 3, 7, 6}},
		},
		Regions: []*inp.RegionData{{Tag: -1, Name: "rock"}, {Tag: -2, Name: "sand"}},
	}
	if err := msh.Init(); err != nil {
		chk.Panic("%v", err)
	}
	return msh
}

// desc returns a field descriptor with a constant value
func desc(name string, t float64, region, value string) *inp.FieldData {
	return &inp.FieldData{Name: name, Time: t, Region: region, Value: json.RawMessage(value)}
}
