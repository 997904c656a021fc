// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
)

// Registry owns the output streams of a simulation
type Registry struct {
	dirout  string             // directory for output
	msh     *inp.Mesh          // mesh
	streams []*Stream          // streams in order of creation
	index   map[string]*Stream // name => stream
}

// NewRegistry returns a registry with the streams of sim
func NewRegistry(sim *inp.Simulation) (o *Registry, err error) {
	o = &Registry{dirout: sim.DirOut, msh: sim.Msh, index: make(map[string]*Stream)}
	for _, dat := range sim.Streams {
		_, err = o.Add(dat)
		if err != nil {
			o.Close()
			return nil, err
		}
	}
	return
}

// Add creates a new stream
func (o *Registry) Add(dat *inp.StreamData) (s *Stream, err error) {
	if _, ok := o.index[dat.Name]; ok {
		return nil, chk.Err("output stream %q exists already", dat.Name)
	}
	s, err = NewStream(o.dirout, o.msh, dat)
	if err != nil {
		return
	}
	o.streams = append(o.streams, s)
	o.index[dat.Name] = s
	return
}

// Get returns stream by name
//  Note: returns nil if not found
func (o *Registry) Get(name string) *Stream { return o.index[name] }

// Streams returns all streams in order of creation
func (o *Registry) Streams() []*Stream { return o.streams }

// Close closes all streams; returns the first error
func (o *Registry) Close() (err error) {
	for _, s := range o.streams {
		if e := s.Close(); e != nil && err == nil {
			err = e
		}
	}
	o.streams, o.index = nil, make(map[string]*Stream)
	return
}
