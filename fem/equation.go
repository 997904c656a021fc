// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Integrals holds ∫ f dV of fields over regions; field (component) name => region label => value
type Integrals map[string]map[string][]float64

// Equation holds the fields used by one equation
type Equation struct {
	Name      string        // name of equation
	Fields    *fld.FieldSet // fields
	Refreshes int           // number of cache refreshes so far
}

// NewEquations allocates the field sets of all equations. The first equation using a field
// reads its input list; the others share this input through copies
func NewEquations(sim *inp.Simulation, readers *inp.ReaderCache) (eqs []*Equation, err error) {
	declared := make(map[string]fld.Common)
	for _, dat := range sim.Equations {
		eq := &Equation{Name: dat.Name, Fields: fld.NewFieldSet(dat.Name)}
		for _, name := range dat.Fields {
			decl := sim.GetDecl(name)
			if decl == nil {
				return nil, chk.Err("equation %q uses field %q which is not declared", dat.Name, name)
			}
			src, found := declared[name]
			flags := fld.FlagAllowInputCopy
			if !found {
				flags |= fld.FlagDeclareInput
			}
			f, e := fld.New(decl, flags)
			if e != nil {
				return nil, e
			}
			if err = eq.Fields.Add(f); err != nil {
				return
			}
			f.SetMesh(sim.Msh)
			if found {
				err = fld.CopyFrom(f, src)
			} else {
				err = f.SetInputList(sim.Input, sim.Functions, readers)
				declared[name] = f
			}
			if err != nil {
				return nil, chk.Err("cannot set input of field %q in equation %q:\n%v", name, dat.Name, err)
			}
		}
		eqs = append(eqs, eq)
	}
	return
}

// SetTime sets the time of all fields; returns whether some field changed
func (o *Equation) SetTime(t float64, side fld.LimitSide) (changed bool, err error) {
	changed, err = o.Fields.SetTime(t, side)
	if err != nil {
		return false, chk.Err("equation %q at time %g (%v):\n%v", o.Name, t, side, err)
	}
	log.WithFields(log.Fields{"equation": o.Name, "time": t, "side": side, "changed": changed}).Debug("time set")
	return
}

// Integrate computes ∫ f dV over each region for all fields. Regions with zero values are
// skipped and constant values are multiplied by the measure of region
func (o *Equation) Integrate(dom *Domain) (res Integrals, err error) {
	res = make(Integrals)
	for i := range dom.Patches {
		cm, e := dom.Activate(i)
		if e != nil {
			return nil, e
		}
		for _, f := range o.Fields.Fields() {
			for _, p := range fld.Parts(f) {
				if err = o.refresh(p, cm); err != nil {
					return
				}
				err = o.integrate(res, p, cm, dom)
				if err != nil {
					return
				}
			}
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// refresh updates the cache of p on the active patch unless p did not change, does not depend
// on time and its cache holds the active patch already
func (o *Equation) refresh(p *fld.Field, cm *fld.ElementCacheMap) (err error) {
	if !p.Changed() && !p.IsTimeDependent() && p.CacheCurrent(cm) {
		return
	}
	p.CacheReallocate(cm)
	for i, ch := range cm.Chunks() {
		if p.Algorithm(ch.Tag) == nil {
			continue
		}
		err = p.CacheUpdate(cm, i)
		if err != nil {
			return
		}
	}
	o.Refreshes++
	return
}

func (o *Equation) integrate(res Integrals, p *fld.Field, cm *fld.ElementCacheMap, dom *Domain) (err error) {
	name := p.FullCompName(0)
	for _, ch := range cm.Chunks() {
		r := p.FieldResult([]int{ch.Tag})
		if r == fld.ResultNone || r == fld.ResultZeros {
			continue
		}
		if res[name] == nil {
			res[name] = make(map[string][]float64)
		}
		label := dom.Msh.RegionLabel(ch.Tag)
		acc, ok := res[name][label]
		if !ok {
			acc = make([]float64, p.NComp())
			res[name][label] = acc
		}
		if r.IsConstant() {
			val, e := p.ValueCache().Get(cm, ch.Begin)
			if e != nil {
				return e
			}
			var vol float64
			for s := ch.Begin; s < ch.End; s++ {
				vol += dom.Measures[cm.Cell(s)]
			}
			floats.AddScaled(acc, vol, val)
			continue
		}
		for s := ch.Begin; s < ch.End; s++ {
			val, e := p.ValueCache().Get(cm, s)
			if e != nil {
				return e
			}
			floats.AddScaled(acc, dom.Measures[cm.Cell(s)], val)
		}
	}
	return
}
