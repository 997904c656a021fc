// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the run context: it evaluates the fields of each equation along the
// time steps, integrates them over regions and writes the output streams
package fem

import (
	"math"
	"time"

	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gofield/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"
)

// TolT is the tolerance to compare times
var TolT = 1e-10

// Main holds all data for a simulation
type Main struct {
	Sim       *inp.Simulation  // simulation data
	Dom       *Domain          // domain
	Readers   *inp.ReaderCache // data tables read so far
	Equations []*Equation      // all equations
	Streams   *out.Registry    // output streams
	Summary   *Summary         // summary structure
	Time      float64          // current time
	ShowMsg   bool             // show messages
}

// NewMain returns a new Main structure
//  Input:
//   simfilepath -- simulation (.sim) filename including full path
//   alias       -- word to be appended to simulation key; e.g. when running multiple simulations
//   erasePrev   -- erase previous results files
//   verbose     -- show messages
func NewMain(simfilepath, alias string, erasePrev, verbose bool) (o *Main, err error) {

	// new Main object
	o = &Main{ShowMsg: verbose}

	// read input data
	o.Sim, err = inp.ReadSim(simfilepath, alias, erasePrev, true)
	if err != nil {
		return nil, err
	}
	o.Sim.Cfg.Setup()
	if o.ShowMsg {
		io.Pf("> Simulation (.sim) file read\n")
	}

	// domain
	o.Dom, err = NewDomain(o.Sim)
	if err != nil {
		return nil, err
	}

	// equations
	o.Readers = inp.NewReaderCache()
	o.Equations, err = NewEquations(o.Sim, o.Readers)
	if err != nil {
		return nil, err
	}

	// output streams
	o.Streams, err = out.NewRegistry(o.Sim)
	if err != nil {
		return nil, err
	}
	o.Summary = &Summary{Key: o.Sim.Key}
	log.WithFields(log.Fields{
		"key":       o.Sim.Key,
		"cells":     len(o.Sim.Msh.Cells),
		"patches":   len(o.Dom.Patches),
		"equations": len(o.Equations),
		"streams":   len(o.Streams.Streams()),
	}).Info("simulation allocated")
	return
}

// GetEquation returns equation by name
//  Note: returns nil if not found
func (o *Main) GetEquation(name string) *Equation {
	for _, eq := range o.Equations {
		if eq.Name == name {
			return eq
		}
	}
	return nil
}

// Run runs the time loop. Time steps are shortened to land on the times of field descriptors;
// at these times the fields are evaluated with the LEFT and then the RIGHT limit when some
// field has a discontinuity
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// initial state
	ctl := o.Sim.Control
	o.Time = 0
	if _, err = o.evaluate(fld.LimitRight); err != nil {
		return
	}
	if err = o.output(); err != nil {
		return
	}
	tout := ctl.DtOut

	// time loop
	for o.Time < ctl.Tf-TolT {

		// next time
		dt := ctl.DtFunc.F(o.Time, nil)
		if dt <= 0 {
			return chk.Err("time step size must be positive. dt = %g at t = %g", dt, o.Time)
		}
		tnext := math.Min(o.Time+dt, ctl.Tf)
		for _, eq := range o.Equations {
			if tin, found := eq.Fields.NextInputTime(o.Time); found && tin < tnext {
				tnext = tin
			}
		}
		o.Time = tnext
		if o.ShowMsg {
			io.Pf("> t = %g\n", o.Time)
		}

		// left limit at discontinuities
		jump, e := o.evaluate(fld.LimitLeft)
		if e != nil {
			return e
		}
		if jump {
			log.WithField("time", o.Time).Info("jump time")
		}

		// right limit
		if _, err = o.evaluate(fld.LimitRight); err != nil {
			return
		}

		// output
		if o.Time >= tout-TolT || o.Time >= ctl.Tf-TolT {
			if err = o.output(); err != nil {
				return
			}
			for tout <= o.Time+TolT {
				tout += ctl.DtOut
			}
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// evaluate sets the time of all equations; at the left limit, integrals are recorded only if
// some field has a discontinuity. Returns whether some field has a discontinuity
func (o *Main) evaluate(side fld.LimitSide) (jump bool, err error) {
	for _, eq := range o.Equations {
		changed, e := eq.SetTime(o.Time, side)
		if e != nil {
			return false, e
		}
		jump = jump || eq.Fields.IsJumpTime()
		if side == fld.LimitLeft && !eq.Fields.IsJumpTime() {
			continue
		}
		res, e := eq.Integrate(o.Dom)
		if e != nil {
			return false, chk.Err("cannot integrate fields of equation %q at time %g:\n%v", eq.Name, o.Time, e)
		}
		o.Summary.Records = append(o.Summary.Records, &Record{o.Time, side.String(), eq.Name, changed, res})
	}
	return
}

// output writes one frame of each stream
func (o *Main) output() (err error) {
	for _, s := range o.Streams.Streams() {
		eq := o.GetEquation(s.Dat.Equation)
		if eq == nil {
			return chk.Err("output stream %q refers to equation %q which does not exist", s.Name, s.Dat.Equation)
		}
		if err = s.SetTime(o.Time); err != nil {
			return
		}
		if err = s.ComputeFields(eq.Fields, o.Dom.OutCmap, o.Dom.Patches); err != nil {
			return
		}
		if err = s.WriteTimeFrame(); err != nil {
			return
		}
	}
	o.Summary.OutTimes = append(o.Summary.OutTimes, o.Time)
	return
}

// onexit closes streams, prints final message with cpu time and saves summary
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// clean resources
	err = o.Streams.Close()

	// show final message
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}

	// save summary
	if e := o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType); e != nil && err == nil {
		err = e
	}

	// previous error has priority
	if prevErr != nil {
		err = prevErr
	}
	return
}
