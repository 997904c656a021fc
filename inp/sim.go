// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	Mshfile string `json:"mshfile"` // mesh file path
	Config  string `json:"config"`  // run configuration (.ini) file path; empty => defaults
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/gofield
	Encoder string `json:"encoder"` // encoder name for summary; e.g. "gob" "json"
}

// EquationData holds the fields used by one equation
type EquationData struct {
	Name   string   `json:"name"`   // name of equation. ex: "flow", "transport"
	Fields []string `json:"fields"` // names of declared fields used by this equation
}

// OutFieldData holds the output request of one field
type OutFieldData struct {
	Name   string   `json:"name"`   // name of field
	Spaces []string `json:"spaces"` // discrete spaces: "node", "elem", "corner"; empty => elem
}

// PointData holds an observe point
type PointData struct {
	Name string    `json:"name"` // name of point
	X    []float64 `json:"x"`    // coordinates
}

// StreamData holds data of one output stream
type StreamData struct {
	Name      string          `json:"name"`      // name of stream; e.g. "flow"
	Equation  string          `json:"equation"`  // equation providing the fields; empty => first
	Format    string          `json:"format"`    // "gmsh", "vtk", "observe", "live"
	Fname     string          `json:"fname"`     // base filename; empty => name of stream
	Binary    bool            `json:"binary"`    // binary output (vtk)
	Precision int             `json:"precision"` // precision of YAML values (observe); 0 => config
	Address   string          `json:"address"`   // address to listen to (live); empty => config
	Fields    []*OutFieldData `json:"fields"`    // fields to output
	Points    []*PointData    `json:"points"`    // observe points
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `json:"tf"`    // final time
	Dt    float64 `json:"dt"`    // time step size (if constant)
	DtOut float64 `json:"dtout"` // time step size for output
	DtFcn string  `json:"dtfcn"` // time step size (function name)

	// derived
	DtFunc dbf.T // time step function
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data            `json:"data"`      // stores global simulation data
	Functions FuncsData       `json:"functions"` // stores all functions
	Fields    []*FieldDecl    `json:"fields"`    // declared fields
	Input     FieldsData      `json:"input"`     // field descriptors
	Equations []*EquationData `json:"equations"` // equations
	Streams   []*StreamData   `json:"streams"`   // output streams
	Control   TimeControl     `json:"control"`   // time control

	// derived
	Dir     string  // directory of simulation file
	DirOut  string  // directory to save results
	Key     string  // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string  // encoder type
	Msh     *Mesh   // the mesh
	Cfg     *Config // run configuration
}

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath, alias string, erasePrev, createDirOut bool) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// decode
	o = new(Simulation)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	o.Dir = os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/gofield/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// create directory
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// configuration
	cfgpath := o.Data.Config
	if cfgpath != "" && !filepath.IsAbs(cfgpath) {
		cfgpath = filepath.Join(o.Dir, cfgpath)
	}
	o.Cfg, err = ReadConfig(cfgpath)
	if err != nil {
		return nil, err
	}

	// mesh
	if o.Data.Mshfile == "" {
		return nil, chk.Err("ReadSim: mesh file must be given in \"data\" section of %q", simfilepath)
	}
	ddir := o.Dir
	if filepath.IsAbs(o.Data.Mshfile) {
		ddir = ""
	}
	o.Msh, err = ReadMsh(ddir, o.Data.Mshfile)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read mesh file:\n%v", err)
	}

	// time control
	err = o.Control.PostProcess(o.Functions)
	if err != nil {
		return nil, err
	}

	// fields, input, equations and streams
	err = o.check()
	return
}

// GetDecl returns the declaration of field
//  Note: returns nil if not found
func (o *Simulation) GetDecl(name string) *FieldDecl {
	for _, f := range o.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// PostProcess fixes time control values and allocates the time step function
func (o *TimeControl) PostProcess(fcns FuncsData) (err error) {

	// fix Tf
	if o.Tf < 1e-14 {
		o.Tf = 1
	}

	// fix Dt
	if o.DtFcn == "" {
		if o.Dt < 1e-14 {
			o.Dt = 1
		}
		o.DtFunc = &dbf.Cte{C: o.Dt}
	} else {
		o.DtFunc, err = fcns.Get(o.DtFcn)
		if err != nil {
			return chk.Err("cannot get time step function:\n%v", err)
		}
		o.Dt = o.DtFunc.F(0, nil)
	}

	// fix DtOut
	if o.DtOut < 1e-14 {
		o.DtOut = o.Dt
	}
	o.DtOut = utl.Max(o.DtOut, o.Dt)
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// check checks the consistency among fields, input, equations and streams
func (o *Simulation) check() (err error) {

	// declarations
	inames := make(map[string]bool)
	for i, f := range o.Fields {
		if f.Name == "" {
			return chk.Err("name of declared field #%d is empty", i)
		}
		if o.GetDecl(f.Name) != f {
			return chk.Err("field %q is declared more than once", f.Name)
		}
		inames[f.GetInputName()] = true
	}

	// input list
	for i, d := range o.Input {
		if !inames[d.Name] {
			return chk.Err("field descriptor #%d refers to field %q which is not declared", i, d.Name)
		}
		_, err = o.Msh.Select(d.Region)
		if err != nil {
			return chk.Err("field descriptor #%d of field %q:\n%v", i, d.Name, err)
		}
		d.Index = i
		d.Dir = o.Dir
	}

	// equations
	if len(o.Equations) == 0 {
		eq := &EquationData{Name: "main"}
		for _, f := range o.Fields {
			eq.Fields = append(eq.Fields, f.Name)
		}
		o.Equations = []*EquationData{eq}
	}
	for _, eq := range o.Equations {
		for _, name := range eq.Fields {
			if o.GetDecl(name) == nil {
				return chk.Err("equation %q uses field %q which is not declared", eq.Name, name)
			}
		}
	}

	// streams
	for _, s := range o.Streams {
		if s.Equation == "" {
			s.Equation = o.Equations[0].Name
		}
		found := false
		for _, eq := range o.Equations {
			if eq.Name == s.Equation {
				found = true
				break
			}
		}
		if !found {
			return chk.Err("output stream %q refers to equation %q which does not exist", s.Name, s.Equation)
		}
		if s.Fname == "" {
			s.Fname = s.Name
		}
		if s.Precision < 1 {
			s.Precision = o.Cfg.Precision
		}
		if s.Address == "" {
			s.Address = o.Cfg.LiveAddr
		}
	}
	return
}
