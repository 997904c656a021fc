// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Record holds the integrals of one equation after setting the time
type Record struct {
	Time      float64   // time
	Side      string    // limit side: "left" or "right"
	Equation  string    // name of equation
	Changed   bool      // some field changed
	Integrals Integrals // integrals of fields over regions
}

// Summary records the evolution of a simulation
type Summary struct {
	Key      string    // simulation key
	OutTimes []float64 // times of output frames
	Records  []*Record // integrals at each evaluation
}

// Save saves summary to dirout
func (o *Summary) Save(dirout, key, enctype string) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	if err = os.MkdirAll(dirout, 0777); err != nil {
		return chk.Err("cannot create directory for summary:\n%v", err)
	}
	fn := sumPath(dirout, key, enctype)
	err = os.WriteFile(fn, buf.Bytes(), 0644)
	if err != nil {
		return chk.Err("cannot save summary file %q:\n%v", fn, err)
	}
	return
}

// ReadSummary reads summary back
func ReadSummary(dirout, key, enctype string) (o *Summary, err error) {
	fn := sumPath(dirout, key, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open summary file %q:\n%v", fn, err)
	}
	defer fil.Close()
	o = new(Summary)
	err = GetDecoder(fil, enctype).Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary file %q:\n%v", fn, err)
	}
	return
}

// Last returns the last record of equation at time t and side
//  Note: returns nil if not found
func (o *Summary) Last(equation string, t float64, side string) *Record {
	for i := len(o.Records) - 1; i >= 0; i-- {
		r := o.Records[i]
		if r.Equation == equation && r.Time == t && r.Side == side {
			return r
		}
	}
	return nil
}

func sumPath(dirout, key, enctype string) string {
	return filepath.Join(dirout, io.Sf("%s_sum.%s", key, enctype))
}
