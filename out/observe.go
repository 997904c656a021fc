// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cpmech/gofield/fld"
	"github.com/cpmech/gofield/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ObservePoint holds an observe point snapped to the centroid of the nearest cell
type ObservePoint struct {
	Name         string    `yaml:"name"`               // name of point
	ObservePoint []float64 `yaml:"observe_point,flow"` // input coordinates
	ElementIdx   int       `yaml:"element_idx"`        // nearest cell
	GlobalPoint  []float64 `yaml:"global_point,flow"`  // centroid of nearest cell
}

// ObserveWriter writes the values of cell data at observe points into one YAML file
type ObserveWriter struct {
	Points    []*ObservePoint // observe points
	Precision int             // significant digits of values
	file      *os.File        // output file
	warned    map[string]bool // messages already logged
}

func init() {
	SetAllocator("observe", func(s *Stream, dat *inp.StreamData) (Writer, error) {
		return NewObserveWriter(s, dat)
	})
}

// NewObserveWriter snaps the points of dat to cell centroids and writes the file header
func NewObserveWriter(s *Stream, dat *inp.StreamData) (o *ObserveWriter, err error) {
	if len(dat.Points) == 0 {
		return nil, chk.Err("observe stream %q has no points", dat.Name)
	}
	o = &ObserveWriter{Precision: dat.Precision, warned: make(map[string]bool)}
	centroids := make([][]float64, len(s.Msh.Cells))
	for cid := range s.Msh.Cells {
		centroids[cid] = s.Msh.Centroid(cid)
	}
	loc := fld.NewPointLocator(centroids)
	for i, p := range dat.Points {
		if len(p.X) < 2 || len(p.X) > 3 {
			return nil, chk.Err("observe point #%d (%q) must have 2 or 3 coordinates", i, p.Name)
		}
		cid, _ := loc.Nearest(p.X)
		o.Points = append(o.Points, &ObservePoint{p.Name, p.X, cid, centroids[cid]})
	}

	// header
	b, err := yaml.Marshal(struct {
		Points []*ObservePoint `yaml:"points"`
	}{o.Points})
	if err != nil {
		return nil, err
	}
	s.FixMainFileExtension(".yaml")
	if err = os.MkdirAll(filepath.Dir(s.Fname), 0777); err != nil {
		return nil, err
	}
	o.file, err = os.Create(s.Fname)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(b)
	io.Ff(buf, "data:\n")
	_, err = buf.WriteTo(o.file)
	return
}

// WriteData writes the values of all cell data of one frame at the observe points. Node and
// corner data are not observed
func (o *ObserveWriter) WriteData(s *Stream) (err error) {
	buf := new(bytes.Buffer)
	io.Ff(buf, "  - time: %v\n", s.Time)
	var nfields int
	for _, d := range s.Data(ElemData) {
		if d.IsDummy() {
			o.warnOnce(s, d.FieldName(), "field has no values in this frame")
			continue
		}
		vals, e := NewElementDataCache[float64](d.FieldName(), shapeOf(d.NElem()), len(o.Points))
		if e != nil {
			return e
		}
		for i, p := range o.Points {
			if err = vals.StoreValue(i, d.Value(p.ElementIdx)); err != nil {
				return
			}
		}
		io.Ff(buf, "    %s: ", d.FieldName())
		vals.PrintAllYaml(buf, o.Precision)
		io.Ff(buf, "\n")
		nfields++
	}
	if nfields == 0 {
		o.warnOnce(s, "", "no fields to observe")
	}
	for _, space := range []DiscreteSpace{NodeData, CornerData} {
		if len(s.Data(space)) > 0 {
			o.warnOnce(s, space.String(), "only elem data are observed")
		}
	}
	_, err = buf.WriteTo(o.file)
	return
}

// Close closes the file
func (o *ObserveWriter) Close() error {
	return o.file.Close()
}

func (o *ObserveWriter) warnOnce(s *Stream, key, msg string) {
	if o.warned[key+msg] {
		return
	}
	o.warned[key+msg] = true
	log.WithFields(log.Fields{"stream": s.Name, "key": key, "time": s.Time}).Warn(msg)
}
