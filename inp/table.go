// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// DataTable holds values given at points (interpolated) or at cells (elementwise)
type DataTable struct {
	Points [][]float64 `json:"points" yaml:"points"` // [npoints][ndim] coordinates; empty for cell data
	Values [][]float64 `json:"values" yaml:"values"` // [npoints or ncells][ncomp] values
}

// Check checks the consistency of table
func (o *DataTable) Check() error {
	if len(o.Values) == 0 {
		return chk.Err("table has no values")
	}
	if len(o.Points) > 0 && len(o.Points) != len(o.Values) {
		return chk.Err("number of points (%d) and number of values (%d) differ", len(o.Points), len(o.Values))
	}
	return nil
}

// tableDecoder decodes a data table
type tableDecoder func(b []byte, tab *DataTable) error

// decoders maps file extension to decoder
var decoders = map[string]tableDecoder{
	".json": func(b []byte, tab *DataTable) error { return json.Unmarshal(b, tab) },
	".gob":  func(b []byte, tab *DataTable) error { return gob.NewDecoder(bytes.NewReader(b)).Decode(tab) },
	".yaml": func(b []byte, tab *DataTable) error { return yaml.Unmarshal(b, tab) },
	".yml":  func(b []byte, tab *DataTable) error { return yaml.Unmarshal(b, tab) },
}

// ReaderCache holds tables already read, keyed by file path
type ReaderCache struct {
	tables map[string]*DataTable // path => table
	nreads int                   // number of files actually read
}

// NewReaderCache returns a new cache of tables
func NewReaderCache() *ReaderCache {
	return &ReaderCache{tables: make(map[string]*DataTable)}
}

// Get returns the table in file; the file is read only once
func (o *ReaderCache) Get(fnamepath string) (tab *DataTable, err error) {
	key := filepath.Clean(fnamepath)
	if tab, ok := o.tables[key]; ok {
		return tab, nil
	}
	ext := strings.ToLower(filepath.Ext(key))
	decode, ok := decoders[ext]
	if !ok {
		return nil, chk.Err("cannot read table %q: extension %q is not supported", fnamepath, ext)
	}
	b, err := io.ReadFile(key)
	if err != nil {
		return nil, chk.Err("cannot read table file %q:\n%v", fnamepath, err)
	}
	tab = new(DataTable)
	err = decode(b, tab)
	if err != nil {
		return nil, chk.Err("cannot decode table file %q:\n%v", fnamepath, err)
	}
	err = tab.Check()
	if err != nil {
		return nil, chk.Err("table file %q is invalid:\n%v", fnamepath, err)
	}
	o.tables[key] = tab
	o.nreads++
	return
}

// NumReads returns the number of files read so far
func (o *ReaderCache) NumReads() int {
	return o.nreads
}

// Clear removes all tables
func (o *ReaderCache) Clear() {
	o.tables = make(map[string]*DataTable)
}
