// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config holds run options read from an .ini file
type Config struct {
	LogLevel  string // logrus level. ex: "info", "debug", "warn"
	LogJSON   bool   // use JSON formatter for logs
	Capacity  int    // capacity of element cache map (max cells per patch)
	Precision int    // precision of YAML output
	LiveAddr  string // default address of live output streams
}

// ReadConfig reads configuration file. An empty path gives the default configuration
func ReadConfig(fnamepath string) (o *Config, err error) {
	file := ini.Empty()
	if fnamepath != "" {
		file, err = ini.Load(fnamepath)
		if err != nil {
			return nil, chk.Err("cannot load configuration file %q:\n%v", fnamepath, err)
		}
	}
	o = loadCfg(file)
	if o.Capacity < 1 {
		return nil, chk.Err("cache capacity must be positive. %d is invalid", o.Capacity)
	}
	if _, err = logrus.ParseLevel(o.LogLevel); err != nil {
		return nil, chk.Err("log level %q is invalid:\n%v", o.LogLevel, err)
	}
	return
}

// Setup configures the standard logger
func (o *Config) Setup() {
	lvl, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if o.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func loadCfg(file *ini.File) *Config {
	return &Config{
		LogLevel:  file.Section("log").Key("level").MustString("info"),
		LogJSON:   file.Section("log").Key("json").MustBool(false),
		Capacity:  file.Section("cache").Key("capacity").MustInt(256),
		Precision: file.Section("output").Key("precision").MustInt(6),
		LiveAddr:  file.Section("live").Key("address").MustString(""),
	}
}
