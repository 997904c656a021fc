// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_summary01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary01")

	sum := &Summary{Key: "sum01", OutTimes: []float64{0, 1}}
	sum.Records = []*Record{
		{0, "right", "flow", true, Integrals{"k": {"rock": {2}}}},
		{1, "left", "flow", false, Integrals{"k": {"rock": {2}}}},
		{1, "right", "flow", true, Integrals{"k": {"rock": {4}}}},
	}

	dir := tst.TempDir()
	for _, enctype := range []string{"gob", "json"} {
		require.NoError(tst, sum.Save(dir, "sum01", enctype))
		res, err := ReadSummary(dir, "sum01", enctype)
		if err != nil {
			tst.Errorf("ReadSummary failed:\n%v", err)
			return
		}
		assert.Equal(tst, sum, res, enctype)
		r := res.Last("flow", 1, "left")
		require.NotNil(tst, r)
		chk.Array(tst, "k(rock) @ 1-", 1e-17, r.Integrals["k"]["rock"], []float64{2})
		assert.Nil(tst, res.Last("flow", 2, "right"))
		assert.Nil(tst, res.Last("transport", 0, "right"))
	}

	_, err := ReadSummary(dir, "nonexistent", "gob")
	assert.Error(tst, err)
}
