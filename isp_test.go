// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ispText = `% time x y z lat lon alt delay xs ys zs vx vy vz
# comment

100.0 6378137 0 0 0.5 1.5 800000 5.3e-3 7178137 0 0 0 7000 0
100.0117 6378137 80 0 0.6 1.6 800001 5.3e-3 7178137 80 0 0 7000 0
`

func TestReadIsps(t *testing.T) {
	isps, err := ReadIsps(strings.NewReader(ispText))
	require.NoError(t, err)
	require.Len(t, isps, 2)

	want := &Isp{
		TimeSarKu:     100.0117,
		XSarSurf:      6378137,
		YSarSurf:      80,
		LatSarSat:     0.6,
		LonSarSat:     1.6,
		AltSarSat:     800001,
		WinDelaySarKu: 5.3e-3,
		XSarSat:       7178137,
		YSarSat:       80,
		YVelSat:       7000,
	}
	if diff := cmp.Diff(want, isps[1]); diff != "" {
		t.Errorf("ISP mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PosXYZ{X: 7178137, Y: 80}, isps[1].SatPos())
	assert.Equal(t, PosXYZ{X: 6378137, Y: 80}, isps[1].SurfPos())
	assert.Equal(t, PosXYZ{Y: 7000}, isps[1].SatVel())
}

func TestReadIsps_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"missing columns", "1 2 3\n", "line 1"},
		{"bad number", "% h\n1 2 3 4 5 6 7 8 9 10 11 12 13 x\n", "line 2"},
		{"time order", "2 0 0 0 0 0 0 0 0 0 0 0 0 0\n1 0 0 0 0 0 0 0 0 0 0 0 0 0\n", "strictly increasing"},
		{"duplicated time", "2 0 0 0 0 0 0 0 0 0 0 0 0 0\n2 0 0 0 0 0 0 0 0 0 0 0 0 0\n", "strictly increasing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadIsps(strings.NewReader(tt.text))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestWriteIsps(t *testing.T) {
	isps, err := ReadIsps(strings.NewReader(ispText))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteIsps(&buf, isps))
	assert.True(t, strings.HasPrefix(buf.String(), "% time_sar_ku"))

	got, err := ReadIsps(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(isps))
	for i := range isps {
		assert.InDelta(t, float64(isps[i].TimeSarKu), float64(got[i].TimeSarKu), 1e-9)
		assert.InDelta(t, isps[i].LatSarSat, got[i].LatSarSat, 1e-10)
		assert.InDelta(t, isps[i].WinDelaySarKu, got[i].WinDelaySarKu, 1e-15)
		assert.InDelta(t, isps[i].YSarSurf, got[i].YSarSurf, 1e-4)
	}
}
