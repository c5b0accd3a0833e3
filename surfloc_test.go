// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// A closed location whose satellite sits at (0,-h,0) looking along +y, so that an ISP
// ground projection at (x,0,0) is seen at an angle atan(x/h)
func testSurface(h, threshold float64) *SurfaceLocationData {
	return &SurfaceLocationData{
		SurfaceLocation: SurfaceLocation{
			TimeSurf:  99,
			FirstSurf: true,
			NewSurf:   true,
		},
		YSat:                         -h,
		SurfSatVector:                mat.NewVecDense(3, []float64{0, 1, 0}),
		AngularAzimuthBeamResolution: threshold,
	}
}

func ispAt(t, x float64) *Isp {
	return &Isp{TimeSarKu: SarTime(t), XSarSurf: x}
}

func TestAdvance_FirstLocation(t *testing.T) {
	cst := NewCst()
	cst.C = 299792458.0
	tracker := NewSurfaceLocationTracker(cst, NewChd())
	require.Equal(t, Bootstrapping, tracker.State())

	isp := &Isp{
		TimeSarKu:     1234.5,
		LatSarSat:     10,
		LonSarSat:     20,
		AltSarSat:     800000.0,
		WinDelaySarKu: 5.34e-3,
	}
	found, err := tracker.Advance(nil, []*Isp{isp})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Tracking, tracker.State())

	s := tracker.Surface()
	assert.True(t, s.FirstSurf)
	assert.True(t, s.NewSurf)
	assert.Equal(t, SarTime(1234.5), s.TimeSurf)
	assert.Equal(t, 10.0, s.LatSurf)
	assert.Equal(t, 20.0, s.LonSurf)
	assert.InDelta(t, -445.86286, s.AltSurf, 1e-6)

	// ECEF and geodetic describe the same point
	xyz := s.PosXYZ()
	llh, err := xyz.ToLLH(cst)
	require.NoError(t, err)
	assert.InDelta(t, s.LatSurf, llh.Lat, 1e-9)
	assert.InDelta(t, s.LonSurf, llh.Lon, 1e-9)
	assert.InDelta(t, s.AltSurf, llh.Hei, 1e-6)
}

func TestAdvance_FirstLocationUsesLatestIsp(t *testing.T) {
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())
	isps := []*Isp{
		{TimeSarKu: 1, LatSarSat: 1, LonSarSat: 1, AltSarSat: 1000},
		{TimeSarKu: 2, LatSarSat: 2, LonSarSat: 3, AltSarSat: 2000},
	}
	found, err := tracker.Advance(nil, isps)
	require.NoError(t, err)
	require.True(t, found)
	s := tracker.Surface()
	assert.Equal(t, SarTime(2), s.TimeSurf)
	assert.Equal(t, 2.0, s.LatSurf)
	assert.Equal(t, 3.0, s.LonSurf)
	assert.Equal(t, 2000.0, s.AltSurf)
}

func TestAdvance_BootstrapIsIdempotent(t *testing.T) {
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())
	h := 10 / math.Tan(1)
	surface := testSurface(h, 0.5)

	// Move the tracker into a tracked, non-first location
	found, err := tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{ispAt(100, 0), ispAt(101, 10)})
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, tracker.Surface().FirstSurf)

	isp := &Isp{TimeSarKu: 500, LatSarSat: -30, LonSarSat: 140, AltSarSat: 1000}
	for i := 0; i < 2; i++ {
		found, err = tracker.Advance(nil, []*Isp{isp})
		require.NoError(t, err)
		assert.True(t, found)
		s := tracker.Surface()
		assert.True(t, s.FirstSurf)
		assert.True(t, s.NewSurf)
		assert.Equal(t, SarTime(500), s.TimeSurf)
		assert.Equal(t, -30.0, s.LatSurf)
	}
}

func TestAdvance_InterpolationExactness(t *testing.T) {
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())

	// theta_prev = 0, theta_curr = 1 rad, threshold = 0.5 rad
	h := 10 / math.Tan(1)
	surface := testSurface(h, 0.5)
	prev := ispAt(100, 0)
	curr := ispAt(101, 10)

	found, err := tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{prev, curr})
	require.NoError(t, err)
	require.True(t, found)

	assert.InDelta(t, 0.5, tracker.Alpha(), 1e-9)
	s := tracker.Surface()
	assert.InDelta(t, 5.0, s.XSurf, 1e-8)
	assert.Equal(t, 0.0, s.YSurf)
	assert.Equal(t, 0.0, s.ZSurf)
	assert.InDelta(t, 100.5, float64(s.TimeSurf), 1e-8)
	assert.False(t, s.FirstSurf)
	assert.True(t, s.NewSurf)
}

func TestAdvance_BoundaryMonotonicity(t *testing.T) {
	const (
		h  = 1000.0
		dx = 10.0
	)

	// The boundary lies between samples 2 and 3
	threshold := math.Atan(2.5 * dx / h)
	surface := testSurface(h, threshold)
	locs := []*SurfaceLocationData{surface}

	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())
	_, err := tracker.Advance(nil, []*Isp{{TimeSarKu: 1, AltSarSat: 1000}})
	require.NoError(t, err)
	before := tracker.Surface()

	isps := []*Isp{ispAt(0, 0)}
	for k := 1; k <= 3; k++ {
		isps = append(isps, ispAt(float64(k), float64(k)*dx))
		found, err := tracker.Advance(locs, isps)
		require.NoError(t, err)
		if k < 3 {
			// The location is kept but no longer reported as new
			s := tracker.Surface()
			assert.False(t, found, "k=%d", k)
			assert.False(t, s.NewSurf, "k=%d", k)
			assert.False(t, s.FirstSurf, "k=%d", k)
			assert.Equal(t, before.TimeSurf, s.TimeSurf, "k=%d", k)
			assert.Equal(t, before.PosXYZ(), s.PosXYZ(), "k=%d", k)
			assert.Equal(t, before.PosLLH(), s.PosLLH(), "k=%d", k)
			continue
		}
		assert.True(t, found, "k=%d", k)
	}

	alpha := tracker.Alpha()
	assert.GreaterOrEqual(t, alpha, 0.0)
	assert.LessOrEqual(t, alpha, 1.0)
	s := tracker.Surface()
	assert.Greater(t, s.XSurf, 2*dx)
	assert.Less(t, s.XSurf, 3*dx)
	assert.InDelta(t, 2.5*dx, s.XSurf, 0.01)
	assert.InDelta(t, 2.5, float64(s.TimeSurf), 0.001)
}

// Alpha is not clamped: a decreasing angle sequence extrapolates beyond the current ISP
func TestAdvance_NonMonotonicAngleExtrapolates(t *testing.T) {
	const h = 1000.0
	surface := testSurface(h, math.Atan(0.02))
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())

	found, err := tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{ispAt(0, 40), ispAt(1, 30)})
	require.NoError(t, err)
	require.True(t, found)
	assert.Greater(t, tracker.Alpha(), 1.0)
	assert.Less(t, tracker.Surface().XSurf, 30.0)
	assert.Greater(t, float64(tracker.Surface().TimeSurf), 1.0)
}

func TestAdvance_InsufficientHistory(t *testing.T) {
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())

	_, err := tracker.Advance(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	surface := testSurface(1000, 0.01)
	_, err = tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{ispAt(0, 100)})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Equal(t, Bootstrapping, tracker.State())
}

func TestAdvance_DegenerateGeometry(t *testing.T) {
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())
	surface := testSurface(1000, 0.01)

	t.Run("equal angles", func(t *testing.T) {
		_, err := tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{ispAt(0, 100), ispAt(1, 100)})
		assert.ErrorIs(t, err, ErrDegenerateGeometry)
	})

	t.Run("ground projection at the satellite", func(t *testing.T) {
		curr := &Isp{TimeSarKu: 1, YSarSurf: -1000}
		_, err := tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{ispAt(0, 0), curr})
		assert.ErrorIs(t, err, ErrDegenerateGeometry)
	})
}

func TestAdvance_InvalidCoordinate(t *testing.T) {
	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())
	isp := &Isp{TimeSarKu: 1, LatSarSat: math.NaN(), AltSarSat: 1000}
	_, err := tracker.Advance(nil, []*Isp{isp})
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	surface := testSurface(1000, 0.01)
	curr := &Isp{TimeSarKu: 1, XSarSurf: math.Inf(1)}
	_, err = tracker.Advance([]*SurfaceLocationData{surface}, []*Isp{ispAt(0, 0), curr})
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

var matComparers = cmp.Options{
	cmp.Comparer(func(a, b *mat.VecDense) bool {
		if a == nil || b == nil {
			return a == b
		}
		return mat.Equal(a, b)
	}),
	cmp.Comparer(func(a, b *mat.Dense) bool {
		if a == nil || b == nil {
			return a == b
		}
		return mat.Equal(a, b)
	}),
}

func TestAdvance_DoesNotModifyHistory(t *testing.T) {
	const h = 1000.0
	locs := []*SurfaceLocationData{testSurface(h, math.Atan(0.025))}
	isps := []*Isp{ispAt(0, 0)}

	snapshot := func() ([]SurfaceLocationData, []Isp) {
		l := make([]SurfaceLocationData, len(locs))
		for i, v := range locs {
			l[i] = *v
			l[i].SurfSatVector = mat.VecDenseCopyOf(v.SurfSatVector)
		}
		p := make([]Isp, len(isps))
		for i, v := range isps {
			p[i] = *v
		}
		return l, p
	}

	tracker := NewSurfaceLocationTracker(NewCst(), NewChd())
	for k := 1; k <= 5; k++ {
		isps = append(isps, ispAt(float64(k), float64(k)*10))
		wantLocs, wantIsps := snapshot()
		lp, ip := locs[0], isps[len(isps)-1]

		_, err := tracker.Advance(locs, isps)
		require.NoError(t, err)

		gotLocs, gotIsps := snapshot()
		if diff := cmp.Diff(wantLocs, gotLocs, matComparers); diff != "" {
			t.Errorf("locations modified (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(wantIsps, gotIsps); diff != "" {
			t.Errorf("ISPs modified (-want +got):\n%s", diff)
		}
		assert.Same(t, lp, locs[0])
		assert.Same(t, ip, isps[len(isps)-1])
	}
}

func TestTrackerState_String(t *testing.T) {
	assert.Equal(t, "Bootstrapping", Bootstrapping.String())
	assert.Equal(t, "Tracking", Tracking.String())
	assert.Equal(t, "UNKNOWN!", TrackerState(7).String())
}
