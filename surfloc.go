// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Determination of the along-track surface locations of a delay-Doppler altimeter pass.

package sarloc

import (
	"fmt"
)

// SurfaceLocation is a ground point at which a stack of echoes is gathered
type SurfaceLocation struct {
	TimeSurf SarTime // Time at which the beam boundary is crossed

	// ECEF position [m]
	XSurf float64
	YSurf float64
	ZSurf float64

	// Geodetic position
	LatSurf float64 // [deg]
	LonSurf float64 // [deg]
	AltSurf float64 // [m]

	FirstSurf bool // First location of the pass
	NewSurf   bool // A location was produced by the last decision cycle
}

// ECEF position of the location
func (p *SurfaceLocation) PosXYZ() PosXYZ {
	return PosXYZ{X: p.XSurf, Y: p.YSurf, Z: p.ZSurf}
}

// Geodetic position of the location
func (p *SurfaceLocation) PosLLH() PosLLH {
	return PosLLH{Lat: p.LatSurf, Lon: p.LonSurf, Hei: p.AltSurf}
}

// State of the tracker
type TrackerState int

const (
	Bootstrapping TrackerState = iota // No location emitted yet in this pass
	Tracking                          // Following the beam of the last location
)

func (s TrackerState) String() string {
	switch s {
	case Bootstrapping:
		return "Bootstrapping"
	case Tracking:
		return "Tracking"
	default:
		return "UNKNOWN!"
	}
}

// SurfaceLocationTracker decides, ISP by ISP, when the current surface location is complete
// and where the next one lies. It is not safe for concurrent use.
type SurfaceLocationTracker struct {
	cst   *Cst
	chd   *Chd
	state TrackerState
	surf  SurfaceLocation
	alpha float64 // Interpolation fraction of the last location found by tracking
}

func NewSurfaceLocationTracker(cst *Cst, chd *Chd) *SurfaceLocationTracker {
	return &SurfaceLocationTracker{
		cst:   cst,
		chd:   chd,
		state: Bootstrapping,
	}
}

// Current surface location
func (p *SurfaceLocationTracker) Surface() SurfaceLocation {
	return p.surf
}

func (p *SurfaceLocationTracker) State() TrackerState {
	return p.state
}

// Interpolation fraction between the previous and the current ISP used for the last
// location found while tracking. It is not clamped to [0,1].
func (p *SurfaceLocationTracker) Alpha() float64 {
	return p.alpha
}

// Advance consumes the latest ISP (the last element of isps) and reports whether a new
// surface location has been produced. locs are the locations closed so far in this pass.
// Neither locs nor isps are modified.
func (p *SurfaceLocationTracker) Advance(locs []*SurfaceLocationData, isps []*Isp) (bool, error) {
	if len(isps) == 0 {
		return false, fmt.Errorf("advance: %w, no ISP records", ErrInsufficientHistory)
	}

	// A pass starts with no closed location regardless of the previous state
	if len(locs) == 0 {
		if err := p.storeFirstLocation(isps[len(isps)-1]); err != nil {
			return false, err
		}
		p.state = Tracking
		return true, nil
	}

	// Flags describe this cycle, time and position keep the last location
	p.surf.FirstSurf = false
	found, err := p.findNewLocation(locs[len(locs)-1], isps)
	if err != nil {
		p.surf.NewSurf = false
		return false, err
	}
	p.surf.NewSurf = found
	p.state = Tracking
	return found, nil
}

// The first location is placed below the satellite of the latest ISP
func (p *SurfaceLocationTracker) storeFirstLocation(isp *Isp) error {
	llh := PosLLH{
		Lat: isp.LatSarSat,
		Lon: isp.LonSarSat,
		Hei: isp.AltSarSat - isp.WinDelaySarKu*p.cst.C/2,
	}

	// The ECEF position is always derived from the geodetic one
	xyz, err := llh.ToXYZ(p.cst)
	if err != nil {
		return fmt.Errorf("first surface location: %w", err)
	}

	p.surf = SurfaceLocation{
		TimeSurf:  isp.TimeSarKu,
		XSurf:     xyz.X,
		YSurf:     xyz.Y,
		ZSurf:     xyz.Z,
		LatSurf:   llh.Lat,
		LonSurf:   llh.Lon,
		AltSurf:   llh.Hei,
		FirstSurf: true,
		NewSurf:   true,
	}
	p.alpha = 0

	PrintD(3, "\tfirst surface: t=%.6f llh=(%s)\n", float64(p.surf.TimeSurf), llh.String())
	return nil
}

func (p *SurfaceLocationTracker) findNewLocation(surface *SurfaceLocationData, isps []*Isp) (bool, error) {
	if len(isps) < 2 {
		return false, fmt.Errorf("find new surface location: %w, %d ISP record(s), 2 required", ErrInsufficientHistory, len(isps))
	}
	curr := isps[len(isps)-1]
	prev := isps[len(isps)-2]
	threshold := surface.AngularAzimuthBeamResolution

	angCurr, err := surface.GroundOrbitAngle(curr)
	if err != nil {
		return false, fmt.Errorf("find new surface location (current ISP): %w", err)
	}

	// Still inside the beam of the last location
	if angCurr < threshold {
		return false, nil
	}

	angPrev, err := surface.GroundOrbitAngle(prev)
	if err != nil {
		return false, fmt.Errorf("find new surface location (previous ISP): %w", err)
	}
	if angCurr == angPrev {
		return false, fmt.Errorf("find new surface location: %w, equal angles for consecutive ISPs (%g rad)", ErrDegenerateGeometry, angCurr)
	}

	// Ratio of the position of the boundary between the two ISPs
	alpha := (threshold - angPrev) / (angCurr - angPrev)
	PrintD(4, "\tangle prev=%.9f curr=%.9f thres=%.9f alpha=%.6f\n", angPrev, angCurr, threshold, alpha)

	sp, sc := prev.SurfPos(), curr.SurfPos()
	xyz := sp.Lerp(sc, alpha)
	llh, err := xyz.ToLLH(p.cst)
	if err != nil {
		return false, fmt.Errorf("find new surface location: %w", err)
	}

	p.surf = SurfaceLocation{
		TimeSurf:  SarTime(Lerp(float64(prev.TimeSarKu), float64(curr.TimeSarKu), alpha)),
		XSurf:     xyz.X,
		YSurf:     xyz.Y,
		ZSurf:     xyz.Z,
		LatSurf:   llh.Lat,
		LonSurf:   llh.Lon,
		AltSurf:   llh.Hei,
		FirstSurf: false,
		NewSurf:   true,
	}
	p.alpha = alpha
	return true, nil
}
