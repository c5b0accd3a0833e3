// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kind of stack held by a surface location
type SurfaceType int

const (
	SurfaceRaw SurfaceType = iota // Stack without range migration correction
	SurfaceRmc                    // Stack after range migration correction
)

func (s SurfaceType) String() string {
	switch s {
	case SurfaceRaw:
		return "RAW"
	case SurfaceRmc:
		return "RMC"
	default:
		return "UNKNOWN!"
	}
}

// SurfaceLocationData is a closed surface location with the satellite geometry at its
// time and the stack of beams gathered for it
type SurfaceLocationData struct {
	SurfaceLocation

	// Satellite state at TimeSurf (ECEF)
	XSat    float64 // [m]
	YSat    float64
	ZSat    float64
	XVelSat float64 // [m/s]
	YVelSat float64
	ZVelSat float64

	SurfSatVector                *mat.VecDense // Surface minus satellite position [m]
	AngularAzimuthBeamResolution float64       // Angular width of one Doppler beam [rad]

	// Stack
	DataStackSize         int
	SurfaceType           SurfaceType
	DopplerCorrections    []float64  // Per beam [samples]
	SlantRangeCorrections []float64  // Per beam [samples]
	WinDelayCorrections   []float64  // Per beam [samples]
	BeamsRangeCompr       *mat.Dense // DataStackSize x (NSamplesSar * zero padding)
}

// NewSurfaceLocationData closes a surface location: the satellite state at the location time
// is interpolated from the ISP records and the beam geometry is derived from it.
func NewSurfaceLocationData(cst *Cst, chd *Chd, loc SurfaceLocation, isps []*Isp) (*SurfaceLocationData, error) {
	pos, vel, err := SatStateAt(isps, loc.TimeSurf)
	if err != nil {
		return nil, fmt.Errorf("surface location data: %w", err)
	}
	d := &SurfaceLocationData{
		SurfaceLocation: loc,
		XSat:            pos.X,
		YSat:            pos.Y,
		ZSat:            pos.Z,
		XVelSat:         vel.X,
		YVelSat:         vel.Y,
		ZVelSat:         vel.Z,
		SurfaceType:     SurfaceRaw,
	}
	d.computeSurfSatVector()
	if err := d.computeAngularAzimuthBeamResolution(cst, chd); err != nil {
		return nil, fmt.Errorf("surface location data: %w", err)
	}
	return d, nil
}

// Satellite position at the location time
func (p *SurfaceLocationData) SatPos() PosXYZ {
	return PosXYZ{X: p.XSat, Y: p.YSat, Z: p.ZSat}
}

// Satellite velocity at the location time
func (p *SurfaceLocationData) SatVel() PosXYZ {
	return PosXYZ{X: p.XVelSat, Y: p.YVelSat, Z: p.ZVelSat}
}

func (p *SurfaceLocationData) computeSurfSatVector() {
	sat := p.SatPos()
	surf := p.PosXYZ()
	v := surf.Sub(sat)
	p.SurfSatVector = v.Vec()
}

// Doppler beam width seen from the satellite: wavelength / (2 * speed * burst length)
func (p *SurfaceLocationData) computeAngularAzimuthBeamResolution(cst *Cst, chd *Chd) error {
	vel := p.SatVel()
	v := vel.Norm()
	if v == 0 {
		return fmt.Errorf("beam resolution: %w, satellite velocity is zero", ErrDegenerateGeometry)
	}
	x := chd.WavelengthKu(cst) / (2 * v * chd.BurstDuration())
	if x > 1 || math.IsNaN(x) {
		return fmt.Errorf("beam resolution: %w, asin argument out of range (%g)", ErrDegenerateGeometry, x)
	}
	p.AngularAzimuthBeamResolution = math.Asin(x)
	return nil
}

// Angle [rad] at the satellite position of this location between the surface and the
// ground projection of the given ISP
func (p *SurfaceLocationData) GroundOrbitAngle(isp *Isp) (float64, error) {
	if p.SurfSatVector == nil {
		return 0, fmt.Errorf("ground orbit angle: %w, surface-satellite vector not set", ErrDegenerateGeometry)
	}
	surf := isp.SurfPos()
	v := surf.Sub(p.SatPos())
	return AngleBetween(p.SurfSatVector, v.Vec())
}
