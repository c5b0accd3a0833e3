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

//-------------------------------------------------------------------
// PosLLH
//-------------------------------------------------------------------

// Geodetic position. Lat and Lon are in degrees, Hei is the ellipsoidal height in meters.
type PosLLH struct {
	Lat float64
	Lon float64
	Hei float64
}

func NewPosLLH(lat, lon, hei float64) *PosLLH {
	return &PosLLH{
		Lat: lat,
		Lon: lon,
		Hei: hei,
	}
}

func (llh *PosLLH) ToXYZ(cst *Cst) (PosXYZ, error) {
	if !isFinite(llh.Lat, llh.Lon, llh.Hei) {
		return PosXYZ{}, fmt.Errorf("lla2ecef: %w (llh=%s)", ErrInvalidCoordinate, llh)
	}
	if math.Abs(llh.Lat) > 90 {
		return PosXYZ{}, fmt.Errorf("lla2ecef: %w, latitude out of range (lat=%f)", ErrInvalidCoordinate, llh.Lat)
	}

	// Ellipsoid parameters
	a := cst.SemiMajorAxis
	e2 := cst.Ecc2()

	lat := ToRad(llh.Lat)
	lon := ToRad(llh.Lon)

	// Conversion to Cartesian coordinates
	n := a / math.Sqrt(1-e2*math.Sin(lat)*math.Sin(lat))
	return PosXYZ{
		X: (n + llh.Hei) * math.Cos(lat) * math.Cos(lon),
		Y: (n + llh.Hei) * math.Cos(lat) * math.Sin(lon),
		Z: (n*(1-e2) + llh.Hei) * math.Sin(lat),
	}, nil
}

// Convert to string
func (llh *PosLLH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", llh.Lat, llh.Lon, llh.Hei)
}

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

// ECEF position [m]
type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

func NewPosXYZ(x, y, z float64) *PosXYZ {
	return &PosXYZ{
		X: x,
		Y: y,
		Z: z,
	}
}

func (pos *PosXYZ) ToLLH(cst *Cst) (PosLLH, error) {
	if !isFinite(pos.X, pos.Y, pos.Z) {
		return PosLLH{}, fmt.Errorf("ecef2lla: %w (xyz=%s)", ErrInvalidCoordinate, pos)
	}

	// Ellipsoid parameters
	a := cst.SemiMajorAxis   // Semi-major axis
	b := cst.SemiMinorAxis() // Semi-minor axis
	e2 := cst.Ecc2()         // Eccentricity squared

	// In case of origin
	if pos.X == 0 && pos.Y == 0 && pos.Z == 0 {
		return PosLLH{Lat: 0, Lon: 0, Hei: -a}, nil
	}

	// Bowring's formula for the first guess
	h := a*a - b*b
	p := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y)
	t := math.Atan2(pos.Z*a, p*b)
	sint := math.Sin(t)
	cost := math.Cos(t)
	lat := math.Atan2(pos.Z+h/b*sint*sint*sint, p-h/a*cost*cost*cost)

	// Refine latitude, Bowring alone loses accuracy at orbit altitudes.
	// The iteration does not converge deep inside the ellipsoid.
	for i := 0; i < 5 && math.Hypot(p, pos.Z) > a/2; i++ {
		sinl := math.Sin(lat)
		n := a / math.Sqrt(1-e2*sinl*sinl)
		next := math.Atan2(pos.Z+e2*n*sinl, p)
		d := math.Abs(next - lat)
		lat = next
		if d < 1e-15 {
			break
		}
	}
	lon := math.Atan2(pos.Y, pos.X)

	// Height valid also near the poles where cos(lat) vanishes
	sinl := math.Sin(lat)
	hei := p*math.Cos(lat) + pos.Z*sinl - a*math.Sqrt(1-e2*sinl*sinl)
	return PosLLH{Lat: ToDeg(lat), Lon: ToDeg(lon), Hei: hei}, nil
}

// Difference pos - o
func (pos *PosXYZ) Sub(o PosXYZ) PosXYZ {
	return PosXYZ{X: pos.X - o.X, Y: pos.Y - o.Y, Z: pos.Z - o.Z}
}

// Linear interpolation between pos (alpha=0) and o (alpha=1)
func (pos *PosXYZ) Lerp(o PosXYZ, alpha float64) PosXYZ {
	return PosXYZ{
		X: pos.X + alpha*(o.X-pos.X),
		Y: pos.Y + alpha*(o.Y-pos.Y),
		Z: pos.Z + alpha*(o.Z-pos.Z),
	}
}

// Column vector for gonum
func (pos *PosXYZ) Vec() *mat.VecDense {
	return mat.NewVecDense(3, []float64{pos.X, pos.Y, pos.Z})
}

func (pos *PosXYZ) Norm() float64 {
	return math.Sqrt(SQ(pos.X) + SQ(pos.Y) + SQ(pos.Z))
}

// Convert to string
func (pos *PosXYZ) String() string {
	return fmt.Sprintf("%.4f %.4f %.4f", pos.X, pos.Y, pos.Z)
}

func isFinite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
