// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

const (
	PI = 3.1415926535897932  // Pi
	C  = 2.99792458e8        // Speed of light [m/s]
	Re = 6378137.0           // Earth's semi-major axis (WGS84) [m]
	Fe = 1.0 / 298.257223563 // Earth's flattening (WGS84)
)

// Cst holds the physical constants used by the processing chain.
// It is passed explicitly to every component that needs it.
type Cst struct {
	C             float64 `json:"c_cst"`               // Speed of light [m/s]
	SemiMajorAxis float64 `json:"semi_major_axis_cst"` // Ellipsoid semi-major axis [m]
	Flattening    float64 `json:"flat_coeff_cst"`      // Ellipsoid flattening
}

// NewCst returns the constants with WGS84 defaults
func NewCst() *Cst {
	return &Cst{
		C:             C,
		SemiMajorAxis: Re,
		Flattening:    Fe,
	}
}

// Semi-minor axis [m]
func (c *Cst) SemiMinorAxis() float64 {
	return c.SemiMajorAxis * (1 - c.Flattening)
}

// First eccentricity squared
func (c *Cst) Ecc2() float64 {
	return c.Flattening * (2 - c.Flattening)
}
