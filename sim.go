// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Generation of synthetic ISP records along an SGP4 orbit.

package sarloc

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// SimOpt contains the options of the ISP simulation
type SimOpt struct {
	Interval      time.Duration // Time between two ISPs (burst repetition interval)
	Count         int           // Number of ISPs
	SurfaceHeight float64       // Ellipsoidal height of the observed surface [m]
}

// NewSimOpt creates a new SimOpt with default values
func NewSimOpt() *SimOpt {
	return &SimOpt{
		Interval:      11700 * time.Microsecond, // About 85.7 Hz
		Count:         1000,
		SurfaceHeight: 0,
	}
}

// SimulateIsps propagates the orbit given by the two-line element set and returns one ISP
// per interval starting at start. The observed surface is the ellipsoid raised by
// opt.SurfaceHeight, seen at nadir.
func SimulateIsps(tle1, tle2 string, start time.Time, cst *Cst, opt *SimOpt) (isps []*Isp, err error) {
	if opt.Count <= 0 || opt.Interval <= 0 {
		return nil, fmt.Errorf("invalid simulation options (count=%d, interval=%s)", opt.Count, opt.Interval)
	}
	orb, err := newOrbit(tle1, tle2)
	if err != nil {
		return nil, err
	}

	isps = make([]*Isp, 0, opt.Count)
	for i := 0; i < opt.Count; i++ {
		t := start.Add(time.Duration(i) * opt.Interval)
		isp, err := orb.isp(t, cst, opt.SurfaceHeight)
		if err != nil {
			return nil, fmt.Errorf("ISP #%d at %s: %w", i, t.UTC().Format(time.RFC3339Nano), err)
		}
		isps = append(isps, isp)
	}
	return isps, nil
}

// SGP4 orbit sampled at whole seconds
type orbit struct {
	sat     satellite.Satellite
	samples map[int64][2]satellite.Vector3 // ECI position [km] and velocity [km/s] by unix second
}

func newOrbit(tle1, tle2 string) (o *orbit, err error) {
	tle1 = strings.TrimRight(tle1, "\r\n ")
	tle2 = strings.TrimRight(tle2, "\r\n ")
	if len(tle1) < 69 || len(tle2) < 69 || !strings.HasPrefix(tle1, "1 ") || !strings.HasPrefix(tle2, "2 ") {
		return nil, fmt.Errorf("invalid two-line element set")
	}

	// The TLE parser panics on malformed fields
	defer func() {
		if r := recover(); r != nil {
			o, err = nil, fmt.Errorf("invalid two-line element set: %v", r)
		}
	}()
	return &orbit{
		sat:     satellite.TLEToSat(tle1, tle2, satellite.GravityWGS72),
		samples: map[int64][2]satellite.Vector3{},
	}, nil
}

func (o *orbit) sample(sec int64) (pos, vel satellite.Vector3, err error) {
	if s, ok := o.samples[sec]; ok {
		return s[0], s[1], nil
	}
	t := time.Unix(sec, 0).UTC()
	year, month, day := t.Date()
	hour, min, s := t.Clock()
	pos, vel = satellite.Propagate(o.sat, year, int(month), day, hour, min, s)
	if !isFinite(pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z) || (pos.X == 0 && pos.Y == 0 && pos.Z == 0) {
		return pos, vel, fmt.Errorf("propagation failed at %s", t.Format(time.RFC3339))
	}
	o.samples[sec] = [2]satellite.Vector3{pos, vel}
	return pos, vel, nil
}

// ECEF position [m] at t, by cubic Hermite interpolation of the whole second samples
func (o *orbit) ecef(t time.Time) (PosXYZ, error) {
	sec := t.Unix()
	tau := float64(t.Nanosecond()) / 1e9
	p0, v0, err := o.sample(sec)
	if err != nil {
		return PosXYZ{}, err
	}
	p1, v1, err := o.sample(sec + 1)
	if err != nil {
		return PosXYZ{}, err
	}

	t2 := tau * tau
	t3 := t2 * tau
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + tau
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	eci := satellite.Vector3{
		X: h00*p0.X + h10*v0.X + h01*p1.X + h11*v1.X,
		Y: h00*p0.Y + h10*v0.Y + h01*p1.Y + h11*v1.Y,
		Z: h00*p0.Z + h10*v0.Z + h01*p1.Z + h11*v1.Z,
	}

	u := time.Unix(sec, 0).UTC()
	year, month, day := u.Date()
	hour, min, s := u.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, s) + tau/86400.0
	gmst := satellite.ThetaG_JD(jd)
	e := satellite.ECIToECEF(eci, gmst)

	const kmToM = 1000.0
	return PosXYZ{X: e.X * kmToM, Y: e.Y * kmToM, Z: e.Z * kmToM}, nil
}

func (o *orbit) isp(t time.Time, cst *Cst, surfHei float64) (*Isp, error) {
	const h = 10 * time.Millisecond

	sat, err := o.ecef(t)
	if err != nil {
		return nil, err
	}
	before, err := o.ecef(t.Add(-h))
	if err != nil {
		return nil, err
	}
	after, err := o.ecef(t.Add(h))
	if err != nil {
		return nil, err
	}
	d := after.Sub(before)
	k := 1 / (2 * h.Seconds())
	vel := PosXYZ{X: d.X * k, Y: d.Y * k, Z: d.Z * k}

	llh, err := sat.ToLLH(cst)
	if err != nil {
		return nil, err
	}
	nadir := NewPosLLH(llh.Lat, llh.Lon, surfHei)
	surf, err := nadir.ToXYZ(cst)
	if err != nil {
		return nil, err
	}
	if llh.Hei <= surfHei || math.IsNaN(llh.Hei) {
		return nil, fmt.Errorf("satellite below the surface (alt=%.1f m)", llh.Hei)
	}

	return &Isp{
		TimeSarKu:     NewSarTime(t),
		XSarSurf:      surf.X,
		YSarSurf:      surf.Y,
		ZSarSurf:      surf.Z,
		LatSarSat:     llh.Lat,
		LonSarSat:     llh.Lon,
		AltSarSat:     llh.Hei,
		WinDelaySarKu: 2 * (llh.Hei - surfHei) / cst.C,
		XSarSat:       sat.X,
		YSarSat:       sat.Y,
		ZSarSat:       sat.Z,
		XVelSat:       vel.X,
		YVelSat:       vel.Y,
		ZVelSat:       vel.Z,
	}, nil
}
