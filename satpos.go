// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Satellite position and velocity at time t, interpolated linearly between the ISP records
// surrounding t. Outside the covered span the nearest two records are extrapolated.
func SatStateAt(isps []*Isp, t SarTime) (pos, vel PosXYZ, err error) {
	switch len(isps) {
	case 0:
		return pos, vel, fmt.Errorf("satellite state at %.6f: %w, no ISP records", t, ErrInsufficientHistory)
	case 1:
		if isps[0].TimeSarKu != t {
			return pos, vel, fmt.Errorf("satellite state at %.6f: %w, a single record at %.6f", t, ErrInsufficientHistory, isps[0].TimeSarKu)
		}
		return isps[0].SatPos(), isps[0].SatVel(), nil
	}

	i, found := slices.BinarySearchFunc(isps, t, func(p *Isp, t SarTime) int {
		switch {
		case p.TimeSarKu < t:
			return -1
		case p.TimeSarKu > t:
			return 1
		}
		return 0
	})
	if found {
		return isps[i].SatPos(), isps[i].SatVel(), nil
	}

	// Records used for interpolation
	i = max(1, min(i, len(isps)-1))
	p0, p1 := isps[i-1], isps[i]
	dt := p1.TimeSarKu.Sub(p0.TimeSarKu)
	if dt == 0 {
		return pos, vel, fmt.Errorf("satellite state at %.6f: %w, duplicated time tag", t, ErrDegenerateGeometry)
	}
	alpha := t.Sub(p0.TimeSarKu) / dt

	s0, s1 := p0.SatPos(), p1.SatPos()
	v0, v1 := p0.SatVel(), p1.SatVel()
	return s0.Lerp(s1, alpha), v0.Lerp(v1, alpha), nil
}
