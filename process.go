// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ProcOpt contains the options of the surface location processing
type ProcOpt struct {
	SkipDegenerate bool // Consume ISPs with degenerate geometry without producing a location
}

// NewProcOpt creates a new ProcOpt with default values
func NewProcOpt() *ProcOpt {
	return &ProcOpt{
		SkipDegenerate: false, // Abort the pass
	}
}

// Processor feeds the ISPs of one pass to a surface location tracker and keeps the
// history of ISPs and closed locations. One Processor handles one pass and must not be
// shared between goroutines.
type Processor struct {
	cst     *Cst
	chd     *Chd
	opt     *ProcOpt
	tracker *SurfaceLocationTracker
	isps    []*Isp
	locs    []*SurfaceLocationData
	skipped int
}

func NewProcessor(cst *Cst, chd *Chd, opt *ProcOpt) *Processor {
	if opt == nil {
		opt = NewProcOpt()
	}
	return &Processor{
		cst:     cst,
		chd:     chd,
		opt:     opt,
		tracker: NewSurfaceLocationTracker(cst, chd),
	}
}

// Feed appends one ISP to the pass. It returns the location closed by this ISP, or nil.
func (p *Processor) Feed(isp *Isp) (*SurfaceLocationData, error) {
	if n := len(p.isps); n > 0 && isp.TimeSarKu <= p.isps[n-1].TimeSarKu {
		return nil, fmt.Errorf("ISP time tags must be strictly increasing (%.6f after %.6f)", isp.TimeSarKu, p.isps[n-1].TimeSarKu)
	}
	p.isps = append(p.isps, isp)

	found, err := p.tracker.Advance(p.locs, p.isps)
	if err != nil {
		if p.opt.SkipDegenerate && errors.Is(err, ErrDegenerateGeometry) {
			p.skipped++
			PrintB(isp.TimeSarKu, "ISP skipped: %s\n", err.Error())
			return nil, nil
		}
		return nil, err
	}
	if !found {
		return nil, nil
	}

	// A dropped first location is bootstrapped again by the next ISP. A later one would
	// leave the tracker ahead of the last closed location, so the pass is aborted.
	loc, err := NewSurfaceLocationData(p.cst, p.chd, p.tracker.Surface(), p.isps)
	if err != nil {
		if p.opt.SkipDegenerate && len(p.locs) == 0 && errors.Is(err, ErrDegenerateGeometry) {
			p.skipped++
			PrintB(isp.TimeSarKu, "surface location dropped: %s\n", err.Error())
			return nil, nil
		}
		return nil, err
	}
	p.locs = append(p.locs, loc)
	if DBG_ >= 2 {
		PrintB(loc.TimeSurf, "surface #%d: %13.9f %14.9f %10.4f (state=%s, alpha=%.4f)\n",
			len(p.locs), loc.LatSurf, loc.LonSurf, loc.AltSurf, p.tracker.State(), p.tracker.Alpha())
	}
	return loc, nil
}

// Closed locations of the pass
func (p *Processor) Locations() []*SurfaceLocationData {
	return slices.Clone(p.locs)
}

// ISPs received so far
func (p *Processor) Isps() []*Isp {
	return slices.Clone(p.isps)
}

// Number of ISPs skipped because of degenerate geometry
func (p *Processor) Skipped() int {
	return p.skipped
}

// ProcessIsps runs a whole pass and returns its surface locations
func ProcessIsps(isps []*Isp, cst *Cst, chd *Chd, opt *ProcOpt) ([]*SurfaceLocationData, error) {
	proc := NewProcessor(cst, chd, opt)
	for i, isp := range isps {
		if _, err := proc.Feed(isp); err != nil {
			return nil, fmt.Errorf("ISP #%d (t=%.6f): %w", i, isp.TimeSarKu, err)
		}
	}
	PrintD(1, "%d ISPs, %d surface locations, %d skipped\n", len(isps), len(proc.locs), proc.skipped)
	return proc.Locations(), nil
}
