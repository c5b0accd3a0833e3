// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Masking of the stack of a surface location before multilooking.

package sarloc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StackMaskOpt contains the parameters of the stack masking
type StackMaskOpt struct {
	RmcMargin                    int  // Samples removed at the end of the RMC window (before zero padding)
	ZpFactRange                  int  // Range zero-padding factor
	NLooksStack                  int  // Number of central beams kept. 0 keeps all beams
	FlagAvoidZerosInMultilooking bool // Exclude samples that are exactly zero
	FlagRemoveDopplerAmbiguities bool // Exclude beams whose Doppler correction is ambiguous
}

// NewStackMaskOpt creates a new StackMaskOpt with default values
func NewStackMaskOpt() *StackMaskOpt {
	return &StackMaskOpt{
		RmcMargin:                    6,
		ZpFactRange:                  1,
		NLooksStack:                  0,
		FlagAvoidZerosInMultilooking: true,
		FlagRemoveDopplerAmbiguities: false,
	}
}

// StackMaskSol contains the result of the stack masking
type StackMaskSol struct {
	StackMaskVector []int      // Index of the last sample kept in the mask of each beam, -1 for a masked beam
	BeamValid       []bool     // Validity of each beam
	Mask            *mat.Dense // 1 for valid samples, 0 otherwise
	BeamsMasked     *mat.Dense // Range compressed beams multiplied by the mask
}

// StackMask computes the valid part of each beam of the stack of loc
func StackMask(loc *SurfaceLocationData, chd *Chd, opt *StackMaskOpt) (*StackMaskSol, error) {
	if opt.ZpFactRange < 1 {
		return nil, fmt.Errorf("invalid zero-padding factor (zp=%d)", opt.ZpFactRange)
	}
	if loc.BeamsRangeCompr == nil || loc.DataStackSize <= 0 {
		return nil, fmt.Errorf("stack of the surface location is empty")
	}
	size := loc.DataStackSize
	n := chd.NSamplesSar * opt.ZpFactRange
	r, c := loc.BeamsRangeCompr.Dims()
	if r != size || c != n {
		return nil, fmt.Errorf("invalid stack size. beams(%d x %d), expected(%d x %d)", r, c, size, n)
	}
	corr := []struct {
		name string
		v    []float64
	}{
		{"doppler", loc.DopplerCorrections},
		{"slant range", loc.SlantRangeCorrections},
		{"window delay", loc.WinDelayCorrections},
	}
	for _, cr := range corr {
		if len(cr.v) != size {
			return nil, fmt.Errorf("invalid number of %s corrections (%d for %d beams)", cr.name, len(cr.v), size)
		}
	}

	// Last usable sample of the window
	last := n - 1
	if loc.SurfaceType == SurfaceRmc {
		last = n/2 - 1 - opt.RmcMargin*opt.ZpFactRange
	}

	// Beams kept around the centre of the stack
	lookStart, lookEnd := 0, size
	if opt.NLooksStack > 0 && opt.NLooksStack < size {
		lookStart = (size - opt.NLooksStack) / 2
		lookEnd = lookStart + opt.NLooksStack
	}

	sol := &StackMaskSol{
		StackMaskVector: make([]int, size),
		BeamValid:       make([]bool, size),
		Mask:            mat.NewDense(size, n, nil),
		BeamsMasked:     mat.NewDense(size, n, nil),
	}
	for i := 0; i < size; i++ {
		sol.StackMaskVector[i] = -1

		if i < lookStart || i >= lookEnd {
			continue
		}
		if opt.FlagRemoveDopplerAmbiguities && math.Abs(loc.DopplerCorrections[i]) > float64(chd.NSamplesSar)/2 {
			continue
		}

		// Shift of the beam in the zero-padded window
		shift := int(math.Round(loc.DopplerCorrections[i]+loc.SlantRangeCorrections[i]+loc.WinDelayCorrections[i])) * opt.ZpFactRange
		lo, hi := 0, last-shift
		if shift < 0 {
			lo, hi = -shift, last
		}

		lastSet := -1
		for j := max(lo, 0); j <= hi; j++ {
			if opt.FlagAvoidZerosInMultilooking && loc.BeamsRangeCompr.At(i, j) == 0 {
				continue
			}
			sol.Mask.Set(i, j, 1)
			lastSet = j
		}
		if lastSet >= 0 {
			sol.StackMaskVector[i] = lastSet
			sol.BeamValid[i] = true
		}
	}
	sol.BeamsMasked.MulElem(loc.BeamsRangeCompr, sol.Mask)

	PrintD(3, "\tstack mask: %d/%d beams valid (%s)\n", sol.NumValid(), size, loc.SurfaceType)
	if DBG_ >= 4 {
		PrintMat(sol.Mask)
	}
	return sol, nil
}

// Number of valid beams
func (p *StackMaskSol) NumValid() int {
	k := 0
	for _, v := range p.BeamValid {
		if v {
			k++
		}
	}
	return k
}

// Multilook averages the masked beams sample by sample over the valid samples only.
// Samples with no valid beam are zero.
func Multilook(sol *StackMaskSol) []float64 {
	r, n := sol.BeamsMasked.Dims()
	wav := make([]float64, n)
	col := make([]float64, r)
	msk := make([]float64, r)
	for j := 0; j < n; j++ {
		mat.Col(col, j, sol.BeamsMasked)
		mat.Col(msk, j, sol.Mask)
		k := floats.Sum(msk)
		if k == 0 {
			continue
		}
		wav[j] = floats.Dot(col, msk) / k
	}
	return wav
}
