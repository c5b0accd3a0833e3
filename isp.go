// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Instrument source packet: one received burst echo with the satellite state at its time tag
type Isp struct {
	TimeSarKu SarTime // Time tag of the burst

	// Ground projection of the satellite (ECEF) [m]
	XSarSurf float64
	YSarSurf float64
	ZSarSurf float64

	// Geodetic satellite position
	LatSarSat float64 // [deg]
	LonSarSat float64 // [deg]
	AltSarSat float64 // [m]

	WinDelaySarKu float64 // Tracking window delay (round trip) [s]

	// Satellite state (ECEF)
	XSarSat float64 // [m]
	YSarSat float64
	ZSarSat float64
	XVelSat float64 // [m/s]
	YVelSat float64
	ZVelSat float64
}

// Ground projection position
func (p *Isp) SurfPos() PosXYZ {
	return PosXYZ{X: p.XSarSurf, Y: p.YSarSurf, Z: p.ZSarSurf}
}

// Satellite position
func (p *Isp) SatPos() PosXYZ {
	return PosXYZ{X: p.XSarSat, Y: p.YSarSat, Z: p.ZSarSat}
}

// Satellite velocity
func (p *Isp) SatVel() PosXYZ {
	return PosXYZ{X: p.XVelSat, Y: p.YVelSat, Z: p.ZVelSat}
}

// Number of columns of one record in the ISP text file
const ISP_COLUMNS = 14

// Column header of the ISP text file
const ispHeader = "% time_sar_ku x_sar_surf y_sar_surf z_sar_surf lat_sar_sat lon_sar_sat alt_sar_sat win_delay_sar_ku x_sar_sat y_sar_sat z_sar_sat x_vel_sat y_vel_sat z_vel_sat"

// ReadIsps reads ISP records from a whitespace separated text file.
// Lines starting with '%' or '#' are comments. Records must be in strictly increasing time order.
func ReadIsps(r io.Reader) ([]*Isp, error) {
	isps := []*Isp{}
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if len(line) == 0 || line[0] == '%' || line[0] == '#' {
			continue
		}
		isp, err := parseIsp(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if len(isps) > 0 && isp.TimeSarKu <= isps[len(isps)-1].TimeSarKu {
			return nil, fmt.Errorf("line %d: time tags must be strictly increasing (%.6f after %.6f)", n, isp.TimeSarKu, isps[len(isps)-1].TimeSarKu)
		}
		isps = append(isps, isp)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return isps, nil
}

func parseIsp(line string) (*Isp, error) {
	f := strings.Fields(line)
	if len(f) != ISP_COLUMNS {
		return nil, fmt.Errorf("%d columns expected, got %d", ISP_COLUMNS, len(f))
	}
	var v [ISP_COLUMNS]float64
	for i, s := range f {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		v[i] = x
	}
	return &Isp{
		TimeSarKu:     SarTime(v[0]),
		XSarSurf:      v[1],
		YSarSurf:      v[2],
		ZSarSurf:      v[3],
		LatSarSat:     v[4],
		LonSarSat:     v[5],
		AltSarSat:     v[6],
		WinDelaySarKu: v[7],
		XSarSat:       v[8],
		YSarSat:       v[9],
		ZSarSat:       v[10],
		XVelSat:       v[11],
		YVelSat:       v[12],
		ZVelSat:       v[13],
	}, nil
}

// WriteIsps writes ISP records in the format read by ReadIsps
func WriteIsps(w io.Writer, isps []*Isp) error {
	if _, err := fmt.Fprintln(w, ispHeader); err != nil {
		return err
	}
	for _, p := range isps {
		_, err := fmt.Fprintf(w, "%.9f %.4f %.4f %.4f %.10f %.10f %.4f %.12e %.4f %.4f %.4f %.6f %.6f %.6f\n",
			p.TimeSarKu, p.XSarSurf, p.YSarSurf, p.ZSarSurf, p.LatSarSat, p.LonSarSat, p.AltSarSat, p.WinDelaySarKu,
			p.XSarSat, p.YSarSat, p.ZSarSat, p.XVelSat, p.YVelSat, p.ZVelSat)
		if err != nil {
			return err
		}
	}
	return nil
}
