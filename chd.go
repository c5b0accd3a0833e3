// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

// Chd holds the instrument characterisation
type Chd struct {
	FreqKu         float64 `json:"freq_ku_chd"`           // Ku-band carrier frequency [Hz]
	BwKu           float64 `json:"bw_ku_chd"`             // Ku-band chirp bandwidth [Hz]
	PriSar         float64 `json:"pri_sar_chd"`           // Pulse repetition interval in SAR mode [s]
	NKuPulsesBurst int     `json:"N_ku_pulses_burst_chd"` // Number of Ku pulses per burst
	NSamplesSar    int     `json:"N_samples_sar_chd"`     // Number of range samples per echo
}

// NewChd returns a characterisation with Sentinel-3 SRAL like values
func NewChd() *Chd {
	return &Chd{
		FreqKu:         13.575e9,
		BwKu:           350e6,
		PriSar:         5.58e-5,
		NKuPulsesBurst: 64,
		NSamplesSar:    128,
	}
}

// Wavelength of the Ku-band carrier [m]
func (c *Chd) WavelengthKu(cst *Cst) float64 {
	return cst.C / c.FreqKu
}

// Duration of one burst [s]
func (c *Chd) BurstDuration() float64 {
	return float64(c.NKuPulsesBurst) * c.PriSar
}
