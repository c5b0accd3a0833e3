// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Loading of the constants (CST) and characterisation (CHD) files.
// Keys missing from a file keep their default values.

package sarloc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Read constants from JSON
func ReadCst(r io.Reader) (*Cst, error) {
	cst := NewCst()
	if err := json.NewDecoder(r).Decode(cst); err != nil {
		return nil, fmt.Errorf("failed to decode constants. err=%w", err)
	}
	if err := cst.Validate(); err != nil {
		return nil, err
	}
	return cst, nil
}

// Read characterisation from JSON
func ReadChd(r io.Reader) (*Chd, error) {
	chd := NewChd()
	if err := json.NewDecoder(r).Decode(chd); err != nil {
		return nil, fmt.Errorf("failed to decode characterisation. err=%w", err)
	}
	if err := chd.Validate(); err != nil {
		return nil, err
	}
	return chd, nil
}

// Load constants file. An empty file name returns the defaults.
func LoadCst(fn string) (*Cst, error) {
	if len(fn) == 0 {
		return NewCst(), nil
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCst(f)
}

// Load characterisation file. An empty file name returns the defaults.
func LoadChd(fn string) (*Chd, error) {
	if len(fn) == 0 {
		return NewChd(), nil
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadChd(f)
}

func (c *Cst) Validate() error {
	if c.C <= 0 {
		return fmt.Errorf("speed of light must be positive (c=%g)", c.C)
	}
	if c.SemiMajorAxis <= 0 {
		return fmt.Errorf("semi-major axis must be positive (a=%g)", c.SemiMajorAxis)
	}
	if c.Flattening < 0 || c.Flattening >= 1 {
		return fmt.Errorf("flattening must be in [0,1) (f=%g)", c.Flattening)
	}
	return nil
}

func (c *Chd) Validate() error {
	if c.FreqKu <= 0 {
		return fmt.Errorf("Ku frequency must be positive (freq=%g)", c.FreqKu)
	}
	if c.PriSar <= 0 {
		return fmt.Errorf("SAR PRI must be positive (pri=%g)", c.PriSar)
	}
	if c.NKuPulsesBurst <= 0 {
		return fmt.Errorf("pulses per burst must be positive (n=%d)", c.NKuPulsesBurst)
	}
	if c.NSamplesSar <= 0 {
		return fmt.Errorf("samples per echo must be positive (n=%d)", c.NSamplesSar)
	}
	return nil
}
