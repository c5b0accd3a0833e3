// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import "errors"

var (
	// Fewer ISP records than the requested operation needs
	ErrInsufficientHistory = errors.New("insufficient ISP history")

	// Zero-length vectors or coincident angles
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// Non-finite or otherwise unusable coordinates
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
