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

// AngleBetween returns the unsigned angle [rad] between two 3-vectors.
// A zero-length vector has no direction and yields ErrDegenerateGeometry.
func AngleBetween(a, b mat.Vector) (float64, error) {
	if a.Len() != 3 || b.Len() != 3 {
		return 0, fmt.Errorf("angle between vectors of length %d and %d: 3-vectors expected", a.Len(), b.Len())
	}
	na := mat.Norm(a, 2)
	nb := mat.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("angle between vectors: %w, zero-length vector (|a|=%g, |b|=%g)", ErrDegenerateGeometry, na, nb)
	}
	if !isFinite(na, nb) {
		return 0, fmt.Errorf("angle between vectors: %w, non-finite component", ErrInvalidCoordinate)
	}
	cos := mat.Dot(a, b) / (na * nb)
	return math.Acos(math.Max(-1, math.Min(1, cos))), nil
}
