// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package sarloc

import (
	"math"
	"time"
)

// Reference epoch of the SAR time tags
var sarEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Elapsed seconds since 2000/1/1 00:00:00 UTC
type SarTime float64

func NewSarTime(dt time.Time) SarTime {
	d := dt.Sub(sarEpoch)
	return SarTime(float64(d/time.Second) + float64(d%time.Second)/1e9)
}

func (p SarTime) ToTime() time.Time {
	i := math.Floor(float64(p))
	n := int64(math.Round((float64(p) - i) * 1e9))
	return sarEpoch.Add(time.Duration(i) * time.Second).Add(time.Duration(n))
}

func (p SarTime) Sub(b SarTime) float64 {
	return float64(p) - float64(b)
}
