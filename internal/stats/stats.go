// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package stats

import (
	"fmt"
	"math"
	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Cap on values inspected for the median; larger inputs are subsampled
const maxMedianSamples = 128 * 1024

// Summary statistics of a value distribution
type Summary struct {
	N      int     `json:"n"`      // number of values
	Min    float64 `json:"min"`    // minimum
	Max    float64 `json:"max"`    // maximum
	Mean   float64 `json:"mean"`   // mean (average)
	StdDev float64 `json:"stdDev"` // sample standard deviation
	Median float64 `json:"median"` // median, approximate for very large inputs
}

// Pretty print summary statistics to string
func (s *Summary) String() string {
	return fmt.Sprintf("N %d Min %.6g Max %.6g Mean %.6g StdDev %.6g Median %.6g",
		s.N, s.Min, s.Max, s.Mean, s.StdDev, s.Median)
}

// Calculate summary statistics for a data array. Median selection partially
// reorders the array. Array must not contain IEEE NaN
func Describe(values []float64) *Summary {
	s := &Summary{N: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = floats.Min(values), floats.Max(values)
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	s.Median = ApproxMedian(values, maxMedianSamples)
	return s
}

// Calculates the median of the data, switching to a fast approximate
// median of a random subsample when the input exceeds maxSamples.
// Partially reorders the array. Array must not contain IEEE NaN
func ApproxMedian(data []float64, maxSamples int) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	if len(data) <= maxSamples {
		return QSelectMedianFloat64(data)
	}
	samples := make([]float64, maxSamples)
	max := uint32(len(data))
	rng := fastrand.RNG{}
	for i := range samples {
		samples[i] = data[rng.Uint32n(max)]
	}
	return QSelectMedianFloat64(samples)
}
