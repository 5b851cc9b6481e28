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

package catalog

import (
	"math"
	"github.com/mlnoga/starglow/internal/star"
)

// Extract a sample from a row carrying literal B-V, U-B and Vmag columns,
// as served by GCPD and APASS. U-B and Vmag are read opportunistically and
// stay NaN when absent or unparseable.
func ExtractStandard(r Row) star.Sample {
	return star.Sample{
		BV: r.Float("B-V"),
		UB: r.Float("U-B"),
		V:  r.Float("Vmag"),
	}
}

// Extract a sample from a Tycho-2 row, deriving the color index from the
// BT and VT magnitude pair. Rows missing either magnitude yield an empty
// sample, so the scan moves on. Tycho-2 carries no U band.
func ExtractTychoPair(r Row) star.Sample {
	bt, vt := r.Float("BTmag"), r.Float("VTmag")
	s := star.NewSample()
	if math.IsNaN(bt) || math.IsNaN(vt) {
		return s
	}
	s.BV = bt - vt
	s.V = vt
	return s
}

// Extract a sample from a Simbad flux row, deriving color indices from the
// UBV flux columns. Rows missing the B or V flux yield an empty sample.
// The U-B index is only derived when the U flux is present.
func ExtractFlux(r Row) star.Sample {
	u, b, v := r.Float("FLUX_U"), r.Float("FLUX_B"), r.Float("FLUX_V")
	s := star.NewSample()
	if math.IsNaN(b) || math.IsNaN(v) {
		return s
	}
	s.BV = b - v
	s.V = v
	if !math.IsNaN(u) {
		s.UB = b - u
	}
	return s
}
