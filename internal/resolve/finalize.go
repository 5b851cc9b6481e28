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

package resolve

import (
	"math"
	"github.com/mlnoga/starglow/internal/photom"
	"github.com/mlnoga/starglow/internal/star"
)

// Derive temperature and display color for a resolved sample, and settle
// the final status. A result without a sample stays "not found"; a sample
// without B-V becomes "no B-V". Non-finite temperatures and failed color
// conversions become "processing error".
func Finalize(res *star.Result, direct bool) {
	if res.Sample == nil {
		return
	}
	if !res.Sample.HasBV() {
		res.Status = star.StatusNoBV
		return
	}
	temp := photom.BVToTemperature(res.Sample.BV)
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		res.Status = star.StatusError
		return
	}
	var hex string
	if direct {
		res.RGB, hex = photom.BVToRGB(res.Sample.BV)
	} else {
		var err error
		res.RGB, hex, err = photom.TemperatureToRGB(temp)
		if err != nil {
			res.Status = star.StatusError
			return
		}
	}
	res.TeffK = int(math.Round(temp))
	res.Hex = hex
	res.Status = star.StatusOK
}
