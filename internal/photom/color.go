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

package photom

import (
	"fmt"
	"math"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Convert an effective temperature in Kelvin to a display color with channels
// in [0,1], plus its hex form "#RRGGBB". Uses Tanner Helland's piecewise
// approximation of black body colors, stated on a 0..255 scale with breaks at
// 6600K and 1900K. Infinite intermediates clamp to the valid range, NaN
// intermediates turn into an error. Temperatures <=0 give NaN via the log terms.
func TemperatureToRGB(tempK float64) (colorful.Color, string, error) {
	t := tempK / 100

	var r, g, b float64
	if t < 66 {
		r = 255
		g = 99.47*math.Log(t) - 161.12
		if t < 19 {
			b = 0
		} else {
			b = 138.51*math.Log(t-10) - 305.04
		}
	} else {
		r = 329.69 * math.Pow(t-60, -0.1332)
		g = 288.12 * math.Pow(t-60, -0.0755)
		b = 255
	}

	col := colorful.Color{R: clamp01(r / 255), G: clamp01(g / 255), B: clamp01(b / 255)}
	if math.IsNaN(col.R) || math.IsNaN(col.G) || math.IsNaN(col.B) {
		return colorful.Color{}, "", fmt.Errorf("temperature %g K gives non-finite color channels", tempK)
	}
	return col, Hex(col), nil
}

// Clamp a value to [0,1]. NaN passes through
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Format a color as "#RRGGBB" with uppercase hex digits.
// Channels must be in [0,1] and are truncated to 8 bit, not rounded.
func Hex(c colorful.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", int(c.R*255), int(c.G*255), int(c.B*255))
}
