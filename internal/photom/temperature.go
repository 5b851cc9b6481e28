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

// Convert a B-V color index in mag to an effective temperature in Kelvin,
// using the black body approximation from Ballesteros (2012), EPL 97, 34008.
// The formula has poles near B-V = -0.674 and -1.848 where results turn
// infinite, and yields negative temperatures in between. Callers must check
// the result is finite and positive before using it.
func BVToTemperature(bv float64) float64 {
	return 4600 * (1/(0.92*bv+1.7) + 1/(0.92*bv+0.62))
}
