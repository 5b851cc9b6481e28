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

package star

import (
	"math"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// A photometric sample for a single star, in magnitudes.
// Fields a catalog did not provide are IEEE NaN.
type Sample struct {
	BV float64 // B-V color index
	UB float64 // U-B color index
	V  float64 // V magnitude
}

// Returns a sample with all fields unknown
func NewSample() Sample {
	return Sample{BV: math.NaN(), UB: math.NaN(), V: math.NaN()}
}

// Returns true if the B-V color index is known, making the sample usable for temperature conversion
func (s Sample) HasBV() bool { return !math.IsNaN(s.BV) }

// Returns true if the U-B color index is known
func (s Sample) HasUB() bool { return !math.IsNaN(s.UB) }

// Returns true if the V magnitude is known
func (s Sample) HasV() bool { return !math.IsNaN(s.V) }

// Returns true if no field of the sample is known
func (s Sample) IsEmpty() bool { return !s.HasBV() && !s.HasUB() && !s.HasV() }

// Enumerated type for the catalog a sample was obtained from
type Source int

const (
	SourceNone Source = iota
	SourceGCPD
	SourceAPASS
	SourceTycho2
	SourceSimbad
)

func (s Source) String() string {
	switch s {
	case SourceGCPD:
		return "GCPD"
	case SourceAPASS:
		return "APASS"
	case SourceTycho2:
		return "Tycho-2"
	case SourceSimbad:
		return "Simbad"
	}
	return "none"
}

// Enumerated type for the outcome of resolving a single star
type Status int

const (
	StatusNotFound Status = iota // no catalog had the star
	StatusNoBV                   // a sample was obtained, but lacks a usable B-V index
	StatusError                  // a sample was obtained, but conversion gave non-finite results
	StatusOK                     // temperature and color were derived
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not found"
	case StatusNoBV:
		return "no B-V"
	case StatusError:
		return "processing error"
	case StatusOK:
		return "ok"
	}
	return "unknown"
}

// Candidate identifiers for one star, most trusted first
type Candidates []string

// Returns the display name for the star, i.e. the first candidate
func (c Candidates) Primary() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// The resolved record for one star. Sample is nil and Source is SourceNone
// if no catalog had the star. TeffK, RGB and Hex are only valid for StatusOK.
type Result struct {
	Name     string         // display name from the input list
	Resolved string         // candidate identifier that scored the catalog hit
	Sample   *Sample        // photometric sample, nil if not found
	Source   Source         // catalog the sample came from
	Status   Status         // outcome of resolving this star
	TeffK    int            // effective temperature in Kelvin, rounded
	RGB      colorful.Color // display color, channels in [0,1]
	Hex      string         // display color as #RRGGBB
}
