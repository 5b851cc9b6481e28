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
	"time"
	"github.com/mlnoga/starglow/internal/catalog"
	"github.com/mlnoga/starglow/internal/star"
)

// VizieR identifiers of the queried catalogs
const (
	CatalogGCPD   = "II/215"        // General Catalogue of Photometric Data, UBV means
	CatalogAPASS  = "II/336/apass9" // AAVSO Photometric All Sky Survey DR9
	CatalogTycho2 = "I/259/tyc2"    // Tycho-2 main catalogue
)

// Columns requested from each catalog
var (
	gcpdColumns   = []string{"Star", "Vmag", "B-V", "U-B"}
	apassColumns  = []string{"B-V", "Vmag", "Bmag"}
	tycho2Columns = []string{"BTmag", "VTmag"}
)

// An ordered sequence of catalog probes. Earlier probes are more trusted;
// the first usable sample wins and ends the search.
type Chain struct {
	Probes []*Probe
}

// Builds the standard probe chain GCPD, APASS, Tycho-2, Simbad.
// The VizieR catalogs share a mirror URL; each probe narrows its reply
// to the columns its extraction mode needs.
func NewDefaultChain(vizierURL, simbadURL string, rowLimit int, timeout time.Duration) *Chain {
	return &Chain{Probes: []*Probe{
		{
			Name:      "GCPD",
			Source:    star.SourceGCPD,
			CatalogID: CatalogGCPD,
			Querier:   catalog.NewVizieR(vizierURL, gcpdColumns, rowLimit, timeout),
			Extract:   catalog.ExtractStandard,
		},
		{
			Name:      "APASS",
			Source:    star.SourceAPASS,
			CatalogID: CatalogAPASS,
			Querier:   catalog.NewVizieR(vizierURL, apassColumns, rowLimit, timeout),
			Extract:   catalog.ExtractStandard,
		},
		{
			Name:      "Tycho-2",
			Source:    star.SourceTycho2,
			CatalogID: CatalogTycho2,
			Querier:   catalog.NewVizieR(vizierURL, tycho2Columns, rowLimit, timeout),
			Extract:   catalog.ExtractTychoPair,
		},
		{
			Name:    "Simbad",
			Source:  star.SourceSimbad,
			Querier: catalog.NewSimbad(simbadURL, timeout),
			Extract: catalog.ExtractFlux,
		},
	}}
}
