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
	"context"
	"github.com/mlnoga/starglow/internal/catalog"
	"github.com/mlnoga/starglow/internal/star"
)

// Turns a catalog row into a photometric sample. Extractors are pure and
// return empty or partial samples for rows they cannot use.
type Extractor func(catalog.Row) star.Sample

// One catalog lookup stage: a querier bound to a catalog and an extraction
// mode. Probes are tried in chain order until one commits a sample.
type Probe struct {
	Name      string      // display name for logs, e.g. "GCPD"
	Source    star.Source // source tag for committed samples
	CatalogID string      // catalog identifier passed to the querier
	Querier   catalog.Querier
	Extract   Extractor
}

// Look up one identifier in the probe's catalog. Scans the returned rows in
// order and commits to the first one yielding a usable B-V index; rows
// without one are skipped. Query faults and empty replies read as no data,
// with the error returned for logging.
func (p *Probe) Lookup(ctx context.Context, name string) (star.Sample, bool, error) {
	rows, err := p.Querier.QueryObject(ctx, name, p.CatalogID)
	if err != nil {
		return star.NewSample(), false, err
	}
	for _, row := range rows {
		if s := p.Extract(row); s.HasBV() {
			return s, true, nil
		}
	}
	return star.NewSample(), false, nil
}
