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
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Base URL of the CDS VizieR mirror queried by default
const DefaultVizieRURL = "https://vizier.cds.unistra.fr"

// Cone search radius around the resolved object position, in arcsec
const vizierRadiusArcsec = 120

// A client for the VizieR catalog service, querying the ASCII tab separated
// endpoint. Columns narrows the reply to the named columns; an empty list
// requests the catalog defaults.
type VizieR struct {
	BaseURL  string
	Columns  []string
	RowLimit int
	client   *http.Client
}

func NewVizieR(baseURL string, columns []string, rowLimit int, timeout time.Duration) *VizieR {
	return &VizieR{
		BaseURL:  baseURL,
		Columns:  columns,
		RowLimit: rowLimit,
		client:   &http.Client{Timeout: timeout},
	}
}

// Query a VizieR catalog for rows around the object with the given
// identifier. The identifier is resolved to a position by the service.
// An empty result with a nil error means the object is unknown.
func (v *VizieR) QueryObject(ctx context.Context, name, catalogID string) ([]Row, error) {
	vals := url.Values{}
	vals.Set("-source", catalogID)
	vals.Set("-c", name)
	vals.Set("-c.rs", strconv.Itoa(vizierRadiusArcsec))
	vals.Set("-out.max", strconv.Itoa(v.RowLimit))
	if len(v.Columns) > 0 {
		vals.Set("-out", strings.Join(v.Columns, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.BaseURL+"/viz-bin/asu-tsv?"+vals.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", catalogID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying %s: unexpected status %d", catalogID, resp.StatusCode)
	}

	rows, err := parseTSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s reply: %w", catalogID, err)
	}
	return rows, nil
}
