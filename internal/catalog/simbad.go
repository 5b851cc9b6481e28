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
	"strings"
	"time"
)

// Base URL of the Simbad service queried by default
const DefaultSimbadURL = "https://simbad.cds.unistra.fr"

// ADQL query for the UBV fluxes of an object, by any of its identifiers.
// Column aliases follow the classic Simbad votable field names.
const simbadFluxQuery = `SELECT f.U AS FLUX_U, f.B AS FLUX_B, f.V AS FLUX_V ` +
	`FROM ident JOIN allfluxes AS f ON ident.oidref=f.oidref WHERE ident.id='%s'`

// A client for the Simbad TAP service, used as the last resort flux source
type Simbad struct {
	BaseURL string
	client  *http.Client
}

func NewSimbad(baseURL string, timeout time.Duration) *Simbad {
	return &Simbad{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Query Simbad for the UBV fluxes of the object with the given identifier.
// The catalogID argument is unused, Simbad is a single database.
// An empty result with a nil error means the object is unknown.
func (s *Simbad) QueryObject(ctx context.Context, name, catalogID string) ([]Row, error) {
	// single quotes are doubled to escape them in ADQL string literals
	escaped := strings.ReplaceAll(name, "'", "''")

	vals := url.Values{}
	vals.Set("request", "doQuery")
	vals.Set("lang", "adql")
	vals.Set("format", "text/tab-separated-values")
	vals.Set("query", fmt.Sprintf(simbadFluxQuery, escaped))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/simbad/sim-tap/sync?"+vals.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying simbad: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying simbad: unexpected status %d", resp.StatusCode)
	}

	rows, err := parseTSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing simbad reply: %w", err)
	}
	return rows, nil
}
