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
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"strings"
)

// A single catalog row, mapping column names to their raw cell values.
// Cells the catalog left blank are absent from the map.
type Row map[string]string

// Returns the cell value of the given column parsed as a float,
// or IEEE NaN if the column is absent or does not parse
func (r Row) Float(col string) float64 {
	v, ok := r[col]
	if !ok {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// A remote star catalog that can be queried by object identifier.
// Implementations return the matching rows nearest first, up to their
// configured row limit. An empty result with a nil error means the
// identifier is unknown to the catalog.
type Querier interface {
	QueryObject(ctx context.Context, name, catalogID string) ([]Row, error)
}

// Parse a tab separated table as returned by VizieR and Simbad TAP.
// Comment lines starting with '#' and blank lines are skipped, the first
// content line names the columns, and an optional dashed underline after
// the header is ignored. Blank cells do not enter the row maps.
func parseTSV(rd io.Reader) (rows []Row, err error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var cols []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if cols == nil {
			cols = make([]string, len(fields))
			for i, f := range fields {
				cols[i] = strings.TrimSpace(f)
			}
			continue
		}
		if isDashedUnderline(fields) {
			continue
		}
		row := Row{}
		for i, f := range fields {
			if i >= len(cols) {
				break
			}
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			row[cols[i]] = f
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, scanner.Err()
}

// Returns true if all non-empty fields consist of dashes only,
// i.e. the line underlines the header of a VizieR table
func isDashedUnderline(fields []string) bool {
	seen := false
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if strings.Trim(f, "-") != "" {
			return false
		}
		seen = true
	}
	return seen
}
