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

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"github.com/mlnoga/starglow/internal/star"
)

// Candidate identifier columns recognized in star list files, in
// resolution priority order
var nameColumns = []string{"name_input", "name_resolved", "name_alt1"}

// A star list file open for streaming reads
type StarList struct {
	f       *os.File
	r       *csv.Reader
	indices []int // header positions of the name columns, -1 if absent
	row     int   // data rows read so far, for warnings
}

// Open a star list and locate the candidate name columns in its header.
// At least one of them must be present.
func OpenStarList(path string) (*StarList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err == io.EOF {
		f.Close()
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	indices := make([]int, len(nameColumns))
	found := false
	for i, want := range nameColumns {
		indices[i] = -1
		for j, col := range header {
			if strings.TrimSpace(col) == want {
				indices[i] = j
				found = true
				break
			}
		}
	}
	if !found {
		f.Close()
		return nil, fmt.Errorf("%s: no name column, expected one of %s", path, strings.Join(nameColumns, ", "))
	}
	return &StarList{f: f, r: r, indices: indices}, nil
}

// Read up to n stars. Rows without any usable name are skipped with a
// warning to the log writer. Returns io.EOF once the file is exhausted
// and no stars remain.
func (l *StarList) ReadBatch(n int, log io.Writer) ([]star.Candidates, error) {
	batch := make([]star.Candidates, 0, n)
	for len(batch) < n {
		record, err := l.r.Read()
		if err == io.EOF {
			if len(batch) == 0 {
				return nil, io.EOF
			}
			return batch, nil
		}
		if err != nil {
			return nil, err
		}
		l.row++
		var cands star.Candidates
		for _, idx := range l.indices {
			if idx < 0 || idx >= len(record) {
				continue
			}
			if v := strings.TrimSpace(record[idx]); v != "" {
				cands = append(cands, v)
			}
		}
		if len(cands) == 0 {
			fmt.Fprintf(log, "skipping row %d: no usable name\n", l.row)
			continue
		}
		batch = append(batch, cands)
	}
	return batch, nil
}

func (l *StarList) Close() error {
	return l.f.Close()
}

// Count the usable stars in a list file
func CountStars(path string) (int, error) {
	l, err := OpenStarList(path)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	total := 0
	for {
		batch, err := l.ReadBatch(1024, io.Discard)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		total += len(batch)
	}
	return total, nil
}
