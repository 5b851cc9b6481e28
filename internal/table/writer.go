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
	"math"
	"os"
	"strconv"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlnoga/starglow/internal/star"
)

// Column layout of results files
var resultColumns = []string{"name", "resolved_used", "V", "B-V", "U-B", "T_eff_K", "RGB", "hex_color", "source", "status"}

// A results file open for streaming writes
type ResultWriter struct {
	f *os.File
	w *csv.Writer
}

// Create a results file and write its header row
func CreateResults(path string) (*ResultWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(resultColumns); err != nil {
		f.Close()
		return nil, err
	}
	return &ResultWriter{f: f, w: w}, nil
}

// Append one result row. Sample magnitudes appear whenever a sample was
// retrieved; temperature and color only for status ok.
func (w *ResultWriter) WriteResult(res *star.Result) error {
	record := make([]string, 0, len(resultColumns))
	record = append(record, res.Name, res.Resolved)
	if res.Sample != nil {
		record = append(record, formatMag(res.Sample.V), formatMag(res.Sample.BV), formatMag(res.Sample.UB))
	} else {
		record = append(record, "", "", "")
	}
	if res.Status == star.StatusOK {
		record = append(record, strconv.Itoa(res.TeffK), FormatRGB(res.RGB), res.Hex)
	} else {
		record = append(record, "", "", "")
	}
	record = append(record, res.Source.String(), res.Status.String())
	return w.w.Write(record)
}

// Flush buffered rows to the file
func (w *ResultWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

func (w *ResultWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Serialize a color as a tuple of channels in 0..1
func FormatRGB(c colorful.Color) string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", c.R, c.G, c.B)
}

func formatMag(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
