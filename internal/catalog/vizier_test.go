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
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// a VizieR asu-tsv reply for GCPD, with one full row and one row of blank cells
const gcpdReply = "#\n" +
	"#   VizieR Astronomical Server vizier.cds.unistra.fr\n" +
	"#    Date: 2023-10-07T18:31:22 [V7.0]\n" +
	"#Column Star  (a12)  Star designation  [ucd=meta.id;meta.main]\n" +
	"#Column Vmag  (F5.2) V magnitude       [ucd=phot.mag;em.opt.V]\n" +
	"#Column B-V   (F5.2) B-V color index   [ucd=phot.color]\n" +
	"#Column U-B   (F5.2) U-B color index   [ucd=phot.color]\n" +
	"\n" +
	"Star\tVmag\tB-V\tU-B\n" +
	"------------\t-----\t-----\t-----\n" +
	"HD 34085\t0.13\t-0.03\t-0.66\n" +
	"HD 34085B\t10.40\t\t\n" +
	"\n" +
	"#END#  .................\n"

func TestVizieRQueryObject(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(gcpdReply))
	}))
	defer srv.Close()

	v := NewVizieR(srv.URL, []string{"Star", "Vmag", "B-V", "U-B"}, 200, time.Second)
	rows, err := v.QueryObject(context.Background(), "Rigel", "II/215")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if got := gotQuery["-source"]; len(got) != 1 || got[0] != "II/215" {
		t.Errorf("-source: got %v, want II/215", got)
	}
	if got := gotQuery["-c"]; len(got) != 1 || got[0] != "Rigel" {
		t.Errorf("-c: got %v, want Rigel", got)
	}
	if got := gotQuery["-out.max"]; len(got) != 1 || got[0] != "200" {
		t.Errorf("-out.max: got %v, want 200", got)
	}
	if got := gotQuery["-out"]; len(got) != 1 || !strings.Contains(got[0], "B-V") {
		t.Errorf("-out: got %v, want the requested columns", got)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0]["Star"]; got != "HD 34085" {
		t.Errorf("Star: got %q, want HD 34085", got)
	}
	if got := rows[0].Float("B-V"); !almostEqual(got, -0.03, 1e-12) {
		t.Errorf("B-V: got %v, want -0.03", got)
	}
	if got := rows[0].Float("U-B"); !almostEqual(got, -0.66, 1e-12) {
		t.Errorf("U-B: got %v, want -0.66", got)
	}
	if _, ok := rows[1]["B-V"]; ok {
		t.Errorf("blank B-V cell must stay absent, got %q", rows[1]["B-V"])
	}
	if got := rows[1].Float("B-V"); !math.IsNaN(got) {
		t.Errorf("blank B-V cell: got %v, want NaN", got)
	}
	if got := rows[1].Float("Vmag"); !almostEqual(got, 10.40, 1e-12) {
		t.Errorf("Vmag: got %v, want 10.40", got)
	}
}

func TestVizieRQueryObjectNoMatch(t *testing.T) {
	// replies without a table mean the object is unknown to the catalog
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#\n#   VizieR Astronomical Server\n#INFO status=no match\n#END#...\n"))
	}))
	defer srv.Close()

	v := NewVizieR(srv.URL, nil, 200, time.Second)
	rows, err := v.QueryObject(context.Background(), "UnknownStarX", "II/215")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestVizieRQueryObjectServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewVizieR(srv.URL, nil, 200, time.Second)
	if _, err := v.QueryObject(context.Background(), "Rigel", "II/215"); err == nil {
		t.Errorf("expected an error for status 500")
	}
}

func TestRowFloat(t *testing.T) {
	r := Row{"B-V": "-0.03", "Vmag": " 0.13 ", "U-B": "n/a"}
	if got := r.Float("B-V"); !almostEqual(got, -0.03, 1e-12) {
		t.Errorf("B-V: got %v, want -0.03", got)
	}
	if got := r.Float("Vmag"); !almostEqual(got, 0.13, 1e-12) {
		t.Errorf("Vmag: got %v, want 0.13", got)
	}
	if got := r.Float("U-B"); !math.IsNaN(got) {
		t.Errorf("unparseable U-B: got %v, want NaN", got)
	}
	if got := r.Float("BTmag"); !math.IsNaN(got) {
		t.Errorf("absent BTmag: got %v, want NaN", got)
	}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
