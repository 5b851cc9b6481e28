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
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"github.com/mlnoga/starglow/internal/catalog"
	"github.com/mlnoga/starglow/internal/star"
)

// A scripted querier which replies with canned rows per identifier and
// records the identifiers queried.
type fakeQuerier struct {
	mu    sync.Mutex
	rows  map[string][]catalog.Row
	err   error
	calls []string
}

func (f *fakeQuerier) QueryObject(ctx context.Context, name, catalogID string) ([]catalog.Row, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[name], nil
}

func (f *fakeQuerier) numCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Log sink safe for concurrent workers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fakeChain(gcpd, apass, tycho, simbad catalog.Querier) *Chain {
	return &Chain{Probes: []*Probe{
		{Name: "GCPD", Source: star.SourceGCPD, CatalogID: CatalogGCPD, Querier: gcpd, Extract: catalog.ExtractStandard},
		{Name: "APASS", Source: star.SourceAPASS, CatalogID: CatalogAPASS, Querier: apass, Extract: catalog.ExtractStandard},
		{Name: "Tycho-2", Source: star.SourceTycho2, CatalogID: CatalogTycho2, Querier: tycho, Extract: catalog.ExtractTychoPair},
		{Name: "Simbad", Source: star.SourceSimbad, Querier: simbad, Extract: catalog.ExtractFlux},
	}}
}

func TestResolveOneFirstProbeWins(t *testing.T) {
	gcpd := &fakeQuerier{rows: map[string][]catalog.Row{
		"Rigel": {{"Star": "HD 34085", "Vmag": "0.13", "B-V": "-0.03", "U-B": "-0.66"}},
	}}
	apass, tycho, simbad := &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"Rigel"})
	if res.Status != star.StatusOK {
		t.Fatalf("status %s, expected ok", res.Status)
	}
	if res.Source != star.SourceGCPD {
		t.Errorf("source %s, expected GCPD", res.Source)
	}
	if res.Name != "Rigel" || res.Resolved != "Rigel" {
		t.Errorf("name %q resolved %q, expected Rigel for both", res.Name, res.Resolved)
	}
	if res.Sample == nil {
		t.Fatal("sample missing")
	}
	if !almostEqual(res.Sample.BV, -0.03, 1e-12) || !almostEqual(res.Sample.UB, -0.66, 1e-12) || !almostEqual(res.Sample.V, 0.13, 1e-12) {
		t.Errorf("sample B-V %g U-B %g V %g", res.Sample.BV, res.Sample.UB, res.Sample.V)
	}
	if res.TeffK != 10516 {
		t.Errorf("T_eff %d, expected 10516", res.TeffK)
	}
	if res.Hex != "#C6D8FF" {
		t.Errorf("hex %s, expected #C6D8FF", res.Hex)
	}
	if n := apass.numCalls() + tycho.numCalls() + simbad.numCalls(); n != 0 {
		t.Errorf("%d queries to later probes after a hit", n)
	}
}

func TestResolveOneFallsThroughChain(t *testing.T) {
	gcpd, apass := &fakeQuerier{}, &fakeQuerier{}
	tycho := &fakeQuerier{rows: map[string][]catalog.Row{
		"HD 1": {{"BTmag": "8.5"}}, // incomplete pair, must be skipped
	}}
	simbad := &fakeQuerier{rows: map[string][]catalog.Row{
		"HD 1": {{"FLUX_U": "5.61", "FLUX_B": "5.5", "FLUX_V": "5.0"}},
	}}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"HD 1"})
	if res.Status != star.StatusOK {
		t.Fatalf("status %s, expected ok", res.Status)
	}
	if res.Source != star.SourceSimbad {
		t.Errorf("source %s, expected Simbad", res.Source)
	}
	if !almostEqual(res.Sample.BV, 0.5, 1e-12) || !almostEqual(res.Sample.UB, -0.11, 1e-9) {
		t.Errorf("sample B-V %g U-B %g", res.Sample.BV, res.Sample.UB)
	}
	if res.TeffK != 6389 || res.Hex != "#FFFCF7" {
		t.Errorf("T_eff %d hex %s, expected 6389 #FFFCF7", res.TeffK, res.Hex)
	}
	for i, f := range []*fakeQuerier{gcpd, apass, tycho} {
		if f.numCalls() != 1 {
			t.Errorf("probe %d queried %d times, expected 1", i, f.numCalls())
		}
	}
}

func TestResolveOneTychoPair(t *testing.T) {
	gcpd, apass, simbad := &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}
	tycho := &fakeQuerier{rows: map[string][]catalog.Row{
		"TYC 5-1": {{"BTmag": "8.5"}, {"BTmag": "9.0", "VTmag": "8.5"}},
	}}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"TYC 5-1"})
	if res.Status != star.StatusOK || res.Source != star.SourceTycho2 {
		t.Fatalf("status %s source %s, expected ok from Tycho-2", res.Status, res.Source)
	}
	if !almostEqual(res.Sample.BV, 0.5, 1e-12) || !almostEqual(res.Sample.V, 8.5, 1e-12) {
		t.Errorf("sample B-V %g V %g, expected 0.5 and 8.5 from the second row", res.Sample.BV, res.Sample.V)
	}
	if res.Sample.HasUB() {
		t.Errorf("U-B %g present, expected none from Tycho pairs", res.Sample.UB)
	}
	if simbad.numCalls() != 0 {
		t.Error("Simbad queried after a Tycho-2 hit")
	}
}

func TestResolveOneCandidateFallback(t *testing.T) {
	gcpd := &fakeQuerier{rows: map[string][]catalog.Row{
		"HD 32736": {{"Star": "HD 32736", "Vmag": "8.93", "B-V": "-0.16"}},
	}}
	apass, tycho, simbad := &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"V* W Ori", "HD 32736"})
	if res.Status != star.StatusOK || res.Source != star.SourceGCPD {
		t.Fatalf("status %s source %s, expected ok from GCPD", res.Status, res.Source)
	}
	if res.Name != "V* W Ori" {
		t.Errorf("name %q, expected the primary candidate", res.Name)
	}
	if res.Resolved != "HD 32736" {
		t.Errorf("resolved %q, expected HD 32736", res.Resolved)
	}
	if len(gcpd.calls) != 2 || gcpd.calls[0] != "V* W Ori" || gcpd.calls[1] != "HD 32736" {
		t.Errorf("GCPD calls %v, expected both candidates in order", gcpd.calls)
	}
	if apass.numCalls() != 0 {
		t.Error("APASS queried although GCPD resolved a candidate")
	}
}

func TestResolveOneExhaustsCandidatesPerProbe(t *testing.T) {
	gcpd, tycho, simbad := &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}
	apass := &fakeQuerier{rows: map[string][]catalog.Row{
		"V* W Ori": {{"B-V": "1.5", "Vmag": "10.2"}},
	}}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"V* W Ori", "HD 32736"})
	if res.Source != star.SourceAPASS {
		t.Fatalf("source %s, expected APASS", res.Source)
	}
	if gcpd.numCalls() != 2 {
		t.Errorf("GCPD queried %d times, expected both candidates before moving on", gcpd.numCalls())
	}
	if apass.numCalls() != 1 {
		t.Errorf("APASS queried %d times, expected to stop at the first candidate", apass.numCalls())
	}
	if res.TeffK != 3794 {
		t.Errorf("T_eff %d, expected 3794", res.TeffK)
	}
}

func TestResolveOneQueryFaultReadsAsMiss(t *testing.T) {
	gcpd := &fakeQuerier{err: errors.New("connection refused")}
	apass := &fakeQuerier{rows: map[string][]catalog.Row{
		"Mimosa": {{"B-V": "-0.23", "Vmag": "1.25"}},
	}}
	tycho, simbad := &fakeQuerier{}, &fakeQuerier{}
	log := &bytes.Buffer{}
	rc := NewContext(log, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"Mimosa"})
	if res.Status != star.StatusOK || res.Source != star.SourceAPASS {
		t.Fatalf("status %s source %s, expected ok from APASS", res.Status, res.Source)
	}
	if !strings.Contains(log.String(), "GCPD query failed") {
		t.Errorf("log %q lacks the query failure warning", log.String())
	}
}

func TestResolveOneNotFound(t *testing.T) {
	gcpd, apass, tycho, simbad := &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, apass, tycho, simbad))

	res := rc.ResolveOne(context.Background(), star.Candidates{"UnknownStarX"})
	if res.Status != star.StatusNotFound {
		t.Fatalf("status %s, expected not found", res.Status)
	}
	if res.Source != star.SourceNone || res.Sample != nil || res.Resolved != "" {
		t.Errorf("source %s sample %v resolved %q, expected an empty result", res.Source, res.Sample, res.Resolved)
	}
	if res.TeffK != 0 || res.Hex != "" {
		t.Errorf("T_eff %d hex %q set on a miss", res.TeffK, res.Hex)
	}
	for i, f := range []*fakeQuerier{gcpd, apass, tycho, simbad} {
		if f.numCalls() != 1 {
			t.Errorf("probe %d queried %d times, expected 1", i, f.numCalls())
		}
	}
}

func TestResolveOneDirectColor(t *testing.T) {
	gcpd := &fakeQuerier{rows: map[string][]catalog.Row{
		"Rigel": {{"Star": "HD 34085", "Vmag": "0.13", "B-V": "-0.03", "U-B": "-0.66"}},
	}}
	rc := NewContext(&bytes.Buffer{}, fakeChain(gcpd, &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}))
	rc.Direct = true

	res := rc.ResolveOne(context.Background(), star.Candidates{"Rigel"})
	if res.Status != star.StatusOK {
		t.Fatalf("status %s, expected ok", res.Status)
	}
	if res.TeffK != 10516 {
		t.Errorf("T_eff %d, expected 10516 regardless of color mode", res.TeffK)
	}
	if res.Hex != "#CEDAFF" {
		t.Errorf("hex %s, expected #CEDAFF from the lookup table", res.Hex)
	}
}

func TestResolveOneProcessingError(t *testing.T) {
	gcpd := &fakeQuerier{rows: map[string][]catalog.Row{
		"Weird": {{"B-V": "-1.0", "Vmag": "5.0"}},
	}}
	log := &bytes.Buffer{}
	rc := NewContext(log, fakeChain(gcpd, &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}))

	res := rc.ResolveOne(context.Background(), star.Candidates{"Weird"})
	if res.Status != star.StatusError {
		t.Fatalf("status %s, expected processing error for B-V -1.0", res.Status)
	}
	if res.Source != star.SourceGCPD || res.Resolved != "Weird" {
		t.Errorf("source %s resolved %q, expected the committing probe to stick", res.Source, res.Resolved)
	}
	if res.TeffK != 0 || res.Hex != "" {
		t.Errorf("T_eff %d hex %q set despite the error", res.TeffK, res.Hex)
	}
}

func TestResolveAllPreservesOrder(t *testing.T) {
	bvs := map[string]string{
		"S1": "0.0", "S2": "0.13", "S3": "0.65", "S4": "1.5", "S5": "-0.16", "S6": "0.5",
	}
	rows := map[string][]catalog.Row{}
	for name, bv := range bvs {
		rows[name] = []catalog.Row{{"B-V": bv, "Vmag": "5.0"}}
	}
	gcpd := &fakeQuerier{rows: rows}
	log := &syncBuffer{}
	rc := NewContext(log, fakeChain(gcpd, &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}))
	rc.Workers = 4

	lists := []star.Candidates{{"S1"}, {"S2"}, {"S3"}, {"S4"}, {"S5"}, {"S6"}}
	results := rc.ResolveAll(context.Background(), lists, 0, len(lists))
	if len(results) != len(lists) {
		t.Fatalf("%d results for %d stars", len(results), len(lists))
	}
	expTeff := []int{10125, 8748, 5778, 3794, 12692, 6389}
	for i, res := range results {
		if res.Name != lists[i][0] {
			t.Errorf("result %d is %q, expected %q", i, res.Name, lists[i][0])
		}
		if res.Status != star.StatusOK {
			t.Errorf("%s: status %s, expected ok", res.Name, res.Status)
		}
		if res.TeffK != expTeff[i] {
			t.Errorf("%s: T_eff %d, expected %d", res.Name, res.TeffK, expTeff[i])
		}
	}
	if !strings.Contains(log.String(), "[3/6] S3") {
		t.Errorf("log %q lacks numbered progress lines", log.String())
	}
}

func TestResolveAllMixedOutcomes(t *testing.T) {
	gcpd := &fakeQuerier{rows: map[string][]catalog.Row{
		"Rigel": {{"B-V": "-0.03", "Vmag": "0.13"}},
		"Weird": {{"B-V": "-1.0", "Vmag": "5.0"}},
	}}
	log := &bytes.Buffer{}
	rc := NewContext(log, fakeChain(gcpd, &fakeQuerier{}, &fakeQuerier{}, &fakeQuerier{}))

	lists := []star.Candidates{{"Rigel"}, {"UnknownStarX"}, {"Weird"}}
	results := rc.ResolveAll(context.Background(), lists, 10, 13)
	wantStatus := []star.Status{star.StatusOK, star.StatusNotFound, star.StatusError}
	for i, res := range results {
		if res.Status != wantStatus[i] {
			t.Errorf("%s: status %s, expected %s", res.Name, res.Status, wantStatus[i])
		}
	}
	for _, want := range []string{"[11/13] Rigel", "[12/13] UnknownStarX", "not found in any catalog", "processing error"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log %q lacks %q", log.String(), want)
		}
	}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
