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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"
	sg "github.com/mlnoga/starglow/internal"
	"github.com/mlnoga/starglow/internal/catalog"
	"github.com/mlnoga/starglow/internal/resolve"
	"github.com/mlnoga/starglow/internal/rest"
	"github.com/mlnoga/starglow/internal/star"
	"github.com/mlnoga/starglow/internal/stats"
	"github.com/mlnoga/starglow/internal/table"
	"github.com/joho/godotenv"
	"github.com/pbnjay/memory"
)

const version = "0.1.1"

// .env provides environment defaults; must load before the flag
// declarations below read them
var _ = godotenv.Load()

var totalMiBs = memory.TotalMemory() / 1024 / 1024

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out      = flag.String("out", "results.csv", "save resolution results to `file`")
var log      = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")
var vizier   = flag.String("vizier", envOr("STARGLOW_VIZIER_URL", catalog.DefaultVizieRURL), "VizieR mirror base `url` for GCPD, APASS and Tycho-2 queries")
var simbad   = flag.String("simbad", envOr("STARGLOW_SIMBAD_URL", catalog.DefaultSimbadURL), "Simbad base `url` for TAP flux queries")
var rowLimit = flag.Int("rowLimit", 200, "maximum rows per catalog query")
var timeout  = flag.Int64("timeout", 30, "catalog query timeout in seconds")
var direct   = flag.Bool("direct", false, "derive display colors from the B-V lookup table instead of the blackbody formula")
var parallel = flag.Int("parallel", 1, "number of stars to resolve concurrently")
var memMiB   = flag.Int64("memMiB", int64((totalMiBs*7)/10), "total MiB of memory to use for batching star lists, default=0.7x physical memory")
var port     = flag.String("port", envOr("STARGLOW_PORT", "8080"), "TCP `port` for the REST API server")
var chroot   = flag.String("chroot", "", "serve: change filesystem root to `dir` first (requires root)")
var setuid   = flag.Int("setuid", -1, "serve: drop privileges to user `id` first, -1 disables")

func main() {
	logWriter := os.Stdout
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `Starglow Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (resolve|lookup|serve|legal|version|help) (stars.csv | NAME...)

Commands:
  resolve Resolve all stars in the given list CSV and write a results CSV
  lookup  Resolve identifiers given on the command line and print them
  serve   Start the REST API server
  legal   Show license and attribution information
  version Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log == "%auto" {
		if *out != "" {
			*log = strings.TrimSuffix(*out, filepath.Ext(*out)) + ".log"
		} else {
			*log = ""
		}
	}
	if *log != "" {
		err := sg.LogAlsoToFile(*log)
		if err != nil {
			sg.LogFatalf("Unable to open logfile '%s'\n", *log)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			sg.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			sg.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	// run actions
	var err error
	switch args[0] {
	case "resolve":
		err = cmdResolve(newResolveContext(), args[1:])

	case "lookup":
		err = cmdLookup(newResolveContext(), args[1:])

	case "serve":
		rest.MakeSandbox(*chroot, *setuid)
		err = rest.Serve(newResolveContext(), *port)

	case "legal":
		cmdLegal()

	case "version":
		sg.LogPrintf("Version %s\n", version)

	case "help", "?":
		flag.Usage()

	default:
		sg.LogPrintf("Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	now := time.Now()
	elapsed := now.Sub(start)
	sg.LogPrintf("\nDone after %v\n", elapsed)

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			sg.LogFatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			sg.LogFatal("Could not write allocation profile: ", err)
		}
	}

	if err != nil {
		sg.LogPrintf("Error: %s\n", err.Error())
		sg.LogSync()
		os.Exit(-1)
	}
	sg.LogSync()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Build the resolver execution context from the flag settings
func newResolveContext() *resolve.Context {
	chain := resolve.NewDefaultChain(*vizier, *simbad, *rowLimit, time.Duration(*timeout)*time.Second)
	rc := resolve.NewContext(sg.LogWriter(), chain)
	rc.Workers = *parallel
	rc.Direct = *direct
	return rc
}

// Resolve all stars in the given list CSV, streaming results to the -out file
func cmdResolve(rc *resolve.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("resolve needs exactly one star list CSV argument")
	}
	inPath := args[0]

	numStars, err := table.CountStars(inPath)
	if err != nil {
		return err
	}
	numBatches, batchSize := table.PrepareBatches(numStars, *memMiB)
	sg.LogPrintf("Resolving %d stars from %s in %d batch(es) of up to %d:\n", numStars, inPath, numBatches, batchSize)

	list, err := table.OpenStarList(inPath)
	if err != nil {
		return err
	}
	defer list.Close()

	w, err := table.CreateResults(*out)
	if err != nil {
		return err
	}
	defer w.Close()

	counts := map[star.Status]int{}
	sources := map[star.Source]int{}
	temps := []float64{}
	offset := 0
	for {
		batch, err := list.ReadBatch(int(batchSize), sg.LogWriter())
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		results := rc.ResolveAll(context.Background(), batch, offset, numStars)
		for i := range results {
			res := &results[i]
			if err := w.WriteResult(res); err != nil {
				return err
			}
			counts[res.Status]++
			sources[res.Source]++
			if res.Status == star.StatusOK {
				temps = append(temps, float64(res.TeffK))
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		offset += len(results)
	}

	sg.LogPrintf("\nResolved %d of %d stars: %d without B-V, %d not found, %d processing errors\n",
		counts[star.StatusOK], offset, counts[star.StatusNoBV], counts[star.StatusNotFound], counts[star.StatusError])
	sg.LogPrintf("Sources: GCPD %d APASS %d Tycho-2 %d Simbad %d\n",
		sources[star.SourceGCPD], sources[star.SourceAPASS], sources[star.SourceTycho2], sources[star.SourceSimbad])
	if len(temps) > 0 {
		sg.LogPrintf("T_eff %s\n", stats.Describe(temps).String())
	}
	sg.LogPrintf("Results written to %s\n", *out)
	return nil
}

// Resolve identifiers given on the command line and print a plain table
func cmdLookup(rc *resolve.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("lookup needs at least one star name")
	}
	lists := make([]star.Candidates, len(args))
	for i, name := range args {
		lists[i] = star.Candidates{name}
	}

	results := rc.ResolveAll(context.Background(), lists, 0, len(lists))

	sg.LogPrintf("\n%-24s %8s %8s %8s %8s %-8s %-8s %s\n", "name", "V", "B-V", "U-B", "T_eff_K", "hex", "source", "status")
	for i := range results {
		res := &results[i]
		v, bv, ub := "", "", ""
		if res.Sample != nil {
			v, bv, ub = fmtMag(res.Sample.V), fmtMag(res.Sample.BV), fmtMag(res.Sample.UB)
		}
		teff, hex := "", ""
		if res.Status == star.StatusOK {
			teff, hex = strconv.Itoa(res.TeffK), res.Hex
		}
		sg.LogPrintf("%-24s %8s %8s %8s %8s %-8s %-8s %s\n", res.Name, v, bv, ub, teff, hex, res.Source, res.Status)
	}
	return nil
}

func fmtMag(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func cmdLegal() {
	sg.LogPrint(legal)
}
