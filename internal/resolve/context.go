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
	"fmt"
	"io"
	"github.com/mlnoga/starglow/internal/star"
)

// An execution context for the resolver
type Context struct {
	Log     io.Writer // progress and warning lines go here
	Chain   *Chain    // catalog probes in priority order
	Workers int       // stars resolved concurrently; queries within one star stay sequential
	Direct  bool      // color from the B-V lookup table instead of the temperature formula
}

// The default of one worker keeps query load on the public catalog
// mirrors close to an interactive session.
func NewContext(log io.Writer, chain *Chain) *Context {
	return &Context{
		Log:     log,
		Chain:   chain,
		Workers: 1,
	}
}

// Resolve a single star given its candidate identifiers. Probes are tried
// in chain order, and all candidates are exhausted for one probe before
// moving to the next. The first usable sample wins; its temperature and
// display color are derived in place.
func (c *Context) ResolveOne(ctx context.Context, cands star.Candidates) star.Result {
	res := star.Result{
		Name:   cands.Primary(),
		Source: star.SourceNone,
		Status: star.StatusNotFound,
	}
	for _, p := range c.Chain.Probes {
		for _, name := range cands {
			s, ok, err := p.Lookup(ctx, name)
			if err != nil {
				fmt.Fprintf(c.Log, "%s: %s query failed: %s\n", name, p.Name, err.Error())
			}
			if !ok {
				continue
			}
			smp := s
			res.Sample, res.Source, res.Resolved = &smp, p.Source, name
			Finalize(&res, c.Direct)
			return res
		}
	}
	Finalize(&res, c.Direct)
	return res
}

// Resolve a batch of stars, preserving input order in the results.
// Up to c.Workers stars are in flight at a time. Progress lines number
// the stars offset+1 ... offset+len(lists) out of total.
func (c *Context) ResolveAll(ctx context.Context, lists []star.Candidates, offset, total int) []star.Result {
	results := make([]star.Result, len(lists))
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	limiter := make(chan bool, workers)
	for i, cands := range lists {
		limiter <- true
		go func(i int, cands star.Candidates) {
			defer func() { <-limiter }()
			fmt.Fprintf(c.Log, "[%d/%d] %s\n", offset+i+1, total, cands.Primary())
			res := c.ResolveOne(ctx, cands)
			results[i] = res
			switch res.Status {
			case star.StatusOK:
				fmt.Fprintf(c.Log, "%s resolved via %s: T_eff %d K (%s)\n", res.Name, res.Resolved, res.TeffK, res.Source)
			case star.StatusNoBV:
				fmt.Fprintf(c.Log, "%s: no usable B-V index (%s)\n", res.Name, res.Source)
			case star.StatusError:
				fmt.Fprintf(c.Log, "%s: processing error converting B-V %g (%s)\n", res.Name, res.Sample.BV, res.Source)
			default:
				fmt.Fprintf(c.Log, "%s: not found in any catalog\n", res.Name)
			}
		}(i, cands)
	}
	for i := 0; i < cap(limiter); i++ { // wait for goroutines to finish
		limiter <- true
	}
	return results
}
