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


package rest

import (
	"fmt"
	"math"
	"net/http"
	"github.com/gin-gonic/gin"

	"github.com/mlnoga/starglow/internal/resolve"
	"github.com/mlnoga/starglow/internal/star"
	"github.com/mlnoga/starglow/internal/stats"
	"github.com/mlnoga/starglow/internal/table"
)


// Serve the resolver as a REST API on the given port
func Serve(rc *resolve.Context, port string) error {
	return NewRouter(rc).Run(":" + port)
}

// Build the gin router with all API routes
func NewRouter(rc *resolve.Context) *gin.Engine {
	s := &server{rc: rc}
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET ("/ping",     getPing)
			v1.GET ("/catalogs", s.getCatalogs)
			v1.POST("/resolve",  s.postResolve)
		}
	}
	return r
}

type server struct {
	rc *resolve.Context
}

func getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

func (s *server) getCatalogs(c *gin.Context) {
	probes := make([]gin.H, 0, len(s.rc.Chain.Probes))
	for _, p := range s.rc.Chain.Probes {
		probes = append(probes, gin.H{
			"name":      p.Name,
			"source":    p.Source.String(),
			"catalogId": p.CatalogID,
		})
	}
	c.JSON(200, gin.H{"catalogs": probes})
}

type starArgs struct {
	Name     string `json:"name"`
	Resolved string `json:"resolved"`
	Alt      string `json:"alt"`
}

type postResolveArgs struct {
	Stars  []starArgs `json:"stars"`
	Direct *bool      `json:"direct"`
}

type resultRow struct {
	Name     string   `json:"name"`
	Resolved string   `json:"resolved,omitempty"`
	V        *float64 `json:"v,omitempty"`
	BV       *float64 `json:"bv,omitempty"`
	UB       *float64 `json:"ub,omitempty"`
	TeffK    *int     `json:"teffK,omitempty"`
	RGB      string   `json:"rgb,omitempty"`
	Hex      string   `json:"hex,omitempty"`
	Source   string   `json:"source"`
	Status   string   `json:"status"`
}

func (s *server) postResolve(c *gin.Context) {
	var args postResolveArgs
	if err:=c.ShouldBind(&args); err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error() } )
		return
	}
	if len(args.Stars)==0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no stars given"} )
		return
	}

	lists := make([]star.Candidates, 0, len(args.Stars))
	for i, sa := range args.Stars {
		var cands star.Candidates
		for _, name := range []string{sa.Name, sa.Resolved, sa.Alt} {
			if name != "" {
				cands = append(cands, name)
			}
		}
		if len(cands) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("star %d has no name", i)})
			return
		}
		lists = append(lists, cands)
	}

	// per-request settings must not leak into the server context
	rc := *s.rc
	if args.Direct != nil {
		rc.Direct = *args.Direct
	}
	results := rc.ResolveAll(c.Request.Context(), lists, 0, len(lists))

	rows := make([]resultRow, len(results))
	counts := map[string]int{}
	temps := []float64{}
	for i := range results {
		rows[i] = newResultRow(&results[i])
		counts[results[i].Status.String()]++
		if results[i].Status == star.StatusOK {
			temps = append(temps, float64(results[i].TeffK))
		}
	}
	var teff *stats.Summary
	if len(temps) > 0 {
		teff = stats.Describe(temps)
	}
	c.JSON(http.StatusOK, gin.H{
		"results": rows,
		"counts":  counts,
		"teff":    teff,
	})
}

func newResultRow(res *star.Result) resultRow {
	row := resultRow{
		Name:     res.Name,
		Resolved: res.Resolved,
		Source:   res.Source.String(),
		Status:   res.Status.String(),
	}
	if res.Sample != nil {
		row.V = optFloat(res.Sample.V)
		row.BV = optFloat(res.Sample.BV)
		row.UB = optFloat(res.Sample.UB)
	}
	if res.Status == star.StatusOK {
		teff := res.TeffK
		row.TeffK = &teff
		row.RGB = table.FormatRGB(res.RGB)
		row.Hex = res.Hex
	}
	return row
}

func optFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	u := v
	return &u
}
