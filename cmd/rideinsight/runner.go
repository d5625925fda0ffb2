// README: Runner executes every menu query in order and prints each report with its latency.
package main

import (
	"context"
	"fmt"
	"time"

	"rideinsight/internal/modules/analytics"
)

const (
	StatusOK     = "OK"
	StatusNoData = "NO_DATA"
	StatusFail   = "FAIL"
)

type Result struct {
	Query   analytics.QueryID
	Status  string
	Latency time.Duration
	Note    string
}

type Runner struct {
	svc *analytics.Service
}

func NewRunner(svc *analytics.Service) *Runner {
	return &Runner{svc: svc}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	queries := r.svc.Queries()
	results := make([]Result, 0, len(queries))
	for _, q := range queries {
		fmt.Printf("\n== %s. %s ==\n", q.ID, q.Title)
		res := r.run(ctx, q.ID)
		fmt.Printf("[%s] %s\n", res.Status, res.Latency.Round(time.Microsecond))
		results = append(results, res)
	}
	return results
}

func (r *Runner) run(ctx context.Context, id analytics.QueryID) Result {
	start := time.Now()
	report, err := r.svc.Run(ctx, id)
	res := Result{Query: id, Latency: time.Since(start)}
	switch {
	case err != nil:
		res.Status = StatusFail
		res.Note = err.Error()
		fmt.Println(res.Note)
	case report.NoData:
		res.Status = StatusNoData
		fmt.Println(report.Text())
	default:
		res.Status = StatusOK
		fmt.Println(report.Text())
	}
	return res
}
