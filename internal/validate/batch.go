package validate

import (
	"context"
	"regexp"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// jobIDRe recognizes entries carrying an explicit job reference, e.g.
// "Steve Walsh - Job #123456".
var jobIDRe = regexp.MustCompile(`(?i)Job\s*#(\d+)`)

// BatchEntry is one row of a batch validation request.
type BatchEntry struct {
	Row          int    `json:"row"`
	CustomerName string `json:"customerName"`
}

// BatchResult is the outcome for one batch row. Result is either a
// *Summary or an ErrorResult; a row's failure never fails the batch.
type BatchResult struct {
	Customer string `json:"customer"`
	Result   any    `json:"result"`
}

// ErrorResult is the degraded per-row outcome when validation fails.
type ErrorResult struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Batch validates all entries concurrently, keyed by row. Entries
// containing "Job #<id>" are validated by job ID, everything else by
// customer name.
func (v *Validator) Batch(ctx context.Context, entries []BatchEntry) map[string]BatchResult {
	results := make([]BatchResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			results[i] = v.validateEntry(gctx, entry)
			return nil // row failures are reported in-band
		})
	}
	g.Wait()

	out := make(map[string]BatchResult, len(entries))
	for i, entry := range entries {
		out[strconv.Itoa(entry.Row)] = results[i]
	}
	return out
}

func (v *Validator) validateEntry(ctx context.Context, entry BatchEntry) BatchResult {
	result := BatchResult{Customer: entry.CustomerName}

	var summary *Summary
	var err error
	if m := jobIDRe.FindStringSubmatch(entry.CustomerName); m != nil {
		jobID, parseErr := strconv.ParseInt(m[1], 10, 64)
		if parseErr != nil {
			result.Result = ErrorResult{Error: "invalid job id", Detail: m[1]}
			return result
		}
		summary, err = v.ByJobID(ctx, jobID)
	} else {
		summary, err = v.ByLeadName(ctx, entry.CustomerName)
	}

	if err != nil {
		result.Result = ErrorResult{Error: "validation failed", Detail: err.Error()}
		return result
	}
	result.Result = summary
	return result
}
