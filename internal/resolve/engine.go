package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/superior-tools/crm-resolver/internal/model"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// defaultConcurrency bounds the parallel fan-outs when no limit is configured.
const defaultConcurrency = 5

// Engine wires segmentation, progressive resolution, aggregation,
// enrichment, and row assembly against one CRM client. Engines are
// cheap values; derive a per-request one with WithSession.
type Engine struct {
	client      fence.Client
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds parallel name resolution and lead enrichment.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates an Engine on top of the given CRM client.
func NewEngine(client fence.Client, opts ...Option) *Engine {
	e := &Engine{
		client:      client,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithSession returns an Engine whose CRM calls authenticate with the
// given forwarded session cookie.
func (e *Engine) WithSession(cookie string) *Engine {
	derived := *e
	derived.client = e.client.WithSession(cookie)
	return &derived
}

// Run executes the full pipeline for a raw input blob: segment, resolve
// every name, aggregate identities, enrich with contracts, and assemble
// the output rows. Remote failures degrade to missing data; the only
// returned error is context cancellation.
func (e *Engine) Run(ctx context.Context, input string) ([]model.ResultRow, error) {
	names := SegmentNames(input)

	resolutions, err := e.ResolveAll(ctx, names)
	if err != nil {
		return nil, err
	}

	// Merge is deliberately serial: the accumulator is single-writer.
	agg := NewAggregator()
	for _, res := range resolutions {
		agg.Add(res)
	}
	groups := agg.Groups()

	contracts := EnrichGroups(ctx, e.client, groups, e.concurrency)

	return AssembleRows(groups, contracts), nil
}

// ResolveAll resolves the given names concurrently, preserving input
// order in the result. Each name's truncation chain runs strictly
// sequentially; only distinct names run in parallel.
func (e *Engine) ResolveAll(ctx context.Context, names []string, trackStates ...int) ([]Resolution, error) {
	resolutions := make([]Resolution, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			resolutions[i] = ResolveName(gctx, e.client, name, trackStates...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return resolutions, nil
}

// SearchQueries segments a raw names parameter with the name-search
// variant rules and resolves each query, filtered to the given track
// states.
func (e *Engine) SearchQueries(ctx context.Context, raw string, trackStates ...int) ([]Resolution, error) {
	return e.ResolveAll(ctx, SegmentQueries(raw), trackStates...)
}
