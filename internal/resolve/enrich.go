package resolve

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/superior-tools/crm-resolver/internal/model"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// ContractFetcher is the subset of the CRM client used by enrichment.
type ContractFetcher interface {
	ContractsByLead(ctx context.Context, leadID int64, statuses ...string) ([]fence.Contract, error)
	ContractDetail(ctx context.Context, contractID int64) (*fence.ContractDetail, error)
}

// EnrichGroups fetches and normalizes the contracts of every distinct
// lead across the groups. Each lead is enriched at most once no matter
// how many groups reference it; leads are processed concurrently up to
// the given limit. A lead whose contract list cannot be fetched gets an
// empty list; a contract whose detail cannot be fetched gets a summary
// with zeroed financials. Neither failure aborts sibling leads.
func EnrichGroups(ctx context.Context, client ContractFetcher, groups []model.LeadGroup, concurrency int) map[int64][]model.ContractSummary {
	var leadIDs []int64
	seen := make(map[int64]struct{})
	for _, group := range groups {
		for _, lead := range group.Leads {
			if _, ok := seen[lead.ID]; ok {
				continue
			}
			seen[lead.ID] = struct{}{}
			leadIDs = append(leadIDs, lead.ID)
		}
	}

	results := make([][]model.ContractSummary, len(leadIDs))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, leadID := range leadIDs {
		i, leadID := i, leadID
		g.Go(func() error {
			results[i] = enrichLead(gctx, client, leadID)
			return nil // individual failures degrade, never abort siblings
		})
	}
	g.Wait()

	out := make(map[int64][]model.ContractSummary, len(leadIDs))
	for i, leadID := range leadIDs {
		out[leadID] = results[i]
	}
	return out
}

func enrichLead(ctx context.Context, client ContractFetcher, leadID int64) []model.ContractSummary {
	contracts, err := client.ContractsByLead(ctx, leadID)
	if err != nil {
		zap.L().Warn("enrich: contract list failed, treating as none",
			zap.Int64("lead_id", leadID),
			zap.Error(err),
		)
		return []model.ContractSummary{}
	}

	summaries := make([]model.ContractSummary, len(contracts))

	g, gctx := errgroup.WithContext(ctx)
	for i, contract := range contracts {
		i, contract := i, contract
		g.Go(func() error {
			detail, err := client.ContractDetail(gctx, contract.ID)
			if err != nil {
				zap.L().Warn("enrich: contract detail failed, zeroing financials",
					zap.Int64("contract_id", contract.ID),
					zap.Error(err),
				)
				detail = &fence.ContractDetail{}
			}
			summaries[i] = summarizeContract(contract.ID, detail.Contract)
			return nil
		})
	}
	g.Wait()

	return summaries
}

// summarizeContract computes the normalized total: the pre-discount
// price implied by the post-discount subtotal and discount rate, plus
// the rep adjustment, minus the ACH discount.
//
//	total = subtotal / ((1 - rate) * 100) * 100 + rep - ach
//
// A rate at or above 1 makes the divisor zero or negative; rather than
// emit a non-finite or sign-flipped total, the summary is flagged
// degenerate with Total 0.
func summarizeContract(id int64, c fence.Contract) model.ContractSummary {
	summary := model.ContractSummary{
		ID:       id,
		Subtotal: c.Subtotal,
		Discount: model.Discount{
			RepPriceAdjustment: c.RepPriceAdjustment,
			ACHDiscount:        c.ACHDiscount,
			Rate:               c.DiscountAmount,
		},
	}

	normalized := (1 - c.DiscountAmount) * 100
	if normalized <= 0 {
		summary.Degenerate = true
		zap.L().Warn("enrich: discount rate at or above 1 leaves total undefined",
			zap.Int64("contract_id", id),
			zap.Float64("subtotal", c.Subtotal),
		)
		return summary
	}

	summary.Total = c.Subtotal/normalized*100 + c.RepPriceAdjustment - c.ACHDiscount
	return summary
}
