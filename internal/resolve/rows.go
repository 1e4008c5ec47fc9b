package resolve

import (
	"github.com/superior-tools/crm-resolver/internal/model"
)

// AssembleRows flattens the grouped, enriched leads into output rows:
// one row per (lead, contract) pair, or a single placeholder row with a
// nil contract ID and zeroed financials for a lead with no contracts.
// Row order follows group order, then lead order within the group, then
// contract order within the lead; nothing is re-sorted.
func AssembleRows(groups []model.LeadGroup, contracts map[int64][]model.ContractSummary) []model.ResultRow {
	var rows []model.ResultRow

	for _, group := range groups {
		for _, lead := range group.Leads {
			summaries := contracts[lead.ID]
			if len(summaries) == 0 {
				rows = append(rows, model.ResultRow{
					Query:      group.Key,
					LeadID:     lead.ID,
					LeadName:   lead.Name,
					ContractID: nil,
				})
				continue
			}

			for _, summary := range summaries {
				summary := summary
				rows = append(rows, model.ResultRow{
					Query:              group.Key,
					LeadID:             lead.ID,
					LeadName:           lead.Name,
					ContractID:         &summary.ID,
					Subtotal:           summary.Subtotal,
					Total:              summary.Total,
					RepDiscount:        summary.Discount.RepPriceAdjustment,
					ACHDiscount:        summary.Discount.ACHDiscount,
					DiscountRate:       summary.Discount.Rate,
					DegenerateDiscount: summary.Degenerate,
				})
			}
		}
	}

	return rows
}
