package model

// Discount is the discount breakdown of an enriched contract.
type Discount struct {
	RepPriceAdjustment float64 `json:"rep_price_adjustment"`
	ACHDiscount        float64 `json:"ach_discount"`
	Rate               float64 `json:"discount_rate"`
}

// ContractSummary is the enriched projection of a remote contract.
// Total is the pre-discount price implied by the post-discount subtotal,
// plus the rep adjustment, minus the ACH discount. When the discount rate
// is at or above 1 the normalization divisor is zero or negative; such
// contracts carry Total 0 and Degenerate true instead of a non-finite or
// sign-flipped value.
type ContractSummary struct {
	ID         int64    `json:"id"`
	Subtotal   float64  `json:"subtotal"`
	Total      float64  `json:"total"`
	Degenerate bool     `json:"degenerate_discount,omitempty"`
	Discount   Discount `json:"discount"`
}

// ResultRow is one output row per (lead, contract) pair. A lead with no
// contracts produces exactly one row with a nil ContractID and zeroed
// financial fields.
type ResultRow struct {
	Query              string  `json:"query"`
	LeadID             int64   `json:"lead_id"`
	LeadName           string  `json:"lead_name"`
	ContractID         *int64  `json:"contract_id"`
	Subtotal           float64 `json:"subtotal"`
	Total              float64 `json:"total"`
	RepDiscount        float64 `json:"rep_discount"`
	ACHDiscount        float64 `json:"ach_discount"`
	DiscountRate       float64 `json:"discount_rate"`
	DegenerateDiscount bool    `json:"degenerate_discount,omitempty"`
}
