package fence

// Lead is a CRM customer record as returned by the name search endpoint.
type Lead struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	TrackState int    `json:"track_state"`
}

// FullName joins first and last name with a single space.
func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

// searchResponse is the envelope returned by GET /x/v2/search.
type searchResponse struct {
	Leads []Lead `json:"leads"`
}

// Contract is a priced agreement tied to a lead.
type Contract struct {
	ID                 int64   `json:"id"`
	Status             string  `json:"status"`
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	RepPriceAdjustment float64 `json:"rep_price_adjustment"`
	ACHDiscount        float64 `json:"ach_discount"`
}

// JobFlagEntry associates a job with its flag history.
type JobFlagEntry struct {
	JobID int64    `json:"job_id"`
	Flags []string `json:"flags"`
}

// EstimateResult carries rep discount details from the contract's
// estimate package calculation.
type EstimateResult struct {
	RepPriceAdjustment          float64 `json:"rep_price_adjustment"`
	RepPriceDiscountDescription string  `json:"rep_price_discount_description"`
}

// ContractDetail is the full contract record from GET /x/v4/contracts/{id}.
type ContractDetail struct {
	Contract Contract        `json:"contract"`
	JobFlags []JobFlagEntry  `json:"job_flags"`
	Estimate *EstimateResult `json:"estimate_package_calculation_result"`
}

// JobLead is the lead summary embedded in a job record. The CRM uses
// camelCase keys here, unlike its other endpoints.
type JobLead struct {
	LastName   string `json:"lastName"`
	OutsideRep string `json:"outsideRep"`
}

// Job is a work order tied to a contract.
type Job struct {
	ID             int64    `json:"id"`
	LeadID         int64    `json:"lead_id"`
	ContractID     int64    `json:"contract_id"`
	ContractAmount float64  `json:"contract_amount"`
	Lead           *JobLead `json:"lead"`
}
