// Package validate cross-checks customer identifiers against the CRM,
// walking the lead -> contract -> job dependency chain and summarizing
// the result.
package validate

import (
	"context"
	"errors"

	"github.com/superior-tools/crm-resolver/internal/model"
	"github.com/superior-tools/crm-resolver/internal/resolve"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// Validation failures the route layer maps to status codes. Not-found
// errors become 404s; the rest are 400-class input problems.
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrNotExactMatch    = errors.New("customer name is not an exact match")
	ErrNoLead           = errors.New("lead not found for name")
	ErrContractCount    = errors.New("no contract or multiple contracts found for this lead")
	ErrNoJob            = errors.New("job ID not found in contract")
)

// Summary is the flattened validation outcome for one customer.
type Summary struct {
	LeadID         int64   `json:"leadId"`
	LeadSurname    string  `json:"leadSurname"`
	ContractID     int64   `json:"contractId"`
	ContractAmount float64 `json:"contractAmount"`
	JobID          int64   `json:"jobId"`
	JobFlags       string  `json:"jobFlags"`
	OutsideRep     string  `json:"outsideRep"`
	DiscountAmount float64 `json:"discountAmount"`
	DiscountDesc   string  `json:"discountDesc"`
}

// Validator runs validation chains against one CRM client.
type Validator struct {
	client           fence.Client
	trackStates      []int
	contractStatuses []string
	concurrency      int
}

// Option configures a Validator.
type Option func(*Validator)

// WithTrackStates restricts lead searches to the given track states.
func WithTrackStates(states []int) Option {
	return func(v *Validator) { v.trackStates = states }
}

// WithContractStatuses restricts contract lookups to the given statuses.
func WithContractStatuses(statuses []string) Option {
	return func(v *Validator) { v.contractStatuses = statuses }
}

// WithConcurrency bounds the batch fan-out.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// New creates a Validator on top of the given CRM client.
func New(client fence.Client, opts ...Option) *Validator {
	v := &Validator{
		client:      client,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithSession returns a Validator whose CRM calls authenticate with the
// given forwarded session cookie.
func (v *Validator) WithSession(cookie string) *Validator {
	derived := *v
	derived.client = v.client.WithSession(cookie)
	return &derived
}

// ByJobID validates via the job record: fetch the job, fetch its
// contract, and summarize lead, amount, rep discount, and the most
// recent job flag.
func (v *Validator) ByJobID(ctx context.Context, jobID int64) (*Summary, error) {
	job, err := v.client.Job(ctx, jobID)
	if err != nil || job == nil {
		return nil, ErrJobNotFound
	}

	detail, err := v.client.ContractDetail(ctx, job.ContractID)
	if err != nil {
		return nil, ErrContractNotFound
	}

	return buildSummary(job, detail), nil
}

// ByLeadName validates via the customer name: the name must resolve as
// an exact match, the lead must have exactly one contract (after the
// status filter), and that contract must reference a job.
func (v *Validator) ByLeadName(ctx context.Context, name string) (*Summary, error) {
	res := resolve.ResolveName(ctx, v.client, name, v.trackStates...)
	if res.Status != model.MatchExact {
		return nil, ErrNotExactMatch
	}
	if len(res.Leads) == 0 {
		return nil, ErrNoLead
	}
	lead := res.Leads[0]

	contracts, err := v.client.ContractsByLead(ctx, lead.ID, v.contractStatuses...)
	if err != nil || len(contracts) != 1 {
		return nil, ErrContractCount
	}

	detail, err := v.client.ContractDetail(ctx, contracts[0].ID)
	if err != nil {
		return nil, ErrContractNotFound
	}
	if len(detail.JobFlags) == 0 {
		return nil, ErrNoJob
	}

	job, err := v.client.Job(ctx, detail.JobFlags[0].JobID)
	if err != nil || job == nil {
		return nil, ErrJobNotFound
	}

	return buildSummary(job, detail), nil
}

// buildSummary flattens a job and its contract detail. The reported
// flag is the last entry of the first job's flag history.
func buildSummary(job *fence.Job, detail *fence.ContractDetail) *Summary {
	s := &Summary{
		LeadID:         job.LeadID,
		ContractID:     job.ContractID,
		ContractAmount: job.ContractAmount,
		JobID:          job.ID,
		JobFlags:       lastFlag(detail.JobFlags),
	}
	if job.Lead != nil {
		s.LeadSurname = job.Lead.LastName
		s.OutsideRep = job.Lead.OutsideRep
	}
	if detail.Estimate != nil {
		s.DiscountAmount = detail.Estimate.RepPriceAdjustment
		s.DiscountDesc = detail.Estimate.RepPriceDiscountDescription
	}
	return s
}

func lastFlag(entries []fence.JobFlagEntry) string {
	if len(entries) == 0 || len(entries[0].Flags) == 0 {
		return "No flags found"
	}
	flags := entries[0].Flags
	return flags[len(flags)-1]
}
