package validate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// newFakeCRM serves a tiny CRM with one lead, one contract, and one job.
func newFakeCRM(t *testing.T) fence.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/x/v2/search", func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Query().Get("q"), "Anna Lopez") {
			json.NewEncoder(w).Encode(map[string]any{"leads": []fence.Lead{
				{ID: 1, FirstName: "Anna", LastName: "Lopez", TrackState: 13},
			}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"leads": []fence.Lead{}})
	})
	mux.HandleFunc("/x/v4/contracts/by-lead/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]fence.Contract{{ID: 10, Status: "Processing"}})
	})
	mux.HandleFunc("/x/v4/contracts/10", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fence.ContractDetail{
			Contract: fence.Contract{ID: 10, Subtotal: 900},
			JobFlags: []fence.JobFlagEntry{{JobID: 9001, Flags: []string{"scheduled", "installed"}}},
			Estimate: &fence.EstimateResult{RepPriceAdjustment: 50, RepPriceDiscountDescription: "rep promo"},
		})
	})
	mux.HandleFunc("/x/v5/jobs/9001", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fence.Job{
			ID:             9001,
			LeadID:         1,
			ContractID:     10,
			ContractAmount: 1030,
			Lead:           &fence.JobLead{LastName: "Lopez", OutsideRep: "J. Ortiz"},
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fence.NewClient("session=test", fence.WithBaseURL(srv.URL))
}

func TestByJobID(t *testing.T) {
	v := New(newFakeCRM(t))

	summary, err := v.ByJobID(context.Background(), 9001)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.LeadID)
	assert.Equal(t, "Lopez", summary.LeadSurname)
	assert.Equal(t, int64(10), summary.ContractID)
	assert.Equal(t, 1030.0, summary.ContractAmount)
	assert.Equal(t, int64(9001), summary.JobID)
	assert.Equal(t, "installed", summary.JobFlags)
	assert.Equal(t, "J. Ortiz", summary.OutsideRep)
	assert.Equal(t, 50.0, summary.DiscountAmount)
	assert.Equal(t, "rep promo", summary.DiscountDesc)
}

func TestByJobID_NotFound(t *testing.T) {
	v := New(newFakeCRM(t))

	_, err := v.ByJobID(context.Background(), 404404)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestByLeadName(t *testing.T) {
	v := New(newFakeCRM(t), WithTrackStates([]int{13, 14}), WithContractStatuses([]string{"Processing"}))

	summary, err := v.ByLeadName(context.Background(), "Anna Lopez")
	require.NoError(t, err)

	assert.Equal(t, int64(9001), summary.JobID)
	assert.Equal(t, "installed", summary.JobFlags)
}

func TestByLeadName_PartialMatchRejected(t *testing.T) {
	v := New(newFakeCRM(t))

	// "Anna Lopez Jr" only hits after truncation, which is a partial
	// match and not good enough for validation.
	_, err := v.ByLeadName(context.Background(), "Anna Lopez Jr")
	assert.ErrorIs(t, err, ErrNotExactMatch)
}

func TestByLeadName_NoMatch(t *testing.T) {
	v := New(newFakeCRM(t))

	_, err := v.ByLeadName(context.Background(), "Nobody Nowhere")
	assert.ErrorIs(t, err, ErrNotExactMatch)
}

func TestLastFlag(t *testing.T) {
	assert.Equal(t, "No flags found", lastFlag(nil))
	assert.Equal(t, "No flags found", lastFlag([]fence.JobFlagEntry{{JobID: 1}}))
	assert.Equal(t, "installed", lastFlag([]fence.JobFlagEntry{
		{JobID: 1, Flags: []string{"scheduled", "installed"}},
		{JobID: 2, Flags: []string{"ignored"}},
	}))
}

func TestBatch(t *testing.T) {
	v := New(newFakeCRM(t))

	results := v.Batch(context.Background(), []BatchEntry{
		{Row: 0, CustomerName: "Anna Lopez"},
		{Row: 1, CustomerName: "Steve Walsh - Job #9001"},
		{Row: 2, CustomerName: "Nobody Nowhere"},
	})

	require.Len(t, results, 3)

	byName, ok := results["0"].Result.(*Summary)
	require.True(t, ok)
	assert.Equal(t, int64(9001), byName.JobID)

	byJob, ok := results["1"].Result.(*Summary)
	require.True(t, ok)
	assert.Equal(t, int64(9001), byJob.JobID)
	assert.Equal(t, "Steve Walsh - Job #9001", results["1"].Customer)

	failed, ok := results["2"].Result.(ErrorResult)
	require.True(t, ok)
	assert.Equal(t, "validation failed", failed.Error)
	assert.Contains(t, failed.Detail, "exact match")
}
