package fence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("session=test-cookie", WithBaseURL(srv.URL))
	return srv, c
}

func TestSearchLeads(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		trackStates []int
		wantIDs     []int64
		wantErr     bool
		wantAPIErr  bool
		wantStatus  int
	}{
		{
			name: "happy path",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/x/v2/search", r.URL.Path)
				assert.Equal(t, "Anna Lopez", r.URL.Query().Get("q"))
				assert.Equal(t, "session=test-cookie", r.Header.Get("Cookie"))

				json.NewEncoder(w).Encode(searchResponse{Leads: []Lead{
					{ID: 101, FirstName: "Anna", LastName: "Lopez", TrackState: 13},
					{ID: 102, FirstName: "Anna", LastName: "Lopes", TrackState: 4},
				}})
			},
			wantIDs: []int64{101, 102},
		},
		{
			name: "track state filter",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(searchResponse{Leads: []Lead{
					{ID: 101, TrackState: 13},
					{ID: 102, TrackState: 4},
					{ID: 103, TrackState: 14},
				}})
			},
			trackStates: []int{13, 14},
			wantIDs:     []int64{101, 103},
		},
		{
			name: "unauthenticated session",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
			},
			wantErr:    true,
			wantAPIErr: true,
			wantStatus: 401,
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, tt.handler)
			leads, err := c.SearchLeads(context.Background(), "Anna Lopez", tt.trackStates...)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantAPIErr {
					var apiErr *APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				}
				return
			}
			require.NoError(t, err)
			ids := make([]int64, 0, len(leads))
			for _, l := range leads {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestContractsByLead(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/x/v4/contracts/by-lead/55", r.URL.Path)
		json.NewEncoder(w).Encode([]Contract{
			{ID: 1, Status: "Processing"},
			{ID: 2, Status: "Cancelled"},
			{ID: 3, Status: "Processing"},
		})
	})

	all, err := c.ContractsByLead(context.Background(), 55)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	processing, err := c.ContractsByLead(context.Background(), 55, "Processing")
	require.NoError(t, err)
	require.Len(t, processing, 2)
	assert.Equal(t, int64(1), processing[0].ID)
	assert.Equal(t, int64(3), processing[1].ID)
}

func TestContractDetail(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/x/v4/contracts/77", r.URL.Path)
		json.NewEncoder(w).Encode(ContractDetail{
			Contract: Contract{ID: 77, Subtotal: 900, DiscountAmount: 0.1},
			JobFlags: []JobFlagEntry{{JobID: 9001, Flags: []string{"scheduled", "installed"}}},
			Estimate: &EstimateResult{RepPriceAdjustment: 50, RepPriceDiscountDescription: "rep promo"},
		})
	})

	detail, err := c.ContractDetail(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), detail.Contract.ID)
	assert.Equal(t, 900.0, detail.Contract.Subtotal)
	require.Len(t, detail.JobFlags, 1)
	assert.Equal(t, int64(9001), detail.JobFlags[0].JobID)
	assert.Equal(t, "rep promo", detail.Estimate.RepPriceDiscountDescription)
}

func TestJob(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/x/v5/jobs/9001", r.URL.Path)
		json.NewEncoder(w).Encode(Job{
			ID:             9001,
			LeadID:         55,
			ContractID:     77,
			ContractAmount: 1030,
			Lead:           &JobLead{LastName: "Lopez", OutsideRep: "J. Ortiz"},
		})
	})

	job, err := c.Job(context.Background(), 9001)
	require.NoError(t, err)
	assert.Equal(t, int64(55), job.LeadID)
	assert.Equal(t, "Lopez", job.Lead.LastName)
}

func TestJobNotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	job, err := c.Job(context.Background(), 404404)
	require.Error(t, err)
	assert.Nil(t, job)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestWithSession(t *testing.T) {
	var gotCookies []string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotCookies = append(gotCookies, r.Header.Get("Cookie"))
		json.NewEncoder(w).Encode(searchResponse{})
	})

	_, err := c.SearchLeads(context.Background(), "abc")
	require.NoError(t, err)

	forwarded := c.WithSession("session=forwarded")
	_, err = forwarded.SearchLeads(context.Background(), "abc")
	require.NoError(t, err)

	// Empty session keeps the configured cookie.
	same := c.WithSession("")
	_, err = same.SearchLeads(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, []string{"session=test-cookie", "session=forwarded", "session=test-cookie"}, gotCookies)
}

func TestFullName(t *testing.T) {
	l := Lead{FirstName: "Anna", LastName: "Lopez"}
	assert.Equal(t, "Anna Lopez", l.FullName())
}
