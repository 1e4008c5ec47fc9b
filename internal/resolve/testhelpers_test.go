package resolve

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// stubClient is an in-memory fence.Client for tests. It records every
// search query it receives.
type stubClient struct {
	searches  map[string][]fence.Lead
	contracts map[int64][]fence.Contract
	details   map[int64]*fence.ContractDetail
	jobs      map[int64]*fence.Job

	searchErr   error
	detailErr   error
	contractErr error

	mu      sync.Mutex
	queries []string
}

var errStubNotFound = errors.New("stub: not found")

func (s *stubClient) SearchLeads(_ context.Context, query string, trackStates ...int) ([]fence.Lead, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if s.searchErr != nil {
		return nil, s.searchErr
	}
	leads := s.searches[query]
	if len(trackStates) == 0 {
		return leads, nil
	}
	var filtered []fence.Lead
	for _, l := range leads {
		if slices.Contains(trackStates, l.TrackState) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (s *stubClient) ContractsByLead(_ context.Context, leadID int64, statuses ...string) ([]fence.Contract, error) {
	if s.contractErr != nil {
		return nil, s.contractErr
	}
	contracts := s.contracts[leadID]
	if len(statuses) == 0 {
		return contracts, nil
	}
	var filtered []fence.Contract
	for _, c := range contracts {
		if slices.Contains(statuses, c.Status) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *stubClient) ContractDetail(_ context.Context, contractID int64) (*fence.ContractDetail, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	detail, ok := s.details[contractID]
	if !ok {
		return nil, errStubNotFound
	}
	return detail, nil
}

func (s *stubClient) Job(_ context.Context, jobID int64) (*fence.Job, error) {
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, errStubNotFound
	}
	return job, nil
}

func (s *stubClient) WithSession(string) fence.Client { return s }

func (s *stubClient) seenQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}
