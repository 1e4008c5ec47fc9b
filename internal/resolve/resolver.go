package resolve

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/superior-tools/crm-resolver/internal/model"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// minQueryLen is the shortest sub-query worth sending to the fuzzy
// search; anything shorter matches half the CRM.
const minQueryLen = 3

// Searcher is the subset of the CRM client used by name resolution.
type Searcher interface {
	SearchLeads(ctx context.Context, query string, trackStates ...int) ([]fence.Lead, error)
}

// Resolution is the outcome of progressively resolving one input name.
// Query is the winning sub-query (equal to Input on an exact match);
// it is empty when Status is MatchNone.
type Resolution struct {
	Input  string
	Query  string
	Status model.MatchStatus
	Leads  []fence.Lead
}

// ResolveName resolves one name with progressive truncation: try the
// full string, then drop the last word and retry, stopping at the first
// prefix that yields hits. A hit on a longer prefix is always preferred
// over a hit on a shorter one. The status is "exact match" exactly when
// the untruncated query won, regardless of how many leads it returned.
//
// Transport failures are degraded to "nothing found" for that prefix and
// the next shorter prefix is tried; they never propagate.
func ResolveName(ctx context.Context, s Searcher, name string, trackStates ...int) Resolution {
	words := strings.Fields(name)
	res := Resolution{Input: name, Status: model.MatchNone}

	for i := len(words); i > 0; i-- {
		sub := strings.Join(words[:i], " ")
		if len(sub) < minQueryLen {
			continue
		}

		leads, err := s.SearchLeads(ctx, sub, trackStates...)
		if err != nil {
			zap.L().Warn("resolve: lead search failed, treating as no hits",
				zap.String("query", sub),
				zap.Error(err),
			)
			continue
		}
		if len(leads) == 0 {
			continue
		}

		res.Query = sub
		res.Leads = leads
		if i == len(words) {
			res.Status = model.MatchExact
		} else {
			res.Status = model.MatchPartial
		}
		return res
	}

	return res
}
