package resolve

import (
	"slices"
	"sort"
	"strings"

	"github.com/superior-tools/crm-resolver/internal/model"
)

// Aggregator folds name resolutions into a request-scoped lead identity
// map and a query -> leads index. It is a plain accumulator with no
// internal locking: fold resolutions one at a time after any parallel
// resolution completes.
type Aggregator struct {
	identities map[int64]*model.LeadIdentity
	order      []int64

	queryLeads map[string][]model.LeadRef
}

// NewAggregator returns an empty accumulator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		identities: make(map[int64]*model.LeadIdentity),
		queryLeads: make(map[string][]model.LeadRef),
	}
}

// Add merges one resolution into the accumulator. The merge is
// idempotent: re-adding a lead for a query it already matched changes
// nothing.
func (a *Aggregator) Add(res Resolution) {
	if res.Query == "" {
		return
	}
	for _, lead := range res.Leads {
		fullName := lead.FullName()

		id, ok := a.identities[lead.ID]
		if !ok {
			id = &model.LeadIdentity{ID: lead.ID, Name: fullName}
			a.identities[lead.ID] = id
			a.order = append(a.order, lead.ID)
		}
		if !slices.Contains(id.MatchedBy, res.Query) {
			id.MatchedBy = append(id.MatchedBy, res.Query)
		}

		group := a.queryLeads[res.Query]
		if !slices.ContainsFunc(group, func(r model.LeadRef) bool { return r.ID == lead.ID }) {
			a.queryLeads[res.Query] = append(group, model.LeadRef{ID: lead.ID, Name: fullName})
		}
	}
}

// Groups regroups the accumulated leads by their full matched-query set.
// Each lead's queries are ordered by descending popularity (how many
// distinct leads the query found) and joined into the group key, so two
// leads found by exactly the same queries land in the same group. Group
// and lead order follow first-seen order.
func (a *Aggregator) Groups() []model.LeadGroup {
	groups := make(map[string]*model.LeadGroup)
	var keys []string

	for _, id := range a.order {
		identity := a.identities[id]

		queries := slices.Clone(identity.MatchedBy)
		sort.SliceStable(queries, func(i, j int) bool {
			return len(a.queryLeads[queries[i]]) > len(a.queryLeads[queries[j]])
		})
		key := strings.Join(queries, ", ")

		group, ok := groups[key]
		if !ok {
			group = &model.LeadGroup{Key: key}
			groups[key] = group
			keys = append(keys, key)
		}
		group.Leads = append(group.Leads, model.LeadRef{ID: identity.ID, Name: identity.Name})
	}

	out := make([]model.LeadGroup, 0, len(keys))
	for _, key := range keys {
		out = append(out, *groups[key])
	}
	return out
}
