package resolve

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/superior-tools/crm-resolver/internal/model"
)

// MatchRecord resolves a structured record against the CRM: every
// derived candidate term is searched once, in parallel, with no
// truncation retries. Status is "found" when exactly one candidate had
// hits, "maybe" when several did, "not found" otherwise; the causing
// categories are appended ("found by email"). For "found", the cause
// prefers a candidate that returned exactly one lead over the first
// nonzero one.
func (e *Engine) MatchRecord(ctx context.Context, rec model.Record) model.MatchResult {
	candidates := BuildCandidates(SanitizeRecord(rec))
	if len(candidates) == 0 {
		return model.MatchResult{
			Status:  "not found",
			Matches: []model.CandidateHit{},
			Note:    "No usable search terms could be derived from the input.",
		}
	}

	counts := make([]int, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			leads, err := e.client.SearchLeads(gctx, candidate.Term)
			if err != nil {
				zap.L().Warn("match: candidate search failed, treating as no hits",
					zap.String("category", string(candidate.Category)),
					zap.String("term", candidate.Term),
					zap.Error(err),
				)
				return nil
			}
			counts[i] = len(leads)
			return nil
		})
	}
	g.Wait()

	matches := make([]model.CandidateHit, 0, len(candidates))
	for i, candidate := range candidates {
		if counts[i] > 0 {
			matches = append(matches, model.CandidateHit{Candidate: candidate, Count: counts[i]})
		}
	}

	return model.MatchResult{
		Status:  matchStatus(matches),
		Matches: matches,
	}
}

func matchStatus(matches []model.CandidateHit) string {
	switch {
	case len(matches) == 0:
		return "not found"
	case len(matches) == 1:
		return "found by " + string(causeCandidate(matches).Category)
	default:
		return "maybe by " + strings.Join(causeCategories(matches), ", ")
	}
}

// causeCandidate picks the match to credit for a "found" status: a
// uniquely-matching candidate (count 1) beats the first nonzero one.
func causeCandidate(matches []model.CandidateHit) model.CandidateHit {
	for _, m := range matches {
		if m.Count == 1 {
			return m
		}
	}
	return matches[0]
}

func causeCategories(matches []model.CandidateHit) []string {
	var cats []string
	seen := make(map[model.Category]struct{})
	for _, m := range matches {
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		cats = append(cats, string(m.Category))
	}
	return cats
}
