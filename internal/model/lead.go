package model

// MatchStatus labels the confidence of a progressive name resolution.
type MatchStatus string

const (
	// MatchExact means the full query string produced hits without truncation.
	MatchExact MatchStatus = "exact match"
	// MatchPartial means only a shorter word-prefix of the query produced hits.
	MatchPartial MatchStatus = "partial match"
	// MatchNone means no prefix length produced any hit.
	MatchNone MatchStatus = "no match"
)

// LeadRef identifies a deduplicated lead within a request.
type LeadRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LeadIdentity is a lead merged across all queries of one request.
// MatchedBy grows monotonically and never holds duplicates.
type LeadIdentity struct {
	ID        int64
	Name      string
	MatchedBy []string
}

// LeadGroup bundles the leads that were found by exactly the same set of
// queries. Key is that query set joined in popularity order and becomes
// the query field on every row derived from the group.
type LeadGroup struct {
	Key   string    `json:"query"`
	Leads []LeadRef `json:"leads"`
}
