package model

// Category classifies what kind of search term a candidate carries.
type Category string

const (
	CategoryName    Category = "name"
	CategoryAddress Category = "address"
	CategoryEmail   Category = "email"
	CategoryPhone   Category = "phone"
)

// Candidate is a typed, normalized search term derived from a structured
// record. Key records which source field(s) produced the term, joined
// with "|" when a term appears in several fields.
type Candidate struct {
	Category Category `json:"category"`
	Key      string   `json:"key"`
	Term     string   `json:"term"`
}

// CandidateHit is a candidate annotated with how many leads its term found.
type CandidateHit struct {
	Candidate
	Count int `json:"count"`
}

// MatchResult is the outcome of resolving a structured record.
// Status is "found", "maybe", or "not found", suffixed with the causing
// categories when there was at least one hit ("found by email").
type MatchResult struct {
	Status  string         `json:"status"`
	Matches []CandidateHit `json:"matches"`
	Note    string         `json:"note,omitempty"`
}

// Record is a structured customer record as received from the caller.
type Record struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	PersonalAddress    string `json:"personal_address"`
	PersonalCity       string `json:"personal_city"`
	PersonalState      string `json:"personal_state"`
	PersonalZip        string `json:"personal_zip"`
	MobilePhone        string `json:"mobile_phone"`
	PersonalPhone      string `json:"personal_phone"`
	BusinessEmail      string `json:"business_email"`
	PersonalEmails     string `json:"personal_emails"`
	DeepVerifiedEmails string `json:"deep_verified_emails"`
}
