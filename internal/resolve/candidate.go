package resolve

import (
	"strings"

	"github.com/superior-tools/crm-resolver/internal/model"
)

var emailSourceFields = []string{"business_email", "personal_emails", "deep_verified_emails"}
var phoneSourceFields = []string{"mobile_phone", "personal_phone"}

// SanitizeRecord trims every field and blanks the literal string "null",
// which upstream exports use for absent values.
func SanitizeRecord(rec model.Record) model.Record {
	return model.Record{
		FirstName:          cleanField(rec.FirstName),
		LastName:           cleanField(rec.LastName),
		PersonalAddress:    cleanField(rec.PersonalAddress),
		PersonalCity:       cleanField(rec.PersonalCity),
		PersonalState:      cleanField(rec.PersonalState),
		PersonalZip:        cleanField(rec.PersonalZip),
		MobilePhone:        cleanField(rec.MobilePhone),
		PersonalPhone:      cleanField(rec.PersonalPhone),
		BusinessEmail:      cleanField(rec.BusinessEmail),
		PersonalEmails:     cleanField(rec.PersonalEmails),
		DeepVerifiedEmails: cleanField(rec.DeepVerifiedEmails),
	}
}

func cleanField(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

// BuildCandidates derives the typed search terms for a sanitized record:
// one name candidate when first and last name are both present, one
// address candidate when street address and city are both present, and
// one candidate per distinct email and phone value. The result is
// deduplicated by (category, term) preserving first-seen order.
func BuildCandidates(rec model.Record) []model.Candidate {
	b := candidateBuilder{
		rec:  rec,
		seen: make(map[string]struct{}),
	}

	if rec.FirstName != "" && rec.LastName != "" {
		b.push(model.CategoryName, "first_name+last_name", rec.FirstName+" "+rec.LastName)
	}

	if rec.PersonalAddress != "" && rec.PersonalCity != "" {
		b.push(model.CategoryAddress, "personal_address+personal_city", rec.PersonalAddress+" "+rec.PersonalCity)
	}

	for _, email := range uniqueStrings(lowerAll(splitList(rec.BusinessEmail, rec.PersonalEmails, rec.DeepVerifiedEmails))) {
		b.push(model.CategoryEmail, b.emailKey(email), email)
	}

	phones := make([]string, 0)
	for _, raw := range uniqueStrings(splitList(rec.MobilePhone, rec.PersonalPhone)) {
		if p := normalizePhone(raw); p != "" {
			phones = append(phones, p)
		}
	}
	for _, phone := range uniqueStrings(phones) {
		b.push(model.CategoryPhone, b.phoneKey(phone), phone)
	}

	return b.out
}

// candidateBuilder accumulates candidates and memoizes the normalized
// per-field value lists used for provenance lookups, so each source
// field is split and normalized once per record.
type candidateBuilder struct {
	rec  model.Record
	out  []model.Candidate
	seen map[string]struct{}

	emailLists map[string][]string
	phoneLists map[string][]string
}

func (b *candidateBuilder) push(category model.Category, key, term string) {
	term = normalizeTerm(category, term)
	if term == "" {
		return
	}
	dedupeKey := string(category) + ":" + term
	if _, ok := b.seen[dedupeKey]; ok {
		return
	}
	b.seen[dedupeKey] = struct{}{}
	b.out = append(b.out, model.Candidate{Category: category, Key: key, Term: term})
}

// emailKey reports which source fields contain the email, pipe-joined.
func (b *candidateBuilder) emailKey(email string) string {
	if b.emailLists == nil {
		b.emailLists = map[string][]string{
			"business_email":       lowerAll(splitList(b.rec.BusinessEmail)),
			"personal_emails":      lowerAll(splitList(b.rec.PersonalEmails)),
			"deep_verified_emails": lowerAll(splitList(b.rec.DeepVerifiedEmails)),
		}
	}
	return provenanceKey(email, emailSourceFields, b.emailLists, "email")
}

// phoneKey reports which source fields contain the normalized phone.
func (b *candidateBuilder) phoneKey(phone string) string {
	if b.phoneLists == nil {
		b.phoneLists = map[string][]string{
			"mobile_phone":   normalizeAll(splitList(b.rec.MobilePhone)),
			"personal_phone": normalizeAll(splitList(b.rec.PersonalPhone)),
		}
	}
	return provenanceKey(phone, phoneSourceFields, b.phoneLists, "phone")
}

func provenanceKey(value string, fields []string, lists map[string][]string, fallback string) string {
	var parts []string
	for _, field := range fields {
		for _, item := range lists[field] {
			if item == value {
				parts = append(parts, field)
				break
			}
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, "|")
}

// splitList splits multi-value fields on commas or semicolons, dropping
// empty and literal "null" items.
func splitList(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ';'
		}) {
			item = strings.TrimSpace(item)
			if item != "" && !strings.EqualFold(item, "null") {
				out = append(out, item)
			}
		}
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if p := normalizePhone(v); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizePhone strips everything but digits, preserving a single
// leading "+" and trimming a run of leading zeros as long as at least
// one digit remains.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	i := 0
	for i < len(digits)-1 && digits[i] == '0' {
		i++
	}
	digits = digits[i:]

	if plus {
		return "+" + digits
	}
	return digits
}

// normalizeTerm applies per-category normalization and rejects empty or
// literal-"null" terms.
func normalizeTerm(category model.Category, term string) string {
	term = strings.TrimSpace(term)
	if term == "" || strings.EqualFold(term, "null") {
		return ""
	}
	switch category {
	case model.CategoryEmail:
		return strings.ToLower(term)
	case model.CategoryPhone:
		return normalizePhone(term)
	default:
		return collapseWhitespace(term)
	}
}
