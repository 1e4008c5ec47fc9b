package resolve

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// coarseSplitRe separates entries pasted from spreadsheets or notes:
// tabs, line breaks, or runs of two-plus spaces.
var coarseSplitRe = regexp.MustCompile(`[\t\n\r]+| {2,}`)

// subSplitRe breaks a single entry into alternative names. Order matters:
// " - " must win over the bare "-" so hyphenated surnames survive intact
// only when glued to their words.
var subSplitRe = regexp.MustCompile(`/| - | -|-`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// SegmentNames splits a raw input blob into a deduplicated list of
// discrete name strings, keeping only maximal entries: any entry fully
// contained in another distinct entry is dropped.
func SegmentNames(input string) []string {
	entries := coarseEntries(input)
	return maximalEntries(dedupe(entries))
}

// SegmentQueries is the name-search variant of segmentation: each coarse
// entry is further split on "/", " - ", and "-", a trailing "-D" suffix
// is stripped, and only entries with at least two words are kept.
func SegmentQueries(input string) []string {
	var out []string
	for _, entry := range coarseEntries(input) {
		for _, sub := range subSplitRe.Split(entry, -1) {
			name := stripDashD(strings.TrimSpace(sub))
			if len(strings.Fields(name)) >= 2 {
				out = append(out, name)
			}
		}
	}
	return maximalEntries(dedupe(out))
}

func coarseEntries(input string) []string {
	var out []string
	for _, entry := range coarseSplitRe.Split(norm.NFC.String(input), -1) {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// stripDashD removes the "-D" marker some spreadsheets append to names.
func stripDashD(name string) string {
	if strings.HasSuffix(name, "-D") {
		return strings.TrimSpace(name[:len(name)-2])
	}
	return name
}

func dedupe(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// maximalEntries drops every entry that is a substring of another
// distinct entry, keeping only the most specific strings.
func maximalEntries(entries []string) []string {
	out := entries[:0:0]
	for _, e := range entries {
		contained := false
		for _, other := range entries {
			if other != e && strings.Contains(other, e) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, e)
		}
	}
	return out
}

// collapseWhitespace trims and folds inner whitespace runs to one space.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
