package fairness

import (
	"regexp"
	"strings"
)

// RedactionToken replaces matched sensitive spans.
const RedactionToken = "[REDACTED]"

// sensitivePatterns are scrubbed from job and resume text before any
// scoring component sees it, so gendered pronouns, ages, contact details
// and similar attributes cannot influence the vector space.
var sensitivePatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"gender", regexp.MustCompile(`(?i)\b(he|she|him|her|his|hers|mr\.|mrs\.|ms\.)\b`)},
	{"age", regexp.MustCompile(`(?i)\b\d{2}\s*years?\s*old\b|\bage\s*\d{2}\b`)},
	{"marital", regexp.MustCompile(`(?i)\b(single|married|divorced|widowed)\b`)},
	{"religion", regexp.MustCompile(`(?i)\b(hindu|muslim|christian|sikh|buddhist|jain|jewish)\b`)},
	{"nationality", regexp.MustCompile(`(?i)\b(indian|american|british|chinese|japanese|german|french|italian|spanish|russian)\b`)},
	{"ethnicity", regexp.MustCompile(`(?i)\b(black|white|asian|hispanic|latino|native american|caucasian)\b`)},
	{"contact", regexp.MustCompile(`(?i)\b(\+?\d{1,3}[\s-]?)?(\d{3,4}[\s-]?){2,3}\d{3,4}\b|\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)},
}

// Redact replaces sensitive attribute mentions with RedactionToken and
// returns the names of the pattern classes that matched.
func Redact(text string) (string, []string) {
	if text == "" {
		return "", nil
	}

	var notes []string
	out := text
	for _, p := range sensitivePatterns {
		if p.re.MatchString(out) {
			out = p.re.ReplaceAllString(out, RedactionToken)
			notes = append(notes, p.name)
		}
	}
	return out, notes
}

// RedactNotes renders the matched pattern classes as a single note.
func RedactNotes(notes []string) string {
	return strings.Join(notes, ",")
}
