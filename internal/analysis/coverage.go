package analysis

import (
	"sort"
	"strings"

	"github.com/talentsift/talentsift/internal/types"
)

// skillSynonyms maps shorthand skill mentions to their canonical form so
// that "js" in a requirement matches "javascript" in a profile and vice
// versa. Matching stays exact-term after normalization; fuzzy closeness
// is the similarity engine's job.
var skillSynonyms = map[string]string{
	"js":                          "javascript",
	"ts":                          "typescript",
	"nodejs":                      "node",
	"node.js":                     "node",
	"tf":                          "tensorflow",
	"k8s":                         "kubernetes",
	"golang":                      "go",
	"postgres":                    "postgresql",
	"ml":                          "machine learning",
	"dl":                          "deep learning",
	"nlp":                         "natural language processing",
	"natural language processing": "natural language processing",
	"scikit learn":                "scikit-learn",
}

// NormalizeSkill lower-cases, trims and canonicalizes a skill term.
func NormalizeSkill(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	if canon, ok := skillSynonyms[t]; ok {
		return canon
	}
	return t
}

// NormalizeSkillSet dedupes and canonicalizes a skill list, preserving
// first-seen order.
func NormalizeSkillSet(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		n := NormalizeSkill(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ComputeCoverage scores a candidate's skill coverage of the job's
// must-have and nice-to-have requirement lists. A term counts as matched
// when it appears in the candidate's normalized skill set or as a
// substring of the resume text. An empty must-have list scores 1: there
// is no hard constraint to fail.
func ComputeCoverage(job types.JobRequirement, profile types.CandidateProfile) types.Coverage {
	skills := make(map[string]struct{})
	for _, s := range NormalizeSkillSet(profile.Skills) {
		skills[s] = struct{}{}
	}
	textLower := strings.ToLower(profile.RawText)

	matchTerm := func(term string) bool {
		if _, ok := skills[term]; ok {
			return true
		}
		return term != "" && strings.Contains(textLower, term)
	}

	cov := types.Coverage{
		MatchedMustHave: []string{},
		MissingMustHave: []string{},
		MatchedNice:     []string{},
	}

	mustHave := NormalizeSkillSet(job.MustHave)
	for _, term := range mustHave {
		if matchTerm(term) {
			cov.MatchedMustHave = append(cov.MatchedMustHave, term)
		} else {
			cov.MissingMustHave = append(cov.MissingMustHave, term)
		}
	}
	if len(mustHave) == 0 {
		cov.MustHaveScore = 1
	} else {
		cov.MustHaveScore = float64(len(cov.MatchedMustHave)) / float64(len(mustHave))
	}

	niceToHave := NormalizeSkillSet(job.NiceToHave)
	for _, term := range niceToHave {
		if matchTerm(term) {
			cov.MatchedNice = append(cov.MatchedNice, term)
		}
	}
	if len(niceToHave) == 0 {
		cov.NiceToHaveScore = 0
	} else {
		cov.NiceToHaveScore = float64(len(cov.MatchedNice)) / float64(len(niceToHave))
	}

	sort.Strings(cov.MissingMustHave)
	return cov
}

// MissingSkillFlags surfaces each missing must-have term as its own flag
// so the gap stays visible in explanations, not just as a number.
func MissingSkillFlags(cov types.Coverage) []types.Flag {
	flags := make([]types.Flag, 0, len(cov.MissingMustHave))
	for _, term := range cov.MissingMustHave {
		flags = append(flags, types.Flag{
			Kind:   types.FlagMissingRequiredSkill,
			Term:   term,
			Detail: "required skill not found in profile",
		})
	}
	return flags
}
