package fairness

import (
	"fmt"
	"math"
	"sort"

	"github.com/talentsift/talentsift/internal/types"
)

// Verdicts per group after threshold evaluation.
const (
	VerdictPass         = "pass"
	VerdictWarn         = "warn"
	VerdictFail         = "fail"
	VerdictInsufficient = "insufficient_sample"
)

// Config holds the audit policy. The disparate-impact band follows the
// four-fifths rule by default.
type Config struct {
	TopK           int     // explicit K; 0 derives K from TopKFraction
	TopKFraction   float64 // fraction of the batch treated as selected
	ImpactLow      float64
	ImpactHigh     float64
	MinGroupSize   int
	ReferenceGroup string // empty picks the highest-rate sufficient group
}

// DefaultConfig returns the default audit policy.
func DefaultConfig() Config {
	return Config{
		TopKFraction: 0.25,
		ImpactLow:    0.8,
		ImpactHigh:   1.25,
		MinGroupSize: 5,
	}
}

// Audit computes per-group selection rates over the top-K of a ranking
// and disparate-impact ratios against a reference group. Findings are
// advisory: the ranking is never mutated, and edge cases (small groups,
// a zero-rate reference) degrade to flags rather than errors.
func Audit(ranked []types.ScoredCandidate, attribute string, groups map[string]string, cfg Config) types.FairnessReport {
	k := cfg.TopK
	if k <= 0 {
		frac := cfg.TopKFraction
		if frac <= 0 || frac > 1 {
			frac = 0.25
		}
		k = int(math.Ceil(frac * float64(len(ranked))))
		if k < 1 {
			k = 1
		}
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	report := types.FairnessReport{
		Attribute: attribute,
		TopK:      k,
		Flags:     []types.Flag{},
	}

	selected := make(map[string]bool, k)
	for _, sc := range ranked[:k] {
		selected[sc.CandidateID] = true
	}

	type tally struct{ total, hit int }
	tallies := make(map[string]*tally)
	for _, sc := range ranked {
		group, ok := groups[sc.CandidateID]
		if !ok || group == "" {
			// undeclared group values are excluded from rate statistics
			continue
		}
		t := tallies[group]
		if t == nil {
			t = &tally{}
			tallies[group] = t
		}
		t.total++
		if selected[sc.CandidateID] {
			t.hit++
		}
	}

	names := make([]string, 0, len(tallies))
	for g := range tallies {
		names = append(names, g)
	}
	sort.Strings(names)

	rate := func(t *tally) float64 {
		if t.total == 0 {
			return 0
		}
		return float64(t.hit) / float64(t.total)
	}

	// Pick the reference group: the configured one when it has a
	// sufficient sample, otherwise the highest-rate sufficient group.
	reference := ""
	if cfg.ReferenceGroup != "" {
		if t, ok := tallies[cfg.ReferenceGroup]; ok && t.total >= cfg.MinGroupSize {
			reference = cfg.ReferenceGroup
		}
	}
	if reference == "" {
		best := -1.0
		for _, g := range names {
			t := tallies[g]
			if t.total < cfg.MinGroupSize {
				continue
			}
			if r := rate(t); r > best {
				best = r
				reference = g
			}
		}
	}
	report.ReferenceGroup = reference

	var refRate float64
	if reference != "" {
		refRate = rate(tallies[reference])
	}

	for _, g := range names {
		t := tallies[g]
		stat := types.GroupStat{
			Group:         g,
			Total:         t.total,
			Selected:      t.hit,
			SelectionRate: rate(t),
		}

		switch {
		case t.total < cfg.MinGroupSize:
			stat.Verdict = VerdictInsufficient
			report.Flags = append(report.Flags, types.Flag{
				Kind:   types.FlagInsufficientSample,
				Term:   g,
				Detail: fmt.Sprintf("group %q has %d members, below minimum %d", g, t.total, cfg.MinGroupSize),
			})
		case reference == "":
			// no sufficient reference group exists; nothing to compare
			stat.Verdict = VerdictInsufficient
		case g == reference:
			stat.DisparateImpact = 1
			stat.Verdict = VerdictPass
		case refRate == 0:
			stat.DisparateImpact = 0
			stat.Verdict = VerdictWarn
			report.Flags = append(report.Flags, types.Flag{
				Kind:   types.FlagDisparateImpactWarning,
				Term:   g,
				Detail: fmt.Sprintf("reference group %q has zero selection rate", reference),
			})
		default:
			ratio := stat.SelectionRate / refRate
			stat.DisparateImpact = ratio
			switch {
			case ratio >= cfg.ImpactLow && ratio <= cfg.ImpactHigh:
				stat.Verdict = VerdictPass
			case ratio < cfg.ImpactLow/2 || ratio > cfg.ImpactHigh*2:
				stat.Verdict = VerdictFail
			default:
				stat.Verdict = VerdictWarn
			}
			if stat.Verdict != VerdictPass {
				report.Flags = append(report.Flags, types.Flag{
					Kind:   types.FlagDisparateImpactWarning,
					Term:   g,
					Detail: fmt.Sprintf("disparate impact %.3f against reference %q outside [%.2f, %.2f]", ratio, reference, cfg.ImpactLow, cfg.ImpactHigh),
				})
			}
		}

		report.Groups = append(report.Groups, stat)
	}

	return report
}
