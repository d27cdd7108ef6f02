package analysis

import (
	"math"
	"sort"

	"github.com/talentsift/talentsift/internal/errors"
	"github.com/talentsift/talentsift/internal/types"
)

// Weights are the what-if adjustable parameters of the composite score.
// The positive defaults sum to 1 so an ideal candidate with no penalties
// scores exactly 1.
type Weights struct {
	Semantic    float64 `json:"semantic_weight"`
	MustHave    float64 `json:"must_have_weight"`
	NiceToHave  float64 `json:"nice_to_have_weight"`
	Trend       float64 `json:"trend_weight"`
	Consistency float64 `json:"consistency_weight"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Semantic:    0.35,
		MustHave:    0.45,
		NiceToHave:  0.15,
		Trend:       0.05,
		Consistency: 1.0,
	}
}

// flagPenalties maps flag kinds to fixed score decrements. Severity order:
// duplicate > gap = exaggeration > suspicious open role > overlap >
// unparsed date.
var flagPenalties = map[types.FlagKind]float64{
	types.FlagDuplicateEntry:     0.05,
	types.FlagEmploymentGap:      0.04,
	types.FlagExaggeratedClaim:   0.04,
	types.FlagSuspiciousOpenRole: 0.03,
	types.FlagOverlappingClaim:   0.02,
	types.FlagUnparsedDate:       0.01,
}

// maxConsistencyPenalty caps the summed flag decrements so a noisy
// timeline cannot drive the composite score negative on its own.
const maxConsistencyPenalty = 0.15

// Validate rejects weight sets a what-if request must not apply.
// The returned error names the offending field.
func (w Weights) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"semanticWeight", w.Semantic},
		{"mustHaveWeight", w.MustHave},
		{"niceToHaveWeight", w.NiceToHave},
		{"trendWeight", w.Trend},
		{"consistencyWeight", w.Consistency},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.NewConfigError(f.name, "must be a finite number")
		}
		if f.value < 0 {
			return errors.NewConfigError(f.name, "must not be negative")
		}
	}
	return nil
}

// Apply overlays the given overrides onto w and validates the result.
func (w Weights) Apply(o *types.WeightOverrides) (Weights, error) {
	if o == nil {
		return w, w.Validate()
	}
	if o.Semantic != nil {
		w.Semantic = *o.Semantic
	}
	if o.MustHave != nil {
		w.MustHave = *o.MustHave
	}
	if o.NiceToHave != nil {
		w.NiceToHave = *o.NiceToHave
	}
	if o.Trend != nil {
		w.Trend = *o.Trend
	}
	if o.Consistency != nil {
		w.Consistency = *o.Consistency
	}
	return w, w.Validate()
}

// ConsistencyPenalty derives the capped penalty from flag severities.
func ConsistencyPenalty(flags []types.Flag) float64 {
	var sum float64
	for _, f := range flags {
		sum += flagPenalties[f.Kind]
	}
	if sum > maxConsistencyPenalty {
		return maxConsistencyPenalty
	}
	return sum
}

// ScoreCandidate merges the extracted feature values into one weighted,
// explainable score. Recomputation under new weights touches only these
// values, so a what-if pass costs O(batch), not O(parsing).
func ScoreCandidate(fs FeatureSet, w Weights) types.ScoredCandidate {
	penalty := ConsistencyPenalty(fs.Flags)

	terms := []types.ExplanationTerm{
		{Name: "semantic", Weight: w.Semantic, Value: fs.Semantic, Contribution: w.Semantic * fs.Semantic},
		{Name: "must_have", Weight: w.MustHave, Value: fs.Coverage.MustHaveScore, Contribution: w.MustHave * fs.Coverage.MustHaveScore},
		{Name: "nice_to_have", Weight: w.NiceToHave, Value: fs.Coverage.NiceToHaveScore, Contribution: w.NiceToHave * fs.Coverage.NiceToHaveScore},
		{Name: "trend", Weight: w.Trend, Value: fs.Trend, Contribution: w.Trend * fs.Trend},
		{Name: "consistency_penalty", Weight: w.Consistency, Value: penalty, Contribution: -w.Consistency * penalty},
	}

	var final float64
	for _, t := range terms {
		final += t.Contribution
	}
	if math.IsNaN(final) {
		final = 0
	}
	final = clip(final, 0, 1)

	return types.ScoredCandidate{
		CandidateID:        fs.CandidateID,
		Name:               fs.Name,
		SemanticScore:      fs.Semantic,
		Coverage:           fs.Coverage,
		TrendScore:         fs.Trend,
		TrendSkills:        fs.TrendSkills,
		ConsistencyPenalty: penalty,
		FinalScore:         final,
		Flags:              fs.Flags,
		Explanation:        terms,
	}
}

// Rank orders candidates by final score descending, breaking ties by
// must-have coverage descending and then candidate ID ascending, so the
// order is reproducible across runs on identical input. Ranks are
// assigned 1-based in place.
func Rank(scored []types.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].FinalScore != scored[j].FinalScore {
			return scored[i].FinalScore > scored[j].FinalScore
		}
		if scored[i].Coverage.MustHaveScore != scored[j].Coverage.MustHaveScore {
			return scored[i].Coverage.MustHaveScore > scored[j].Coverage.MustHaveScore
		}
		return scored[i].CandidateID < scored[j].CandidateID
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
}
