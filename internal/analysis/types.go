package analysis

import "github.com/talentsift/talentsift/internal/types"

// FeatureSet holds the per-candidate feature values extracted once per
// batch. What-if re-weighting recomputes scores from these values alone,
// never from corpus-level vectorizer state.
type FeatureSet struct {
	CandidateID string
	Name        string
	Semantic    float64
	Coverage    types.Coverage
	TrendSkills []string
	Trend       float64
	Flags       []types.Flag
}

// BatchResult is the request-scoped outcome of screening one batch.
type BatchResult struct {
	Features   []FeatureSet
	Excluded   []types.ExcludedCandidate
	Weights    Weights
	Ranked     []types.ScoredCandidate
	Flags      []types.Flag
	Incomplete bool
}

// MarkIncomplete records that the scoring deadline expired before every
// candidate finished. The timeout is surfaced as a batch-level flag so
// consumers see it alongside the partial ranking, not only as excluded
// candidates.
func (b *BatchResult) MarkIncomplete() {
	if b.Incomplete {
		return
	}
	b.Incomplete = true
	b.Flags = append(b.Flags, types.Flag{
		Kind:   types.FlagScoringTimeout,
		Detail: "scoring deadline expired before all candidates finished",
	})
}

// Rescore recomputes the ranking under new weights from the stored
// feature values. It is pure with respect to the receiver, so concurrent
// what-if queries over the same batch are safe.
func (b *BatchResult) Rescore(w Weights) []types.ScoredCandidate {
	scored := make([]types.ScoredCandidate, len(b.Features))
	for i, fs := range b.Features {
		scored[i] = ScoreCandidate(fs, w)
	}
	Rank(scored)
	return scored
}
