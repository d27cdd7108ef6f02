package fairness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/internal/types"
)

// rankedPool builds n ranked candidates with descending scores and
// assigns each a group by index.
func rankedPool(n int, group func(i int) string) ([]types.ScoredCandidate, map[string]string) {
	ranked := make([]types.ScoredCandidate, n)
	groups := make(map[string]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("c%02d", i)
		ranked[i] = types.ScoredCandidate{
			CandidateID: id,
			Rank:        i + 1,
			FinalScore:  1 - float64(i)/float64(n),
		}
		if g := group(i); g != "" {
			groups[id] = g
		}
	}
	return ranked, groups
}

func groupStat(t *testing.T, report types.FairnessReport, name string) types.GroupStat {
	t.Helper()
	for _, g := range report.Groups {
		if g.Group == name {
			return g
		}
	}
	t.Fatalf("group %q not in report", name)
	return types.GroupStat{}
}

func TestAuditBalancedGroupsPass(t *testing.T) {
	// alternate groups through the ranking so selection rates match
	ranked, groups := rankedPool(40, func(i int) string {
		if i%2 == 0 {
			return "x"
		}
		return "y"
	})

	report := Audit(ranked, "group", groups, DefaultConfig())

	assert.Equal(t, 10, report.TopK, "25 percent of 40")
	require.Len(t, report.Groups, 2)
	for _, g := range report.Groups {
		assert.Equal(t, VerdictPass, g.Verdict, g.Group)
	}
	assert.Empty(t, report.Flags)
}

func TestAuditZeroSelectionRateGroup(t *testing.T) {
	// group "b" fills the entire bottom half and never reaches the top-K
	ranked, groups := rankedPool(20, func(i int) string {
		if i < 10 {
			return "a"
		}
		return "b"
	})

	report := Audit(ranked, "group", groups, DefaultConfig())

	a := groupStat(t, report, "a")
	b := groupStat(t, report, "b")

	assert.Equal(t, "a", report.ReferenceGroup)
	assert.Equal(t, VerdictPass, a.Verdict)
	assert.Equal(t, 1.0, a.DisparateImpact)

	assert.Zero(t, b.SelectionRate)
	assert.Zero(t, b.DisparateImpact)
	assert.NotEqual(t, VerdictPass, b.Verdict)

	var warnings int
	for _, f := range report.Flags {
		if f.Kind == types.FlagDisparateImpactWarning {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestAuditSmallGroupInsufficientSample(t *testing.T) {
	// three members is below the minimum group size of five
	ranked, groups := rankedPool(20, func(i int) string {
		if i < 3 {
			return "tiny"
		}
		return "big"
	})

	report := Audit(ranked, "group", groups, DefaultConfig())

	tiny := groupStat(t, report, "tiny")
	assert.Equal(t, VerdictInsufficient, tiny.Verdict)

	var insufficient int
	for _, f := range report.Flags {
		if f.Kind == types.FlagInsufficientSample {
			insufficient++
		}
	}
	assert.Equal(t, 1, insufficient)
}

func TestAuditUndeclaredCandidatesExcluded(t *testing.T) {
	ranked, groups := rankedPool(12, func(i int) string {
		if i%2 == 0 {
			return "declared"
		}
		return "" // no group value recorded
	})

	report := Audit(ranked, "group", groups, DefaultConfig())

	require.Len(t, report.Groups, 1)
	assert.Equal(t, "declared", report.Groups[0].Group)
	assert.Equal(t, 6, report.Groups[0].Total)
}

func TestAuditExplicitTopK(t *testing.T) {
	ranked, groups := rankedPool(10, func(i int) string { return "all" })

	cfg := DefaultConfig()
	cfg.TopK = 4

	report := Audit(ranked, "group", groups, cfg)

	assert.Equal(t, 4, report.TopK)
	all := groupStat(t, report, "all")
	assert.Equal(t, 4, all.Selected)
	assert.InDelta(t, 0.4, all.SelectionRate, 1e-9)
}

func TestAuditTopKClampedToPoolSize(t *testing.T) {
	ranked, groups := rankedPool(5, func(i int) string { return "all" })

	cfg := DefaultConfig()
	cfg.TopK = 50

	report := Audit(ranked, "group", groups, cfg)

	assert.Equal(t, 5, report.TopK)
}

func TestAuditNeverMutatesRanking(t *testing.T) {
	ranked, groups := rankedPool(8, func(i int) string {
		if i%2 == 0 {
			return "x"
		}
		return "y"
	})
	before := make([]types.ScoredCandidate, len(ranked))
	copy(before, ranked)

	_ = Audit(ranked, "group", groups, DefaultConfig())

	assert.Equal(t, before, ranked)
}

func TestAuditConfiguredReferenceGroup(t *testing.T) {
	ranked, groups := rankedPool(20, func(i int) string {
		if i%2 == 0 {
			return "x"
		}
		return "y"
	})

	cfg := DefaultConfig()
	cfg.ReferenceGroup = "y"

	report := Audit(ranked, "group", groups, cfg)

	assert.Equal(t, "y", report.ReferenceGroup)
	y := groupStat(t, report, "y")
	assert.Equal(t, 1.0, y.DisparateImpact)
}

func TestAuditEmptyPool(t *testing.T) {
	report := Audit(nil, "group", nil, DefaultConfig())

	assert.Zero(t, report.TopK)
	assert.Empty(t, report.Groups)
	assert.Empty(t, report.Flags)
}
