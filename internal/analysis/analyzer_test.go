package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/internal/config"
	"github.com/talentsift/talentsift/internal/errors"
	"github.com/talentsift/talentsift/internal/types"
)

func testAnalyzer() *Analyzer {
	return NewAnalyzer(config.Load())
}

func testJob() types.JobRequirement {
	return types.JobRequirement{
		Description: "Looking for a python developer with sql experience building data pipelines",
		MustHave:    []string{"python", "sql"},
		NiceToHave:  []string{"airflow"},
	}
}

func TestScreenRejectsBadInput(t *testing.T) {
	a := testAnalyzer()
	ctx := context.Background()

	profiles := []types.CandidateProfile{{ID: "c1", RawText: "python and sql"}}

	tests := []struct {
		name     string
		job      types.JobRequirement
		profiles []types.CandidateProfile
	}{
		{"empty job description", types.JobRequirement{Description: "   "}, profiles},
		{"empty batch", testJob(), nil},
		{"oversize batch", testJob(), make([]types.CandidateProfile, 51)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Screen(ctx, tt.job, tt.profiles)
			require.Error(t, err)
			appErr := errors.ToAppError(err)
			assert.Equal(t, errors.CategoryInput, appErr.Category)
		})
	}
}

func TestScreenExcludesUnusableProfiles(t *testing.T) {
	a := testAnalyzer()

	profiles := []types.CandidateProfile{
		{ID: "good", RawText: "python and sql developer"},
		{ID: "", Name: "anonymous", RawText: "python"},
		{ID: "empty-text", RawText: "   "},
		{ID: "too-long", RawText: strings.Repeat("x", 50001)},
	}

	result, err := a.Screen(context.Background(), testJob(), profiles)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "good", result.Ranked[0].CandidateID)

	reasons := make(map[string]string)
	for _, ex := range result.Excluded {
		reasons[ex.CandidateID] = ex.Reason
	}
	assert.Equal(t, ReasonMissingID, reasons["anonymous"])
	assert.Equal(t, ReasonNoText, reasons["empty-text"])
	assert.Equal(t, ReasonTextTooLong, reasons["too-long"])
}

func TestScreenAllProfilesUnusable(t *testing.T) {
	a := testAnalyzer()

	_, err := a.Screen(context.Background(), testJob(), []types.CandidateProfile{
		{ID: "c1", RawText: ""},
	})

	require.Error(t, err)
	assert.Equal(t, errors.CategoryInput, errors.ToAppError(err).Category)
}

func TestScreenRanksRelevantCandidateFirst(t *testing.T) {
	a := testAnalyzer()

	profiles := []types.CandidateProfile{
		{
			ID:      "weak",
			RawText: "java developer working on android applications",
			Skills:  []string{"Java"},
		},
		{
			ID:      "strong",
			RawText: "extensive python and sql experience, built data pipelines in python with airflow",
			Skills:  []string{"Python", "SQL", "Airflow"},
		},
	}

	result, err := a.Screen(context.Background(), testJob(), profiles)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 2)

	assert.Equal(t, "strong", result.Ranked[0].CandidateID)
	assert.Equal(t, 1, result.Ranked[0].Rank)
	assert.Greater(t, result.Ranked[0].FinalScore, result.Ranked[1].FinalScore)

	// the weak candidate carries flags for each missing requirement
	var missing int
	for _, f := range result.Ranked[1].Flags {
		if f.Kind == types.FlagMissingRequiredSkill {
			missing++
		}
	}
	assert.Equal(t, 2, missing)
}

func TestScreenDeterministic(t *testing.T) {
	a := testAnalyzer()

	profiles := []types.CandidateProfile{
		{ID: "c1", RawText: "python developer, five years of sql and airflow"},
		{ID: "c2", RawText: "data engineer: python, sql, spark, kafka"},
		{ID: "c3", RawText: "frontend developer with react and typescript"},
	}

	first, err := a.Screen(context.Background(), testJob(), profiles)
	require.NoError(t, err)
	second, err := a.Screen(context.Background(), testJob(), profiles)
	require.NoError(t, err)

	require.Equal(t, len(first.Ranked), len(second.Ranked))
	for i := range first.Ranked {
		assert.Equal(t, first.Ranked[i].CandidateID, second.Ranked[i].CandidateID)
		assert.Equal(t, first.Ranked[i].FinalScore, second.Ranked[i].FinalScore,
			"identical batches must score bit-identically")
	}
}

func TestScreenTimelineFlagsReachRanking(t *testing.T) {
	a := testAnalyzer()

	profiles := []types.CandidateProfile{
		{
			ID:      "gappy",
			RawText: "python and sql developer",
			Timeline: []types.TimelineEntry{
				{Start: "2018-01", End: "2019-01", Organization: "Acme"},
				{Start: "2020-01", End: "2022-01", Organization: "Globex"},
			},
		},
	}

	result, err := a.Screen(context.Background(), testJob(), profiles)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 1)

	var gaps int
	for _, f := range result.Ranked[0].Flags {
		if f.Kind == types.FlagEmploymentGap {
			gaps++
		}
	}
	assert.Equal(t, 1, gaps)
	assert.Positive(t, result.Ranked[0].ConsistencyPenalty)
}

func TestScreenCancelledContext(t *testing.T) {
	a := testAnalyzer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Screen(ctx, testJob(), []types.CandidateProfile{
		{ID: "c1", RawText: "python and sql"},
	})

	require.Error(t, err)
	assert.Equal(t, errors.CategoryTimeout, errors.ToAppError(err).Category)
}

func TestMarkIncomplete(t *testing.T) {
	result := &BatchResult{}

	result.MarkIncomplete()

	require.True(t, result.Incomplete)
	require.Len(t, result.Flags, 1)
	assert.Equal(t, types.FlagScoringTimeout, result.Flags[0].Kind)

	// Marking twice must not duplicate the flag.
	result.MarkIncomplete()
	assert.Len(t, result.Flags, 1)
}

func TestScreenWhatIfRescoreMatchesOriginalUnderSameWeights(t *testing.T) {
	a := testAnalyzer()

	profiles := []types.CandidateProfile{
		{ID: "c1", RawText: "python developer with sql"},
		{ID: "c2", RawText: "python, sql, airflow, kafka, data pipelines"},
	}

	result, err := a.Screen(context.Background(), testJob(), profiles)
	require.NoError(t, err)

	again := result.Rescore(result.Weights)
	require.Equal(t, len(result.Ranked), len(again))
	for i := range again {
		assert.Equal(t, result.Ranked[i].FinalScore, again[i].FinalScore)
		assert.Equal(t, result.Ranked[i].CandidateID, again[i].CandidateID)
	}
}

func TestScreenWhatIfReweightingCanReorder(t *testing.T) {
	a := testAnalyzer()

	// "texty" wins on semantic similarity, "skilled" wins on coverage
	job := types.JobRequirement{
		Description: "distributed systems engineer designing scalable streaming platforms",
		MustHave:    []string{"kafka", "kubernetes"},
	}
	profiles := []types.CandidateProfile{
		{
			ID:      "texty",
			RawText: "distributed systems engineer designing scalable streaming platforms for a decade",
		},
		{
			ID:      "skilled",
			RawText: "backend engineer",
			Skills:  []string{"Kafka", "Kubernetes"},
		},
	}

	result, err := a.Screen(context.Background(), job, profiles)
	require.NoError(t, err)

	semanticHeavy := result.Weights
	semanticHeavy.Semantic = 1.0
	semanticHeavy.MustHave = 0.0

	coverageHeavy := result.Weights
	coverageHeavy.Semantic = 0.0
	coverageHeavy.MustHave = 1.0

	bySemantic := result.Rescore(semanticHeavy)
	byCoverage := result.Rescore(coverageHeavy)

	assert.Equal(t, "texty", bySemantic[0].CandidateID)
	assert.Equal(t, "skilled", byCoverage[0].CandidateID)
}
