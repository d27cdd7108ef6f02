package analysis

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentsift/talentsift/internal/types"
)

func TestDetectTrends(t *testing.T) {
	tests := []struct {
		name        string
		profile     types.CandidateProfile
		wantMatched []string
	}{
		{
			name: "matches from resume text",
			profile: types.CandidateProfile{
				RawText: "ran workloads on kubernetes and aws, wrote terraform modules",
			},
			wantMatched: []string{"aws", "kubernetes", "terraform"},
		},
		{
			name: "matches from skill list",
			profile: types.CandidateProfile{
				Skills:  []string{"Rust", "Kafka"},
				RawText: "systems programmer",
			},
			wantMatched: []string{"kafka", "rust"},
		},
		{
			name:        "no trend skills",
			profile:     types.CandidateProfile{RawText: "watercolor painter"},
			wantMatched: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, score := DetectTrends(tt.profile)

			assert.Equal(t, tt.wantMatched, matched)
			assert.True(t, sort.StringsAreSorted(matched))
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			if len(tt.wantMatched) == 0 {
				assert.Zero(t, score)
			} else {
				assert.Positive(t, score)
			}
		})
	}
}

func TestDetectTrendsMoreSkillsScoreHigher(t *testing.T) {
	few := types.CandidateProfile{RawText: "deployed with docker"}
	many := types.CandidateProfile{RawText: "deployed with docker on kubernetes in aws using terraform and prometheus"}

	_, fewScore := DetectTrends(few)
	_, manyScore := DetectTrends(many)

	assert.Greater(t, manyScore, fewScore)
}
