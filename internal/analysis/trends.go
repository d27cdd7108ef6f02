package analysis

import (
	"sort"
	"strings"

	"github.com/talentsift/talentsift/internal/types"
)

// trendWeights lists in-demand skills with relative weights in (0,1].
// The trend score rewards future-ready profiles with a small positive
// term; absence never penalizes.
var trendWeights = map[string]float64{
	// Cloud & DevOps
	"aws": 1.0, "azure": 0.9, "gcp": 0.9, "docker": 0.9, "kubernetes": 1.0,
	"terraform": 0.9, "ci/cd": 0.8, "github actions": 0.6, "gitlab ci": 0.6,
	// Data & Streaming
	"kafka": 0.9, "airflow": 0.8, "spark": 0.9, "databricks": 0.9,
	"snowflake": 0.9, "dbt": 0.8,
	// ML & MLOps
	"pytorch": 0.9, "tensorflow": 0.9, "transformers": 0.9, "mlops": 0.9,
	"mlflow": 0.8, "llm": 1.0, "langchain": 0.8, "vector db": 0.7,
	"faiss": 0.7, "weaviate": 0.7, "pinecone": 0.7,
	// Backend & Languages
	"go": 0.8, "golang": 0.8, "rust": 0.9, "fastapi": 0.8, "grpc": 0.8,
	// Frontend
	"typescript": 0.9, "react": 0.8, "next.js": 0.8, "nextjs": 0.8,
	// Observability & Reliability
	"opentelemetry": 0.8, "prometheus": 0.7, "grafana": 0.7,
	// Infra-as-Code & Security
	"ansible": 0.7, "vault": 0.6,
}

var trendTotal = func() float64 {
	var sum float64
	for _, w := range trendWeights {
		sum += w
	}
	return sum
}()

// DetectTrends returns the in-demand skills present in a candidate's
// text or skill set, sorted, with a [0,1] score proportional to their
// summed weights.
func DetectTrends(profile types.CandidateProfile) ([]string, float64) {
	textLower := strings.ToLower(profile.RawText)
	skills := make(map[string]struct{})
	for _, s := range NormalizeSkillSet(profile.Skills) {
		skills[s] = struct{}{}
	}

	var matched []string
	var sum float64
	for skill, weight := range trendWeights {
		_, inSkills := skills[skill]
		if inSkills || strings.Contains(textLower, skill) {
			matched = append(matched, skill)
			sum += weight
		}
	}
	sort.Strings(matched)

	score := 0.0
	if trendTotal > 0 {
		score = clip(sum/trendTotal, 0, 1)
	}
	return matched, score
}
