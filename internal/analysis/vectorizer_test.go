package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and drops stop words",
			input:    "The Quick Brown Fox",
			expected: []string{"quick", "brown", "fox"},
		},
		{
			name:     "keeps plus and hash in tokens",
			input:    "c++ and c# developer",
			expected: []string{"c++", "c#", "developer"},
		},
		{
			name:     "drops single characters",
			input:    "a b c go",
			expected: []string{"go"},
		},
		{
			name:     "stems inflections",
			input:    "engineers managing pipelines",
			expected: []string{"engineer", "manag", "pipelin"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenize(tt.input))
		})
	}
}

func TestSimilarityBounds(t *testing.T) {
	job := "senior python developer with sql and data pipeline experience"
	docs := []string{
		"python developer, wrote sql queries and data pipelines for years",
		"graphic designer specializing in typography and branding",
		"",
	}

	vs := BuildCorpus(job, docs, 5000)

	for i := range docs {
		sim := vs.Similarity(i)
		assert.GreaterOrEqual(t, sim, 0.0, "doc %d", i)
		assert.LessOrEqual(t, sim, 1.0, "doc %d", i)
		assert.False(t, sim != sim, "doc %d must not be NaN", i)
	}
}

func TestSimilarityEmptyDocScoresZero(t *testing.T) {
	vs := BuildCorpus("python developer", []string{"", "the and of"}, 5000)

	assert.Zero(t, vs.Similarity(0))
	assert.Zero(t, vs.Similarity(1), "all-stopword document")
	assert.Zero(t, vs.Similarity(-1), "out of range")
	assert.Zero(t, vs.Similarity(5), "out of range")
}

func TestSimilarityOrdersRelevance(t *testing.T) {
	job := "python developer with sql experience building data pipelines"
	docs := []string{
		"extensive python and sql experience, built data pipelines in python",
		"java developer working on android applications",
	}

	vs := BuildCorpus(job, docs, 5000)

	require.Greater(t, vs.Similarity(0), vs.Similarity(1),
		"resume mentioning the job's terms must outscore one that does not")
}

func TestBuildCorpusDeterministic(t *testing.T) {
	job := "go engineer with kubernetes experience"
	docs := []string{
		"go and kubernetes in production",
		"kubernetes operator author, go contributor",
	}

	a := BuildCorpus(job, docs, 5000)
	b := BuildCorpus(job, docs, 5000)

	for i := range docs {
		assert.Equal(t, a.Similarity(i), b.Similarity(i),
			"identical input must produce bit-identical similarity")
	}
}

func TestBuildCorpusMaxFeatures(t *testing.T) {
	job := "alpha beta gamma delta epsilon"
	docs := []string{"alpha beta", "gamma delta epsilon zeta"}

	vs := BuildCorpus(job, docs, 3)

	assert.LessOrEqual(t, len(vs.vocab), 3)
	// similarity still well defined under a truncated vocabulary
	for i := range docs {
		sim := vs.Similarity(i)
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"technologies", "technology"},
		{"engineering", "engineer"},
		{"deployed", "deploy"},
		{"databases", "databas"},
		{"pipelines", "pipelin"},
		{"class", "class"},
		{"go", "go"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, stem(tt.input), tt.input)
	}
}
