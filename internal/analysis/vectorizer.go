package analysis

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// english stop words removed before vectorization
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"did": {}, "do": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "had": {},
	"has": {}, "have": {}, "having": {}, "he": {}, "her": {}, "here": {},
	"hers": {}, "him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "me": {}, "more": {},
	"most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {}, "of": {},
	"off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {},
	"our": {}, "ours": {}, "out": {}, "over": {}, "own": {}, "same": {},
	"she": {}, "should": {}, "so": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "theirs": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"to": {}, "too": {}, "under": {}, "until": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "you": {}, "your": {}, "yours": {},
}

// VectorSpace is a TF-IDF model over one batch: the job description plus
// every resume. IDF statistics reflect the batch, so similarities are only
// comparable within it. A VectorSpace is built per request and must never
// be cached across unrelated batches.
type VectorSpace struct {
	vocab   map[string]int
	idf     []float64
	jobVec  map[int]float64
	docVecs []map[int]float64
}

// tokenize lower-cases, splits on non-word runes, drops stop words and
// applies minimal suffix stemming.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, stem(f))
	}
	return tokens
}

// stem strips common English suffixes. Deliberately minimal: the goal is
// collapsing obvious inflections (engineers/engineer, managing/manage),
// not linguistic correctness.
func stem(token string) string {
	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 5:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "ing") && len(token) > 6:
		return token[:len(token)-3]
	case strings.HasSuffix(token, "ed") && len(token) > 5:
		return token[:len(token)-2]
	case strings.HasSuffix(token, "es") && len(token) > 4:
		return token[:len(token)-2]
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") && len(token) > 3:
		return token[:len(token)-1]
	default:
		return token
	}
}

// BuildCorpus constructs the batch-scoped vector space from the job
// description and every resume text. maxFeatures caps the vocabulary to
// the most frequent terms across documents; ties break alphabetically so
// the model is deterministic.
func BuildCorpus(jobText string, docs []string, maxFeatures int) *VectorSpace {
	all := make([][]string, 0, len(docs)+1)
	all = append(all, tokenize(jobText))
	for _, d := range docs {
		all = append(all, tokenize(d))
	}

	// document frequency per term
	df := make(map[string]int)
	for _, toks := range all {
		seen := make(map[string]struct{}, len(toks))
		for _, t := range toks {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	// smoothed idf so batch-wide terms still carry a small weight
	n := float64(len(all))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vs := &VectorSpace{
		vocab:   vocab,
		idf:     idf,
		docVecs: make([]map[int]float64, len(docs)),
	}
	vs.jobVec = vs.vectorize(all[0])
	for i, toks := range all[1:] {
		vs.docVecs[i] = vs.vectorize(toks)
	}
	return vs
}

// vectorize builds an l2-normalized sparse TF-IDF vector.
func (vs *VectorSpace) vectorize(tokens []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range tokens {
		if idx, ok := vs.vocab[t]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx, tf := range vec {
		w := tf * vs.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// Similarity returns the cosine similarity between the job vector and
// document i, clamped to [0,1]. Empty or all-stopword documents score 0,
// never NaN.
func (vs *VectorSpace) Similarity(i int) float64 {
	if i < 0 || i >= len(vs.docVecs) {
		return 0
	}
	doc := vs.docVecs[i]
	if len(doc) == 0 || len(vs.jobVec) == 0 {
		return 0
	}

	// iterate the smaller vector
	a, b := vs.jobVec, doc
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		if w2, ok := b[idx]; ok {
			dot += w * w2
		}
	}
	if math.IsNaN(dot) {
		return 0
	}
	return clip(dot, 0, 1)
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
