package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// TFIDF is a sparse embedder. Each Embed call fits a fresh vocabulary on
// exactly the given batch, so vectors are only comparable within one call.
// Weights use raw term counts, smoothed idf ln((1+n)/(1+df))+1 and l2
// normalisation; English stop words and single-character tokens are dropped.
type TFIDF struct{}

var _ domain.Embedder = TFIDF{}

// NewTFIDF returns the sparse embedder.
func NewTFIDF() TFIDF { return TFIDF{} }

// Embed implements domain.Embedder.
func (TFIDF) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	docs := make([]map[string]int, len(texts))
	df := map[string]int{}
	for i, t := range texts {
		counts := map[string]int{}
		for _, tok := range tokenize(t) {
			counts[tok]++
		}
		for tok := range counts {
			df[tok]++
		}
		docs[i] = counts
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}

	n := float64(len(texts))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	out := make([][]float32, len(texts))
	for i, counts := range docs {
		w := make([]float64, len(terms))
		var norm float64
		for tok, c := range counts {
			j := index[tok]
			w[j] = float64(c) * idf[j]
			norm += w[j] * w[j]
		}
		vec := make([]float32, len(terms))
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j, x := range w {
				vec[j] = float32(x / norm)
			}
		}
		out[i] = vec
	}
	return out, nil
}

// tokenize lower-cases s and returns runs of two or more word characters
// that are not stop words.
func tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) < 2 {
			continue
		}
		if _, stop := englishStopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}
