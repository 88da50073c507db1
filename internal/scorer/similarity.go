package scorer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// MaxFeatures caps the vocabulary used by Similarity.
const MaxFeatures = 5000

var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Similarity returns the cosine similarity of the TF-IDF vectors of a and b,
// built over unigrams and bigrams with the vocabulary and document
// frequencies taken from the two texts alone. The result is in [0, 1].
// Non-empty texts that are equal up to case and spacing score 1, even when
// they carry no token; other texts without any token score 0.
func Similarity(a, b string) float64 {
	if na := normalize(a); na != "" && na == normalize(b) {
		return 1
	}

	docs := [2][]string{ngrams(tokenize(a)), ngrams(tokenize(b))}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	counts := [2]map[string]int{termCounts(docs[0]), termCounts(docs[1])}
	vocab := vocabulary(counts, MaxFeatures)
	if len(vocab) == 0 {
		return 0
	}

	v1 := weigh(counts[0], counts, vocab)
	v2 := weigh(counts[1], counts, vocab)

	var dot, n1, n2 float64
	for term, w1 := range v1 {
		n1 += w1 * w1
		if w2, ok := v2[term]; ok {
			dot += w1 * w2
		}
	}
	for _, w2 := range v2 {
		n2 += w2 * w2
	}
	if n1 == 0 || n2 == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(n1) * math.Sqrt(n2))
	return math.Max(0, math.Min(1, sim))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func tokenize(content string) []string {
	return tokenRegex.FindAllString(strings.ToLower(content), -1)
}

func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// vocabulary keeps the limit most frequent terms across both documents,
// breaking frequency ties lexically so the result is deterministic.
func vocabulary(counts [2]map[string]int, limit int) map[string]bool {
	total := make(map[string]int)
	for _, c := range counts {
		for term, n := range c {
			total[term] += n
		}
	}

	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	if len(terms) > limit {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:limit]
	}

	vocab := make(map[string]bool, len(terms))
	for _, t := range terms {
		vocab[t] = true
	}
	return vocab
}

// weigh builds the raw-count TF times smoothed IDF vector of one document.
func weigh(doc map[string]int, corpus [2]map[string]int, vocab map[string]bool) map[string]float64 {
	const n = 2.0
	vec := make(map[string]float64, len(doc))
	for term, count := range doc {
		if !vocab[term] {
			continue
		}
		df := 0
		for _, c := range corpus {
			if c[term] > 0 {
				df++
			}
		}
		idf := math.Log((1+n)/(1+float64(df))) + 1
		vec[term] = float64(count) * idf
	}
	return vec
}
