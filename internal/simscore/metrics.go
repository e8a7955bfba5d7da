// Package simscore computes lexical similarity metrics between a generated
// SQL statement and a reference statement. Every metric is normalized to
// [0, 1]. None of them is a database-semantic equivalence check; they are
// coarse overlap proxies used to rank generators against a labeled dataset.
package simscore

import (
	"math"
	"strings"
)

const (
	MetricExactMatch         = "exact_match"
	MetricTokenMatch         = "token_match"
	MetricBLEU               = "bleu_score"
	MetricF1                 = "f1_score"
	MetricSemanticSimilarity = "semantic_similarity"
)

// DefaultWeights is the built-in composite weighting. The values sum to 1.0.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		MetricExactMatch:         0.15,
		MetricTokenMatch:         0.20,
		MetricBLEU:               0.20,
		MetricF1:                 0.25,
		MetricSemanticSimilarity: 0.20,
	}
}

// ScorePair computes all per-pair metrics for a generated/expected statement
// pair. Both sides are case-folded and whitespace-normalized first. An empty
// side yields 0 for every metric rather than an error.
func ScorePair(generated, expected string) map[string]float64 {
	return map[string]float64{
		MetricExactMatch:         ExactMatch(generated, expected),
		MetricTokenMatch:         TokenMatch(generated, expected),
		MetricBLEU:               BLEUScore(generated, expected),
		MetricF1:                 F1Score(generated, expected),
		MetricSemanticSimilarity: SemanticSimilarity(generated, expected),
	}
}

// Composite reduces a metric map to a single weighted scalar. Passing nil
// weights applies DefaultWeights. Score keys without a weight contribute
// nothing; weight keys without a score contribute nothing.
func Composite(scores, weights map[string]float64) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}
	total := 0.0
	for name, score := range scores {
		total += score * weights[name]
	}
	return total
}

// CorrectnessScore reflects executability rather than textual resemblance:
// 1.0 when the statement validated and executed, 0.5 when it validated but
// execution failed, 0.0 otherwise.
func CorrectnessScore(valid, executed bool) float64 {
	switch {
	case valid && executed:
		return 1.0
	case valid:
		return 0.5
	default:
		return 0.0
	}
}

// ExactMatch is 1 when both normalized statements are identical.
func ExactMatch(generated, expected string) float64 {
	if generated == "" || expected == "" {
		return 0.0
	}
	if normalize(generated) == normalize(expected) {
		return 1.0
	}
	return 0.0
}

// TokenMatch is the Jaccard index over the two token sets.
func TokenMatch(generated, expected string) float64 {
	genTokens := tokenSet(generated)
	expTokens := tokenSet(expected)
	if len(genTokens) == 0 || len(expTokens) == 0 {
		return 0.0
	}
	intersection := 0
	for token := range genTokens {
		if _, ok := expTokens[token]; ok {
			intersection++
		}
	}
	union := len(genTokens) + len(expTokens) - intersection
	return float64(intersection) / float64(union)
}

// BLEUScore is the standard BLEU formulation over token n-grams up to n=4:
// geometric mean of modified n-gram precisions with a brevity penalty.
func BLEUScore(generated, expected string) float64 {
	genTokens := tokenize(generated)
	expTokens := tokenize(expected)
	if len(genTokens) == 0 || len(expTokens) == 0 {
		return 0.0
	}

	const maxOrder = 4
	logPrecisionSum := 0.0
	for n := 1; n <= maxOrder; n++ {
		precision := ngramPrecision(genTokens, expTokens, n)
		if precision == 0 {
			// Smooth unmatched orders so short statements do not zero
			// out the geometric mean entirely.
			precision = 1.0 / float64(2*len(genTokens)+2)
		}
		logPrecisionSum += math.Log(precision)
	}
	score := math.Exp(logPrecisionSum / maxOrder)

	if len(genTokens) < len(expTokens) {
		score *= math.Exp(1.0 - float64(len(expTokens))/float64(len(genTokens)))
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// F1Score is the harmonic mean of token-level precision and recall of the
// generated statement against the expected one.
func F1Score(generated, expected string) float64 {
	genTokens := tokenize(generated)
	expTokens := tokenize(expected)
	if len(genTokens) == 0 || len(expTokens) == 0 {
		return 0.0
	}

	expCounts := map[string]int{}
	for _, token := range expTokens {
		expCounts[token]++
	}
	matched := 0
	for _, token := range genTokens {
		if expCounts[token] > 0 {
			expCounts[token]--
			matched++
		}
	}
	if matched == 0 {
		return 0.0
	}
	precision := float64(matched) / float64(len(genTokens))
	recall := float64(matched) / float64(len(expTokens))
	return 2 * precision * recall / (precision + recall)
}

// SemanticSimilarity is a bounded, symmetric lexical proxy: the Dice
// coefficient over character bigrams of the normalized statements. Identical
// inputs score 1.0.
func SemanticSimilarity(generated, expected string) float64 {
	genBigrams := bigramCounts(normalize(generated))
	expBigrams := bigramCounts(normalize(expected))
	if len(genBigrams) == 0 || len(expBigrams) == 0 {
		return 0.0
	}

	overlap := 0
	genTotal := 0
	expTotal := 0
	for bigram, count := range genBigrams {
		genTotal += count
		if other := expBigrams[bigram]; other > 0 {
			overlap += min(count, other)
		}
	}
	for _, count := range expBigrams {
		expTotal += count
	}
	return 2 * float64(overlap) / float64(genTotal+expTotal)
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func tokenize(text string) []string {
	normalized := strings.ToLower(text)
	splitter := func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', '(', ')', ';', '=', '<', '>', '.':
			return true
		default:
			return false
		}
	}
	return strings.FieldsFunc(normalized, splitter)
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, token := range tokenize(text) {
		set[token] = struct{}{}
	}
	return set
}

func ngramPrecision(genTokens, expTokens []string, n int) float64 {
	genGrams := ngramCounts(genTokens, n)
	if len(genGrams) == 0 {
		return 0.0
	}
	expGrams := ngramCounts(expTokens, n)

	matched := 0
	total := 0
	for gram, count := range genGrams {
		total += count
		if other := expGrams[gram]; other > 0 {
			matched += min(count, other)
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(matched) / float64(total)
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := map[string]int{}
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

func bigramCounts(text string) map[string]int {
	runes := []rune(text)
	counts := map[string]int{}
	for i := 0; i+2 <= len(runes); i++ {
		counts[string(runes[i:i+2])]++
	}
	return counts
}
