package parser

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// classSections are the identifiers that open a section inside classdef.
var classSections = []string{"properties", "methods", "events", "enumeration"}

// blockClosers are the keywords a stray identifier most likely misspells.
var blockClosers = []string{"end", "else", "elseif", "case", "otherwise", "catch"}

// maxTypoDistance bounds the edit distance of a suggestion that is not a
// fuzzy subsequence match.
const maxTypoDistance = 2

// closestMatch finds the candidate word most likely meant by input.
// Subsequence matches ("propertes") win, ranked by distance; transpositions
// ("edn") fall back to plain edit distance.
func closestMatch(input string, candidates []string) (string, bool) {
	if input == "" {
		return "", false
	}
	ranks := fuzzy.RankFindFold(input, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		if ranks[0].Distance <= maxTypoDistance {
			return ranks[0].Target, true
		}
	}

	best, bestDistance := "", maxTypoDistance+1
	lower := strings.ToLower(input)
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(lower, c); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best, best != ""
}

// didYouMean formats a suggestion, or returns "" when nothing is close.
func didYouMean(input string, candidates []string) string {
	if match, ok := closestMatch(input, candidates); ok && match != input {
		return "did you mean '" + match + "'?"
	}
	return ""
}
