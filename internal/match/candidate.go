package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the similarity a known name must exceed to be suggested.
const DefaultThreshold = 0.5

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64 // 0 to 1, 1 when equal after normalization
}

type CandidateList []Candidate

// Rank scores every known name against target, best first; equal scores sort by name.
func Rank(target string, known []string) CandidateList {
	candidates := make(CandidateList, len(known))
	for i, name := range known {
		candidates[i] = Candidate{Name: name, Score: NormalizedLevenshteinScore(target, name)}
	}

	slices.SortFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return candidates
}

// Suggest returns up to n known names similar enough to target.
func Suggest(target string, known []string, n int) []string {
	var names []string
	for _, c := range Rank(target, known).AboveThreshold(DefaultThreshold).Top(n) {
		names = append(names, c.Name)
	}

	return names
}

func (c CandidateList) Top(n int) CandidateList {
	return c[:min(n, len(c))]
}

// AboveThreshold keeps candidates scoring strictly above threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var kept CandidateList
	for _, candidate := range c {
		if candidate.Score > threshold {
			kept = append(kept, candidate)
		}
	}

	return kept
}
