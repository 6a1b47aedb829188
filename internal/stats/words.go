// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package stats

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// WordCount is a token and how often it occurs.
type WordCount struct {
	Word  string
	Count int
}

// stopWords is the usual English word-cloud stop list, trimmed to what shows
// up in video titles.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all am an and any are as at be because been
		before being below between both but by can could did do does doing down during
		each few for from further had has have having he her here hers herself him himself
		his how i if in into is it its itself just let me more most my myself no nor not
		now of off on once only or other ought our ours ourselves out over own same she
		should so some such than that the their theirs them themselves then there these
		they this those through to too under until up very was we were what when where
		which while who whom why will with would you your yours yourself yourselves
		amp http https www com ft vs`) {
		stopWords[w] = struct{}{}
	}
}

// Tokenize splits text into case-folded, NFKC-normalised words. Runs of
// letters and digits form words; everything else separates them. Stop words
// and single-rune tokens are dropped.
func Tokenize(text string) []string {
	folder := cases.Fold()
	text = norm.NFKC.String(folder.String(text))

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WordFrequencies tokenises every title and returns the top limit words by
// count, ties broken alphabetically. limit <= 0 returns all words.
func WordFrequencies(titles []string, limit int) []WordCount {
	counts := map[string]int{}
	for _, title := range titles {
		for _, w := range Tokenize(title) {
			counts[w]++
		}
	}
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
