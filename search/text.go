package search

import "strings"

// Stop words to filter out of queries and page text
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenize splits text into words, lowercases, trims punctuation, and removes stop words
func tokenize(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}<>/`*_#"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

type wordSet map[string]struct{}

func newWordSet(text string) wordSet {
	words := tokenize(text)
	set := make(wordSet, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// containsAll reports whether every term is in the set. No terms never match.
func (w wordSet) containsAll(terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, term := range terms {
		if _, ok := w[term]; !ok {
			return false
		}
	}
	return true
}
