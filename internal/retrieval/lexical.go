package retrieval

import "strings"

// stopwords are dropped from both sides before counting shared tokens.
var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "is": {}, "for": {}, "to": {}, "a": {}, "an": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "with": {}, "by": {}, "it": {}, "as": {}, "so": {}, "what": {},
}

// tokenSet lowercases text, splits it on whitespace and drops stopwords.
// Punctuation stays attached to its word, so "shipping?" and "shipping" differ.
func tokenSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// sharedTokens returns the tokens present in both sets, in no particular order.
func sharedTokens(a, b map[string]struct{}) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	var shared []string
	for t := range a {
		if _, ok := b[t]; ok {
			shared = append(shared, t)
		}
	}
	return shared
}
