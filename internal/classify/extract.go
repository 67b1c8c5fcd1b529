package classify

import (
	"sort"
	"strings"
	"unicode"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

const maxKeywords = 10

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"with": {}, "your": {}, "you": {}, "using": {}, "use": {}, "based": {},
}

// ExtractKeywords produces up to ten keywords for a project: tags first,
// then known tech terms found in the text, then remaining name and
// description tokens by frequency.
func ExtractKeywords(p model.Project) []string {
	seen := make(map[string]struct{}, maxKeywords)
	out := make([]string, 0, maxKeywords)

	add := func(keyword string) bool {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" || len(out) == maxKeywords {
			return len(out) < maxKeywords
		}
		if _, dup := seen[keyword]; dup {
			return true
		}
		seen[keyword] = struct{}{}
		out = append(out, keyword)
		return len(out) < maxKeywords
	}

	for _, tag := range p.Tags {
		if !add(tag) {
			return out
		}
	}

	text := strings.ToLower(p.Name + " " + p.Description)
	for _, tech := range techStackKeywords {
		if strings.Contains(text, tech) {
			if !add(tech) {
				return out
			}
		}
	}

	for _, token := range rankedTokens(text) {
		if !add(token) {
			return out
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// rankedTokens returns content tokens ordered by frequency, ties broken
// alphabetically for determinism.
func rankedTokens(text string) []string {
	counts := make(map[string]int)
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		token = strings.Trim(token, "-")
		if len(token) < 3 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		counts[token]++
	}

	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}
