package cleaner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxTags = 10

// Punctuation kept by text cleaning. Everything outside word characters,
// whitespace and this set is stripped.
var allowedPunct = map[rune]struct{}{
	'-': {}, '.': {}, ',': {}, '!': {}, '?': {},
	'(': {}, ')': {}, '[': {}, ']': {}, '{': {}, '}': {},
	':': {}, ';': {}, '"': {}, '\'': {}, '/': {},
}

var (
	trackingParamRe = regexp.MustCompile(`[?&](utm_|ref=|source=)[^&]*`)
	digitRunRe      = regexp.MustCompile(`\d+`)
)

// Programming-language aliases mapped to canonical names.
var languageAliases = map[string]string{
	"js":      "javascript",
	"ts":      "typescript",
	"py":      "python",
	"cpp":     "c++",
	"c#":      "csharp",
	"c sharp": "csharp",
	"golang":  "go",
	"node":    "javascript",
	"nodejs":  "javascript",
	"react":   "javascript",
	"vue":     "javascript",
	"angular": "javascript",
}

// CleanText strips characters outside the whitelist (word characters,
// whitespace, basic punctuation), removes emoji and collapses whitespace
// runs to a single space. The result is a fixed point: cleaning a cleaned
// string returns it unchanged.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmoji(r) {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteRune(' ')
			continue
		}
		if isWordRune(r) {
			b.WriteRune(r)
			continue
		}
		if _, ok := allowedPunct[r]; ok {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// CleanURL trims a URL, defaults a missing scheme to https and removes
// tracking query parameters (utm_*, ref=, source=). Relative paths
// starting with "/" are left untouched; only the crawler knows the base.
func CleanURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}

	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		switch {
		case strings.HasPrefix(u, "//"):
			u = "https:" + u
		case strings.HasPrefix(u, "/"):
			// relative URL, resolved by the crawler against its base
		default:
			u = "https://" + u
		}
	}

	return trackingParamRe.ReplaceAllString(u, "")
}

// CleanNumber coerces a heterogeneous value into a non-negative int.
// Strings go through thousands-separator stripping and first-digit-run
// extraction, so "1,200" parses as 1200. Anything unparsable becomes 0.
func CleanNumber(value any) int {
	switch v := value.(type) {
	case int:
		if v < 0 {
			return 0
		}
		return v
	case int64:
		if v < 0 {
			return 0
		}
		return int(v)
	case float64:
		if v < 0 {
			return 0
		}
		return int(v)
	case string:
		stripped := strings.ReplaceAll(v, ",", "")
		run := digitRunRe.FindString(stripped)
		if run == "" {
			return 0
		}
		n := 0
		for _, r := range run {
			n = n*10 + int(r-'0')
			if n < 0 {
				// overflow guard
				return 0
			}
		}
		return n
	default:
		return 0
	}
}

// CleanLanguage lower-cases a programming-language name and maps it
// through the alias table. Unmapped values are title-cased.
func CleanLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return ""
	}
	if canonical, ok := languageAliases[lang]; ok {
		return canonical
	}
	return titleCase(lang)
}

// CleanTags lower-cases and text-cleans each tag, drops empties and
// single-character tags, deduplicates preserving first occurrence and caps
// the result at 10 entries.
func CleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := CleanText(strings.ToLower(tag))
		if utf8.RuneCountInString(cleaned) <= 1 {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
		if len(out) == maxTags {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF:
		return true
	case r >= 0x1F600 && r <= 0x1F64F:
		return true
	case r >= 0x1F680 && r <= 0x1F6FF:
		return true
	case r >= 0x1F1E0 && r <= 0x1F1FF:
		return true
	default:
		return false
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
