package cleaner

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

// ItemHash returns the identity fingerprint of a record: the hash of its
// URL when present, otherwise of "name|description". It is only an
// auxiliary dedup signal; the merge decision is the similarity rule.
func ItemHash(p model.Project) string {
	if p.URL != "" {
		sum := sha256.Sum256([]byte(p.URL))
		return hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256([]byte(p.Name + "|" + p.Description))
	return hex.EncodeToString(sum[:])
}

// IsSimilar reports whether two records are near-duplicates: the
// arithmetic mean of the per-field similarity ratios over the configured
// compare fields, skipping fields empty in either record, reaches the
// threshold. With no comparable field pair the records are never similar.
func (c *Cleaner) IsSimilar(a, b model.Project) bool {
	var sum float64
	count := 0

	for _, field := range c.compareFields {
		left := fieldValue(a, field)
		right := fieldValue(b, field)
		if left == "" || right == "" {
			continue
		}
		sum += Ratio(left, right)
		count++
	}

	if count == 0 {
		return false
	}
	return sum/float64(count) >= c.threshold
}

func fieldValue(p model.Project, field string) string {
	switch field {
	case "name":
		return p.Name
	case "description":
		return p.Description
	case "url":
		return p.URL
	case "author":
		return p.Author
	case "language":
		return p.Language
	case "source":
		return p.Source
	default:
		return ""
	}
}

// Ratio computes the Ratcliff/Obershelp similarity of two strings,
// case-insensitively: twice the total length of matching blocks divided by
// the combined length. Symmetric, in [0,1].
func Ratio(a, b string) float64 {
	al := strings.ToLower(a)
	bl := strings.ToLower(b)
	// Canonical argument order keeps the metric exactly symmetric even when
	// tie-breaking in longestMatch would otherwise pick different blocks.
	if bl < al {
		al, bl = bl, al
	}
	left := []rune(al)
	right := []rune(bl)

	total := len(left) + len(right)
	if total == 0 {
		return 1
	}
	matched := matchingBlocks(left, right, 0, len(left), 0, len(right))
	return 2 * float64(matched) / float64(total)
}

// matchingBlocks sums matching-block lengths: find the longest common
// substring, then recurse into the pieces to its left and right.
func matchingBlocks(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingBlocks(a, b, alo, i, blo, j) +
		matchingBlocks(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest matching block in a[alo:ahi] and
// b[blo:bhi], preferring the earliest position in a, then in b, on ties.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the match ending at a[i-1], b[j-1].
	j2len := make(map[int]int, bhi-blo)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int, bhi-blo)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestsize
}
