package indexer

import "strings"

// DefaultMaxLen is the chunk threshold in runes. Content up to this length is
// stored as a single row.
const DefaultMaxLen = 1500

// ChunkText splits text into trimmed, non-empty pieces of at most maxLen
// runes. It prefers to break at the last paragraph break ("\n\n") at or
// before maxLen, then at the last line break, and cuts hard at maxLen when
// either would leave a piece shorter than half of maxLen. Whitespace-only
// input yields no chunks. A non-positive maxLen disables splitting.
func ChunkText(text string, maxLen int) []string {
	remaining := []rune(strings.TrimSpace(text))
	if len(remaining) == 0 {
		return nil
	}
	if maxLen <= 0 || len(remaining) <= maxLen {
		return []string{string(remaining)}
	}

	minSplit := float64(maxLen) * 0.5
	var chunks []string

	for len(remaining) > maxLen {
		splitAt := lastBreak(remaining, "\n\n", maxLen)
		if float64(splitAt) < minSplit {
			splitAt = lastBreak(remaining, "\n", maxLen)
		}
		if float64(splitAt) < minSplit {
			splitAt = maxLen
		}

		if piece := strings.TrimSpace(string(remaining[:splitAt])); piece != "" {
			chunks = append(chunks, piece)
		}
		remaining = []rune(strings.TrimSpace(string(remaining[splitAt:])))
	}

	if len(remaining) > 0 {
		chunks = append(chunks, string(remaining))
	}
	return chunks
}

// lastBreak returns the index of the last occurrence of sep that starts at or
// before from, or -1.
func lastBreak(r []rune, sep string, from int) int {
	s := []rune(sep)
	start := from
	if start > len(r)-len(s) {
		start = len(r) - len(s)
	}
	for i := start; i >= 0; i-- {
		match := true
		for j := range s {
			if r[i+j] != s[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
