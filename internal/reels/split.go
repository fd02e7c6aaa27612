package reels

import "strings"

// SplitSentences cuts a script into narration sentences. Text is split at
// sentence punctuation and newlines, then fragments shorter than minChars are
// merged with their neighbors so the synthesizer gets naturally sized chunks.
func SplitSentences(text string, minChars int) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	// Merge runs of short sentences up to the minimum chunk size.
	var merged []string
	var chunk string
	for _, sentence := range sentences {
		if len(chunk)+len(sentence) < minChars {
			if chunk == "" {
				chunk = sentence
			} else {
				chunk += " " + sentence
			}
			continue
		}
		if chunk != "" {
			merged = append(merged, chunk)
		}
		chunk = sentence
	}
	if chunk != "" {
		merged = append(merged, chunk)
	}

	for i, s := range merged {
		merged[i] = strings.ReplaceAll(s, "\n", " ")
	}
	return merged
}
