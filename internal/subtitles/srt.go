// Package subtitles generates SRT subtitle files for a reel from the
// narration sentences and their measured durations, then equalizes the result
// into short word-sized lines for burn-in.
package subtitles

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// MaxLineChars is the equalized line length: long sentences are re-cut into
// lines at most this wide, with timing split proportionally.
const MaxLineChars = 15

// Cue is one subtitle entry.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Generate builds evenly timed cues: sentence i spans its measured narration
// duration, starting where sentence i-1 ended.
func Generate(sentences []string, durations []time.Duration) ([]Cue, error) {
	if len(sentences) != len(durations) {
		return nil, fmt.Errorf("sentence/duration count mismatch: %d vs %d", len(sentences), len(durations))
	}

	cues := make([]Cue, 0, len(sentences))
	var start time.Duration
	for i, sentence := range sentences {
		end := start + durations[i]
		cues = append(cues, Cue{Start: start, End: end, Text: sentence})
		start = end
	}
	return cues, nil
}

// Equalize re-cuts cues so no line exceeds maxChars, splitting each cue's
// duration proportionally to the characters in each piece. Words longer than
// maxChars stay whole on their own line.
func Equalize(cues []Cue, maxChars int) []Cue {
	var out []Cue
	for _, cue := range cues {
		lines := splitLine(cue.Text, maxChars)
		if len(lines) <= 1 {
			out = append(out, cue)
			continue
		}

		total := 0
		for _, l := range lines {
			total += len(l)
		}

		start := cue.Start
		span := cue.End - cue.Start
		for i, line := range lines {
			end := start + time.Duration(float64(span)*float64(len(line))/float64(total))
			if i == len(lines)-1 {
				end = cue.End
			}
			out = append(out, Cue{Start: start, End: end, Text: line})
			start = end
		}
	}
	return out
}

// splitLine greedily packs words into lines of at most maxChars.
func splitLine(text string, maxChars int) []string {
	words := strings.Fields(text)
	var lines []string
	var current string

	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxChars:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// Format renders cues as an SRT document.
func Format(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n", i+1, formatTimestamp(cue.Start), formatTimestamp(cue.End), cue.Text)
		if i < len(cues)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WriteFile generates, equalizes and writes the subtitle file for a reel.
func WriteFile(path string, sentences []string, durations []time.Duration) error {
	cues, err := Generate(sentences, durations)
	if err != nil {
		return err
	}
	cues = Equalize(cues, MaxLineChars)

	if err := os.WriteFile(path, []byte(Format(cues)), 0o644); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}
	log.Printf("[Subtitles] wrote %d cues to %s", len(cues), path)
	return nil
}

// formatTimestamp renders an SRT timestamp: HH:MM:SS,mmm.
func formatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		ms/3600000, (ms/60000)%60, (ms/1000)%60, ms%1000)
}
