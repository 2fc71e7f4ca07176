package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const measureWordPrefix = "CL:"

// ParseLine parses one CC-CEDICT line of the form
//
//	Traditional Simplified [pin1 yin1] /gloss/gloss/
//
// ok is false for blank lines, comments and anything malformed.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return Entry{}, false
	}

	open := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if open < 0 || end < open {
		return Entry{}, false
	}

	characters := strings.Fields(line[:open])
	if len(characters) < 2 {
		return Entry{}, false
	}

	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, "/") {
		return Entry{}, false
	}

	var english, measureWords []string
	for _, gloss := range strings.Split(strings.Trim(rest, "/"), "/") {
		gloss = strings.TrimSpace(gloss)
		if gloss == "" {
			continue
		}
		if strings.HasPrefix(gloss, measureWordPrefix) {
			measureWords = append(measureWords, parseMeasureWords(gloss[len(measureWordPrefix):])...)
			continue
		}
		english = append(english, gloss)
	}
	if len(english) == 0 {
		return Entry{}, false
	}

	numbers := strings.TrimSpace(line[open+1 : end])
	return Entry{
		Traditional:   characters[0],
		Simplified:    characters[1],
		PinyinNumbers: numbers,
		PinyinMarks:   ToneMarks(numbers),
		English:       english,
		MeasureWords:  measureWords,
	}, true
}

// parseMeasureWords turns "個|个[ge4],隻|只[zhi1]" into the simplified
// classifiers "个" and "只".
func parseMeasureWords(s string) []string {
	var words []string
	for _, part := range strings.Split(s, ",") {
		if i := strings.Index(part, "["); i >= 0 {
			part = part[:i]
		}
		if i := strings.LastIndex(part, "|"); i >= 0 {
			part = part[i+1:]
		}
		if part = strings.TrimSpace(part); part != "" {
			words = append(words, part)
		}
	}
	return words
}

// Parse reads CC-CEDICT data, skipping lines it cannot understand. Entries
// keep the order of the source.
func Parse(ctx context.Context, r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if entry, ok := ParseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary at line %d: %w", lineNo, err)
	}
	return entries, nil
}
