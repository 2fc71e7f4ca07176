package dictionary

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// HSKLevels maps a simplified headword to its HSK level.
type HSKLevels map[string]int

type hskFile struct {
	Levels map[int][]string `yaml:"levels"`
}

// ParseHSK reads a YAML word list:
//
//	levels:
//	  1: [你好, 谢谢]
//	  2: [咖啡]
//
// A word listed on several levels keeps the lowest one.
func ParseHSK(r io.Reader) (HSKLevels, error) {
	var f hskFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode HSK levels: %w", err)
	}

	levels := make(HSKLevels)
	for level, words := range f.Levels {
		if level < 1 {
			return nil, fmt.Errorf("invalid HSK level %d", level)
		}
		for _, word := range words {
			if current, ok := levels[word]; !ok || level < current {
				levels[word] = level
			}
		}
	}
	return levels, nil
}
