package dictionary

import (
	"sort"
	"strings"
	"unicode"
)

// Dictionary is an immutable in-memory index over dictionary entries.
// It is safe for concurrent use.
type Dictionary struct {
	entries    []Entry
	byHeadword map[string][]int
	byWord     map[string][]int
}

// New builds the index. HSK levels are applied by simplified headword; levels
// may be nil.
func New(entries []Entry, levels HSKLevels) *Dictionary {
	d := &Dictionary{
		entries:    make([]Entry, len(entries)),
		byHeadword: make(map[string][]int),
		byWord:     make(map[string][]int),
	}
	copy(d.entries, entries)

	for id := range d.entries {
		entry := &d.entries[id]
		if level, ok := levels[entry.Simplified]; ok {
			entry.HSK = level
		}

		d.byHeadword[entry.Simplified] = append(d.byHeadword[entry.Simplified], id)
		if entry.Traditional != entry.Simplified {
			d.byHeadword[entry.Traditional] = append(d.byHeadword[entry.Traditional], id)
		}

		for _, gloss := range entry.English {
			for _, token := range tokenize(gloss) {
				postings := d.byWord[token]
				if n := len(postings); n > 0 && postings[n-1] == id {
					continue
				}
				d.byWord[token] = append(postings, id)
			}
		}
	}
	return d
}

// Len returns the number of indexed entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Query looks text up. Chinese text is matched against headwords, anything
// else against the words of the English glosses. found is false when the
// index knows nothing about the text; it is true with an empty result when
// the words are known but no single gloss contains all of them.
func (d *Dictionary) Query(text string) (entries []Entry, found bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	if containsHan(text) {
		ids, ok := d.byHeadword[text]
		if !ok {
			return nil, false
		}
		return d.collect(ids), true
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, false
	}

	known := false
	var candidates []int
	for i, token := range tokens {
		postings, ok := d.byWord[token]
		if ok {
			known = true
		}
		if i == 0 {
			candidates = postings
			continue
		}
		candidates = intersect(candidates, postings)
	}
	if !known {
		return nil, false
	}

	key := glossKey(text)
	type ranked struct {
		id    int
		exact bool
	}
	var matches []ranked
	for _, id := range candidates {
		exact, ok := d.matchGloss(id, tokens, key)
		if ok {
			matches = append(matches, ranked{id: id, exact: exact})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.exact != b.exact {
			return a.exact
		}
		return levelRank(d.entries[a.id].HSK) < levelRank(d.entries[b.id].HSK)
	})

	entries = make([]Entry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, d.entries[m.id])
	}
	return entries, true
}

// matchGloss reports whether one gloss of the entry holds every token, and
// whether some gloss equals the query outright.
func (d *Dictionary) matchGloss(id int, tokens []string, key string) (exact, ok bool) {
	for _, gloss := range d.entries[id].English {
		if glossKey(gloss) == key {
			return true, true
		}
		if !ok && containsAll(tokenize(gloss), tokens) {
			ok = true
		}
	}
	return false, ok
}

func (d *Dictionary) collect(ids []int) []Entry {
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, d.entries[id])
	}
	return entries
}

func levelRank(level int) int {
	if level <= 0 {
		return 1 << 10
	}
	return level
}

// glossKey normalises a gloss for exact comparison: lower case, without
// parenthesised notes and without the "to " of verbs.
func glossKey(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	key := strings.Join(strings.Fields(b.String()), " ")
	return strings.TrimPrefix(key, "to ")
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func containsAll(haystack, needles []string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, h := range haystack {
		set[h] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

// intersect merges two ascending posting lists.
func intersect(a, b []int) []int {
	var out []int
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
