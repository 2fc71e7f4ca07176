package lookup

import (
	"errors"
	"strings"

	"dictdoy/pkg/dictionary"
)

// ErrNoMatches is returned by front ends that treat an empty result as a failure.
var ErrNoMatches = errors.New("no matching dictionary entries")

// Querier is the dictionary call the adapter wraps. found is false when the
// dictionary has nothing for the text at all.
type Querier interface {
	Query(text string) (entries []dictionary.Entry, found bool)
}

// Adapter turns free text into an ordered, possibly empty list of entries.
type Adapter struct {
	dict Querier
}

func NewAdapter(dict Querier) *Adapter {
	return &Adapter{dict: dict}
}

// Lookup trims the query and returns the dictionary's entries in the
// dictionary's order. Blank queries, unknown words and known words without
// entries all give an empty slice.
func (a *Adapter) Lookup(query string) []dictionary.Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dictionary.Entry{}
	}
	entries, found := a.dict.Query(query)
	if !found || len(entries) == 0 {
		return []dictionary.Entry{}
	}
	return entries
}

// Search is Lookup with the outcome spelled out.
func (a *Adapter) Search(query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Kind: NotYetSearched}
	}
	return NewResult(query, a.Lookup(query))
}
