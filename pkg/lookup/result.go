package lookup

import "dictdoy/pkg/dictionary"

// Kind tells a front end which of the three screens to show.
type Kind int

const (
	NotYetSearched Kind = iota
	NoMatches
	HasMatches
)

func (k Kind) String() string {
	switch k {
	case NotYetSearched:
		return "not-yet-searched"
	case NoMatches:
		return "no-matches"
	case HasMatches:
		return "has-matches"
	default:
		return "unknown"
	}
}

// Result is the answer to one query. Entries is empty unless Kind is
// HasMatches. Pending marks a NoMatches result that a running fallback may
// still replace.
type Result struct {
	Query   string
	Kind    Kind
	Entries []dictionary.Entry
	Pending bool
}

// NewResult classifies entries found for query.
func NewResult(query string, entries []dictionary.Entry) Result {
	if query == "" {
		return Result{Kind: NotYetSearched}
	}
	if len(entries) == 0 {
		return Result{Query: query, Kind: NoMatches}
	}
	return Result{Query: query, Kind: HasMatches, Entries: entries}
}
