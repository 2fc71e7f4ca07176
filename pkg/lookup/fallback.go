package lookup

import (
	"context"

	"dictdoy/pkg/dictionary"
)

//go:generate mockgen -source=fallback.go -destination=../mocks/lookup/mock_fallback.go -package=mock_lookup

// Fallback suggests entries for queries the dictionary does not know.
type Fallback interface {
	Suggest(ctx context.Context, query string) ([]dictionary.Entry, error)
}
