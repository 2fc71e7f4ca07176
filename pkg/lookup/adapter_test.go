package lookup

import (
	"testing"

	"dictdoy/pkg/dictionary"

	"github.com/stretchr/testify/assert"
)

type stubDictionary struct {
	entries map[string][]dictionary.Entry
	calls   []string
}

func (d *stubDictionary) Query(text string) ([]dictionary.Entry, bool) {
	d.calls = append(d.calls, text)
	entries, ok := d.entries[text]
	return entries, ok
}

var (
	nihao = dictionary.Entry{Simplified: "你好", PinyinMarks: "nǐhǎo", English: []string{"hello"}, HSK: 1}
	wei   = dictionary.Entry{Simplified: "喂", PinyinMarks: "wèi", English: []string{"hello (when answering the phone)", "hey"}, HSK: 1}
)

func TestAdapter_Lookup(t *testing.T) {
	dict := &stubDictionary{entries: map[string][]dictionary.Entry{
		"hello":      {nihao, wei},
		"restaurant": {},
	}}

	tests := []struct {
		name      string
		query     string
		want      []dictionary.Entry
		wantQuery string
	}{
		{
			name:      "matches keep dictionary order",
			query:     "hello",
			want:      []dictionary.Entry{nihao, wei},
			wantQuery: "hello",
		},
		{
			name:      "surrounding whitespace is trimmed",
			query:     "  hello\t",
			want:      []dictionary.Entry{nihao, wei},
			wantQuery: "hello",
		},
		{
			name:      "absent word",
			query:     "xyzzy",
			want:      []dictionary.Entry{},
			wantQuery: "xyzzy",
		},
		{
			name:      "present with empty list",
			query:     "restaurant",
			want:      []dictionary.Entry{},
			wantQuery: "restaurant",
		},
		{
			name:  "empty query skips the dictionary",
			query: "",
			want:  []dictionary.Entry{},
		},
		{
			name:  "blank query skips the dictionary",
			query: "   ",
			want:  []dictionary.Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict.calls = nil
			got := NewAdapter(dict).Lookup(tt.query)

			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			if tt.wantQuery == "" {
				assert.Empty(t, dict.calls)
			} else {
				assert.Equal(t, []string{tt.wantQuery}, dict.calls)
			}
		})
	}
}

func TestAdapter_Search(t *testing.T) {
	dict := &stubDictionary{entries: map[string][]dictionary.Entry{
		"hello": {nihao},
	}}
	adapter := NewAdapter(dict)

	tests := []struct {
		name  string
		query string
		want  Result
	}{
		{
			name:  "blank",
			query: " ",
			want:  Result{Kind: NotYetSearched},
		},
		{
			name:  "no matches",
			query: "xyzzy ",
			want:  Result{Query: "xyzzy", Kind: NoMatches},
		},
		{
			name:  "matches",
			query: "hello",
			want:  Result{Query: "hello", Kind: HasMatches, Entries: []dictionary.Entry{nihao}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adapter.Search(tt.query))
		})
	}
}

func TestAdapter_LookupWithDictionary(t *testing.T) {
	dict := dictionary.New([]dictionary.Entry{
		{Traditional: "你好", Simplified: "你好", PinyinMarks: "nǐhǎo", English: []string{"hello"}},
	}, dictionary.HSKLevels{"你好": 1})

	got := NewAdapter(dict).Lookup("hello")

	assert.Equal(t, []dictionary.Entry{
		{Traditional: "你好", Simplified: "你好", PinyinMarks: "nǐhǎo", English: []string{"hello"}, HSK: 1},
	}, got)
	assert.Empty(t, NewAdapter(dict).Lookup("goodbye"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not-yet-searched", NotYetSearched.String())
	assert.Equal(t, "no-matches", NoMatches.String())
	assert.Equal(t, "has-matches", HasMatches.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
