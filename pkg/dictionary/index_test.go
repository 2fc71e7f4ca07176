package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Traditional: "你好", Simplified: "你好", PinyinMarks: "nǐ hǎo", English: []string{"hello", "hi"}},
		{Traditional: "哈囉", Simplified: "哈啰", PinyinMarks: "hā luō", English: []string{"hello (loanword)"}},
		{Traditional: "喂", Simplified: "喂", PinyinMarks: "wèi", English: []string{"hello (when answering the phone)", "hey"}},
		{Traditional: "謝謝", Simplified: "谢谢", PinyinMarks: "xiè xie", English: []string{"to thank", "thank you"}},
		{Traditional: "吃", Simplified: "吃", PinyinMarks: "chī", English: []string{"to eat", "to consume"}},
		{Traditional: "飯館", Simplified: "饭馆", PinyinMarks: "fàn guǎn", English: []string{"restaurant"}},
	}
}

func simplified(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Simplified)
	}
	return out
}

func TestDictionary_Query(t *testing.T) {
	d := New(testEntries(), HSKLevels{"你好": 1, "喂": 1, "谢谢": 1, "吃": 1})

	tests := []struct {
		name      string
		query     string
		want      []string
		wantFound bool
	}{
		{
			name:      "exact gloss matches come first, then HSK level",
			query:     "hello",
			want:      []string{"你好", "喂", "哈啰"},
			wantFound: true,
		},
		{
			name:      "case and surrounding spaces are ignored",
			query:     "  HELLO ",
			want:      []string{"你好", "喂", "哈啰"},
			wantFound: true,
		},
		{
			name:      "verb glosses match without to",
			query:     "eat",
			want:      []string{"吃"},
			wantFound: true,
		},
		{
			name:      "several words must share one gloss",
			query:     "thank you",
			want:      []string{"谢谢"},
			wantFound: true,
		},
		{
			name:      "simplified headword",
			query:     "谢谢",
			want:      []string{"谢谢"},
			wantFound: true,
		},
		{
			name:      "traditional headword",
			query:     "飯館",
			want:      []string{"饭馆"},
			wantFound: true,
		},
		{
			name:      "known words without a shared gloss",
			query:     "hello restaurant",
			want:      []string{},
			wantFound: true,
		},
		{
			name:      "unknown word",
			query:     "xyzzy",
			wantFound: false,
		},
		{
			name:      "unknown headword",
			query:     "龍",
			wantFound: false,
		},
		{
			name:      "empty",
			query:     "",
			wantFound: false,
		},
		{
			name:      "punctuation only",
			query:     "?!",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, found := d.Query(tt.query)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.want, simplified(entries))
			} else {
				assert.Empty(t, entries)
			}
		})
	}
}

func TestNew_AppliesHSKLevels(t *testing.T) {
	d := New(testEntries(), HSKLevels{"你好": 1})
	require.Equal(t, 6, d.Len())

	entries, found := d.Query("你好")
	require.True(t, found)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].HSK)

	entries, found = d.Query("哈啰")
	require.True(t, found)
	assert.Equal(t, 0, entries[0].HSK)
}

func TestNew_DoesNotShareInput(t *testing.T) {
	input := testEntries()
	d := New(input, nil)
	input[0].Simplified = "changed"

	entries, found := d.Query("你好")
	require.True(t, found)
	assert.Equal(t, "你好", entries[0].Simplified)
}
