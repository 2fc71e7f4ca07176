package state

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/logger"
	"dictdoy/pkg/lookup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state AppState
	}{
		{
			name:  "defaults",
			state: Default(),
		},
		{
			name: "query without results",
			state: AppState{
				Query: "xyzzy",
				Theme: ThemeDark,
			},
		},
		{
			name: "query with results",
			state: AppState{
				Query: "hello",
				Results: []dictionary.Entry{
					{
						Traditional:   "你好",
						Simplified:    "你好",
						PinyinNumbers: "ni3 hao3",
						PinyinMarks:   "nǐ hǎo",
						English:       []string{"hello", "hi"},
						HSK:           1,
					},
					{
						Traditional:   "朋友",
						Simplified:    "朋友",
						PinyinNumbers: "peng2 you5",
						PinyinMarks:   "péng you",
						English:       []string{"friend"},
						MeasureWords:  []string{"个", "位"},
					},
				},
				Theme: ThemeLight,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.state)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		want    AppState
		wantErr bool
	}{
		{
			name: "empty blob",
			blob: "",
			want: Default(),
		},
		{
			name: "blob from a version without results and theme",
			blob: `query = "hello"`,
			want: AppState{Query: "hello", Theme: ThemeLight},
		},
		{
			name: "unknown fields are ignored",
			blob: "query = \"cat\"\nwindow_width = 300\n",
			want: AppState{Query: "cat", Theme: ThemeLight},
		},
		{
			name: "unknown theme falls back",
			blob: "theme = \"solarized\"\n",
			want: Default(),
		},
		{
			name:    "malformed blob",
			blob:    "query = ",
			want:    Default(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.blob))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore(t *testing.T) {
	log := logger.New(io.Discard, 10)

	t.Run("missing file", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), FileName), log)
		assert.Equal(t, Default(), store.Load())
	})

	t.Run("save then load", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "nested", FileName), log)
		want := AppState{
			Query: "cat",
			Results: []dictionary.Entry{
				{Traditional: "貓", Simplified: "猫", PinyinMarks: "māo", English: []string{"cat"}, MeasureWords: []string{"只"}, HSK: 1},
			},
			Theme: ThemeDark,
		}
		require.NoError(t, store.Save(want))
		assert.Equal(t, want, store.Load())

		entries, err := os.ReadDir(filepath.Dir(store.Path()))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary files are cleaned up")
	})

	t.Run("corrupt file is recovered silently", func(t *testing.T) {
		for _, blob := range []string{"[[[ not toml", "query = "} {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))
			l := logger.New(io.Discard, 10)
			store := NewStore(path, l)

			assert.Equal(t, Default(), store.Load())
			assert.Empty(t, l.LastProblem(), "nothing for the status bar")
			assert.Empty(t, l.GetLogs(), "not recorded at the default level")

			l.SetLevel(logger.DEBUG)
			store.Load()
			require.Len(t, l.GetLogs(), 1)
			assert.Contains(t, l.GetLogs()[0], "[DEBUG] Ignoring state file")
		}
	})

	t.Run("unreadable file is recovered silently", func(t *testing.T) {
		l := logger.New(io.Discard, 10)
		store := NewStore(t.TempDir(), l) // a directory, not a file

		assert.Equal(t, Default(), store.Load())
		assert.Empty(t, l.LastProblem())
	})
}

func TestSnapshot(t *testing.T) {
	nihao := dictionary.Entry{Traditional: "你好", Simplified: "你好", PinyinMarks: "nǐ hǎo", English: []string{"hello"}, HSK: 1}

	tests := []struct {
		name   string
		result lookup.Result
		want   AppState
	}{
		{
			name:   "matches",
			result: lookup.NewResult("hello", []dictionary.Entry{nihao}),
			want:   AppState{Query: "hello", Results: []dictionary.Entry{nihao}, Theme: ThemeDark},
		},
		{
			name:   "fallback still running",
			result: lookup.Result{Query: "quantum", Kind: lookup.NoMatches, Pending: true},
			want:   AppState{Query: "quantum", Theme: ThemeDark},
		},
		{
			name:   "not yet searched",
			result: lookup.NewResult("", nil),
			want:   AppState{Theme: ThemeDark},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snapshot(tt.result, ThemeDark)
			assert.Equal(t, tt.want, got)

			restored := got.Result()
			assert.Equal(t, tt.result.Query, restored.Query)
			assert.Equal(t, tt.result.Entries, restored.Entries)
			assert.False(t, restored.Pending)
		})
	}
}

func TestAppState_ResultNeverPairsQueryWithOtherEntries(t *testing.T) {
	// entries for "hello" were on screen when the user typed "quantum"; the
	// saved state follows the displayed result
	pending := lookup.Result{Query: "quantum", Kind: lookup.NoMatches, Pending: true}

	restored := Snapshot(pending, ThemeLight).Result()

	assert.Equal(t, lookup.NoMatches, restored.Kind)
	assert.Equal(t, "quantum", restored.Query)
	assert.Empty(t, restored.Entries)
}
