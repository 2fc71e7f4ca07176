package dictionary

// Entry is a single dictionary record. Entries are values handed out by the
// index; callers never modify them.
type Entry struct {
	Traditional   string   `toml:"traditional" json:"traditional"`
	Simplified    string   `toml:"simplified" json:"simplified"`
	PinyinNumbers string   `toml:"pinyin_numbers" json:"pinyin_numbers"`
	PinyinMarks   string   `toml:"pinyin_marks" json:"pinyin_marks"`
	English       []string `toml:"english,omitempty" json:"english"`
	MeasureWords  []string `toml:"measure_words,omitempty" json:"measure_words,omitempty"`
	HSK           int      `toml:"hsk,omitempty" json:"hsk,omitempty"` // 0 when unclassified
}
