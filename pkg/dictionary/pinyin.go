package dictionary

import (
	"strings"
	"unicode"
)

var toneTable = map[rune][4]rune{
	'a': {'ā', 'á', 'ǎ', 'à'},
	'e': {'ē', 'é', 'ě', 'è'},
	'i': {'ī', 'í', 'ǐ', 'ì'},
	'o': {'ō', 'ó', 'ǒ', 'ò'},
	'u': {'ū', 'ú', 'ǔ', 'ù'},
	'ü': {'ǖ', 'ǘ', 'ǚ', 'ǜ'},
	'A': {'Ā', 'Á', 'Ǎ', 'À'},
	'E': {'Ē', 'É', 'Ě', 'È'},
	'I': {'Ī', 'Í', 'Ǐ', 'Ì'},
	'O': {'Ō', 'Ó', 'Ǒ', 'Ò'},
	'U': {'Ū', 'Ú', 'Ǔ', 'Ù'},
	'Ü': {'Ǖ', 'Ǘ', 'Ǚ', 'Ǜ'},
}

var umlaut = strings.NewReplacer("u:", "ü", "U:", "Ü", "v", "ü")

// ToneMarks converts numbered pinyin ("ni3 hao3") to pinyin with tone marks
// ("nǐ hǎo"). Syllables without a trailing tone digit are kept as they are.
func ToneMarks(pinyin string) string {
	fields := strings.Fields(pinyin)
	for i, syllable := range fields {
		fields[i] = markSyllable(syllable)
	}
	return strings.Join(fields, " ")
}

func markSyllable(s string) string {
	if s == "" {
		return s
	}
	last := s[len(s)-1]
	if last < '1' || last > '5' {
		return s
	}

	body := []rune(umlaut.Replace(s[:len(s)-1]))
	tone := int(last - '0')
	if tone == 5 {
		return string(body)
	}
	if i := markIndex(body); i >= 0 {
		body[i] = toneTable[body[i]][tone-1]
	}
	return string(body)
}

// markIndex picks the vowel carrying the tone: a or e first, the o of "ou",
// otherwise the last vowel.
func markIndex(body []rune) int {
	lower := make([]rune, len(body))
	for i, r := range body {
		lower[i] = unicode.ToLower(r)
	}

	for i, r := range lower {
		if r == 'a' || r == 'e' {
			return i
		}
	}
	for i := 0; i+1 < len(lower); i++ {
		if lower[i] == 'o' && lower[i+1] == 'u' {
			return i
		}
	}
	for i := len(lower) - 1; i >= 0; i-- {
		if _, ok := toneTable[lower[i]]; ok {
			return i
		}
	}
	return -1
}
