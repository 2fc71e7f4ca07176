package render

import (
	"fmt"
	"io"
	"strings"

	"dictdoy/pkg/lookup"

	"github.com/fatih/color"
)

const (
	WelcomeText   = "welcome to Dictdoy,\nan experimental Chinese dictionary!"
	NoMatchesText = "Search some english word"
	SearchingText = "Searching..."
)

// Block is one dictionary entry ready for display.
type Block struct {
	Headword     string
	Traditional  string
	Phonetic     string
	Glosses      []string
	MeasureWords []string
	HSK          int
}

// View is what a front end draws: either Blocks or, when there are none, a
// Placeholder line.
type View struct {
	Placeholder string
	Blocks      []Block
}

// Layout builds the view for res. It does not modify res.
func Layout(res lookup.Result) View {
	if res.Kind != lookup.HasMatches || len(res.Entries) == 0 {
		if res.Kind == lookup.NotYetSearched {
			return View{Placeholder: WelcomeText}
		}
		if res.Pending {
			return View{Placeholder: SearchingText}
		}
		return View{Placeholder: NoMatchesText}
	}

	blocks := make([]Block, 0, len(res.Entries))
	for _, e := range res.Entries {
		b := Block{
			Headword: e.Simplified,
			Phonetic: e.PinyinMarks,
			Glosses:  append([]string(nil), e.English...),
			HSK:      e.HSK,
		}
		if e.Traditional != e.Simplified {
			b.Traditional = e.Traditional
		}
		if len(e.MeasureWords) > 0 {
			b.MeasureWords = append([]string(nil), e.MeasureWords...)
		}
		blocks = append(blocks, b)
	}
	return View{Blocks: blocks}
}

var (
	headwordColor = color.New(color.Bold)
	phoneticColor = color.New(color.FgRed)
	labelColor    = color.New(color.FgCyan)
	mutedColor    = color.New(color.Faint)
)

// WriteText prints the view for a terminal.
func WriteText(w io.Writer, v View) error {
	if len(v.Blocks) == 0 {
		_, err := mutedColor.Fprintln(w, v.Placeholder)
		return err
	}

	if _, err := fmt.Fprintln(w, "results"); err != nil {
		return err
	}
	for _, b := range v.Blocks {
		headword := b.Headword
		if b.Traditional != "" {
			headword = fmt.Sprintf("%s (%s)", b.Headword, b.Traditional)
		}
		fields := []struct {
			label string
			value string
			c     *color.Color
		}{
			{"Simplified", headword, headwordColor},
			{"Pinyin Marks", b.Phonetic, phoneticColor},
			{"English", strings.Join(b.Glosses, "; "), nil},
			{"Measure Words", strings.Join(b.MeasureWords, ", "), nil},
			{"HSK", hskLabel(b.HSK), nil},
		}
		for _, f := range fields {
			if _, err := labelColor.Fprintf(w, "%s: ", f.label); err != nil {
				return err
			}
			value := f.value
			if f.c != nil {
				value = f.c.Sprint(value)
			}
			if _, err := fmt.Fprintln(w, value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func hskLabel(level int) string {
	if level == 0 {
		return "-"
	}
	return fmt.Sprint(level)
}
