package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/lookup"
	"dictdoy/pkg/render"
	"dictdoy/pkg/runner"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const prompt = "Welcome to chinese Dictdoy!\nEnter some english word to look up to ..."

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	_          pflag.Value = (*Format)(nil)
	allFormats             = []Format{FormatText, FormatJSON}
)

// Set implements pflag.Value.
func (f *Format) Set(val string) error {
	for _, format := range allFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s", val)
}

// String implements pflag.Value.
func (f Format) String() string {
	return string(f)
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

func newLookupCommand() *cobra.Command {
	format := FormatText
	command := &cobra.Command{
		Use:   "lookup [word...]",
		Short: "Look up an English word or a Chinese headword",
		Long:  "Look up an English word or a Chinese headword. Without arguments one line is read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				fmt.Fprintln(cmd.OutOrStdout(), prompt)
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				query = line
			}

			svc, err := loadServices(cmd)
			if err != nil {
				return err
			}

			entries := search(cmd.Context(), svc, query)
			if len(entries) == 0 {
				return fmt.Errorf("%q: %w", query, lookup.ErrNoMatches)
			}
			return writeEntries(cmd.OutOrStdout(), format, query, entries)
		},
	}
	command.Flags().Var(&format, "format", fmt.Sprintf("output format. Possible values are %v", allFormats))
	return command
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read word: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no word to look up")
	}
	return line, nil
}

// search looks query up in the dictionary and, when that finds nothing, asks
// the fallback if one is configured.
func search(ctx context.Context, svc *runner.Services, query string) []dictionary.Entry {
	entries := svc.Adapter.Lookup(query)
	if len(entries) > 0 || svc.Fallback == nil {
		return entries
	}

	suggested, err := svc.Fallback.Suggest(ctx, query)
	if err != nil {
		svc.Logger.Warnf("Fallback lookup for %q failed: %v", query, err)
		return entries
	}
	return suggested
}

func writeEntries(w io.Writer, format Format, query string, entries []dictionary.Entry) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return render.WriteText(w, render.Layout(lookup.NewResult(query, entries)))
	}
}
