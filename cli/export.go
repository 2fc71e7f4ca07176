package main

import (
	"fmt"
	"strings"
	"sync"

	"dictdoy/pkg/export"
	"dictdoy/pkg/lookup"

	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentLookups = 4

func newExportCommand() *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "export word...",
		Short: "Write the entries for one or more words to an xlsx workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.HasSuffix(strings.ToLower(output), ".xlsx") {
				return fmt.Errorf("output file must have the .xlsx extension: %s", output)
			}

			svc, err := loadServices(cmd)
			if err != nil {
				return err
			}

			found := make([][]export.Row, len(args))
			var wg sync.WaitGroup
			// 限制并发数，回退查询会访问网络
			sem := semaphore.NewWeighted(maxConcurrentLookups)
			wg.Add(len(args))
			for i, word := range args {
				go func(i int, word string) {
					defer wg.Done()
					if err := sem.Acquire(cmd.Context(), 1); err != nil {
						return
					}
					defer sem.Release(1)

					entries := search(cmd.Context(), svc, word)
					if len(entries) == 0 {
						svc.Logger.Warnf("No entries for %q", word)
						return
					}
					found[i] = export.Rows(strings.TrimSpace(word), entries)
				}(i, word)
			}
			wg.Wait()
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			var rows []export.Row
			for _, r := range found {
				rows = append(rows, r...)
			}
			if len(rows) == 0 {
				return fmt.Errorf("%s: %w", strings.Join(args, ", "), lookup.ErrNoMatches)
			}

			if err := export.SaveXLSX(output, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(rows), output)
			return nil
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "dictdoy.xlsx", "workbook to write")
	return command
}
