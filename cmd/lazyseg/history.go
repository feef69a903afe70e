package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		query string
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently saved segments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(cmd.ErrOrStderr())
			closeLog, err := setupCLILogging(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Search(query, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.SavedAt.Local().Format("2006-01-02 15:04:05"),
					e.SegmentName,
					strconv.Itoa(e.FilterCount),
					e.WhereSQL,
				})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("SAVED", "NAME", "FILTERS", "SQL").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().StringVarP(&query, "search", "q", "", "filter by segment name or SQL")
	return historyCmd
}
