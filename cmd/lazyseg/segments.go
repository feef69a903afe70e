package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rebeliceyang/lazyseg/internal/export"
	"github.com/spf13/cobra"
)

func newSegmentsCmd() *cobra.Command {
	segmentsCmd := &cobra.Command{
		Use:     "segments",
		Aliases: []string{"seg"},
		Short:   "Manage the saved segment library",
	}

	segmentsCmd.AddCommand(
		newSegmentsListCmd(),
		newSegmentsShowCmd(),
		newSegmentsDeleteCmd(),
		newSegmentsExportCmd(),
	)
	return segmentsCmd
}

func newSegmentsListCmd() *cobra.Command {
	var query string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved segments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(cmd.ErrOrStderr())
			closeLog, err := setupCLILogging(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			library, err := openLibrary(cfg)
			if err != nil {
				return err
			}

			saved := library.Search(query)
			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved segments.")
				return nil
			}

			rows := make([][]string, 0, len(saved))
			for _, s := range saved {
				lastUsed := "never"
				if !s.LastUsed.IsZero() {
					lastUsed = s.LastUsed.Local().Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					s.Name,
					strconv.Itoa(s.Segment.FilterCount()),
					strconv.Itoa(s.UseCount),
					lastUsed,
					s.Summary,
				})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NAME", "FILTERS", "USES", "LAST USED", "SUMMARY").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	listCmd.Flags().StringVarP(&query, "search", "q", "", "only list segments whose name or summary matches")
	return listCmd
}

func newSegmentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved segment with its SQL and JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.ErrOrStderr())
			closeLog, err := setupCLILogging(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			library, err := openLibrary(cfg)
			if err != nil {
				return err
			}

			saved, err := library.FindByName(args[0])
			if err != nil {
				return err
			}
			segJSON, err := export.SegmentJSON(saved.Segment)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:    %s\n", saved.Name)
			fmt.Fprintf(out, "ID:      %s\n", saved.ID)
			fmt.Fprintf(out, "Summary: %s\n", saved.Summary)
			if saved.SQL != "" {
				fmt.Fprintf(out, "SQL:     %s\n", saved.SQL)
			}
			fmt.Fprintf(out, "\n%s\n", segJSON)
			return nil
		},
	}
}

func newSegmentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.ErrOrStderr())
			closeLog, err := setupCLILogging(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			library, err := openLibrary(cfg)
			if err != nil {
				return err
			}

			saved, err := library.FindByName(args[0])
			if err != nil {
				return err
			}
			if err := library.Delete(saved.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", saved.Name)
			return nil
		},
	}
}

func newSegmentsExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the segment library to CSV or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(cmd.ErrOrStderr())
			closeLog, err := setupCLILogging(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			library, err := openLibrary(cfg)
			if err != nil {
				return err
			}

			var paths []string
			if output != "" {
				paths = append(paths, output)
			}

			var path string
			switch strings.ToLower(format) {
			case "csv":
				path, err = library.ExportToCSV(paths...)
			case "json":
				path, err = library.ExportToJSON(paths...)
			default:
				return fmt.Errorf("unknown export format %q (want csv or json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d segments to %s\n", len(library.GetAll()), path)
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "export format: csv or json")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default is next to the library)")
	return exportCmd
}
