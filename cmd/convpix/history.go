package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/slusenc/convpix/internal/converter"
	"github.com/slusenc/convpix/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past extraction runs",
	Long: `History lists recent extraction runs recorded in the local history
database: when they ran, what model they converted, and how many files
were placed. Use --export to dump the full records as YAML.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().String("model", "", "only show runs whose model subpath contains this string")
	historyCmd.Flags().Bool("export", false, "dump matching runs as YAML")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, err := converter.CacheDir()
	if err != nil {
		return err
	}
	s, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	model, _ := cmd.Flags().GetString("model")
	export, _ := cmd.Flags().GetBool("export")
	out := cmd.OutOrStdout()

	if export {
		return s.ExportYAML(cmd.Context(), limit, out)
	}

	runs, err := s.Recent(cmd.Context(), limit, model)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no extraction runs recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(out, "%s  %-6s  %s (%d files)\n",
			run.Time.Local().Format(time.DateTime), run.Status, run.Model, len(run.Files))
	}
	return nil
}
