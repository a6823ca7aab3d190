package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [subpath]",
	Short: "List one level of the archive tree",
	Long: `Ls lists the directories and files at one subpath of the merged archive
tree, directories first. Without a subpath the archive root "/" is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().String("ext", "*", "only list files with this extension (e.g. .pmg)")

	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	bases, err := baseArchives(cmd)
	if err != nil {
		return err
	}
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	subpath := "/"
	if len(args) == 1 {
		subpath = args[0]
	}

	listing, err := runner.ListDir(bases, subpath)
	if err != nil {
		return converterError(err)
	}

	ext, _ := cmd.Flags().GetString("ext")
	out := cmd.OutOrStdout()

	for _, dir := range listing.Dirs {
		fmt.Fprintf(out, "%s/\n", dir)
	}
	for _, file := range listing.Files {
		if ext != "*" && !strings.HasSuffix(file, ext) {
			continue
		}
		fmt.Fprintln(out, file)
	}
	return nil
}
