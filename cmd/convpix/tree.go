package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slusenc/convpix/pkg/types"
)

var treeCmd = &cobra.Command{
	Use:   "tree [subpath]",
	Short: "Recursively list the archive tree",
	Long: `Tree walks the merged archive tree from the given subpath (default "/")
and prints every directory with its entries. Each level of depth costs one
converter invocation, so --depth keeps large archives manageable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().Int("depth", -1, "maximum recursion depth (-1 for unlimited)")

	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
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
	depth, _ := cmd.Flags().GetInt("depth")
	out := cmd.OutOrStdout()

	err = runner.Walk(bases, subpath, depth, func(l types.Listing) error {
		fmt.Fprintf(out, "%s:\n", l.Subpath)
		for _, dir := range l.Dirs {
			fmt.Fprintf(out, "  %s/\n", dir)
		}
		for _, file := range l.Files {
			fmt.Fprintf(out, "  %s\n", file)
		}
		return nil
	})
	if err != nil {
		return converterError(err)
	}
	return nil
}
