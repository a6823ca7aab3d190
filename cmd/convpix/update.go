package main

import (
	"github.com/spf13/cobra"

	"github.com/slusenc/convpix/internal/update"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download the latest ConverterPIX binary",
	Long: `Update downloads the ConverterPIX binary for this OS into the user cache
and marks it executable. Not sure your ConverterPIX is up to date? Run this.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return update.Refresh(cmd.Context(), updateConfig(), true, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
