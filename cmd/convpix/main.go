// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convpix CLI, a wrapper around
// the external ConverterPIX binary for browsing and extracting SCS game
// archives.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slusenc/convpix/internal/converter"
	"github.com/slusenc/convpix/internal/secrets"
	"github.com/slusenc/convpix/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "convpix/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the convpix CLI.
var rootCmd = &cobra.Command{
	Use:   "convpix",
	Short: "Browse and extract SCS game archives with ConverterPIX",
	Long: `convpix wraps the external ConverterPIX binary to browse proprietary game
archives (*.scs, *.zip), extract models, animations and textures into a
project tree, and hand converted models to an external import pipeline.

The converter binary is downloaded and cached per user; run "convpix update"
to refresh it manually. Base archives can be given with repeated --base
flags or the "bases" config key; later archives shadow earlier ones, the
same way the game layers mod archives.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convpix.yaml or ~/.config/convpix/config.yaml)")
	rootCmd.PersistentFlags().StringArray("base", nil, "base archive to read from (*.scs, *.zip); repeatable")
	rootCmd.PersistentFlags().String("converter", "", "path to the ConverterPIX binary (default: cached copy)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convpix")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convpix"))
		}
	}

	viper.SetEnvPrefix("CONVPIX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// baseArchives merges repeated --base flags with the configured bases
// list. At least one base archive is required for archive operations.
func baseArchives(cmd *cobra.Command) ([]string, error) {
	bases, _ := cmd.Flags().GetStringArray("base")
	if len(bases) == 0 {
		bases = viper.GetStringSlice("bases")
	}
	if len(bases) == 0 {
		return nil, fmt.Errorf("no base archives given (use --base or the bases config key)")
	}
	return bases, nil
}

// newRunner builds a converter runner from the --converter flag or the
// converter config key, defaulting to the cached binary.
func newRunner(cmd *cobra.Command) (*converter.Runner, error) {
	bin, _ := cmd.Flags().GetString("converter")
	if bin == "" {
		bin = viper.GetString("converter")
	}
	return converter.NewRunner(bin)
}

// updateConfig assembles updater settings from config and secrets.
func updateConfig() types.UpdateConfig {
	return types.UpdateConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		URL:         viper.GetString("update_url"),
		MaxAge:      viper.GetDuration("update_max_age"),
		GitHubToken: loadedSecrets[secrets.GitHubToken],
	}
}

// converterError prints converter output lines to stderr before
// returning err, so the user sees what ConverterPIX reported.
func converterError(err error) error {
	for _, line := range converter.OutputLines(err) {
		if line != "" {
			fmt.Fprintln(os.Stderr, line)
		}
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
