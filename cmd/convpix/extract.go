package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slusenc/convpix/internal/converter"
	"github.com/slusenc/convpix/internal/extract"
	"github.com/slusenc/convpix/internal/history"
	"github.com/slusenc/convpix/internal/importer"
	"github.com/slusenc/convpix/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <model-subpath>",
	Short: "Convert a model and place the files into the project tree",
	Long: `Extract converts the model at the given archive subpath (e.g.
/vehicle/truck/cab.pmg) with ConverterPIX and distributes the resulting
files into the project tree: textures (.tobj, .dds, .png) under the
textures root, everything else under the project root.

Unless --only-convert is given, the converted model is then handed to the
configured external import command.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringArray("anim", nil, "animation subpath to convert along with the model; repeatable")
	extractCmd.Flags().String("project-dir", "", "project root for converted files (default: project_dir config key or \".\")")
	extractCmd.Flags().Bool("textures-to-base", false, "place textures into the sibling \"base\" directory, outside mod packing")
	extractCmd.Flags().Bool("only-convert", false, "skip the import pipeline handoff")
	extractCmd.Flags().StringArray("import-cmd", nil, "import command template; {file} and {dir} expand per model")
	extractCmd.Flags().Bool("keep-temp", false, "keep the conversion output directory, copying files instead of moving")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	bases, err := baseArchives(cmd)
	if err != nil {
		return err
	}
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}

	projectDir, _ := cmd.Flags().GetString("project-dir")
	if projectDir == "" {
		projectDir = viper.GetString("project_dir")
	}
	if projectDir == "" {
		projectDir = "."
	}

	texturesToBase, _ := cmd.Flags().GetBool("textures-to-base")
	onlyConvert, _ := cmd.Flags().GetBool("only-convert")
	keepTemp, _ := cmd.Flags().GetBool("keep-temp")
	anims, _ := cmd.Flags().GetStringArray("anim")

	importCmd, _ := cmd.Flags().GetStringArray("import-cmd")
	if len(importCmd) == 0 {
		importCmd = viper.GetStringSlice("import_cmd")
	}

	// Validate the handoff before spending time on conversion.
	var imp *importer.Importer
	if !onlyConvert {
		imp, err = importer.New(importCmd)
		if err != nil {
			return fmt.Errorf("%w (set import_cmd or pass --only-convert)", err)
		}
	}

	cfg := types.ExtractConfig{
		ProjectDir:     projectDir,
		TexturesToBase: texturesToBase,
		KeepTemp:       keepTemp,
	}

	out := cmd.OutOrStdout()
	run, extractErr := extract.Extract(runner, bases, args[0], anims, cfg, out)
	recordRun(cmd, run)
	if extractErr != nil {
		return converterError(extractErr)
	}

	fmt.Fprintf(out, "placed %d files under %s\n", len(run.Files), projectDir)

	if onlyConvert {
		return nil
	}

	modelFile := extract.ModelFilePath(projectDir, run.Model)
	fmt.Fprintf(out, "importing: %s\n", modelFile)
	return imp.Import(modelFile)
}

// recordRun stores the run in the extraction history. History is best
// effort: failures only warn.
func recordRun(cmd *cobra.Command, run *types.Run) {
	if run == nil || run.Model == "" {
		return
	}
	dir, err := converter.CacheDir()
	if err == nil {
		var s *history.Store
		if s, err = history.Open(dir); err == nil {
			_, err = s.Record(cmd.Context(), run)
			s.Close()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record history: %v\n", err)
	}
}
