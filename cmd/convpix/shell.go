package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slusenc/convpix/internal/browser"
	"github.com/slusenc/convpix/internal/converter"
	"github.com/slusenc/convpix/internal/extract"
	"github.com/slusenc/convpix/internal/importer"
	"github.com/slusenc/convpix/internal/update"
	"github.com/slusenc/convpix/pkg/types"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactively browse archives and extract models",
	Long: `Shell opens an interactive browser over the merged archive tree. Navigate
with cd, mark animations with sel, and extract models in place:

  ls              list entries at the current subpath
  cd <dir|..>     descend into a directory or go back up
  sel <file>      toggle an animation (.pma) selection
  extract <file>  convert the model (.pmg) plus selected animations
  help            show this command list
  quit            leave the shell

A stale cached ConverterPIX binary is refreshed in the background on
startup; the first ever run waits for the download.`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().String("project-dir", "", "project root for converted files")
	shellCmd.Flags().Bool("textures-to-base", false, "place textures into the sibling \"base\" directory")
	shellCmd.Flags().Bool("only-convert", false, "skip the import pipeline handoff")
	shellCmd.Flags().StringArray("import-cmd", nil, "import command template; {file} and {dir} expand per model")

	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	bases, err := baseArchives(cmd)
	if err != nil {
		return err
	}

	// Keep the converter fresh without blocking startup.
	done := update.RefreshAsync(cmd.Context(), updateConfig(), os.Stderr)

	runner, err := newRunner(cmd)
	if err != nil {
		// First run: the cache is empty, wait for the download.
		<-done
		if runner, err = newRunner(cmd); err != nil {
			return err
		}
	}

	b := browser.New(runner, bases, "*", true)
	if err := b.SetSubpath("/"); err != nil {
		return converterError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "browsing %s (type \"help\" for commands)\n", strings.Join(bases, ", "))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprintf(out, "%s> ", b.Subpath())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		verb, arg := splitCommand(scanner.Text())
		switch verb {
		case "":
		case "ls":
			printEntries(out, b)
		case "cd":
			if arg == "" {
				fmt.Fprintln(out, "usage: cd <dir|..>")
				continue
			}
			if err := b.Enter(arg); err != nil {
				fmt.Fprintln(out, err)
			}
		case "sel":
			if !strings.HasSuffix(arg, extract.AnimExt) {
				fmt.Fprintf(out, "usage: sel <file%s>\n", extract.AnimExt)
				continue
			}
			if err := b.Enter(arg); err != nil {
				fmt.Fprintln(out, err)
			}
		case "extract":
			if !strings.HasSuffix(arg, extract.ModelExt) {
				fmt.Fprintf(out, "usage: extract <file%s>\n", extract.ModelExt)
				continue
			}
			if err := shellExtract(cmd, runner, b, arg, out); err != nil {
				printFailure(out, err)
			}
		case "help":
			fmt.Fprintln(out, "commands: ls, cd <dir|..>, sel <file.pma>, extract <file.pmg>, help, quit")
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q (type \"help\")\n", verb)
		}
	}
}

func splitCommand(line string) (verb, arg string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// printFailure writes the converter's own output followed by the error
// itself, keeping the whole failure on the shell's writer.
func printFailure(w io.Writer, err error) {
	for _, line := range converter.OutputLines(err) {
		if line != "" {
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w, err)
}

// printEntries lists the current subpath: directories with a trailing
// slash, selected animations with a leading marker.
func printEntries(w io.Writer, b *browser.Browser) {
	for _, e := range b.Entries() {
		switch {
		case e.IsDir:
			fmt.Fprintf(w, "  %s/\n", e.Name)
		case b.IsSelected(e.Name):
			fmt.Fprintf(w, "* %s\n", e.Name)
		default:
			fmt.Fprintf(w, "  %s\n", e.Name)
		}
	}
}

// shellExtract converts the named model at the current subpath together
// with all selected animations, then runs the import handoff unless
// --only-convert is set.
func shellExtract(cmd *cobra.Command, runner *converter.Runner, b *browser.Browser, name string, out io.Writer) error {
	projectDir, _ := cmd.Flags().GetString("project-dir")
	if projectDir == "" {
		projectDir = viper.GetString("project_dir")
	}
	if projectDir == "" {
		projectDir = "."
	}

	texturesToBase, _ := cmd.Flags().GetBool("textures-to-base")
	onlyConvert, _ := cmd.Flags().GetBool("only-convert")

	importCmd, _ := cmd.Flags().GetStringArray("import-cmd")
	if len(importCmd) == 0 {
		importCmd = viper.GetStringSlice("import_cmd")
	}

	var imp *importer.Importer
	var err error
	if !onlyConvert {
		if imp, err = importer.New(importCmd); err != nil {
			return fmt.Errorf("%w (set import_cmd or pass --only-convert)", err)
		}
	}

	var anims []string
	for _, sel := range b.Selected() {
		if strings.HasSuffix(sel, extract.AnimExt) {
			anims = append(anims, sel)
		}
	}

	cfg := types.ExtractConfig{ProjectDir: projectDir, TexturesToBase: texturesToBase}
	model := converter.Join(b.Subpath(), name)

	run, err := extract.Extract(runner, b.Bases(), model, anims, cfg, out)
	recordRun(cmd, run)
	if err != nil {
		return err
	}
	b.ClearSelection()

	fmt.Fprintf(out, "placed %d files under %s\n", len(run.Files), projectDir)

	if onlyConvert {
		return nil
	}
	modelFile := extract.ModelFilePath(projectDir, run.Model)
	fmt.Fprintf(out, "importing: %s\n", modelFile)
	return imp.Import(modelFile)
}
