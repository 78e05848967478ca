package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acaciamc/acacia/pkg/compiler"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file",
	Short: "compile an Acacia source file into .mcfunction scripts.",
	Long:  "Compile a single Acacia entry source file (recursively pulling in its imports) into a tree of .mcfunction files.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		config := buildConfig(cmd)

		srcPath := args[0]

		files, ioErr := source.ReadFiles(srcPath)
		if ioErr != nil {
			fmt.Printf("Acacia: error: cannot read %q: %s\n", srcPath, ioErr.Error())
			os.Exit(1)
		}

		entryFile := &files[0]
		baseDir := filepath.Dir(srcPath)

		log.WithField("file", srcPath).Debug("compiling entry source file")

		result, err := compiler.Compile(config, entryFile, baseDir)
		if err != nil {
			reportDiagnostic(err)
			os.Exit(1)
		}

		output := GetString(cmd, "output")

		if GetFlag(cmd, "override-old") {
			os.RemoveAll(filepath.Join(output, config.FunctionFolder))
		}

		if err := writeResult(output, config, result); err != nil {
			fmt.Printf("Acacia: error: %s\n", err.Error())
			os.Exit(1)
		}

		log.WithField("files", len(result.Files)).Info("compilation complete")
	},
}

func buildConfig(cmd *cobra.Command) compiler.CompilationConfig {
	config := compiler.DefaultConfig()

	config.Scoreboard = GetString(cmd, "scoreboard")
	config.FunctionFolder = GetString(cmd, "function-folder")
	config.MainFile = GetString(cmd, "main-file")
	config.InitFile = GetString(cmd, "init-file")
	config.InternalFolder = GetString(cmd, "internal-folder")
	config.EntityTagPrefix = GetString(cmd, "tag-prefix")
	config.DebugComments = GetFlag(cmd, "debug-comments")
	config.NoOptimize = GetFlag(cmd, "no-optimize")
	config.OverrideOld = GetFlag(cmd, "override-old")
	config.MaxInline = GetUint(cmd, "max-inline")
	config.Verbose = GetFlag(cmd, "verbose")

	validateIdentifierOption("scoreboard", config.Scoreboard)
	validateIdentifierOption("main-file", config.MainFile)
	validateIdentifierOption("init-file", config.InitFile)
	validateIdentifierOption("tag-prefix", config.EntityTagPrefix)

	// version and education-edition affect behavior-pack metadata only,
	// which is out of scope (packaging is a non-goal); still validated
	// here since the flag surface itself is in scope.
	version := GetString(cmd, "version")
	if version != "" {
		parts := strings.Split(version, ".")
		if len(parts) != 3 {
			fmt.Printf("Acacia: error: option version: must be a X.Y.Z triple\n")
			os.Exit(2)
		}
	}

	return config
}

func writeResult(outputDir string, config compiler.CompilationConfig, result *compiler.Result) error {
	root := filepath.Join(outputDir, config.FunctionFolder)

	for _, f := range result.Files {
		path := filepath.Join(root, f.Path+".mcfunction")

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}

		content := strings.Join(f.Lines, "\n") + "\n"

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}

	return nil
}

func reportDiagnostic(err *diag.Error) {
	fmt.Println(err.Render())
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringP("output", "o", ".", "output directory for generated .mcfunction files")
	compileCmd.Flags().String("version", "", "target Minecraft Bedrock version triple, e.g. 1.21.0")
	compileCmd.Flags().Bool("education-edition", false, "target Minecraft Education Edition")
	compileCmd.Flags().String("scoreboard", "acacia", "scoreboard objective name backing runtime storage")
	compileCmd.Flags().String("function-folder", "functions", "root folder for emitted function files")
	compileCmd.Flags().String("main-file", "main", "entry-point interface name")
	compileCmd.Flags().String("init-file", "init", "initializer interface name")
	compileCmd.Flags().String("internal-folder", "__internal__", "folder for compiler-generated helper functions")
	compileCmd.Flags().String("tag-prefix", "aca", "prefix for allocated entity tags")
	compileCmd.Flags().Bool("debug-comments", false, "emit a source-line comment above each lowered command")
	compileCmd.Flags().Bool("no-optimize", false, "disable optimizations beyond what world-checking requires")
	compileCmd.Flags().Bool("override-old", false, "remove any pre-existing output before writing")
	compileCmd.Flags().String("encoding", "utf-8", "source file encoding")
	compileCmd.Flags().Bool("verbose", false, "enable verbose logging")
	compileCmd.Flags().Uint("max-inline", 20, "maximum body size inlined into execute, before sinking to a helper function")
}
