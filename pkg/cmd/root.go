// Package cmd implements the Acacia command-line surface of spec.md §6:
// one positional source path plus the full set of output/layout flags,
// identifier-shaped option validation, and the single-line
// "Acacia: error: option <name>: <reason>" exit contract.
//
// Grounded on the teacher's pkg/cmd/root.go + pkg/cmd/compile.go +
// pkg/cmd/util.go: a cobra root command, a GetFlag/GetString/GetUint
// flag-accessor layer, and a CompilationConfig assembled from flags before
// the compiler is invoked.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled in at build time via -ldflags; empty when built with a
// plain `go build`.
var Version string

var rootCmd = &cobra.Command{
	Use:   "acacia",
	Short: "A compiler for the Acacia language.",
	Long:  "Acacia compiles an indentation-structured source language to Minecraft Bedrock .mcfunction command scripts.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("acacia ")

			switch {
			case Version != "":
				fmt.Printf("%s", Version)
			default:
				if info, ok := debug.ReadBuildInfo(); ok {
					fmt.Printf("%s", info.Main.Version)
				} else {
					fmt.Printf("(unknown version)")
				}
			}

			fmt.Println()
		}
	},
}

// Execute registers the persistent --version flag on the root command and
// runs it. Called once from main.main.
func Execute() {
	rootCmd.PersistentFlags().Bool("version", false, "print version information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
