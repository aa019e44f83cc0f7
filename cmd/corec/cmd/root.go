package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "corec",
	Short: "A compiler front end for the core scripting language",
	Long: `corec is a standalone front end: lexer, parser, semantic analyzer,
and IR emitter for a small class-based scripting language with reference
counting, globals guarded by read/write locks, and structured exception
handling.

It does not execute programs; it type-checks them and emits a closed-form
intermediate representation for inspection.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI color in diagnostic output")
}
