package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/diagfmt"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/parser"
	"github.com/scriptcore/scriptcore/internal/printer"
)

var (
	fmtWrite     bool // -w: write result to (source) file instead of stdout
	fmtList      bool // -l: list files whose formatting differs
	fmtDiff      bool // -d: display diffs instead of rewriting files
	fmtRecursive bool // -r: process directories recursively
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files or directories...]",
	Short: "Format source files",
	Long: `Format source files using the AST-driven printer (internal/printer).

The formatter parses source code into an AST and pretty-prints it back,
without claiming to reproduce the original formatting (see R1: it only
guarantees the result re-parses to a structurally equivalent tree).

By default fmt formats the files named on the command line and writes the
result to standard output. If no path is given, it reads from standard
input.

Examples:
  # Format a single file to stdout
  corec fmt hello.q

  # Format and overwrite files
  corec fmt -w file1.q file2.q

  # List all files that need formatting
  corec fmt -l -r src/

  # Show what would change
  corec fmt -d script.q`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "display diffs instead of rewriting files")
	fmtCmd.Flags().BoolVarP(&fmtRecursive, "recursive", "r", false, "process directories recursively")
}

func runFmt(cmd *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use -w and -l together")
	}
	if fmtWrite && fmtDiff {
		return fmt.Errorf("cannot use -w and -d together")
	}

	if len(args) == 0 {
		return formatStdin()
	}

	hasErrors := false
	for _, path := range args {
		if err := processPath(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func processPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if fmtRecursive {
			return processDirectory(path)
		}
		return fmt.Errorf("%s is a directory (use -r to process recursively)", path)
	}
	return formatFile(path)
}

func processDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".q") {
			return nil
		}
		if err := formatFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
		}
		return nil
	})
}

func formatStdin() error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}
	formatted, err := formatSource("<stdin>", string(src))
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}

func formatFile(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	original := string(src)

	formatted, err := formatSource(filename, original)
	if err != nil {
		return err
	}
	changed := original != formatted

	switch {
	case fmtList:
		if changed {
			fmt.Println(filename)
		}
	case fmtDiff:
		if changed {
			fmt.Printf("--- %s (original)\n", filename)
			fmt.Printf("+++ %s (formatted)\n", filename)
			showDiff(original, formatted)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

func formatSource(name, text string) (string, error) {
	src, err := newSource(name, text)
	if err != nil {
		return "", err
	}
	sink := diag.NewSink()
	decls := parser.New(src, sink, intern.New()).ParseScript()
	if sink.HasErrors() {
		return "", fmt.Errorf("parse errors:\n%s", diagfmt.Format(sink.Records(), text, false))
	}
	return printer.Print(decls), nil
}

// showDiff shows a simple line-by-line diff.
func showDiff(original, formatted string) {
	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	maxLines := len(origLines)
	if len(fmtLines) > maxLines {
		maxLines = len(fmtLines)
	}

	for i := 0; i < maxLines; i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}
		if origLine != fmtLine {
			if origLine != "" {
				fmt.Printf("- %s\n", origLine)
			}
			if fmtLine != "" {
				fmt.Printf("+ %s\n", fmtLine)
			}
		}
	}
}
