package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/parser"
	"github.com/scriptcore/scriptcore/internal/sema"
	"github.com/scriptcore/scriptcore/internal/symbols"
	"github.com/scriptcore/scriptcore/internal/types"
)

var checkExpr string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run the full analysis pipeline and report diagnostics",
	Long: `Parse, build the symbol graph, and run semantic analysis over a
program, printing every reported diagnostic with source context.

Exits non-zero if any Error-level diagnostic was reported (I8: a program
with reported errors is never handed to the IR Emitter).

If no file is given, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkExpr, "eval", "e", "", "check inline code instead of reading from file")
}

// compileProgram runs the pipeline shared by check and ir: lex, parse,
// build the symbol graph, and analyze. It always returns the sema.Script
// (possibly partial) alongside the sink so callers can decide, per I8,
// whether it is safe to go on to IR emission.
func compileProgram(args []string, eval string) (script *sema.Script, strings *intern.Table, text string, sink *diag.Sink, err error) {
	text, name, err := readInput(args, eval)
	if err != nil {
		return nil, nil, "", nil, err
	}
	src, err := newSource(name, text)
	if err != nil {
		return nil, nil, text, nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	sink = diag.NewSink()
	interner := intern.New()
	decls := parser.New(src, sink, interner).ParseScript()

	registry := types.NewRegistry()
	graph := symbols.NewGraph(sink, registry)
	graph.Build(decls)

	a := sema.NewAnalyzer(sink, registry, graph, interner)
	script = a.AnalyzeScript(decls)
	return script, interner, text, sink, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, _, text, sink, err := compileProgram(args, checkExpr)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if reportDiagnostics(sink, text, !noColor) {
		return fmt.Errorf("analysis reported %d error(s)", sink.ErrorCount())
	}
	fmt.Println("no errors")
	return nil
}
