package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptcore/scriptcore/internal/ir"
)

var irExpr string

var irCmd = &cobra.Command{
	Use:   "ir [file]",
	Short: "Emit and disassemble the IR for a program",
	Long: `Run the full pipeline (parse, analyze, emit) and print the emitted
IR Script in disassembled text form.

Per I8, nothing is printed if analysis reported any Error-level diagnostic;
the diagnostics are reported instead and the command exits non-zero.

The emitted IR is also run through Verify, which checks the structural
invariants every emitted function must hold (I4, and sound necessary
conditions approximating I5/I6); a Verify failure is an emitter bug, not a
user error, and is reported as such.

If no file is given, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIR,
}

func init() {
	rootCmd.AddCommand(irCmd)

	irCmd.Flags().StringVarP(&irExpr, "eval", "e", "", "compile inline code instead of reading from file")
}

func runIR(cmd *cobra.Command, args []string) error {
	script, interner, text, sink, err := compileProgram(args, irExpr)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if reportDiagnostics(sink, text, !noColor) {
		return fmt.Errorf("refusing to emit IR: analysis reported %d error(s)", sink.ErrorCount())
	}

	emitted := ir.Emit(script, interner)
	if err := ir.Verify(emitted); err != nil {
		return fmt.Errorf("internal error: emitted IR failed verification: %w", err)
	}

	fmt.Print(ir.Disassemble(emitted))
	return nil
}
