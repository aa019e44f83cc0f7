package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/intern"
	"github.com/scriptcore/scriptcore/internal/lexer"
)

var (
	evalExpr   string
	showPos    bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a source file and print the resulting tokens",
	Long: `Tokenize (lex) a program and print the resulting token stream.

This is useful for debugging the lexer and understanding how source text is
tokenized before it reaches the parser.

Examples:
  # Tokenize a script file
  corec lex script.q

  # Tokenize an inline expression
  corec lex -e "our int x = 1;"

  # Show token positions
  corec lex --show-pos script.q`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only diagnostics raised while scanning")
}

func lexScript(cmd *cobra.Command, args []string) error {
	text, name, err := readInput(args, evalExpr)
	if err != nil {
		return err
	}
	src, err := newSource(name, text)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}

	sink := diag.NewSink()
	l := lexer.New(src, sink, intern.New())

	tokenCount := 0
	for {
		tok := l.Next(lexer.Normal)
		tokenCount++
		if !onlyErrors {
			printToken(tok)
		}
		if tok.Type == lexer.EOF {
			break
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("---\ntotal tokens: %d\n", tokenCount)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if reportDiagnostics(sink, text, !noColor) {
		return fmt.Errorf("lexing reported %d error(s)", sink.ErrorCount())
	}
	return nil
}

func printToken(tok lexer.Token) {
	out := tok.String()
	if tok.Text != "" {
		out = fmt.Sprintf("%s %q", out, tok.Text)
	}
	if showPos {
		out = fmt.Sprintf("%s @%s", out, tok.Location)
	}
	fmt.Println(out)
}
