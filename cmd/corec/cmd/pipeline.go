package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/scriptcore/scriptcore/internal/diag"
	"github.com/scriptcore/scriptcore/internal/diagfmt"
	"github.com/scriptcore/scriptcore/internal/source"
)

// readInput resolves the file/-e/stdin precedence shared by every
// subcommand: an inline expression wins, then a named file, then stdin.
func readInput(args []string, eval string) (text, name string, err error) {
	switch {
	case eval != "":
		return eval, "<eval>", nil
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	default:
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), "<stdin>", nil
	}
}

func newSource(name, text string) (*source.Source, error) {
	return source.New(&source.Info{ShortName: name}, []byte(text))
}

// reportDiagnostics renders every record in sink through diagfmt and
// returns whether any Error-level diagnostic was reported (I8: the caller
// must refuse to print an IR Script in that case).
func reportDiagnostics(sink *diag.Sink, text string, color bool) bool {
	if len(sink.Records()) == 0 {
		return sink.HasErrors()
	}
	fmt.Fprint(os.Stderr, diagfmt.Format(sink.Records(), text, color))
	return sink.HasErrors()
}
