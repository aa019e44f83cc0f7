// Command corec is the CLI front end: lex, parse, check, ir, and fmt
// subcommands over the core compiler packages.
package main

import (
	"os"

	"github.com/scriptcore/scriptcore/cmd/corec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
