// Command groqtype infers static result types for GROQ queries.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/groqtype/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
