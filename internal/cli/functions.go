package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/groqtype/internal/evaluator"
)

// FunctionInfo describes one builtin in listings.
type FunctionInfo struct {
	Name          string `json:"name"`
	Pipe          bool   `json:"pipe"`
	ForcesNonNull bool   `json:"forces_non_null"`
	Distributes   bool   `json:"distributes"`
	Opaque        bool   `json:"opaque"`
	Doc           string `json:"doc,omitempty"`
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "functions",
		Short:         "List the functions the evaluator knows how to type",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunctions(rootOpts, cmd)
		},
	}
	return cmd
}

func runFunctions(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	builtins := evaluator.DefaultRegistry().Builtins()
	infos := make([]FunctionInfo, len(builtins))
	for i, b := range builtins {
		infos[i] = FunctionInfo{
			Name:          b.FullName(),
			Pipe:          b.Pipe,
			ForcesNonNull: b.ForcesNonNull,
			Distributes:   b.Distributes,
			Opaque:        b.Opaque,
			Doc:           b.Doc,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCALL\tFLAGS\tDESCRIPTION")
	for _, f := range infos {
		call := "call"
		if f.Pipe {
			call = "pipe"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, call, functionFlags(f), f.Doc)
	}
	return tw.Flush()
}

func functionFlags(f FunctionInfo) string {
	var flags []byte
	add := func(set bool, c byte) {
		if set {
			flags = append(flags, c)
		} else {
			flags = append(flags, '-')
		}
	}
	add(f.ForcesNonNull, 'n')
	add(f.Distributes, 'd')
	add(f.Opaque, 'o')
	return string(flags)
}
