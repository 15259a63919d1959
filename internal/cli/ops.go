package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/aryankumar/forkjoin/internal/output"
	"github.com/aryankumar/forkjoin/internal/workload"
	"github.com/spf13/cobra"
)

// newOpsCmd creates the command listing the registered operations
func newOpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ops",
		Short:   "List the supported operations",
		Aliases: []string{"operations"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOps(cmd)
		},
	}

	return cmd
}

func runOps(cmd *cobra.Command) error {
	ops := workload.Operations()
	outputFormat, _ := cmd.Flags().GetString("output")

	switch outputFormat {
	case "json", "yaml":
		return output.NewFormatter(output.Format(outputFormat)).Format(cmd.OutOrStdout(), ops)
	default:
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "OPERATION\tELEMENTS\tDESCRIPTION")
		for _, op := range ops {
			fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, op.Elements, op.Description)
		}
		return w.Flush()
	}
}

