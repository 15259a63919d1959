package job

import (
	"fmt"

	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/spf13/cobra"
)

// newRemoveCmd creates the job remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove NAME",
		Short:   "Remove a job preset from the config file",
		Aliases: []string{"rm", "delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args[0])
		},
	}

	return cmd
}

func runRemove(cmd *cobra.Command, name string) error {
	mgr, err := loadManager()
	if err != nil {
		return err
	}

	if !mgr.RemoveJob(name) {
		return fmt.Errorf("%w: %q", util.ErrJobNotFound, name)
	}

	if err := mgr.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "job %q removed\n", name)
	return nil
}
