package job

import (
	"github.com/aryankumar/forkjoin/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewJobCmd creates the job preset management command
func NewJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage job presets",
		Long: `Manage named job presets in the forkjoin config file.

A job preset names an operation, exactly one element source (range, values
or file) and optionally a worker count and per-element delay. Presets are
run with 'forkjoin run --job NAME'.`,
		Aliases: []string{"jobs"},
	}

	// Add subcommands
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())

	return cmd
}

// loadManager loads the config file selected by --config
func loadManager() (*config.Manager, error) {
	mgr := config.NewManager(viper.GetString("config"))
	if _, err := mgr.Load(); err != nil {
		return nil, err
	}
	return mgr, nil
}
