package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/vschema/internal/dispatch"
)

const defaultAdapter = "describe"

// newRegistry lists the adapters this binary ships with.
func newRegistry() *dispatch.Registry {
	reg := dispatch.NewRegistry()
	reg.Register(defaultAdapter, dispatch.NewDescribeAdapter)
	return reg
}

func newCallCommand() *cobra.Command {
	var adapter string

	cmd := &cobra.Command{
		Use:   "call [file|-]",
		Short: "Run a request through the dispatcher",
		Long: `Run a request through the dispatcher the way the engine would, with
per-call logging on stderr, and print the adapter response.

The adapter is taken from --adapter, then from the config file, and
defaults to "describe".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			cfg := loadedConfig(cmd)
			name := adapter
			if name == "" {
				name = cfg.Adapter
			}
			if name == "" {
				name = defaultAdapter
			}

			d := dispatch.New(newRegistry(), name, cfg.Log.Logger(cmd.ErrOrStderr()))
			resp, err := d.AdapterCall(cmd.Context(), nil, string(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&adapter, "adapter", "", "Registered adapter name")
	return cmd
}
