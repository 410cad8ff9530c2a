package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/vschema/internal/capability"
)

func newCapabilitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List every known capability token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens := capability.All().Tokens()
			if outputFormat(cmd) == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), tokens)
			}
			for _, t := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
