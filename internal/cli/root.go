// Package cli provides the command-line interface for inspecting virtual
// schema adapter requests.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/koustreak/vschema/internal/config"
	"github.com/koustreak/vschema/internal/dispatch"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		format  string
	)

	rootCmd := &cobra.Command{
		Use:   "vschema",
		Short: "Decode and inspect virtual schema adapter requests",
		Long: `vschema decodes the JSON requests a database engine sends to a virtual
schema adapter and shows what they contain: the schema, the involved tables
and the pushed down query rendered as SQL.`,
		Version: dispatch.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			switch format {
			case FormatText, FormatJSON:
			default:
				return fmt.Errorf("invalid --format %q (want %s or %s)", format, FormatText, FormatJSON)
			}

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in settings)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", FormatText, "Output format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatText, FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newDecodeCommand())
	rootCmd.AddCommand(newCapabilitiesCommand())
	rootCmd.AddCommand(newCallCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func loadedConfig(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func outputFormat(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("format")
	return f
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
