package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/koustreak/vschema/internal/capability"
	"github.com/koustreak/vschema/internal/dispatch"
	"github.com/koustreak/vschema/internal/request"
)

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Decode an adapter request and show its contents",
		Long: `Decode an adapter request and show its type, schema, involved tables and
the pushed down query rendered as SQL. Reads stdin when no file is given.`,
		Example: `  # Show a pushdown request
  vschema decode pushdown.json

  # Read from stdin, print JSON
  cat request.json | vschema decode --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			req, err := request.Decode(data)
			if err != nil {
				return err
			}
			s := dispatch.Summarize(req, capability.All())
			if outputFormat(cmd) == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			writeSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func writeSummary(w io.Writer, s dispatch.Summary) {
	fmt.Fprintf(w, "type:    %s\n", s.Type)
	fmt.Fprintf(w, "schema:  %s\n", s.Schema)
	if s.AdapterNotes != "" {
		fmt.Fprintf(w, "notes:   %s\n", s.AdapterNotes)
	}
	for _, t := range s.Tables {
		fmt.Fprintf(w, "table:   %s\n", t)
	}
	if s.SQL != "" {
		fmt.Fprintf(w, "sql:     %s\n", s.SQL)
	}
	for _, t := range s.RequestedTables {
		fmt.Fprintf(w, "refresh: %s\n", t)
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "property: %s=%s\n", k, s.Properties[k])
	}
	for _, c := range s.Capabilities {
		fmt.Fprintf(w, "capability: %s\n", c)
	}
}
