// Package main provides the vschema CLI.
package main

import (
	"fmt"
	"os"

	"github.com/koustreak/vschema/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
