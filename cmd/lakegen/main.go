// Package main is the entry point for lakegen.
package main

import (
	"fmt"
	"os"

	"github.com/lakegen/lakegen/internal/cli"

	// Register datasets
	_ "github.com/lakegen/lakegen/internal/datasets/clickstream"
	_ "github.com/lakegen/lakegen/internal/datasets/fx"
	_ "github.com/lakegen/lakegen/internal/datasets/retail"
	_ "github.com/lakegen/lakegen/internal/datasets/telemetry"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
