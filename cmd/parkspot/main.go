// ABOUTME: Entry point for the parkspot CLI
// ABOUTME: Executes the root Cobra command

package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
