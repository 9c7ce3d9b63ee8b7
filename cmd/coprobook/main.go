// Package main is the entry point for the coprobook operator CLI.
package main

import (
	"os"

	"github.com/SscSPs/copro_ledger/cmd/coprobook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
