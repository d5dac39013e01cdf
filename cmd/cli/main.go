package main

import (
	"fmt"
	"os"

	"github.com/myrtti/sightline/cmd/cli/catalog"
	"github.com/myrtti/sightline/cmd/cli/simulate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddGroup(catalog.Group)
	rootCmd.AddCommand(catalog.Cmd)
	rootCmd.AddGroup(simulate.Group)
	rootCmd.AddCommand(simulate.Simulate)
}

var rootCmd = &cobra.Command{
	Use:  "sightline-cli",
	Long: `Command line utilities for Sightline https://github.com/myrtti/sightline`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
