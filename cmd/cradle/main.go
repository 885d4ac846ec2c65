// Command cradle inspects signatures and module manifests and serves a demo
// application built on the container.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cradle:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cradle",
		Short:         "Dependency injection runtime tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		paramsCommand(),
		modulesCommand(),
		serveCommand(),
	)
	return rootCmd
}
