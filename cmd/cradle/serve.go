package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-cradle/framework/app"
)

func serveCommand() *cobra.Command {
	var (
		dir      string
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo users API on APP_PORT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(envFiles...)
			if err != nil {
				return err
			}
			if err := bootDemo(a, dir); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory the manifest glob is matched in")
	cmd.Flags().StringSliceVar(&envFiles, "env", nil, "env files to load (default .env)")
	return cmd
}

// bootDemo loads the demo modules, boots the providers and adds the routes.
func bootDemo(a *app.Application, dir string) error {
	if _, err := a.LoadModules(os.DirFS(dir), demoCatalog()); err != nil {
		return err
	}
	if err := a.Boot(); err != nil {
		return err
	}
	demoRoutes(a)
	return nil
}

