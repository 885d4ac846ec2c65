package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-cradle/framework/app"
	"github.com/km-arc/go-cradle/framework/container"
	"github.com/km-arc/go-cradle/framework/loader"
)

func modulesCommand() *cobra.Command {
	var (
		dir      string
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Show how the module manifests register the demo modules",
		Long: `Reads the manifests matched by CONTAINER_MODULES under --dir and prints
the registration every demo module would get, without registering anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(envFiles...)
			if err != nil {
				return err
			}
			opts, err := a.ModuleOptions(os.DirFS(dir))
			if err != nil {
				return err
			}
			entries, err := loader.Plan(demoCatalog(), opts)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Path", "Pattern", "Lifetime", "Injection"})
			table.SetAutoFormatHeaders(false)
			for _, e := range entries {
				table.Append(describe(e))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory the manifest glob is matched in")
	cmd.Flags().StringSliceVar(&envFiles, "env", nil, "env files to load (default .env)")
	return cmd
}

// describe renders the effective settings of e: loader options win over the
// options the module declares.
func describe(e loader.Entry) []string {
	lifetime, mode := container.Transient, container.InjectionInherit
	if ctor, ok := e.Module.Target.(*container.Constructor); ok {
		r := container.AsFunction(ctor)
		lifetime, mode = r.Lifetime(), r.InjectionMode()
	}
	if e.Options.Lifetime != nil {
		lifetime = *e.Options.Lifetime
	}
	if e.Options.InjectionMode != nil {
		mode = *e.Options.InjectionMode
	}
	return []string{e.Name, e.Path, e.Pattern, lifetime.String(), mode.String()}
}
