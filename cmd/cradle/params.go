package main

import (
	"encoding/json"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-cradle/framework/signature"
)

type paramsOutput struct {
	Class      bool                  `json:"class"`
	Parameters []signature.Parameter `json:"parameters"`
}

func paramsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "params <signature>",
		Short: "Print the dependencies a signature declares",
		Example: `  cradle params "function userService(userRepo, logger = null)"
  cradle params --json "class Users { constructor(db) {} }"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			params, err := signature.ParseDependencies(signature.Text(src))
			if err != nil {
				return err
			}

			out := paramsOutput{Class: signature.IsClass(src), Parameters: params}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Name", "Optional"})
			table.SetAutoFormatHeaders(false)
			for i, p := range params {
				table.Append([]string{strconv.Itoa(i), p.Name, strconv.FormatBool(p.Optional)})
			}
			table.SetCaption(true, "class: "+strconv.FormatBool(out.Class))
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
