package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"essex_travel/internal/routes"
)

func routesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List every page path the build emits",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			all := routes.All(p.cat)
			out := cmd.OutOrStdout()
			if asJSON {
				type row struct {
					Kind string `json:"kind"`
					Path string `json:"path"`
				}
				rows := make([]row, 0, len(all))
				for _, r := range all {
					rows = append(rows, row{Kind: r.Kind.String(), Path: r.Path})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			for _, r := range all {
				fmt.Fprintf(out, "%-15s %s\n", r.Kind, r.Path)
			}
			fmt.Fprintf(out, "\n%d routes (%d location pages)\n", len(all), len(routes.Combinations(p.cat)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
