package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"essex_travel/internal/schema"
)

func schemaCmd() *cobra.Command {
	var service string
	cmd := &cobra.Command{
		Use:   "schema <town>",
		Short: "Print the JSON-LD for a town, or for one service in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			var doc any
			if service == "" {
				doc, err = schema.TownBusiness(p.site, p.cat, args[0])
			} else {
				doc, err = schema.LocationPage(p.site, p.cat, args[0], service)
			}
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))

			issues := schema.Check(raw)
			for _, i := range issues {
				fmt.Fprintf(cmd.ErrOrStderr(), "issue: %s\n", i)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d validation issues", len(issues))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&service, "service", "", "service slug, e.g. airport-transfers")
	return cmd
}
