package main

import (
	"github.com/spf13/cobra"

	"essex_travel/internal/sitemap"
)

func sitemapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return sitemap.WriteXML(cmd.OutOrStdout(), sitemap.Entries(p.cat, p.site.URL))
		},
	}
}
