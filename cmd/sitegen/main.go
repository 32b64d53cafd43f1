package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "sitegen",
		Short: "Static site generator for the Essex County travel agency",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&catalogDir, "catalog", "", "catalog directory (defaults to the embedded catalog)")
	root.PersistentFlags().StringVar(&siteFile, "site", "", "agency profile YAML")
	root.AddCommand(buildCmd())
	root.AddCommand(routesCmd())
	root.AddCommand(sitemapCmd())
	root.AddCommand(lintCmd())
	root.AddCommand(schemaCmd())
	root.AddCommand(leadsCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
