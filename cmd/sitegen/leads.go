package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"essex_travel/internal/app"
	"essex_travel/internal/domain"
	mysqlrepo "essex_travel/internal/storage/mysql"
	"essex_travel/internal/storage/sqlite"
)

func leadsCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List the newest contact-form leads from LEAD_STORE",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := loadProject()
			if err != nil {
				return err
			}
			repo, closeRepo, err := openLeads(ctx, p)
			if err != nil {
				return err
			}
			defer closeRepo()

			leads, err := app.NewLeadService(repo, nil, nil).Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("listing leads: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(leads)
			}
			if len(leads) == 0 {
				fmt.Fprintln(out, "No leads found.")
				return nil
			}
			for _, l := range leads {
				contact := deref(l.Email)
				if contact == "" {
					contact = deref(l.Phone)
				}
				fmt.Fprintf(out, "%s  %s <%s> %s / %s\n",
					l.CreatedAt.Local().Format(time.DateTime), l.Name, contact, deref(l.City), deref(l.Service))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of leads (1-200)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func openLeads(ctx context.Context, p *project) (domain.LeadRepository, func(), error) {
	switch p.cfg.LeadStore {
	case "mysql":
		db, err := sql.Open("mysql", p.cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("mysql: %w", err)
		}
		return mysqlrepo.New(db), func() { db.Close() }, nil
	case "sqlite":
		c, err := sqlite.Open(ctx, p.cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		return c.Leads(), func() { c.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown LEAD_STORE %q (mysql|sqlite)", p.cfg.LeadStore)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
