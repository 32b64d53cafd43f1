//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"essex_travel/internal/domain"
	mysqlrepo "essex_travel/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }
func pint(i int) *int       { return &i }

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations", "mysql")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_SaveAndListLeads(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=essex",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "essex")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := domain.Lead{
		ID:        "6f1c1a52-0c55-4a38-9d4e-2f6f0b9a0001",
		Name:      "Dana Reyes",
		Email:     pstr("dana@example.com"),
		City:      pstr("Montclair"),
		Travelers: pint(4),
		RawJSON:   []byte(`{"name":"Dana Reyes"}`),
		CreatedAt: base,
	}
	newer := domain.Lead{
		ID:        "6f1c1a52-0c55-4a38-9d4e-2f6f0b9a0002",
		Name:      "Sam Ortiz",
		Phone:     pstr("973-555-0100"),
		CreatedAt: base.Add(time.Hour),
	}
	for _, l := range []domain.Lead{older, newer, older} {
		if err := repo.SaveLead(ctx, l); err != nil {
			t.Fatalf("SaveLead(%s): %v", l.ID, err)
		}
	}

	got, err := repo.RecentLeads(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLeads: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 leads (resubmission is a no-op), got %d", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
	if got[1].Travelers == nil || *got[1].Travelers != 4 || got[1].Email == nil || got[1].Phone != nil {
		t.Fatalf("nullable columns not round-tripped: %+v", got[1])
	}
	if !got[1].CreatedAt.Equal(base) {
		t.Fatalf("created_at %v, want %v", got[1].CreatedAt, base)
	}
}
