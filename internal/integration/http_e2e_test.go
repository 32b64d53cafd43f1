//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "essex_travel/internal/adapters/http_server"
	redisad "essex_travel/internal/adapters/redis"
	"essex_travel/internal/adapters/webhook"
	"essex_travel/internal/app"
	"essex_travel/internal/catalog"
	"essex_travel/internal/render"
	"essex_travel/internal/shared"
	mysqlrepo "essex_travel/internal/storage/mysql"
)

// ---------- helpers ----------
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations", "mysql")
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

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=essex"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/essex?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
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
	return db
}

// crmSink records the leads the CRM webhook receives.
type crmSink struct {
	mu   sync.Mutex
	ids  []string
	keys []string
}

func (s *crmSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.ids = append(s.ids, body.ID)
	s.keys = append(s.keys, r.Header.Get("Authorization"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

// ---------- the test ----------
func TestHTTP_EndToEnd_LeadAndCachedPage(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	rc := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	sink := &crmSink{}
	crmSrv := httptest.NewServer(sink)
	t.Cleanup(crmSrv.Close)
	crm, err := webhook.NewCRM(crmSrv.URL, "secret", 50)
	require.NoError(t, err)

	r, err := render.New()
	require.NoError(t, err)
	cat := catalog.MustDefault()
	repo := mysqlrepo.New(db)

	leads := app.NewLeadService(repo, crm, nil)
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Pages: app.NewPageService(shared.DefaultSite(), cat, r, redisad.NewCache(rc, "essex:cache:"), time.Minute),
		Leads: leads,
		Tools: app.NewToolService(redisad.NewKV(rc, "essex:kv:", time.Hour), cat),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	// lead lands in mysql and reaches the CRM
	res, err := http.Post(ts.URL+"/api/contact", "application/json", strings.NewReader(
		`{"name":"Jordan Lee","email":"jordan@example.com","town":"Bloomfield","service":"cruise-planning","travelers":3}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created struct{ ID string }
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))

	recent, err := repo.RecentLeads(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, created.ID, recent[0].ID)
	assert.Equal(t, "Jordan Lee", recent[0].Name)
	require.NotNil(t, recent[0].City)
	assert.Equal(t, "Bloomfield", *recent[0].City)

	leads.Close()
	sink.mu.Lock()
	assert.Equal(t, []string{created.ID}, sink.ids)
	assert.Equal(t, []string{"Bearer secret"}, sink.keys)
	sink.mu.Unlock()

	// second page view is served from redis
	path := "/locations/essex-county/bloomfield/cruise-planning"
	first, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	body1, _ := io.ReadAll(first.Body)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.True(t, mr.Exists("essex:cache:page:"+path))

	second, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	body2, _ := io.ReadAll(second.Body)
	second.Body.Close()
	assert.Equal(t, string(body1), string(body2))
}
