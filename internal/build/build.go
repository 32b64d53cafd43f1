// Package build writes the whole site to a directory as static files.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"essex_travel/internal/app"
	"essex_travel/internal/routes"
	"essex_travel/internal/sitemap"
)

// ErrSchemaInvalid fails a strict build when any page's structured data
// did not validate.
var ErrSchemaInvalid = errors.New("structured data failed validation")

type Failure struct {
	Path   string   `json:"path"`
	Issues []string `json:"issues"`
}

type Report struct {
	Pages    int           `json:"pages"`
	Schemas  int           `json:"schemas"`
	Failures []Failure     `json:"failures,omitempty"`
	Duration time.Duration `json:"duration"`
}

type Builder struct {
	pages   *app.PageService
	workers int
	strict  bool
}

func New(pages *app.PageService, workers int, strict bool) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{pages: pages, workers: workers, strict: strict}
}

// Build renders every route into outDir. A page whose graph cannot be
// built stops the build; validation findings only do so in strict mode.
func (b *Builder) Build(ctx context.Context, outDir string) (Report, error) {
	start := time.Now()
	all := routes.All(b.pages.Catalog())

	var (
		mu  sync.Mutex
		rep Report
	)
	sem := semaphore.NewWeighted(int64(b.workers))
	g, gctx := errgroup.WithContext(ctx)

	for _, route := range all {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			page, err := b.pages.Build(route)
			if err != nil {
				return fmt.Errorf("build %s: %w", route.Path, err)
			}
			if err := writeFile(outDir, pageFile(route.Path), page.HTML); err != nil {
				return err
			}
			if err := writeFile(outDir, SchemaFile(route.Path), page.Schema); err != nil {
				return err
			}

			mu.Lock()
			rep.Pages++
			rep.Schemas++
			if len(page.Issues) > 0 {
				rep.Failures = append(rep.Failures, Failure{Path: route.Path, Issues: page.Issues})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	site := b.pages.Site()
	var buf bytes.Buffer
	if err := sitemap.WriteXML(&buf, sitemap.Entries(b.pages.Catalog(), site.URL)); err != nil {
		return rep, fmt.Errorf("sitemap: %w", err)
	}
	if err := writeFile(outDir, "sitemap.xml", buf.Bytes()); err != nil {
		return rep, err
	}
	buf.Reset()
	if err := sitemap.WriteRobots(&buf, site.URL); err != nil {
		return rep, fmt.Errorf("robots: %w", err)
	}
	if err := writeFile(outDir, "robots.txt", buf.Bytes()); err != nil {
		return rep, err
	}
	if err := writeFile(outDir, "404.html", b.pages.NotFound()); err != nil {
		return rep, err
	}

	sort.Slice(rep.Failures, func(i, j int) bool { return rep.Failures[i].Path < rep.Failures[j].Path })
	rep.Duration = time.Since(start)
	log.Info().
		Int("pages", rep.Pages).
		Int("schema_failures", len(rep.Failures)).
		Dur("duration", rep.Duration).
		Str("out", outDir).
		Msg("site build completed")

	if b.strict && len(rep.Failures) > 0 {
		return rep, fmt.Errorf("%w on %d pages", ErrSchemaInvalid, len(rep.Failures))
	}
	return rep, nil
}

// pageFile maps a route path onto its index.html.
func pageFile(path string) string {
	return filepath.Join(filepath.FromSlash(strings.Trim(path, "/")), "index.html")
}

// SchemaFile is the output path of a page's JSON-LD, relative to the build
// directory. It mirrors the /schema/... URL served by the API.
func SchemaFile(path string) string {
	rel := strings.Trim(path, "/")
	if rel == "" {
		rel = "index"
	}
	return filepath.Join("schema", filepath.FromSlash(rel)+".json")
}

func writeFile(outDir, rel string, data []byte) error {
	full := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
