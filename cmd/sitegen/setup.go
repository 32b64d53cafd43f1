package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"essex_travel/internal/adapters/observability"
	"essex_travel/internal/app"
	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/render"
	"essex_travel/internal/shared"
)

var (
	catalogDir string
	siteFile   string
)

type project struct {
	cfg  shared.Config
	site domain.Business
	cat  *catalog.Catalog
}

// loadProject resolves flags over environment config. Flags win.
func loadProject() (*project, error) {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "sitegen")

	if siteFile == "" {
		siteFile = cfg.SiteConfig
	}
	if catalogDir == "" {
		catalogDir = cfg.CatalogDir
	}

	site, err := shared.LoadSite(siteFile)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(catalogDir)
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, site: site, cat: cat}, nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	c, err := catalog.Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", dir, err)
	}
	return c, nil
}

// pages builds an uncached page service; a build renders each page once.
func (p *project) pages() (*app.PageService, error) {
	r, err := render.New()
	if err != nil {
		return nil, err
	}
	return app.NewPageService(p.site, p.cat, r, nil, 0), nil
}
