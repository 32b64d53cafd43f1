package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"essex_travel/internal/domain"
)

//go:embed data/*.yaml
var embedded embed.FS

type citiesFile struct {
	Cities []domain.City `yaml:"cities"`
}

type servicesFile struct {
	Services []domain.Service `yaml:"services"`
}

type entitiesFile struct {
	Entries []domain.Entity `yaml:"entries"`
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return Load(sub)
}

// MustDefault is Default for callers that treat a broken embedded catalog as
// a programming error.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads cities.yaml, services.yaml and one <collection>.yaml per content
// kind from fsys. Collection files are optional; the first two are not.
func Load(fsys fs.FS) (*Catalog, error) {
	var cf citiesFile
	if err := decode(fsys, "cities.yaml", &cf); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	var sf servicesFile
	if err := decode(fsys, "services.yaml", &sf); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var entities []domain.Entity
	for _, kind := range domain.Kinds() {
		var ef entitiesFile
		err := decode(fsys, kind.String()+".yaml", &ef)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		for _, e := range ef.Entries {
			e.Kind = kind
			entities = append(entities, e)
		}
	}

	return New(cf.Cities, sf.Services, entities), nil
}

func decode(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
