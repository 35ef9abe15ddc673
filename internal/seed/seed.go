// Package seed provides the default catalog written to an empty store.
package seed

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hkgcity/directory/internal/domain"
)

//go:embed data/*.yaml
var files embed.FS

// Dataset - каталог по умолчанию
type Dataset struct {
	Categories []domain.Category
	Listings   []domain.Listing
}

// Load parses the embedded categories and listings.
func Load() (*Dataset, error) {
	var ds Dataset
	if err := decode("data/categories.yaml", &ds.Categories); err != nil {
		return nil, err
	}
	if err := decode("data/listings.yaml", &ds.Listings); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Listings returns only the default listings.
func Listings() ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := decode("data/listings.yaml", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func decode(name string, out any) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", name, err)
	}
	return nil
}
