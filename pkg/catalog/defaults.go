package catalog

import _ "embed"

// defaultCatalogYAML ships the published tariff schedules, Ft announcements
// and TOU holiday calendars so the service runs without any external
// configuration.
//
//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Default returns the embedded default catalog. It panics if the embedded
// file is invalid, which is caught by the package tests.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}
