package catalogparser

import (
	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/interfaces"
)

// Compile-time check to ensure CatalogParser implements the parser interface
var _ interfaces.CatalogParser = (*CatalogParser)(nil)

// CatalogParser implements the interfaces.CatalogParser contract around the
// package-level load functions.
type CatalogParser struct {
	dataDir string
}

// NewCatalogParser creates a parser bound to a data directory.
func NewCatalogParser(dataDir string) *CatalogParser {
	return &CatalogParser{dataDir: dataDir}
}

// ParseCatalog implements the CatalogParser interface.
func (p *CatalogParser) ParseCatalog() (*entities.Catalog, error) {
	return ParseCatalog(p.dataDir)
}
