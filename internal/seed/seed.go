// Package seed bootstraps the catalog database from a static YAML
// manifest, for local development and demo environments where an
// operator would otherwise have to INSERT rows by hand before a
// client can discover anything.
package seed

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/models"
)

// Manifest is the top-level shape of a seed YAML file:
//
//	shares:
//	  - name: demo-share
//	    schemas:
//	      - name: default
//	        tables:
//	          - name: events
//	            storageUri: /data/delta/events
//	            format: delta
type Manifest struct {
	Shares []ShareSpec `yaml:"shares"`
}

type ShareSpec struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Schemas     []SchemaSpec `yaml:"schemas"`
}

type SchemaSpec struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Tables      []TableSpec `yaml:"tables"`
}

type TableSpec struct {
	Name        string `yaml:"name"`
	StorageURI  string `yaml:"storageUri"`
	Format      string `yaml:"format"`
	ShareAsView bool   `yaml:"shareAsView"`
}

// LoadManifest parses a seed YAML file from disk.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse seed manifest %s: %w", path, err)
	}
	return &m, nil
}

// Apply upserts the manifest's shares/schemas/tables into the catalog
// database. Existing rows with a matching name are left untouched aside
// from their mutable fields; nothing is ever deleted, so an operator can
// re-run Apply safely against a database that already has manual changes.
func Apply(db *gorm.DB, m *Manifest) error {
	for _, shareSpec := range m.Shares {
		share := models.Share{Name: shareSpec.Name}
		if err := db.Where(models.Share{Name: shareSpec.Name}).
			Attrs(models.Share{Description: shareSpec.Description, Active: true}).
			FirstOrCreate(&share).Error; err != nil {
			return fmt.Errorf("seed share %s: %w", shareSpec.Name, err)
		}

		for _, schemaSpec := range shareSpec.Schemas {
			schema := models.Schema{ShareID: share.ID, Name: schemaSpec.Name}
			if err := db.Where(models.Schema{ShareID: share.ID, Name: schemaSpec.Name}).
				Attrs(models.Schema{Description: schemaSpec.Description}).
				FirstOrCreate(&schema).Error; err != nil {
				return fmt.Errorf("seed schema %s.%s: %w", shareSpec.Name, schemaSpec.Name, err)
			}

			for _, tableSpec := range schemaSpec.Tables {
				format := models.FormatDelta
				if tableSpec.Format == string(models.FormatParquet) {
					format = models.FormatParquet
				}
				table := models.Table{SchemaID: schema.ID, Name: tableSpec.Name}
				if err := db.Where(models.Table{SchemaID: schema.ID, Name: tableSpec.Name}).
					Attrs(models.Table{
						StorageURI:  tableSpec.StorageURI,
						Format:      format,
						ShareAsView: tableSpec.ShareAsView,
					}).FirstOrCreate(&table).Error; err != nil {
					return fmt.Errorf("seed table %s.%s.%s: %w", shareSpec.Name, schemaSpec.Name, tableSpec.Name, err)
				}
			}
		}
	}

	log.Printf("[seed] applied manifest: %d share(s)", len(m.Shares))
	return nil
}

// LoadAndApply is the convenience entry point used at startup: it no-ops
// when path is empty, so callers can wire it unconditionally.
func LoadAndApply(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}
	m, err := LoadManifest(path)
	if err != nil {
		return err
	}
	return Apply(db, m)
}
