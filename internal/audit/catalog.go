// Package audit counts records missing quality-required fields and
// surfaces examples for cleanup.
package audit

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/crm-reconcile/internal/model"
)

// Catalog lists the tracked fields per platform and object type, in the
// order stats are reported. Field names are the platform's raw names.
type Catalog map[model.Platform]map[model.ObjectType][]string

// DefaultCatalog returns the built-in tracked-field lists.
func DefaultCatalog() Catalog {
	return Catalog{
		model.PlatformPrimary: {
			model.ObjectContact: {"email", "firstname", "lastname", "phone", "company"},
			model.ObjectCompany: {"domain", "name"},
			model.ObjectDeal:    {"dealname", "amount", "dealstage", "closedate"},
		},
		model.PlatformLegacy: {
			model.ObjectContact: {"email", "firstName", "lastName", "phone"},
			model.ObjectDeal:    {"title", "value", "status"},
		},
	}
}

// Fields returns the tracked list for one collection, or nil when the
// catalog tracks nothing for it.
func (c Catalog) Fields(platform model.Platform, object model.ObjectType) []string {
	return c[platform][object]
}

// LoadCatalog reads a catalog override from a YAML file. Collections
// absent from the file keep the defaults.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "audit: read catalog %s", path)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrap(err, "audit: parse catalog")
	}

	catalog := DefaultCatalog()
	for platform, objects := range override {
		if catalog[platform] == nil {
			catalog[platform] = map[model.ObjectType][]string{}
		}
		for object, fields := range objects {
			catalog[platform][object] = fields
		}
	}
	return catalog, nil
}
