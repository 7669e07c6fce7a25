package routing

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Capability names a hard-filter gate a hospital must pass when the
// requested specialty implies it.
type Capability string

const (
	CapNone      Capability = ""
	CapTrauma    Capability = "trauma"
	CapStroke    Capability = "stroke"
	CapCardiac   Capability = "cardiac"
	CapPediatric Capability = "pediatric"
)

// Category is one canonical specialty used for specialist-load lookups.
// Matching is case-insensitive substring matching; the first category whose
// keyword matches wins.
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// CapabilityRule maps free-text specialty keywords to a required capability.
// Rules are checked in order, independently of the load categories: the
// capability priority (trauma before cardiac) differs from the load-category
// priority (cardiac before trauma), and pediatrics gates a capability
// without being a load category at all.
type CapabilityRule struct {
	Capability Capability `json:"capability"`
	Keywords   []string   `json:"keywords"`
}

// Catalog is the configured set of canonical specialties and capability
// rules. New specialties are added through configuration, not code.
type Catalog struct {
	Categories      []Category       `json:"categories"`
	CapabilityRules []CapabilityRule `json:"capability_rules"`
}

// DefaultCatalog mirrors the reference dataset: three load-tracked
// specialties plus a pediatric capability gate.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{
			{Name: "Cardiology", Keywords: []string{"cardiac", "stemi", "heart"}},
			{Name: "Trauma", Keywords: []string{"trauma"}},
			{Name: "Neurology", Keywords: []string{"stroke", "neuro"}},
		},
		CapabilityRules: []CapabilityRule{
			{Capability: CapTrauma, Keywords: []string{"trauma"}},
			{Capability: CapStroke, Keywords: []string{"stroke"}},
			{Capability: CapCardiac, Keywords: []string{"cardiac", "stemi", "heart"}},
			{Capability: CapPediatric, Keywords: []string{"pediatric", "peds"}},
		},
	}
}

// LoadCatalog reads a catalog from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read specialty catalog %s: %w", path, err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse specialty catalog %s: %w", path, err)
	}
	if len(cat.Categories) == 0 {
		return nil, fmt.Errorf("specialty catalog %s defines no categories", path)
	}
	return &cat, nil
}

// MapSpecialty normalizes a free-text specialty into a canonical category.
// Empty and "general" inputs carry no specialty.
func (c *Catalog) MapSpecialty(specialty string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(specialty))
	if s == "" || s == "general" {
		return "", false
	}
	for _, cat := range c.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(s, kw) {
				return cat.Name, true
			}
		}
	}
	return "", false
}

// RequiredCapability maps a free-text specialty to the capability a hospital
// must have, or CapNone.
func (c *Catalog) RequiredCapability(specialty string) Capability {
	s := strings.ToLower(strings.TrimSpace(specialty))
	if s == "" || s == "general" {
		return CapNone
	}
	for _, rule := range c.CapabilityRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(s, kw) {
				return rule.Capability
			}
		}
	}
	return CapNone
}

// IsCategory reports whether name is a canonical category.
func (c *Catalog) IsCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// RequiredCategories maps every specialty the request carries to canonical
// categories, dropping duplicates and anything unmapped. The plural field
// takes precedence over the singular one when set.
func (c *Catalog) RequiredCategories(req *PatientRequest) []string {
	inputs := req.RequiredSpecialties
	if inputs == nil {
		inputs = []string{req.RequiredSpecialty}
	}
	var out []string
	seen := map[string]bool{}
	for _, in := range inputs {
		cat, ok := c.MapSpecialty(in)
		if !ok || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}
