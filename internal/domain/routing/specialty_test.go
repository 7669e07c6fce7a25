package routing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapSpecialty(t *testing.T) {
	cat := DefaultCatalog()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", false},
		{"general", "", false},
		{"General", "", false},
		{"cardiac", "Cardiology", true},
		{"STEMI alert", "Cardiology", true},
		{"suspected heart attack", "Cardiology", true},
		{"trauma surgery", "Trauma", true},
		{"stroke", "Neurology", true},
		{"neuro deficit", "Neurology", true},
		{"dermatology", "", false},
	}
	for _, tt := range tests {
		got, ok := cat.MapSpecialty(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MapSpecialty(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMapSpecialtyPriorityOrder(t *testing.T) {
	// A description matching several categories resolves to the first one
	// listed: cardiac wins over trauma wins over neurology.
	cat := DefaultCatalog()
	got, _ := cat.MapSpecialty("cardiac trauma with stroke symptoms")
	if got != "Cardiology" {
		t.Errorf("expected Cardiology to win, got %q", got)
	}
}

func TestRequiredCapability(t *testing.T) {
	cat := DefaultCatalog()
	tests := []struct {
		in   string
		want Capability
	}{
		{"", CapNone},
		{"general", CapNone},
		{"trauma", CapTrauma},
		{"stroke unit", CapStroke},
		{"cardiac", CapCardiac},
		{"pediatric", CapPediatric},
		{"peds", CapPediatric},
		{"orthopedics", CapNone},
	}
	for _, tt := range tests {
		if got := cat.RequiredCapability(tt.in); got != tt.want {
			t.Errorf("RequiredCapability(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequiredCapabilityPriorityOrder(t *testing.T) {
	// Capability rules have their own priority: trauma outranks cardiac here,
	// the reverse of the load-category order.
	cat := DefaultCatalog()
	if got := cat.RequiredCapability("cardiac trauma"); got != CapTrauma {
		t.Errorf("expected trauma capability to win, got %q", got)
	}
}

func TestRequiredCategories(t *testing.T) {
	cat := DefaultCatalog()

	single := &PatientRequest{RequiredSpecialty: "stroke"}
	if got := cat.RequiredCategories(single); len(got) != 1 || got[0] != "Neurology" {
		t.Errorf("single specialty: got %v", got)
	}

	// The plural field takes precedence, duplicates and unknowns drop out.
	multi := &PatientRequest{
		RequiredSpecialty:   "cardiac",
		RequiredSpecialties: []string{"trauma", "neuro", "stroke", "dermatology"},
	}
	got := cat.RequiredCategories(multi)
	if len(got) != 2 || got[0] != "Trauma" || got[1] != "Neurology" {
		t.Errorf("multi specialty: got %v", got)
	}

	none := &PatientRequest{}
	if got := cat.RequiredCategories(none); len(got) != 0 {
		t.Errorf("no specialty: got %v", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `{
		"categories": [
			{"name": "Burns", "keywords": ["burn"]}
		],
		"capability_rules": [
			{"capability": "trauma", "keywords": ["burn"]}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := cat.MapSpecialty("severe burn"); !ok || got != "Burns" {
		t.Errorf("expected Burns, got %q, %v", got, ok)
	}
	if got := cat.RequiredCapability("burn unit"); got != CapTrauma {
		t.Errorf("expected trauma capability, got %q", got)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(empty, []byte(`{"categories": []}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(empty); err == nil {
		t.Error("expected error for catalog without categories")
	}
}
