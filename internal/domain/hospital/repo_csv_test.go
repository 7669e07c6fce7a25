package hospital

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testDataset = `hospital_name,latitude,longitude,trauma_level,stroke_center_level,cardiac_cath_lab,pediatric_specialty,ed_diversion_sim,available_ed_beds_sim,available_icu_beds_sim,er_wait_min_sim,on_call_ed_physicians_sim,ambulance_travel_time_min_sim,specialists_Cardiology,specialist_patients_Cardiology,specialists_Trauma,specialist_patients_Trauma
General Medical Center,34.05,-118.24,II,Primary,Yes,Yes,no,8,3,45,5,12,4,2,3,1
St. Mary Hospital,34.10,-118.30,N/A,None,No,No,yes,2,0,90,2,25,0,0,0,0
,0,0,,,,,,,,,,,,,,
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hospitals.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVRepositoryAll(t *testing.T) {
	repo := NewCSVRepository(writeDataset(t, testDataset))
	hs, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rows without a hospital_name drop out.
	if len(hs) != 2 {
		t.Fatalf("expected 2 hospitals, got %d", len(hs))
	}

	h := hs[0]
	if h.ID != "General Medical Center" || h.Name != "General Medical Center" {
		t.Errorf("unexpected identity: %q / %q", h.ID, h.Name)
	}
	if h.Latitude != 34.05 || h.Longitude != -118.24 {
		t.Errorf("unexpected coordinates: %v, %v", h.Latitude, h.Longitude)
	}
	if h.TraumaLevel != "II" || h.StrokeCenterLevel != "Primary" {
		t.Errorf("unexpected designations: %q / %q", h.TraumaLevel, h.StrokeCenterLevel)
	}
	if h.AvailableEDBeds != 8 || h.AvailableICUBeds != 3 || h.ERWaitMin != 45 || h.OnCallPhysicians != 5 {
		t.Errorf("unexpected capacity fields: %+v", h)
	}
	if h.FallbackETAMin != 12 {
		t.Errorf("expected fallback ETA 12, got %v", h.FallbackETAMin)
	}
	if h.Specialists["Cardiology"] != 4 || h.SpecialistPatients["Cardiology"] != 2 {
		t.Errorf("unexpected cardiology counts: %v / %v",
			h.Specialists["Cardiology"], h.SpecialistPatients["Cardiology"])
	}
	if h.Specialists["Trauma"] != 3 || h.SpecialistPatients["Trauma"] != 1 {
		t.Errorf("unexpected trauma counts: %v / %v",
			h.Specialists["Trauma"], h.SpecialistPatients["Trauma"])
	}

	if hs[1].EDDiversion != "yes" {
		t.Errorf("expected diversion flag preserved, got %q", hs[1].EDDiversion)
	}
}

func TestCSVRepositoryStableOrder(t *testing.T) {
	repo := NewCSVRepository(writeDataset(t, testDataset))
	first, err := repo.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, _ := repo.All(context.Background())
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order changed between reads at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestCSVRepositoryGetByID(t *testing.T) {
	repo := NewCSVRepository(writeDataset(t, testDataset))
	h, err := repo.GetByID(context.Background(), "St. Mary Hospital")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ERWaitMin != 90 {
		t.Errorf("expected wait 90, got %v", h.ERWaitMin)
	}

	if _, err := repo.GetByID(context.Background(), "Nowhere"); err == nil {
		t.Error("expected error for unknown hospital")
	}
}

func TestCSVRepositoryList(t *testing.T) {
	repo := NewCSVRepository(writeDataset(t, testDataset))
	items, total, err := repo.List(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].ID != "St. Mary Hospital" {
		t.Errorf("unexpected page: total=%d items=%v", total, items)
	}

	empty, total, _ := repo.List(context.Background(), 10, 5)
	if total != 2 || len(empty) != 0 {
		t.Errorf("expected empty page past the end, got %v", empty)
	}
}

func TestCSVRepositoryMissingFile(t *testing.T) {
	repo := NewCSVRepository(filepath.Join(t.TempDir(), "missing.csv"))
	if _, err := repo.All(context.Background()); err == nil {
		t.Error("expected error for missing dataset")
	}
}

func TestCSVRepositoryBadHeader(t *testing.T) {
	repo := NewCSVRepository(writeDataset(t, "name,city\nFoo,LA\n"))
	if _, err := repo.All(context.Background()); err == nil {
		t.Error("expected error for dataset without hospital_name column")
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"abc", 0},
		{"12", 12},
		{"12.5", 12.5},
		{"-3", -3},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
