package hospital

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Dataset column prefixes for per-specialty counts, e.g.
// specialists_Cardiology / specialist_patients_Cardiology.
const (
	specialistsPrefix        = "specialists_"
	specialistPatientsPrefix = "specialist_patients_"
)

type csvRepo struct {
	path string

	mu    sync.Mutex
	cache []*Hospital
}

// NewCSVRepository returns a Repository backed by a CSV dataset file. The
// file is read once on first use and cached for the process lifetime;
// refreshing the dataset means restarting the server.
func NewCSVRepository(path string) Repository {
	return &csvRepo{path: path}
}

func (r *csvRepo) load() ([]*Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil {
		return r.cache, nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open hospital dataset %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse hospital dataset %s: %w", r.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("hospital dataset %s is empty", r.path)
	}

	header := records[0]
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["hospital_name"]; !ok {
		return nil, fmt.Errorf("hospital dataset %s has no hospital_name column", r.path)
	}

	hospitals := make([]*Hospital, 0, len(records)-1)
	for _, rec := range records[1:] {
		h := parseRow(header, cols, rec)
		if h.ID == "" {
			continue
		}
		hospitals = append(hospitals, h)
	}

	r.cache = hospitals
	return hospitals, nil
}

func parseRow(header []string, cols map[string]int, rec []string) *Hospital {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	h := &Hospital{
		ID:                 field("hospital_name"),
		Name:               field("hospital_name"),
		Latitude:           Num(field("latitude")),
		Longitude:          Num(field("longitude")),
		TraumaLevel:        field("trauma_level"),
		StrokeCenterLevel:  field("stroke_center_level"),
		CardiacCathLab:     field("cardiac_cath_lab"),
		PediatricSpecialty: field("pediatric_specialty"),
		EDDiversion:        field("ed_diversion_sim"),
		AvailableEDBeds:    Num(field("available_ed_beds_sim")),
		AvailableICUBeds:   Num(field("available_icu_beds_sim")),
		ERWaitMin:          Num(field("er_wait_min_sim")),
		OnCallPhysicians:   Num(field("on_call_ed_physicians_sim")),
		FallbackETAMin:     Num(field("ambulance_travel_time_min_sim")),
		Specialists:        map[string]float64{},
		SpecialistPatients: map[string]float64{},
	}

	for i, name := range header {
		if i >= len(rec) {
			continue
		}
		name = strings.TrimSpace(name)
		switch {
		case strings.HasPrefix(name, specialistPatientsPrefix):
			h.SpecialistPatients[strings.TrimPrefix(name, specialistPatientsPrefix)] = Num(strings.TrimSpace(rec[i]))
		case strings.HasPrefix(name, specialistsPrefix):
			h.Specialists[strings.TrimPrefix(name, specialistsPrefix)] = Num(strings.TrimSpace(rec[i]))
		}
	}

	return h
}

func (r *csvRepo) All(_ context.Context) ([]*Hospital, error) {
	hs, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]*Hospital, len(hs))
	copy(out, hs)
	return out, nil
}

func (r *csvRepo) GetByID(_ context.Context, id string) (*Hospital, error) {
	hs, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, h := range hs {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hospital %s not found", id)
}

func (r *csvRepo) List(_ context.Context, limit, offset int) ([]*Hospital, int, error) {
	hs, err := r.load()
	if err != nil {
		return nil, 0, err
	}
	total := len(hs)
	if offset >= total {
		return []*Hospital{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]*Hospital, end-offset)
	copy(out, hs[offset:end])
	return out, total, nil
}
