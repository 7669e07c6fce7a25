package routing

import (
	"github.com/google/uuid"

	"github.com/ems/ems/internal/domain/hospital"
)

// defaultAcuity is assumed when the upstream extraction supplies none.
// Acuity 1 is the most critical.
const defaultAcuity = 3

// criticalAcuity is the threshold at or below which a patient is critical.
const criticalAcuity = 2

// PatientRequest is the structured output of the upstream natural-language
// extraction step plus the requester's current location. One instance per
// routing call.
type PatientRequest struct {
	AcuityLevel         *int     `json:"acuity_level,omitempty"`
	RequiredSpecialty   string   `json:"required_specialty,omitempty"`
	RequiredSpecialties []string `json:"required_specialties,omitempty"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
}

// Acuity returns the acuity level, defaulting when unset.
func (p *PatientRequest) Acuity() int {
	if p.AcuityLevel == nil {
		return defaultAcuity
	}
	return *p.AcuityLevel
}

// Critical reports whether the patient needs ICU-level care.
func (p *PatientRequest) Critical() bool {
	return p.Acuity() <= criticalAcuity
}

// scoredCandidate pairs a hospital with its score and ETA for the selection
// stage. Produced fresh per routing call.
type scoredCandidate struct {
	score    float64
	hospital *hospital.Hospital
	eta      float64
}

// RoutingResult describes the selected hospital. Score is rounded to two
// decimals, ETA to one. SpecialistLoad is nil when no specialty was required
// or the hospital does not offer it.
type RoutingResult struct {
	DecisionID        uuid.UUID `json:"decision_id"`
	HospitalID        string    `json:"hospital_id"`
	HospitalName      string    `json:"hospital_name"`
	RoutingScore      float64   `json:"routing_score"`
	ETAMinutes        float64   `json:"eta_minutes"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	AvailableEDBeds   float64   `json:"available_ed_beds"`
	AvailableICUBeds  float64   `json:"available_icu_beds"`
	ERWaitMin         float64   `json:"er_wait_min"`
	TraumaLevel       string    `json:"trauma_level"`
	StrokeCenterLevel string    `json:"stroke_center_level"`
	CardiacCathLab    string    `json:"cardiac_cath_lab"`
	SpecialistReady   bool      `json:"specialist_ready"`
	SpecialistLoad    *float64  `json:"specialist_load"`
}
