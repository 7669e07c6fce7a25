package hospital

import "strconv"

// Hospital is one candidate destination. Capability fields keep their raw
// dataset values; the routing engine interprets them. The ID is the stable
// dataset identifier and is used as the demand-overlay key.
type Hospital struct {
	ID                 string             `db:"id" json:"id"`
	Name               string             `db:"name" json:"name"`
	Latitude           float64            `db:"latitude" json:"latitude"`
	Longitude          float64            `db:"longitude" json:"longitude"`
	TraumaLevel        string             `db:"trauma_level" json:"trauma_level"`
	StrokeCenterLevel  string             `db:"stroke_center_level" json:"stroke_center_level"`
	CardiacCathLab     string             `db:"cardiac_cath_lab" json:"cardiac_cath_lab"`
	PediatricSpecialty string             `db:"pediatric_specialty" json:"pediatric_specialty"`
	EDDiversion        string             `db:"ed_diversion" json:"ed_diversion"`
	AvailableEDBeds    float64            `db:"available_ed_beds" json:"available_ed_beds"`
	AvailableICUBeds   float64            `db:"available_icu_beds" json:"available_icu_beds"`
	ERWaitMin          float64            `db:"er_wait_min" json:"er_wait_min"`
	OnCallPhysicians   float64            `db:"on_call_physicians" json:"on_call_physicians"`
	FallbackETAMin     float64            `db:"fallback_eta_min" json:"fallback_eta_min"`
	Specialists        map[string]float64 `db:"specialists" json:"specialists"`
	SpecialistPatients map[string]float64 `db:"specialist_patients" json:"specialist_patients"`
}

// Num converts a raw dataset field to a float64. Missing or malformed
// values become 0 rather than an error; dataset rows are best-effort.
func Num(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
