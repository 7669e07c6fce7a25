package routing

import (
	"strings"

	"github.com/ems/ems/internal/domain/hospital"
)

// Capability predicates interpret raw dataset values. They are pure; the
// hard-filter stage is their only caller besides tests.

// hasTraumaCapability accepts any designated trauma level. Levels I–IV all
// start with "I", which is what the dataset encodes.
func hasTraumaCapability(level string) bool {
	if level == "" || level == "N/A" {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(level), "I")
}

func hasStrokeCapability(level string) bool {
	if level == "" {
		return false
	}
	u := strings.ToLower(level)
	if strings.Contains(u, "none") && !strings.Contains(u, "capable") {
		return false
	}
	return strings.Contains(u, "primary") || strings.Contains(u, "comprehensive") || strings.Contains(u, "capable")
}

func hasCardiacCapability(cathLab string) bool {
	return strings.TrimSpace(strings.ToLower(cathLab)) == "yes"
}

func hasPediatricCapability(pediatric string) bool {
	if pediatric == "" {
		return false
	}
	u := strings.ToLower(pediatric)
	return strings.Contains(u, "yes") || strings.Contains(u, "limited") || strings.Contains(u, "nicu")
}

func hospitalHasCapability(h *hospital.Hospital, cap Capability) bool {
	switch cap {
	case CapTrauma:
		return hasTraumaCapability(h.TraumaLevel)
	case CapStroke:
		return hasStrokeCapability(h.StrokeCenterLevel)
	case CapCardiac:
		return hasCardiacCapability(h.CardiacCathLab)
	case CapPediatric:
		return hasPediatricCapability(h.PediatricSpecialty)
	}
	return true
}
