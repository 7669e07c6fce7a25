package routing

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ems/ems/internal/domain/hospital"
	"github.com/ems/ems/internal/platform/traveltime"
)

// DefaultFallbackETA is assumed, in minutes, when the travel-time service is
// unavailable and the hospital record carries no estimate of its own.
const DefaultFallbackETA = 999

// Weights parameterize the score formula. Lower scores are better; positive
// weights penalize, the capacity and staffing terms subtract.
type Weights struct {
	Travel         float64
	Wait           float64
	Capacity       float64
	Staff          float64
	ICUPressure    float64
	SpecialistLoad float64
	NoSpecialist   float64
}

func DefaultWeights() Weights {
	return Weights{
		Travel:         1.0,
		Wait:           0.5,
		Capacity:       2.0,
		Staff:          0.3,
		ICUPressure:    50,
		SpecialistLoad: 20,
		NoSpecialist:   500,
	}
}

// HospitalSource supplies candidate hospitals in stable order.
type HospitalSource interface {
	All(ctx context.Context) ([]*hospital.Hospital, error)
}

// Service is the routing engine: hard filters, scoring, selection, and the
// demand-overlay commit. The estimator may be nil, in which case every
// hospital gets its fallback ETA.
type Service struct {
	source      HospitalSource
	estimator   traveltime.Estimator
	overlay     *Overlay
	catalog     *Catalog
	weights     Weights
	fallbackETA float64
	logger      zerolog.Logger
}

func NewService(source HospitalSource, estimator traveltime.Estimator, overlay *Overlay, catalog *Catalog, logger zerolog.Logger) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Service{
		source:      source,
		estimator:   estimator,
		overlay:     overlay,
		catalog:     catalog,
		weights:     DefaultWeights(),
		fallbackETA: DefaultFallbackETA,
		logger:      logger,
	}
}

// SetWeights overrides the default score weights.
func (s *Service) SetWeights(w Weights) { s.weights = w }

// SetFallbackETA overrides the uniform fallback, in minutes.
func (s *Service) SetFallbackETA(minutes float64) {
	if minutes > 0 {
		s.fallbackETA = minutes
	}
}

// Overlay exposes the demand overlay for inspection.
func (s *Service) Overlay() *Overlay { return s.overlay }

// Optimal selects the best destination for the request from the configured
// hospital source. A nil result with a nil error means no hospital is
// eligible; callers must check.
func (s *Service) Optimal(ctx context.Context, req *PatientRequest) (*RoutingResult, error) {
	hospitals, err := s.source.All(ctx)
	if err != nil {
		return nil, err
	}
	return s.OptimalFor(ctx, req, hospitals)
}

// OptimalFor is the externally-supplied-dataset variant: the caller provides
// the candidate hospitals.
func (s *Service) OptimalFor(ctx context.Context, req *PatientRequest, hospitals []*hospital.Hospital) (*RoutingResult, error) {
	eligible := s.applyHardFilters(hospitals, req)
	if len(eligible) == 0 {
		return nil, nil
	}

	etas := s.fetchETAs(ctx, req, eligible)

	scored := make([]scoredCandidate, 0, len(eligible))
	for _, h := range eligible {
		eta, ok := etas[h.ID]
		if !ok {
			eta = s.fallbackFor(h)
		}
		scored = append(scored, scoredCandidate{
			score:    s.score(h, eta, req),
			hospital: h,
			eta:      eta,
		})
	}
	// Stable: ties keep dataset order.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score < scored[j].score })

	return s.assembleResult(scored[0], req), nil
}

// SendPatient commits an accepted routing decision to the demand overlay.
// Empty hospital IDs are ignored; unknown ones get a fresh overlay entry.
func (s *Service) SendPatient(hospitalID string, req *PatientRequest) {
	if hospitalID == "" {
		return
	}
	s.overlay.Commit(hospitalID, req.Critical(), s.catalog.RequiredCategories(req))
}

// applyHardFilters drops hospitals on diversion, hospitals missing a
// capability the requested specialty implies, and — for critical patients —
// hospitals with no adjusted ICU capacity. Input order is preserved.
func (s *Service) applyHardFilters(hospitals []*hospital.Hospital, req *PatientRequest) []*hospital.Hospital {
	required := s.catalog.RequiredCapability(req.RequiredSpecialty)
	critical := req.Critical()

	out := make([]*hospital.Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		if strings.EqualFold(strings.TrimSpace(h.EDDiversion), "yes") {
			continue
		}
		if !hospitalHasCapability(h, required) {
			continue
		}
		if critical {
			_, icuDelta := s.overlay.BedDeltas(h.ID)
			if h.AvailableICUBeds+float64(icuDelta) <= 0 {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// score computes the lower-is-better routing score. Extreme ETAs penalize
// linearly, they never hard-disqualify.
func (s *Service) score(h *hospital.Hospital, etaMinutes float64, req *PatientRequest) float64 {
	edDelta, icuDelta := s.overlay.BedDeltas(h.ID)
	edBeds := math.Max(0, h.AvailableEDBeds+float64(edDelta))
	icuBeds := math.Max(0, h.AvailableICUBeds+float64(icuDelta))

	score := s.weights.Travel*etaMinutes + s.weights.Wait*h.ERWaitMin
	score -= s.weights.Capacity * edBeds
	score -= s.weights.Staff * h.OnCallPhysicians
	if req.Critical() && icuBeds <= 1 {
		score += s.weights.ICUPressure
	}

	if cat, ok := s.catalog.MapSpecialty(req.RequiredSpecialty); ok {
		load, offered := s.specialistLoad(h, cat)
		switch {
		case !offered && req.Critical():
			score += s.weights.NoSpecialist
		case offered:
			score += s.weights.SpecialistLoad * load
		}
	}
	return score
}

// specialistLoad returns current patients per specialist for a category,
// overlay included. The ok result distinguishes "not offered" from a load
// of zero (fully available).
func (s *Service) specialistLoad(h *hospital.Hospital, category string) (float64, bool) {
	if !s.catalog.IsCategory(category) {
		return 0, false
	}
	specialists := h.Specialists[category]
	if specialists <= 0 {
		return 0, false
	}
	patients := h.SpecialistPatients[category] + float64(s.overlay.PatientDelta(h.ID, category))
	if patients < 0 {
		patients = 0
	}
	return patients / specialists, true
}

// fetchETAs performs the one batched travel-time lookup. Any failure is
// logged and degrades to per-hospital fallbacks; routing never fails on an
// unavailable travel-time service.
func (s *Service) fetchETAs(ctx context.Context, req *PatientRequest, hospitals []*hospital.Hospital) map[string]float64 {
	if s.estimator == nil {
		return s.fallbackETAs(hospitals)
	}
	stops := make([]traveltime.Stop, len(hospitals))
	for i, h := range hospitals {
		stops[i] = traveltime.Stop{ID: h.ID, Latitude: h.Latitude, Longitude: h.Longitude}
	}
	origin := traveltime.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	etas, err := s.estimator.Estimate(ctx, origin, stops)
	if err != nil {
		s.logger.Warn().Err(err).Msg("travel time lookup failed, using fallback estimates")
		return s.fallbackETAs(hospitals)
	}
	return etas
}

func (s *Service) fallbackETAs(hospitals []*hospital.Hospital) map[string]float64 {
	out := make(map[string]float64, len(hospitals))
	for _, h := range hospitals {
		out[h.ID] = s.fallbackFor(h)
	}
	return out
}

func (s *Service) fallbackFor(h *hospital.Hospital) float64 {
	if h.FallbackETAMin > 0 {
		return h.FallbackETAMin
	}
	return s.fallbackETA
}

func (s *Service) assembleResult(best scoredCandidate, req *PatientRequest) *RoutingResult {
	h := best.hospital

	specialistReady := true
	var loadPtr *float64
	if cat, ok := s.catalog.MapSpecialty(req.RequiredSpecialty); ok {
		load, offered := s.specialistLoad(h, cat)
		specialistReady = offered
		if offered {
			rounded := round2(load)
			loadPtr = &rounded
		}
	}

	return &RoutingResult{
		DecisionID:        uuid.New(),
		HospitalID:        h.ID,
		HospitalName:      h.Name,
		RoutingScore:      round2(best.score),
		ETAMinutes:        round1(best.eta),
		Latitude:          h.Latitude,
		Longitude:         h.Longitude,
		AvailableEDBeds:   h.AvailableEDBeds,
		AvailableICUBeds:  h.AvailableICUBeds,
		ERWaitMin:         h.ERWaitMin,
		TraumaLevel:       h.TraumaLevel,
		StrokeCenterLevel: h.StrokeCenterLevel,
		CardiacCathLab:    h.CardiacCathLab,
		SpecialistReady:   specialistReady,
		SpecialistLoad:    loadPtr,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
