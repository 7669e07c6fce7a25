package routing

import "sync"

// Overlay records the demand effects of routing decisions acted on since
// process start: bed deltas and per-specialty patient increments, layered on
// top of the static dataset. It is the only shared mutable state in the
// engine. Reads during filtering and scoring may observe a slightly stale
// view; commits must never be lost, so every mutation happens under one lock.
// Never persisted — a restart resets it.
type Overlay struct {
	mu      sync.Mutex
	entries map[string]*overlayEntry
}

type overlayEntry struct {
	edBeds   int
	icuBeds  int
	patients map[string]int
}

// OverlayEntry is the externally visible form of one hospital's deltas.
type OverlayEntry struct {
	EDBedsDelta             int            `json:"ed_beds_delta"`
	ICUBedsDelta            int            `json:"icu_beds_delta"`
	SpecialistPatientsDelta map[string]int `json:"specialist_patients_delta"`
}

func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[string]*overlayEntry)}
}

// BedDeltas returns the ED and ICU bed deltas for a hospital. Unknown
// hospitals have zero deltas.
func (o *Overlay) BedDeltas(hospitalID string) (ed, icu int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[hospitalID]
	if !ok {
		return 0, 0
	}
	return e.edBeds, e.icuBeds
}

// PatientDelta returns the specialist-patient delta for one hospital and
// category, floored at zero.
func (o *Overlay) PatientDelta(hospitalID, category string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[hospitalID]
	if !ok {
		return 0
	}
	d := e.patients[category]
	if d < 0 {
		return 0
	}
	return d
}

// Commit applies one accepted routing decision: one ED bed consumed, one ICU
// bed when the patient is critical, and one more specialist patient per
// required category. Entries are created lazily; an empty hospital ID is a
// no-op.
func (o *Overlay) Commit(hospitalID string, critical bool, categories []string) {
	if hospitalID == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[hospitalID]
	if !ok {
		e = &overlayEntry{patients: make(map[string]int)}
		o.entries[hospitalID] = e
	}
	e.edBeds--
	if critical {
		e.icuBeds--
	}
	for _, cat := range categories {
		e.patients[cat]++
	}
}

// Snapshot copies the overlay for inspection endpoints.
func (o *Overlay) Snapshot() map[string]OverlayEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]OverlayEntry, len(o.entries))
	for id, e := range o.entries {
		patients := make(map[string]int, len(e.patients))
		for cat, d := range e.patients {
			patients[cat] = d
		}
		out[id] = OverlayEntry{EDBedsDelta: e.edBeds, ICUBedsDelta: e.icuBeds, SpecialistPatientsDelta: patients}
	}
	return out
}
