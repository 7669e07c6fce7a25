package routing

import (
	"sync"
	"testing"
)

func TestOverlayCommitAccumulates(t *testing.T) {
	o := NewOverlay()
	o.Commit("a", true, []string{"Trauma"})
	o.Commit("a", false, []string{"Trauma", "Neurology"})

	ed, icu := o.BedDeltas("a")
	if ed != -2 || icu != -1 {
		t.Errorf("expected deltas -2/-1, got %d/%d", ed, icu)
	}
	if d := o.PatientDelta("a", "Trauma"); d != 2 {
		t.Errorf("expected trauma delta 2, got %d", d)
	}
	if d := o.PatientDelta("a", "Neurology"); d != 1 {
		t.Errorf("expected neurology delta 1, got %d", d)
	}
}

func TestOverlayUnknownHospital(t *testing.T) {
	o := NewOverlay()
	if ed, icu := o.BedDeltas("missing"); ed != 0 || icu != 0 {
		t.Errorf("expected zero deltas, got %d/%d", ed, icu)
	}
	if d := o.PatientDelta("missing", "Trauma"); d != 0 {
		t.Errorf("expected zero patient delta, got %d", d)
	}
}

func TestOverlayEmptyIDNoOp(t *testing.T) {
	o := NewOverlay()
	o.Commit("", true, []string{"Trauma"})
	if len(o.Snapshot()) != 0 {
		t.Error("expected no entries after empty-ID commit")
	}
}

func TestOverlaySnapshotIsACopy(t *testing.T) {
	o := NewOverlay()
	o.Commit("a", false, []string{"Trauma"})

	snap := o.Snapshot()
	snap["a"].SpecialistPatientsDelta["Trauma"] = 99

	if d := o.PatientDelta("a", "Trauma"); d != 1 {
		t.Errorf("snapshot mutation leaked into overlay: delta %d", d)
	}
}

func TestOverlayConcurrentCommits(t *testing.T) {
	o := NewOverlay()
	const commits = 100

	var wg sync.WaitGroup
	for i := 0; i < commits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Commit("a", true, []string{"Cardiology"})
		}()
	}
	wg.Wait()

	ed, icu := o.BedDeltas("a")
	if ed != -commits || icu != -commits {
		t.Errorf("lost commits: deltas %d/%d, want %d/%d", ed, icu, -commits, -commits)
	}
	if d := o.PatientDelta("a", "Cardiology"); d != commits {
		t.Errorf("lost patient increments: %d, want %d", d, commits)
	}
}
