package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evergreen/components"
)

// Step eases a group's form factor toward the target implied by state.
//
// The update is a first-order low-pass filter whose gain grows with delta, so
// convergence speed adapts to the frame rate. The gain is capped at 1, which
// makes a huge delta land exactly on the target instead of overshooting.
// Once within SettleEpsilon the factor snaps to the target so idle motion
// eventually stops for good. A non-positive or NaN delta changes nothing.
//
// Returns true if the factor moved.
func Step(form *components.Form, delta float64, state components.TreeState) bool {
	form.Target = state.Target()
	if !(delta > 0) {
		return false
	}

	k := delta*form.Rate + form.BaseSmoothing
	if k > 1 {
		k = 1
	}

	prev := form.Factor
	form.Factor = clamp01(form.Factor + (form.Target-form.Factor)*k)
	if math.Abs(form.Target-form.Factor) < form.SettleEpsilon {
		form.Factor = form.Target
	}
	return form.Factor != prev
}

// TransitionSystem advances the form factor of every mounted group.
type TransitionSystem struct {
	filter *ecs.Filter2[components.Form, components.Batch]
}

// NewTransitionSystem creates a new transition system.
func NewTransitionSystem(w *ecs.World) *TransitionSystem {
	return &TransitionSystem{
		filter: ecs.NewFilter2[components.Form, components.Batch](w),
	}
}

// Update steps all mounted groups. Returns the number of groups whose factor moved.
func (s *TransitionSystem) Update(delta float64, state components.TreeState) int {
	moved := 0
	query := s.filter.Query()
	for query.Next() {
		form, batch := query.Get()
		if !batch.Mounted() {
			continue
		}
		if Step(form, delta, state) {
			moved++
		}
	}
	return moved
}
