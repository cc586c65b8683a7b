// Package anneal implements a generic simulated annealing driver.
//
// The temperature decays geometrically from Tmax to Tmin over a fixed number
// of steps. Moves that lower the energy are always taken; moves that raise it
// are taken with probability exp(-dE/T). The lowest energy state seen during
// the whole run is returned, regardless of where the chain ends up.
package anneal

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrBadSchedule is returned when a Schedule cannot be run.
var ErrBadSchedule = errors.New("anneal: bad schedule")

// Schedule configures one annealing run.
type Schedule struct {
	Tmax, Tmin float64
	Steps      int

	// Updates is how many times Report is called over the run. Zero
	// disables reporting.
	Updates int
	Report  func(Progress)
}

// Progress is passed to Schedule.Report.
type Progress struct {
	Step, Steps int
	T           float64
	Energy      float64
	Best        float64

	// Accept and Improve are the fraction of trials since the previous
	// report that were accepted and that lowered the energy.
	Accept, Improve float64
}

func (s Schedule) validate() error {
	switch {
	case s.Steps < 0:
		return errors.Wrapf(ErrBadSchedule, "steps %d < 0", s.Steps)
	case s.Tmin <= 0:
		return errors.Wrapf(ErrBadSchedule, "Tmin %g <= 0", s.Tmin)
	case s.Tmax <= s.Tmin:
		return errors.Wrapf(ErrBadSchedule, "Tmax %g <= Tmin %g", s.Tmax, s.Tmin)
	case s.Updates < 0:
		return errors.Wrapf(ErrBadSchedule, "updates %d < 0", s.Updates)
	}
	return nil
}

// Temperature returns the temperature at the given step, counting from 1.
func (s Schedule) Temperature(step int) float64 {
	if s.Steps == 0 {
		return s.Tmax
	}
	factor := -math.Log(s.Tmax / s.Tmin)
	return s.Tmax * math.Exp(factor*float64(step)/float64(s.Steps))
}

// Anneal searches for a low-energy state starting from initial.
//
// move must return a new state and leave its argument untouched. All
// randomness is drawn from rng, so runs with equally seeded sources are
// identical. An error from energy ends the run and is returned.
func Anneal[S any](initial S, energy func(S) (float64, error), move func(S, *rand.Rand) S, sched Schedule, rng *rand.Rand) (S, float64, error) {
	if err := sched.validate(); err != nil {
		return initial, 0, err
	}

	state := initial
	e, err := energy(state)
	if err != nil {
		return initial, 0, errors.Wrap(err, "anneal: initial energy")
	}
	best, bestE := state, e

	every := 0
	if sched.Updates > 0 && sched.Report != nil {
		every = max(sched.Steps/sched.Updates, 1)
		sched.Report(Progress{Steps: sched.Steps, T: sched.Tmax, Energy: e, Best: bestE})
	}

	var trials, accepts, improves int
	for step := 1; step <= sched.Steps; step++ {
		t := sched.Temperature(step)
		next := move(state, rng)
		ne, err := energy(next)
		if err != nil {
			return best, bestE, errors.Wrapf(err, "anneal: step %d", step)
		}
		trials++

		dE := ne - e
		if dE <= 0 || math.Exp(-dE/t) >= rng.Float64() {
			accepts++
			if dE < 0 {
				improves++
			}
			state, e = next, ne
		}
		if ne < bestE {
			best, bestE = next, ne
		}

		if every > 0 && step%every == 0 {
			sched.Report(Progress{
				Step:    step,
				Steps:   sched.Steps,
				T:       t,
				Energy:  e,
				Best:    bestE,
				Accept:  float64(accepts) / float64(trials),
				Improve: float64(improves) / float64(trials),
			})
			trials, accepts, improves = 0, 0, 0
		}
	}
	return best, bestE, nil
}
