// Package placement hands out randomly sampled world positions subject to
// acceptance filters. Generators use it for island centres and streamline
// seeds, where candidates must be rejected against both fixed predicates
// (on land, inside bounds) and every previously accepted point (minimum
// separation).
package placement

import (
	"math/rand"

	"github.com/unixpickle/model3d/model2d"
)

// CandidateFilter accepts or rejects a candidate point based purely on the
// point itself. These run before SiteFilters, which require iterating all
// accepted points.
type CandidateFilter func(p model2d.Coord) bool

// SiteFilter compares a candidate against one previously accepted point;
// the candidate must be accepted against every one of them.
type SiteFilter func(candidate, accepted model2d.Coord) bool

// Sampler draws random points within a rectangle and keeps those that pass
// all configured filters.
type Sampler struct {
	min, max model2d.Coord
	rng      *rand.Rand
	accepted []model2d.Coord
	cfilt    []CandidateFilter
	sfilt    []SiteFilter
}

// NewSampler returns a sampler for the rectangle spanned by min & max,
// drawing randomness from the provided source.
func NewSampler(min, max model2d.Coord, rng *rand.Rand) *Sampler {
	return &Sampler{min: min, max: max, rng: rng}
}

// SetCandidateFilters replaces the candidate filters.
func (s *Sampler) SetCandidateFilters(f ...CandidateFilter) {
	s.cfilt = f
}

// SetSiteFilters replaces the site filters.
func (s *Sampler) SetSiteFilters(f ...SiteFilter) {
	s.sfilt = f
}

// MinDistance builds a SiteFilter ensuring a candidate keeps at least
// `dist` away from every accepted point.
func MinDistance(dist float64) SiteFilter {
	return func(candidate, accepted model2d.Coord) bool {
		return candidate.Dist(accepted) >= dist
	}
}

// Accepted returns all points accepted so far.
func (s *Sampler) Accepted() []model2d.Coord {
	return s.accepted
}

// Add records a point directly, assuming it obeys the filters.
func (s *Sampler) Add(p model2d.Coord) bool {
	if !s.ok(p) {
		return false
	}
	s.accepted = append(s.accepted, p)
	return true
}

// AddRandom draws a single random candidate and records it if accepted.
// A false return means that particular draw was rejected; callers run
// their own bounded retry loops.
func (s *Sampler) AddRandom() (model2d.Coord, bool) {
	p := model2d.XY(
		s.min.X+s.rng.Float64()*(s.max.X-s.min.X),
		s.min.Y+s.rng.Float64()*(s.max.Y-s.min.Y),
	)
	if !s.ok(p) {
		return model2d.Coord{}, false
	}
	s.accepted = append(s.accepted, p)
	return p, true
}

// ok runs candidate filters first so we can reject cheaply before
// comparing against every accepted point.
func (s *Sampler) ok(p model2d.Coord) bool {
	for _, fn := range s.cfilt {
		if !fn(p) {
			return false
		}
	}
	for _, a := range s.accepted {
		for _, fn := range s.sfilt {
			if !fn(p, a) {
				return false
			}
		}
	}
	return true
}
