// Package reconcile decides where new tip markers go, given the tips found on
// a body and the annotations already stored on it.
//
// Each candidate is resolved on its own against the existing annotations:
//
//   - a free position is used as is;
//   - a position already holding a tip marker is dropped as a duplicate;
//   - a position holding anything else is moved to the first unit neighbour
//     (+x, -x, +y, -y, +z, -z) that is free, or dropped if that neighbour
//     already holds a tip marker.
//
// Positions chosen for earlier candidates are not reserved, so two nearby
// candidates can land on the same neighbour. Reconcile performs no I/O.
package reconcile

import (
	"fmt"

	"github.com/janelia-flyem/marktips/internal/annotation"
	"github.com/janelia-flyem/marktips/internal/geom"
)

// PlacementExhaustedError is returned when a candidate and all six of its
// neighbours are held by annotations that are not tip markers.
type PlacementExhaustedError struct {
	Point geom.Point
}

func (e *PlacementExhaustedError) Error() string {
	return fmt.Sprintf("no free position for tip at %s: it and all six neighbours hold other annotations", e.Point)
}

// Outcome records what happened to one candidate.
type Outcome int

const (
	// Placed means the candidate position is used unchanged.
	Placed Outcome = iota
	// Relocated means a neighbour of the candidate is used instead.
	Relocated
	// Duplicate means a tip marker already covers the candidate.
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case Relocated:
		return "relocated"
	case Duplicate:
		return "duplicate"
	}
	return "unknown"
}

// Decision is the resolution of a single candidate. At is meaningful for
// Placed and Relocated.
type Decision struct {
	Candidate geom.Point
	Outcome   Outcome
	At        geom.Point
}

// Resolve decides a single candidate against the existing annotations.
func Resolve(p geom.Point, existing *annotation.Index) (Decision, error) {
	switch existing.Occupant(p) {
	case annotation.Free:
		return Decision{Candidate: p, Outcome: Placed, At: p}, nil
	case annotation.TipMarker:
		return Decision{Candidate: p, Outcome: Duplicate}, nil
	}

	for _, q := range p.Neighbors() {
		switch existing.Occupant(q) {
		case annotation.Free:
			return Decision{Candidate: p, Outcome: Relocated, At: q}, nil
		case annotation.TipMarker:
			return Decision{Candidate: p, Outcome: Duplicate}, nil
		}
	}
	return Decision{}, &PlacementExhaustedError{Point: p}
}

// Plan resolves every candidate in input order. It stops at the first
// candidate that cannot be placed and returns no decisions in that case.
func Plan(candidates []geom.Point, existing *annotation.Index) ([]Decision, error) {
	decisions := make([]Decision, 0, len(candidates))
	for _, p := range candidates {
		d, err := Resolve(p, existing)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

// Reconcile returns the positions at which new tip markers should be created.
func Reconcile(candidates []geom.Point, existing *annotation.Index) ([]geom.Point, error) {
	decisions, err := Plan(candidates, existing)
	if err != nil {
		return nil, err
	}
	return Placements(decisions), nil
}

// Placements extracts the target positions of placed and relocated decisions.
func Placements(decisions []Decision) []geom.Point {
	out := make([]geom.Point, 0, len(decisions))
	for _, d := range decisions {
		if d.Outcome != Duplicate {
			out = append(out, d.At)
		}
	}
	return out
}

// Summary counts decisions by outcome.
type Summary struct {
	Placed     int
	Relocated  int
	Duplicates int
}

// Summarize counts outcomes.
func Summarize(decisions []Decision) Summary {
	var s Summary
	for _, d := range decisions {
		switch d.Outcome {
		case Placed:
			s.Placed++
		case Relocated:
			s.Relocated++
		case Duplicate:
			s.Duplicates++
		}
	}
	return s
}
