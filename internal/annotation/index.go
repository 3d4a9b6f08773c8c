package annotation

import "github.com/janelia-flyem/marktips/internal/geom"

// Index maps occupied positions to the annotation found there. It is built
// once per run and not modified afterwards.
type Index struct {
	byPos      map[geom.Point]Annotation
	authorship string
}

// NewIndex indexes existing annotations by position. When several share a
// position, a tip marker wins over anything else; otherwise the first seen is
// kept.
func NewIndex(existing []Annotation, authorship string) *Index {
	idx := &Index{
		byPos:      make(map[geom.Point]Annotation, len(existing)),
		authorship: authorship,
	}
	for _, a := range existing {
		prev, seen := idx.byPos[a.Pos]
		if seen && (IsTipMarker(prev, authorship) || !IsTipMarker(a, authorship)) {
			continue
		}
		idx.byPos[a.Pos] = a
	}
	return idx
}

// Len returns the number of occupied positions.
func (idx *Index) Len() int {
	return len(idx.byPos)
}

// Lookup returns the annotation at p.
func (idx *Index) Lookup(p geom.Point) (Annotation, bool) {
	a, ok := idx.byPos[p]
	return a, ok
}

// Occupant classifies position p.
func (idx *Index) Occupant(p geom.Point) Occupancy {
	a, ok := idx.byPos[p]
	switch {
	case !ok:
		return Free
	case IsTipMarker(a, idx.authorship):
		return TipMarker
	default:
		return Foreign
	}
}

// Occupancy describes what holds a position.
type Occupancy int

const (
	// Free means no annotation is at the position.
	Free Occupancy = iota
	// TipMarker means a previous tip detector run marked the position.
	TipMarker
	// Foreign means another tool or a person annotated the position.
	Foreign
)

func (o Occupancy) String() string {
	switch o {
	case Free:
		return "free"
	case TipMarker:
		return "tip marker"
	case Foreign:
		return "foreign"
	}
	return "unknown"
}
