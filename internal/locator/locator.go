// Package locator finds candidate tip positions on a body and filters them
// by region of interest.
package locator

import (
	"context"
	"fmt"

	"github.com/janelia-flyem/marktips/internal/geom"
)

// NoSkeletonError means the body has no skeleton to find tips on.
type NoSkeletonError struct {
	Body string
}

func (e *NoSkeletonError) Error() string {
	return fmt.Sprintf("body %s does not appear to have a skeleton!", e.Body)
}

// RegionNotFoundError means a named RoI does not exist on the node.
type RegionNotFoundError struct {
	Region string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("RoI %s does not exist", e.Region)
}

// Detector produces candidate tip positions for a body, in a stable order.
// Implementations return *NoSkeletonError when the body has no skeleton.
type Detector interface {
	DetectTips(ctx context.Context, body string) ([]geom.Point, error)
}

// RegionTester answers RoI membership queries.
type RegionTester interface {
	RegionExists(ctx context.Context, roi string) (bool, error)
	// PointsInRegion returns a slice parallel to pts.
	PointsInRegion(ctx context.Context, pts []geom.Point, roi string) ([]bool, error)
}

// Regions names the optional include and exclude RoIs. Empty means unset.
type Regions struct {
	Include string
	Exclude string
}

// Located is the outcome of Locate.
type Located struct {
	// Found is every position the detector reported.
	Found []geom.Point
	// Kept is Found after RoI filtering, in the same relative order.
	Kept []geom.Point
}

// Locator combines a detector with optional RoI filtering.
type Locator struct {
	detector Detector
	regions  RegionTester
}

// New creates a Locator. regions may be nil when no RoI filtering is used.
func New(d Detector, r RegionTester) *Locator {
	return &Locator{detector: d, regions: r}
}

// ValidateRegions checks that every named RoI exists. Call it before any
// detection work.
func (l *Locator) ValidateRegions(ctx context.Context, regions Regions) error {
	for _, roi := range []string{regions.Include, regions.Exclude} {
		if roi == "" {
			continue
		}
		if l.regions == nil {
			return fmt.Errorf("RoI %s given but no region service configured", roi)
		}
		ok, err := l.regions.RegionExists(ctx, roi)
		if err != nil {
			return fmt.Errorf("check RoI %s: %w", roi, err)
		}
		if !ok {
			return &RegionNotFoundError{Region: roi}
		}
	}
	return nil
}

// Locate detects tips on body and applies the include then exclude filter,
// one membership query per region.
func (l *Locator) Locate(ctx context.Context, body string, regions Regions) (*Located, error) {
	found, err := l.detector.DetectTips(ctx, body)
	if err != nil {
		return nil, err
	}

	kept := found
	if regions.Include != "" {
		if kept, err = l.filter(ctx, kept, regions.Include, true); err != nil {
			return nil, err
		}
	}
	if regions.Exclude != "" {
		if kept, err = l.filter(ctx, kept, regions.Exclude, false); err != nil {
			return nil, err
		}
	}
	return &Located{Found: found, Kept: kept}, nil
}

func (l *Locator) filter(ctx context.Context, pts []geom.Point, roi string, keepInside bool) ([]geom.Point, error) {
	if len(pts) == 0 {
		return pts, nil
	}
	if l.regions == nil {
		return nil, fmt.Errorf("RoI %s given but no region service configured", roi)
	}
	inside, err := l.regions.PointsInRegion(ctx, pts, roi)
	if err != nil {
		return nil, fmt.Errorf("RoI %s membership: %w", roi, err)
	}
	if len(inside) != len(pts) {
		return nil, fmt.Errorf("RoI %s membership: got %d answers for %d points", roi, len(inside), len(pts))
	}
	return Filter(pts, inside, keepInside), nil
}

// Filter keeps pts[i] where mask[i] == keep, preserving order. The input
// slice is not modified.
func Filter(pts []geom.Point, mask []bool, keep bool) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for i, p := range pts {
		if mask[i] == keep {
			out = append(out, p)
		}
	}
	return out
}
