// Package pipeline runs one marktips invocation: validate regions, locate
// tips, reconcile them against the body's existing to-do items, post the new
// markers and build the result record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/janelia-flyem/marktips/internal/annotation"
	"github.com/janelia-flyem/marktips/internal/config"
	"github.com/janelia-flyem/marktips/internal/db"
	"github.com/janelia-flyem/marktips/internal/geom"
	"github.com/janelia-flyem/marktips/internal/locator"
	"github.com/janelia-flyem/marktips/internal/monitoring"
	"github.com/janelia-flyem/marktips/internal/reconcile"
	"github.com/janelia-flyem/marktips/internal/report"
	"github.com/janelia-flyem/marktips/internal/timeutil"
	"github.com/janelia-flyem/marktips/internal/version"
)

// TipLocator finds and filters candidate tips.
type TipLocator interface {
	ValidateRegions(ctx context.Context, regions locator.Regions) error
	Locate(ctx context.Context, body string, regions locator.Regions) (*locator.Located, error)
}

// AnnotationStore reads and writes to-do items.
type AnnotationStore interface {
	LabelAnnotations(ctx context.Context, instance, body string) ([]annotation.Annotation, error)
	PostElements(ctx context.Context, instance string, anns []annotation.Annotation) error
}

// Ledger records finished runs.
type Ledger interface {
	RecordRun(ctx context.Context, r db.Run) (string, error)
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	locator  TipLocator
	store    AnnotationStore
	clock    timeutil.Clock
	progress func(format string, v ...interface{})
	ledger   Ledger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the real clock, for tests.
func WithClock(c timeutil.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithProgress sets the sink for progress messages.
func WithProgress(f func(format string, v ...interface{})) Option {
	return func(p *Pipeline) { p.progress = f }
}

// WithLedger records every run, successful or not, in l.
func WithLedger(l Ledger) Option {
	return func(p *Pipeline) { p.ledger = l }
}

// New creates a Pipeline.
func New(loc TipLocator, store AnnotationStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		locator:  loc,
		store:    store,
		clock:    timeutil.RealClock{},
		progress: func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes cfg. On error no partial result is returned and nothing has
// been posted unless the error came from the post itself.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Run) (report.Result, error) {
	started := p.clock.Now()
	params := cfg.Parameters(started, version.Version)

	res, err := p.run(ctx, cfg, params)
	p.record(ctx, cfg, params, started, res, err)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, cfg *config.Run, params config.Parameters) (report.Result, error) {
	regions := locator.Regions{Include: cfg.RoI, Exclude: cfg.ExcludedRoI}
	if err := p.locator.ValidateRegions(ctx, regions); err != nil {
		return report.Result{}, err
	}

	b := report.NewBuilder(params, version.Version)

	find := timeutil.StartPhase(p.clock)
	located, err := p.locator.Locate(ctx, cfg.Body, regions)
	if err != nil {
		return report.Result{}, err
	}
	b.Found(len(located.Found), located.Kept, find.Seconds())
	p.progress("body %s: %d tips found, %d after RoI filtering", cfg.Body, len(located.Found), len(located.Kept))

	if cfg.FindOnly {
		return b.Result(), nil
	}
	if len(located.Kept) == 0 {
		b.Placed(0, 0)
		return b.Result(), nil
	}

	place := timeutil.StartPhase(p.clock)
	markers, err := p.plan(ctx, cfg, params, located.Kept)
	if err != nil {
		return report.Result{}, err
	}

	if cfg.DryRun {
		p.progress("dry run: %d to do items not posted", len(markers))
	} else if len(markers) > 0 {
		if err := p.store.PostElements(ctx, cfg.TodoInstance, markers); err != nil {
			return report.Result{}, fmt.Errorf("to do placement failed!\n%w", err)
		}
	}
	b.Placed(len(markers), place.Seconds())
	return b.Result(), nil
}

// plan fetches the existing to-do items and builds the markers to post.
func (p *Pipeline) plan(ctx context.Context, cfg *config.Run, params config.Parameters, kept []geom.Point) ([]annotation.Annotation, error) {
	existing, err := p.store.LabelAnnotations(ctx, cfg.TodoInstance, cfg.Body)
	if err != nil {
		return nil, fmt.Errorf("existing to do retrieval failed!\n%w", err)
	}
	idx := annotation.NewIndex(existing, version.AuthorshipMarker)

	decisions, err := reconcile.Plan(kept, idx)
	if err != nil {
		return nil, err
	}
	sum := reconcile.Summarize(decisions)
	p.progress("body %s: %d existing to do items; %d new, %d relocated, %d duplicates",
		cfg.Body, len(existing), sum.Placed, sum.Relocated, sum.Duplicates)

	runParams, err := params.JSON()
	if err != nil {
		return nil, err
	}
	comment := version.Comment()
	placements := reconcile.Placements(decisions)
	markers := make([]annotation.Annotation, 0, len(placements))
	for _, pos := range placements {
		markers = append(markers, annotation.NewTipMarker(pos, cfg.Assignee, comment, runParams))
	}
	return markers, nil
}

func (p *Pipeline) record(ctx context.Context, cfg *config.Run, params config.Parameters, started time.Time, res report.Result, runErr error) {
	if p.ledger == nil {
		return
	}
	entry := db.Run{
		StartedAt:    started,
		Body:         cfg.Body,
		Server:       cfg.Server,
		UUID:         cfg.UUID,
		TodoInstance: cfg.TodoInstance,
		FindOnly:     cfg.FindOnly,
		DryRun:       cfg.DryRun,
	}
	if s, err := params.JSON(); err == nil {
		entry.Parameters = s
	}
	if runErr != nil {
		entry.Message = runErr.Error()
	} else {
		entry.Status = true
		entry.Message = res.Message
		entry.NLocations = res.NLocations
		entry.NLocationsRoI = res.NLocationsRoI
		entry.NPlaced = res.NPlaced
		entry.TFind = res.TFind
		entry.TPlace = res.TPlace
		entry.TTotal = res.TTotal
	}
	id, err := p.ledger.RecordRun(ctx, entry)
	if err != nil {
		monitoring.Logf("ledger: %v", err)
		return
	}
	monitoring.Logf("ledger: recorded run %s for body %s", id, cfg.Body)
}

// Describe turns a pipeline error into the failure message, naming the
// error kinds an operator can act on.
func Describe(err error) string {
	var (
		noSkel    *locator.NoSkeletonError
		noRegion  *locator.RegionNotFoundError
		exhausted *reconcile.PlacementExhaustedError
	)
	switch {
	case errors.As(err, &noSkel):
		return noSkel.Error()
	case errors.As(err, &noRegion):
		return noRegion.Error()
	case errors.As(err, &exhausted):
		return "to do placement aborted, nothing posted: " + exhausted.Error()
	}
	return err.Error()
}
