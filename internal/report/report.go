// Package report builds the single JSON record a marktips run prints on
// stdout. A run produces either a complete Result or a complete Failure.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/janelia-flyem/marktips/internal/config"
	"github.com/janelia-flyem/marktips/internal/geom"
)

// Result is the success record.
type Result struct {
	Status        bool              `json:"status"`
	Message       string            `json:"message"`
	Version       string            `json:"version"`
	TFind         float64           `json:"tfind"`
	TPlace        float64           `json:"tplace"`
	TTotal        float64           `json:"ttotal"`
	NLocations    int               `json:"nlocations"`
	NLocationsRoI int               `json:"nlocationsRoI"`
	NPlaced       int               `json:"nplaced"`
	Locations     []geom.Point      `json:"locations"`
	Parameters    config.Parameters `json:"parameters"`
	DryRun        bool              `json:"dryrun,omitempty"`
	FindOnly      bool              `json:"-"`
}

// Failure is the record printed when a run aborts.
type Failure struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// NewFailure wraps err in a failure record.
func NewFailure(err error, version string) Failure {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Failure{Status: false, Message: msg, Version: version}
}

// Builder accumulates the pieces of a success record as the pipeline runs.
type Builder struct {
	r Result
}

// NewBuilder starts a record for a run with the given parameters.
func NewBuilder(params config.Parameters, version string) *Builder {
	return &Builder{r: Result{
		Status:     true,
		Version:    version,
		Parameters: params,
		Locations:  []geom.Point{},
		DryRun:     params.DryRun,
		FindOnly:   params.FindOnly,
	}}
}

// Found records the tip search: how many tips the detector reported, the
// points left after region filtering, and how long it took.
func (b *Builder) Found(nFound int, kept []geom.Point, seconds float64) {
	b.r.NLocations = nFound
	b.r.NLocationsRoI = len(kept)
	if kept != nil {
		b.r.Locations = kept
	}
	b.r.TFind = seconds
}

// Placed records the placement phase.
func (b *Builder) Placed(n int, seconds float64) {
	b.r.NPlaced = n
	b.r.TPlace = seconds
}

// Result finalizes the record.
func (b *Builder) Result() Result {
	r := b.r
	r.TTotal = r.TFind + r.TPlace
	r.Message = message(r)
	return r
}

func message(r Result) string {
	found := fmt.Sprintf("%d tips found in %ss", r.NLocationsRoI, seconds(r.TFind))
	if r.FindOnly {
		return found + " (find only)"
	}
	msg := fmt.Sprintf("%s; %d to do items placed in %ss", found, r.NPlaced, seconds(r.TPlace))
	if r.DryRun {
		msg += " (dry run, nothing posted)"
	}
	return msg
}

func seconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// Write prints v as one line of JSON.
func Write(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result record: %w", err)
	}
	return nil
}
