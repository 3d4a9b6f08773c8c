// Package history reports earlier marktips runs on a body, recovered from the
// run parameters stored on the tip markers those runs placed.
package history

import (
	"context"
	"fmt"

	"github.com/janelia-flyem/marktips/internal/annotation"
	"github.com/janelia-flyem/marktips/internal/config"
	"github.com/janelia-flyem/marktips/internal/monitoring"
)

// Message is the success message of a history record.
const Message = "marktipshistory ran successfully"

// AnnotationReader is the store access history needs.
type AnnotationReader interface {
	LabelAnnotations(ctx context.Context, instance, body string) ([]annotation.Annotation, error)
}

// Run summarizes one earlier placement run.
type Run struct {
	Time        string `json:"time"`
	Body        string `json:"body ID"`
	RoI         string `json:"RoI"`
	ExcludedRoI string `json:"excluded RoI"`
	Count       int    `json:"count"`
}

// Record is the history output.
type Record struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	History []Run  `json:"history"`
}

type runKey struct {
	time, body string
}

// Find reads the to-do items on body and groups the tip markers by run.
// Runs are identified by their (time, body ID) pair and listed in the order
// their first marker was seen. Markers without run parameters, written by
// early releases, are skipped.
func Find(ctx context.Context, store AnnotationReader, instance, body string) ([]Run, error) {
	anns, err := store.LabelAnnotations(ctx, instance, body)
	if err != nil {
		return nil, fmt.Errorf("existing to do retrieval failed!\n%w", err)
	}

	runs := []Run{}
	index := map[runKey]int{}
	for _, a := range anns {
		if a.Prop[annotation.PropAction] != annotation.ActionTipDetector {
			continue
		}
		raw, ok := a.Prop[annotation.PropRunParameters]
		if !ok {
			continue
		}
		p, err := config.ParseParameters(raw)
		if err != nil {
			monitoring.Logf("history: skipping marker at %s: %v", a.Pos, err)
			continue
		}
		k := runKey{p.Time, p.Body}
		i, seen := index[k]
		if !seen {
			i = len(runs)
			index[k] = i
			runs = append(runs, Run{Time: p.Time, Body: p.Body, RoI: p.RoI, ExcludedRoI: p.ExcludedRoI})
		}
		runs[i].Count++
	}
	return runs, nil
}

// NewRecord wraps runs in a success record.
func NewRecord(runs []Run, version string) Record {
	if runs == nil {
		runs = []Run{}
	}
	return Record{Status: true, Message: Message, Version: version, History: runs}
}
