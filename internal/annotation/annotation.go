// Package annotation models DVID point annotations ("to-do" items) and the
// rules marktips uses to recognise the markers it wrote on earlier runs.
package annotation

import (
	"strings"

	"github.com/janelia-flyem/marktips/internal/geom"
)

// Property keys read or written by marktips.
const (
	PropComment       = "comment"
	PropUser          = "user"
	PropChecked       = "checked"
	PropAction        = "action"
	PropRunParameters = "run parameters"
)

const (
	// KindNote is the only annotation kind marktips creates.
	KindNote = "Note"
	// ActionTipDetector marks items placed by the tip detector.
	ActionTipDetector = "tip detector"
	// TagTipDetector is the classification tag on tip markers.
	TagTipDetector = "action:tip_detector"
)

// Annotation is one element of a DVID annotation instance.
type Annotation struct {
	Pos  geom.Point        `json:"Pos"`
	Kind string            `json:"Kind"`
	Prop map[string]string `json:"Prop,omitempty"`
	Tags []string          `json:"Tags,omitempty"`
}

// IsTipMarker reports whether a was placed by a tip detector run. Current
// releases set the action property; older ones only left their name in the
// comment, so both are checked.
func IsTipMarker(a Annotation, authorship string) bool {
	if a.Prop[PropAction] == ActionTipDetector {
		return true
	}
	if authorship != "" && strings.Contains(a.Prop[PropComment], authorship) {
		return true
	}
	return false
}

// NewTipMarker builds the to-do item placed at a tip. runParameters is the
// serialized run configuration and is left out when empty.
func NewTipMarker(p geom.Point, assignee, comment, runParameters string) Annotation {
	prop := map[string]string{
		PropComment: comment,
		PropUser:    assignee,
		PropChecked: "0",
		PropAction:  ActionTipDetector,
	}
	if runParameters != "" {
		prop[PropRunParameters] = runParameters
	}
	return Annotation{
		Pos:  p,
		Kind: KindNote,
		Prop: prop,
		Tags: []string{TagTipDetector},
	}
}
