package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout formats the run timestamp. History groups markers by this
// value, so it has second precision.
const TimeLayout = time.RFC3339

// Parameters is the audit copy of a run's configuration. It is embedded in
// the result record and, as a JSON string, in every placed to-do item.
type Parameters struct {
	Server       string `json:"server"`
	UUID         string `json:"UUID"`
	Body         string `json:"body ID"`
	TodoInstance string `json:"todo instance"`
	RoI          string `json:"RoI"`
	ExcludedRoI  string `json:"excluded RoI"`
	Assignee     string `json:"assigned user"`
	User         string `json:"user"`
	Time         string `json:"time"`
	Version      string `json:"version"`
	FindOnly     bool   `json:"find only"`
	DryRun       bool   `json:"dry run"`
}

// Parameters captures r at time now.
func (r *Run) Parameters(now time.Time, version string) Parameters {
	return Parameters{
		Server:       r.Server,
		UUID:         r.UUID,
		Body:         r.Body,
		TodoInstance: r.TodoInstance,
		RoI:          r.RoI,
		ExcludedRoI:  r.ExcludedRoI,
		Assignee:     r.Assignee,
		User:         r.User,
		Time:         now.UTC().Truncate(time.Second).Format(TimeLayout),
		Version:      version,
		FindOnly:     r.FindOnly,
		DryRun:       r.DryRun,
	}
}

// JSON serializes p for the "run parameters" property.
func (p Parameters) JSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode run parameters: %w", err)
	}
	return string(data), nil
}

// ParseParameters decodes a "run parameters" property. Unknown keys are
// ignored so markers from other releases still decode.
func ParseParameters(s string) (Parameters, error) {
	var p Parameters
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return Parameters{}, fmt.Errorf("decode run parameters: %w", err)
	}
	return p, nil
}
