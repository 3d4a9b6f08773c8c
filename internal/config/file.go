package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File holds site defaults that would otherwise be repeated on every command
// line. Flags given explicitly take precedence.
type File struct {
	Server           string `json:"server,omitempty" yaml:"server,omitempty"`
	TodoInstance     string `json:"todo_instance,omitempty" yaml:"todo_instance,omitempty"`
	SkeletonInstance string `json:"skeleton_instance,omitempty" yaml:"skeleton_instance,omitempty"`
	User             string `json:"user,omitempty" yaml:"user,omitempty"`
	Assignee         string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Ledger           string `json:"ledger,omitempty" yaml:"ledger,omitempty"`
	// Timeout is a duration string like "30s".
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoadFile loads a File from a .json, .yaml or .yml path.
// The file is validated to ensure it has a known extension and is under the max file size.
func LoadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := &File{}
	if ext == ".json" {
		err = json.Unmarshal(data, f)
	} else {
		err = yaml.Unmarshal(data, f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return f, nil
}

// Validate checks values that cannot be expressed as struct types.
func (f *File) Validate() error {
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", f.Timeout)
		}
	}
	return nil
}

// Apply copies file values into r for every field r leaves empty.
func (f *File) Apply(r *Run) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&r.Server, f.Server)
	fill(&r.TodoInstance, f.TodoInstance)
	fill(&r.SkeletonInstance, f.SkeletonInstance)
	fill(&r.User, f.User)
	fill(&r.Assignee, f.Assignee)
	fill(&r.Ledger, f.Ledger)
	if r.Timeout == 0 && f.Timeout != "" {
		// Validate has already accepted the string.
		r.Timeout, _ = time.ParseDuration(f.Timeout)
	}
}
