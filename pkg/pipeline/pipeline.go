// Package pipeline runs the load → validate → serialize → diagram steps
// shared by the CLI and the API server.
//
// Keeping the steps in one place means both entry points log, time and
// instrument them the same way, and both share the diagram cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	h, err := runner.Load(ctx, "loom.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, h, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("loom.json", result.JSON, 0o644)
//
// Steps can also be run on their own with [Runner.Validate],
// [Runner.Serialize] and [Runner.Diagram].
package pipeline

import (
	"time"

	"github.com/matzehuels/harnesskit/pkg/diagram"
	"github.com/matzehuels/harnesskit/pkg/export"
	"github.com/matzehuels/harnesskit/pkg/harness"
	"github.com/matzehuels/harnesskit/pkg/validate"
)

// Options configures a pipeline run.
// This struct supports JSON decoding for API requests.
type Options struct {
	// Formats lists the diagram formats to render (dot, svg). Empty renders
	// no diagram.
	Formats []string `json:"formats,omitempty"`

	// Detailed adds MPN and manufacturer to diagram nodes.
	Detailed bool `json:"detailed,omitempty"`

	// Strict stops the run with VALIDATION_FAILED when the harness has
	// validation errors. Otherwise the document is produced regardless.
	Strict bool `json:"strict,omitempty"`
}

// Validate checks that the options can be run.
func (o *Options) Validate() error {
	return ValidateFormats(o.Formats)
}

// ValidateFormats checks that every diagram format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := diagram.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Harness is the harness the run was made for.
	Harness *harness.Harness

	// Validation holds the integrity diagnostics.
	Validation validate.Result

	// Document is the serialized harness and JSON its indented encoding.
	Document *export.Document
	JSON     []byte

	// Diagrams holds rendered diagrams keyed by format.
	Diagrams map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which diagrams came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components     int
	Connections    int
	MappingEntries int
	ValidateTime   time.Duration
	SerializeTime  time.Duration
	DiagramTime    time.Duration
}

// CacheInfo tracks cache hits for rendered diagrams.
type CacheInfo struct {
	DiagramHits map[string]bool
}
