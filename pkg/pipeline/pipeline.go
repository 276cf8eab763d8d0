// Package pipeline runs the compile, evaluate and render stages shared by
// the CLI and the HTTP service.
//
// # Architecture
//
// A [Runner] wraps the stages with a content-addressed cache:
//
//  1. Hash: the graph is serialized with pkg/io and hashed with the target
//  2. Compile: the graph is compiled into named blocks
//  3. Assemble: blocks are joined into shader source
//  4. Validate: wgsl sources are checked with naga (optional)
//
// Successful results are cached under the hash, so recompiling an unchanged
// graph is a cache lookup. Failures are never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Compile(ctx, g, pipeline.Options{Target: graph.TargetWGSL, Validate: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(result.Source)
//
// A [Refresher] holds a graph that is edited over time and recompiles it
// only when its change counter moves, keeping the last good code around
// while the graph is broken.
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

const (
	// DefaultTarget is used when Options.Target is empty.
	DefaultTarget = graph.TargetBevy

	// TTLCode is how long compiled code stays cached.
	TTLCode = 7 * 24 * time.Hour

	// TTLDiagram is how long rendered diagrams stay cached.
	TTLDiagram = 24 * time.Hour
)

// Options configures a compile run.
type Options struct {
	Target graph.Target `json:"target,omitempty"`
	// Validate checks the assembled source with naga. Only the wgsl target
	// can be validated.
	Validate bool `json:"validate,omitempty"`
	// Refresh bypasses the cache lookup; the result is still stored.
	Refresh bool `json:"refresh,omitempty"`
	// Blocks are extra top-level blocks declared before compiling, in order.
	Blocks []string `json:"blocks,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the target and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	t, err := graph.ParseTarget(string(o.Target))
	if err != nil {
		return err
	}
	o.Target = t
	for _, b := range o.Blocks {
		if err := errors.ValidateBlockName(b); err != nil {
			return err
		}
	}
	return nil
}

// variant names the code shape for cache keys: the target plus any extra
// blocks, since block order changes the assembled source.
func (o Options) variant() string {
	if len(o.Blocks) == 0 {
		return string(o.Target)
	}
	return string(o.Target) + "+" + strings.Join(o.Blocks, ",")
}

// Result is the output of [Runner.Compile].
type Result struct {
	Code *graph.Code
	// Source is the assembled shader.
	Source string
	// GraphHash is the content hash of the serialized graph.
	GraphHash string
	// Validated reports whether Source passed naga validation.
	Validated bool
	Stats     Stats
	CacheHit  bool
}

// Stats contains timing and size information for a run.
type Stats struct {
	NodeCount    int
	CompileTime  time.Duration
	ValidateTime time.Duration
}
