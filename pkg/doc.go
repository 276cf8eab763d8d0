// Package pkg provides the core libraries for Shadergraph node-based shader
// authoring.
//
// # Overview
//
// Shadergraph builds fragment shaders from graphs of typed nodes: constants,
// UV and texture inputs, math operators and a fragment output. A graph can be
// evaluated on the host for preview values and compiled to WGSL, either as a
// Bevy material shader or as a standalone module. The pkg directory is
// organized into these areas:
//
//  1. [value] - Typed socket values, coercion and arithmetic
//  2. [graph] - Nodes, links, evaluation and the block-based code compiler
//  3. [nodes] - The built-in node catalogue and its code templates
//  4. [io] - JSON and HCL graph files
//  5. [shader] - Assembly, naga validation and cross compilation
//  6. [pipeline] - Orchestration (hash → cache → compile → validate)
//  7. [cache], [store] - Code caching and graph documents
//  8. [render] - Node-link diagrams of a graph
//
// # Architecture
//
// The typical data flow through Shadergraph:
//
//	shader_graph.json / .hcl
//	         ↓
//	    [io] package (decode through the node registry)
//	         ↓
//	    [graph] package (evaluate on the host, or compile into blocks)
//	         ↓
//	    [shader] package (assemble, validate, cross compile)
//	         ↓
//	    WGSL / SPIR-V / GLSL output
//
// # Quick Start
//
// Build a graph and compile it:
//
//	import (
//	    "github.com/matzehuels/shadergraph/pkg/graph"
//	    "github.com/matzehuels/shadergraph/pkg/nodes"
//	    "github.com/matzehuels/shadergraph/pkg/shader"
//	)
//
//	r := nodes.Default()
//	g, _ := nodes.NewDefaultGraph(r) // fragment output as node 1
//
//	c, _ := r.New(nodes.TypeColor)
//	g.Connect(g.Add(c), 0, 1, 0)
//
//	code, _ := nodes.NewCompiler(graph.TargetWGSL, nil).Compile(g)
//	src := shader.Assemble(code)
//
// # Caching
//
// [pipeline.Runner] keys compiled code by the graph's content hash and the
// target, so recompiling an unchanged graph is a cache lookup. Backends are
// a local directory or Redis; see [cache] for details.
//
// # Error Handling
//
// Every package returns [errors.Error] values carrying a stable code and,
// where it applies, the node or block the failure came from:
//
//	if errors.Is(err, errors.ErrCodeCycleDetected) {
//	    node, _ := errors.Context(err)
//	    // highlight node in the editor
//	}
//
// [cache]: github.com/matzehuels/shadergraph/pkg/cache
// [errors.Error]: github.com/matzehuels/shadergraph/pkg/errors
// [errors]: github.com/matzehuels/shadergraph/pkg/errors
// [graph]: github.com/matzehuels/shadergraph/pkg/graph
// [io]: github.com/matzehuels/shadergraph/pkg/io
// [nodes]: github.com/matzehuels/shadergraph/pkg/nodes
// [pipeline]: github.com/matzehuels/shadergraph/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/shadergraph/pkg/pipeline
// [render]: github.com/matzehuels/shadergraph/pkg/render
// [shader]: github.com/matzehuels/shadergraph/pkg/shader
// [store]: github.com/matzehuels/shadergraph/pkg/store
// [value]: github.com/matzehuels/shadergraph/pkg/value
package pkg
