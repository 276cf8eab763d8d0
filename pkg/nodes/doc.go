// Package nodes provides the built-in node catalogue: arithmetic over every
// value kind, a texture sampler, a UV source, constants and the fragment
// output sink.
//
// # Registration
//
// [Register] adds the catalogue to any [graph.Registry]. [Default] returns a
// process-wide registry holding the catalogue, built on first use and frozen
// so it can be shared between goroutines:
//
//	g, _ := nodes.NewDefaultGraph(nodes.Default())
//	code, err := nodes.NewCompiler(graph.TargetWGSL, logger).Compile(g)
//
// # Targets
//
// Shader nodes emit different code per [graph.Target]. The bevy target
// writes a fragment entry point for Bevy's PBR pipeline using its #import
// preprocessor. The wgsl target writes a self-contained module with its own
// vertex output struct, material uniform and texture bindings, suitable for
// validation and cross compilation.
//
// # Blocks
//
// [NewCompiler] declares the "imports" and "bindings" blocks. The fragment
// output node stores its entry point in the top-level [BlockFragment] block.
package nodes
