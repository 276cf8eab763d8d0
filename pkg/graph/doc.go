// Package graph implements the shader node graph and its two consumers: the
// evaluator and the code compiler.
//
// # Overview
//
// A [Graph] owns node instances, the connections between their sockets and an
// optional designated output node. Each node is an instance of a [NodeType]
// (its descriptor) and implements the [Node] capability contract:
//
//   - Eval computes a host-side [value.Value] for constant folding and preview.
//     Shader-only nodes return a NOT_EVALUABLE error via [NotEvaluable].
//   - Compile emits WGSL into the currently open block of a [CompileContext]
//     and registers one expression per output socket.
//
// Node types are registered once at startup in a [Registry], which maps the
// type name to a factory. Graph persistence refers to nodes by type name, so a
// registry must contain every type a stored graph uses before it is loaded.
//
// # Sockets
//
// Sockets are declared by the node type ([InputDef], [OutputDef], [ParamDef])
// and instantiated per node ([Sockets]). Inputs hold a literal default and may
// be connected to exactly one producer output. Params are node-local
// configuration and are never connected. A connection is accepted when the
// producer kind can be widened to the input kind (see [value.CanCoerce]).
//
// # Change Tracking
//
// Every successful mutation increments [Graph.Changed]. Hosts compare the
// counter with the value they last compiled to decide whether to recompile.
// The counter may advance without a semantic difference but never stays put
// across a real change.
//
// # Evaluation
//
// [Evaluate] resolves a node depth-first, memoizing each node once per pass and
// failing with CYCLE_DETECTED when a node is reached while it is still being
// resolved.
//
// # Compilation
//
// [Compiler.Compile] walks from the output node. A node asks for its inputs
// with [CompileContext.Input], which compiles the producer on first use and
// returns its memoized expression afterwards. Memoization is scoped to the
// block that is open at the time: a node can open a nested block (for example
// a function body) with [CompileContext.WithBlock], and producers referenced
// inside it are emitted again in that lexical scope. Fixed boilerplate goes to
// pre-declared top-level blocks such as "imports" and "bindings".
//
// The result is a [Code] value mapping block names to text, in declaration
// order. Assembling the blocks into a final shader is the caller's job.
//
// # Concurrency
//
// Graph, EvalContext and CompileContext are not safe for concurrent use. The
// caller serializes mutation against evaluation and compilation. A frozen
// Registry is safe for concurrent reads.
package graph
