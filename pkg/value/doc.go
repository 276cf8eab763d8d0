// Package value defines the runtime values that flow through a shader graph.
//
// # Overview
//
// A [Value] is a closed tagged union over the kinds a socket can carry:
// scalars, 2/3/4-component vectors, 2/3/4 square matrices, colors and
// texture handles. Every node socket is typed with a [Kind] fixed when the
// node type is declared.
//
// Values serve two consumers. The evaluator computes them directly with
// [Apply] and [Fract] for constant folding and previews. The compiler renders
// them as WGSL literals with [Value.WGSL] when an input is left unconnected.
//
// # Arithmetic
//
// [Apply] is defined between values of the same kind, component-wise. Two
// broadcast rules extend it:
//
//   - A scalar operand is splatted against any vector or color operand for
//     every operator, and against a matrix operand for multiplication only.
//   - Matrix multiplication is the linear-algebra product, both matrix by
//     matrix and matrix by vector (and vector by matrix) of matching size.
//
// Everything else, including any texture operand, fails with TYPE_MISMATCH.
//
// # Coercion
//
// Sockets accept a producer whose kind can be widened to the socket kind
// without losing components:
//
//	from \ to  scalar vec2 vec3 vec4 color
//	scalar       =     splat splat splat splat
//	vec3                      =   +1.0   +1.0
//	vec4                            =    same
//	color                          same    =
//
// Matrices and textures only accept their own kind. Narrowing (vec3 to vec2)
// is always rejected. [CanCoerce] answers the question for the graph at
// connect time, [Convert] applies the table during evaluation and
// [CoerceWGSL] during code generation.
package value
