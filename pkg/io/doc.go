// Package io reads and writes node graphs.
//
// # JSON Format
//
// JSON is the storage format. A document lists the nodes with their type
// name, id, params and literal input defaults, then the links and the output
// node:
//
//	{
//	  "nodes": [
//	    {
//	      "id": 1,
//	      "type": "Scalar Math",
//	      "choices": {"op": "Add"},
//	      "inputs": {
//	        "a": {"kind": "scalar", "value": 2},
//	        "b": {"kind": "scalar", "value": 3}
//	      }
//	    },
//	    {"id": 2, "type": "Fragment output"}
//	  ],
//	  "links": [
//	    {"from": 1, "output": "out", "to": 2, "input": "color"}
//	  ],
//	  "output": 2
//	}
//
// Sockets are addressed by name so documents survive reordering of a node
// type's sockets. Node ids are preserved on load.
//
// # HCL Format
//
// Graphs can also be written by hand in HCL and loaded with [ReadHCL]:
//
//	output = "frag"
//
//	node "sum" {
//	  type   = "Scalar Math"
//	  params = { op = "Add" }
//	  inputs = { a = 2, b = 3 }
//	}
//
//	node "frag" {
//	  type = "Fragment output"
//	}
//
//	link {
//	  from = "sum.out"
//	  to   = "frag.color"
//	}
//
// A number literal is widened to the kind of the socket it sets, a list sets
// the components of a vector, color or column-major matrix, and a string
// selects an enum option or names a texture.
//
// # Errors
//
// Loading replays the document through the [graph.Graph] API, so the usual
// UNKNOWN_NODE_TYPE, TYPE_MISMATCH and WOULD_CREATE_CYCLE checks apply. An
// unknown node type aborts the load; no partial graph is returned.
package io
