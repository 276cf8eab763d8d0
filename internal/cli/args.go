package cli

import (
	"strconv"
	"strings"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// parseNodeID parses a node id, accepting an optional leading '#'.
func parseNodeID(s string) (graph.NodeID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", s)
	}
	return graph.NodeID(n), nil
}

// parseSocketRef resolves "id.socket" against g, where socket is a name or
// an index. A bare id means socket 0. output selects output sockets,
// otherwise inputs.
func parseSocketRef(g *graph.Graph, ref string, output bool) (graph.NodeID, int, error) {
	idPart, sock, hasSock := strings.Cut(ref, ".")
	id, err := parseNodeID(idPart)
	if err != nil {
		return 0, 0, err
	}
	n, ok := g.Node(id)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id).WithNode(id)
	}
	if !hasSock {
		return id, 0, nil
	}
	if i, err := strconv.Atoi(sock); err == nil {
		return id, i, nil
	}

	idx := n.Type().InputIndex(sock)
	kind := "input"
	if output {
		idx, kind = n.Type().OutputIndex(sock), "output"
	}
	if idx < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidSocket, "node %d (%s) has no %s %q", id, n.Type().Name, kind, sock).WithNode(id)
	}
	return id, idx, nil
}

// parseValue parses a literal of kind k. Components are comma separated and
// may be wrapped in a constructor such as vec3(1, 2, 3). A single number
// is widened to k. Textures take the handle verbatim.
func parseValue(s string, k value.Kind) (value.Value, error) {
	s = strings.TrimSpace(s)
	if k == value.KindTexture {
		if s == "" {
			return value.Value{}, errors.New(errors.ErrCodeInvalidInput, "empty texture handle")
		}
		return value.Texture(s), nil
	}
	if open := strings.IndexByte(s, '('); open >= 0 && strings.HasSuffix(s, ")") {
		s = s[open+1 : len(s)-1]
	}

	fields := strings.Split(s, ",")
	comps := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return value.Value{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid number %q", strings.TrimSpace(f))
		}
		comps[i] = v
	}
	if len(comps) == 1 {
		return value.Convert(value.Scalar(comps[0]), k)
	}
	return value.FromComponents(k, comps)
}
