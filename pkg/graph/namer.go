package graph

import (
	"fmt"
	"strings"
)

// reservedIdents are names used by the fragment templates and WGSL builtins.
var reservedIdents = []string{
	"in", "out", "material", "view", "pbr_input", "pbr_bindings", "mesh",
	"is_front", "v_in", "uv", "color", "fragment", "main",
	"let", "var", "const", "fn", "return", "struct", "true", "false",
}

// namer hands out unique WGSL identifiers within one compile pass.
type namer struct {
	used    map[string]struct{}
	counter uint32
}

func newNamer() *namer {
	n := &namer{used: make(map[string]struct{})}
	for _, name := range reservedIdents {
		n.used[name] = struct{}{}
	}
	return n
}

// call returns base, or base with a numeric suffix if base is taken.
func (n *namer) call(base string) string {
	base = sanitize(base)
	if _, ok := n.used[base]; !ok {
		n.used[base] = struct{}{}
		return base
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", base, n.counter)
		if _, ok := n.used[candidate]; !ok {
			n.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// sanitize maps arbitrary text to a WGSL identifier.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "v"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "v" + out
	}
	return out
}
