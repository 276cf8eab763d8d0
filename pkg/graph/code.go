package graph

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

// Code is the output of a compile pass: named blocks of generated text in
// declaration order.
type Code struct {
	Target Target
	// Result is the expression of output 0 of the output node, when it has
	// outputs. Sink nodes leave it empty.
	Result string

	names  []string
	blocks map[string]string
}

// NewCode builds a Code from blocks listed in order.
func NewCode(target Target, blocks ...Block) *Code {
	c := &Code{Target: target, blocks: make(map[string]string, len(blocks))}
	for _, b := range blocks {
		if _, ok := c.blocks[b.Name]; !ok {
			c.names = append(c.names, b.Name)
		}
		c.blocks[b.Name] += b.Text
	}
	return c
}

// Block is a named piece of generated text.
type Block struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Names returns the block names in output order.
func (c *Code) Names() []string { return slices.Clone(c.names) }

// Block returns the text of the named block and whether it exists.
func (c *Code) Block(name string) (string, bool) {
	t, ok := c.blocks[name]
	return t, ok
}

// Blocks returns all blocks in output order.
func (c *Code) Blocks() []Block {
	out := make([]Block, len(c.names))
	for i, name := range c.names {
		out[i] = Block{Name: name, Text: c.blocks[name]}
	}
	return out
}

// String concatenates the non-empty blocks in output order.
func (c *Code) String() string {
	var b strings.Builder
	for _, name := range c.names {
		text := c.blocks[name]
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}
	return b.String()
}

type codeJSON struct {
	Target Target  `json:"target"`
	Result string  `json:"result,omitempty"`
	Blocks []Block `json:"blocks"`
}

// MarshalJSON implements json.Marshaler.
func (c *Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(codeJSON{Target: c.Target, Result: c.Result, Blocks: c.Blocks()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Code) UnmarshalJSON(b []byte) error {
	var w codeJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode code")
	}
	*c = *NewCode(w.Target, w.Blocks...)
	c.Result = w.Result
	return nil
}
