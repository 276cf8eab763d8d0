package errors

import (
	"errors"
	"fmt"
	"testing"
)

type nodeID uint64

func (n nodeID) String() string { return fmt.Sprintf("%d", uint64(n)) }

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownNodeType, "unknown node type %q", "Foo")

	if err.Code != ErrCodeUnknownNodeType {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownNodeType)
	}

	if err.Message != `unknown node type "Foo"` {
		t.Errorf("Message = %v, want %v", err.Message, `unknown node type "Foo"`)
	}

	expected := `UNKNOWN_NODE_TYPE: unknown node type "Foo"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode graph")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeTypeMismatch, "test"),
			code:     ErrCodeTypeMismatch,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeTypeMismatch, "test"),
			code:     ErrCodeInvalidSocket,
			expected: false,
		},
		{
			name:     "outer code",
			err:      Wrap(ErrCodeInternal, New(ErrCodeCycleDetected, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "inner code",
			err:      Wrap(ErrCodeInternal, New(ErrCodeCycleDetected, "inner"), "outer"),
			code:     ErrCodeCycleDetected,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("compile: %w", New(ErrCodeUnboundBlock, "inner")),
			code:     ErrCodeUnboundBlock,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeMissingOutputNode, "test"),
			expected: ErrCodeMissingOutputNode,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestContext(t *testing.T) {
	inner := New(ErrCodeUnboundBlock, "no block").WithBlock("bindings")
	outer := Wrap(ErrCodeInternal, inner, "compile node").WithNode(nodeID(7))

	node, block := Context(outer)
	if node != "7" {
		t.Errorf("node = %q, want %q", node, "7")
	}
	if block != "bindings" {
		t.Errorf("block = %q, want %q", block, "bindings")
	}

	node, block = Context(errors.New("plain"))
	if node != "" || block != "" {
		t.Errorf("Context(plain) = (%q, %q), want empty", node, block)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
