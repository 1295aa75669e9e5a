// Package script decodes the Clausewitz key/value text format used by
// Paradox games into an ordered tree.
//
//	@tier1cost1 = 360
//	tech_lasers_1 = {
//		cost = @tier1cost1
//		area = physics
//		category = { particles }
//		prerequisites = { "tech_physics_lab_1" }
//		weight = 95
//		weight = 100
//	}
//
// Only structure is decoded; nothing is evaluated.
package script

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is wrapped by syntax errors raised at end of input.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// SyntaxError reports malformed input.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Value is either a Scalar or a *Block.
type Value interface {
	isValue()
}

// Scalar is a bare or quoted token.
type Scalar struct {
	Text   string
	Quoted bool
}

func (Scalar) isValue() {}

// Field is one entry of a block. Key is empty for bare list items such as
// the elements of `category = { a b }`.
type Field struct {
	Key   string
	Op    string
	Value Value
}

// Block is an ordered list of fields.
type Block struct {
	fields []Field
}

func (*Block) isValue() {}

// Fields returns the fields in source order.
func (b *Block) Fields() []Field {
	if b == nil {
		return nil
	}
	return b.fields
}

// Len returns the number of fields.
func (b *Block) Len() int { return len(b.Fields()) }

// Get returns the value of the first field named key.
func (b *Block) Get(key string) (Value, bool) {
	for _, f := range b.Fields() {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// All returns the values of every field named key, in order.
func (b *Block) All(key string) []Value {
	var values []Value
	for _, f := range b.Fields() {
		if f.Key == key {
			values = append(values, f.Value)
		}
	}
	return values
}

// Scalar returns the text of the first field named key when it holds a
// scalar.
func (b *Block) Scalar(key string) (string, bool) {
	v, ok := b.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(Scalar)
	return s.Text, ok
}

// Block returns the first field named key when it holds a block.
func (b *Block) Block(key string) (*Block, bool) {
	v, ok := b.Get(key)
	if !ok {
		return nil, false
	}
	nested, ok := v.(*Block)
	return nested, ok
}

// Bool reports whether the first field named key is "yes".
func (b *Block) Bool(key string) bool {
	s, ok := b.Scalar(key)
	return ok && s == "yes"
}

// Values returns the bare scalar items of a list block.
func (b *Block) Values() []string {
	var values []string
	for _, f := range b.Fields() {
		if f.Key != "" {
			continue
		}
		if s, ok := f.Value.(Scalar); ok {
			values = append(values, s.Text)
		}
	}
	return values
}

// List returns the bare scalar items of the first block named key.
func (b *Block) List(key string) []string {
	nested, ok := b.Block(key)
	if !ok {
		return nil
	}
	return nested.Values()
}
