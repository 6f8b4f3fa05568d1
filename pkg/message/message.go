// Package message implements the type-erased, reflectable argument
// closure captured at every call site. A Message owns a
// slice of elements, each wrapping one formatted argument together with
// enough type information for a policy or the bootstrap sink to inspect
// it without knowing the concrete type ahead of time.
//
// Go already has a form of language-level type erasure (interface{}), so
// unlike the source language's union-of-small-value-cell-plus-external-
// allocation design, elements here are plain interface
// values; the "reflection view" is built with reflect at inspect time
// instead of a hand-rolled function-pointer table.
package message

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AlexanderHaase/dynalog/pkg/level"
)

// Element is the reflection view of one captured argument: its decayed
// type identity, the captured value itself, and flags describing the
// original type's shape.
type Element struct {
	Type      reflect.Type
	Value     interface{}
	IsPtr     bool
	IsArray   bool
	IsConst   bool // Go values captured by value are always treated as const
}

// Message is the heterogeneous tuple captured at a call site: a tag, a
// level, and the reflection view of every argument passed to Format.
type Message struct {
	Tag   string
	Level level.Level

	elems []Element
}

// Format constructs a Message over args, in the order given.
func Format(tag string, lvl level.Level, args ...interface{}) *Message {
	m := &Message{Tag: tag, Level: lvl}
	if len(args) == 0 {
		return m
	}
	m.elems = make([]Element, len(args))
	for i, a := range args {
		m.elems[i] = reflectElement(a)
	}
	return m
}

func reflectElement(v interface{}) Element {
	if v == nil {
		return Element{Type: nil, Value: nil}
	}
	t := reflect.TypeOf(v)
	e := Element{Value: v, Type: t}
	switch t.Kind() {
	case reflect.Ptr:
		e.IsPtr = true
		e.Type = t.Elem()
	case reflect.Array:
		e.IsArray = true
	}
	// Values passed through interface{} in Go are always copies or
	// pointers; there is no reference/const distinction to recover, so
	// IsConst is always true for non-pointer capture, mirroring the
	// source's by-value capture semantics for copyable arguments.
	e.IsConst = !e.IsPtr
	return e
}

// Len reports the number of captured elements.
func (m *Message) Len() int {
	if m == nil {
		return 0
	}
	return len(m.elems)
}

// Empty reports whether the message holds no captured elements: a nil
// message, or one formatted with no arguments.
func (m *Message) Empty() bool {
	return m == nil || m.elems == nil
}

// At returns the reflection view of the element at index i.
func (m *Message) At(i int) Element {
	return m.elems[i]
}

// Level0 returns the value of the first captured element that is a
// level.Level, and whether one was found. The bootstrap sink uses this to re-check a site's mask
// against a level carried in the message body.
func (m *Message) Level0() (level.Level, bool) {
	for _, e := range m.elems {
		if l, ok := e.Value.(level.Level); ok {
			return l, true
		}
	}
	return 0, false
}

// Serialize writes each captured value to w, in capture order, using
// fmt's default verb for that value's type. An empty message writes a
// diagnostic placeholder including the message's address.
func (m *Message) Serialize(w interface{ Write([]byte) (int, error) }) {
	if m.Empty() {
		fmt.Fprintf(w, "<Empty Message %p>", m)
		return
	}
	for _, e := range m.elems {
		fmt.Fprint(w, e.Value)
	}
}

// String renders the message the way Serialize would, for callers (like
// the standard-output sink in the baseline scenario) that want a string
// rather than a streaming write.
func (m *Message) String() string {
	if m.Empty() {
		return fmt.Sprintf("<Empty Message %p>", m)
	}
	var sb strings.Builder
	for _, e := range m.elems {
		fmt.Fprint(&sb, e.Value)
	}
	return sb.String()
}

