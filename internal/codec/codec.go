// Package codec implements the tagged-netstring wire format: a
// length-prefixed, self-describing serialization for six value kinds
// (string, integer, boolean, null, list, dict). It is the on-wire
// envelope used to frame requests and responses exchanged with
// out-of-process handlers.
//
// The grammar is `<length>:<payload><tag>` where tag is one of
// `,` (string) `#` (integer) `!` (boolean) `~` (null) `]` (list)
// `}` (dict). Lists and dicts are concatenations of complete values
// (dicts alternate key, value) filling exactly `length` bytes.
package codec

import (
	"fmt"
)

// Tag identifies the wire type of a Value.
type Tag byte

const (
	TagString Tag = ','
	TagInt    Tag = '#'
	TagBool   Tag = '!'
	TagNull   Tag = '~'
	TagList   Tag = ']'
	TagDict   Tag = '}'
)

func (t Tag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagInt:
		return "int"
	case TagBool:
		return "bool"
	case TagNull:
		return "null"
	case TagList:
		return "list"
	case TagDict:
		return "dict"
	default:
		return fmt.Sprintf("unknown(%q)", byte(t))
	}
}

// Value is a tagged-netstring value. Exactly one of the typed fields
// is meaningful, selected by Tag. Lists preserve element order; dicts
// do not guarantee any ordering of their entries.
type Value struct {
	Tag  Tag
	Str  []byte
	Int  int64
	Bool bool
	List []*Value
	Dict []DictEntry
}

// DictEntry is one key/value pair of a dict Value. Keys are always
// string values per the wire grammar.
type DictEntry struct {
	Key   []byte
	Value *Value
}

// String builds a string Value.
func String(s string) *Value { return &Value{Tag: TagString, Str: []byte(s)} }

// Bytes builds a string Value from raw bytes.
func Bytes(b []byte) *Value { return &Value{Tag: TagString, Str: b} }

// Int builds an integer Value.
func Int(n int64) *Value { return &Value{Tag: TagInt, Int: n} }

// Bool builds a boolean Value.
func Bool(b bool) *Value { return &Value{Tag: TagBool, Bool: b} }

// Null builds a null Value. A fresh Value is allocated per call: this
// package has no shared singletons for true/false/null, and Parse
// likewise allocates a new Value for every literal it reads.
func Null() *Value { return &Value{Tag: TagNull} }

// List builds a list Value from already-constructed elements.
func List(items ...*Value) *Value { return &Value{Tag: TagList, List: items} }

// Dict builds a dict Value from already-constructed entries.
func Dict(entries ...DictEntry) *Value { return &Value{Tag: TagDict, Dict: entries} }

// Get returns the value associated with key in a dict Value, and
// whether it was found. Get on a non-dict Value returns (nil, false).
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Tag != TagDict {
		return nil, false
	}
	for _, e := range v.Dict {
		if string(e.Key) == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Equal reports whether v and other encode the same value. Dict
// comparison is order-independent, matching the "dicts preserve no
// ordering guarantee" invariant.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case TagString:
		return string(v.Str) == string(other.Str)
	case TagInt:
		return v.Int == other.Int
	case TagBool:
		return v.Bool == other.Bool
	case TagNull:
		return true
	case TagList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case TagDict:
		if len(v.Dict) != len(other.Dict) {
			return false
		}
		for _, e := range v.Dict {
			match, ok := other.Get(string(e.Key))
			if !ok || !e.Value.Equal(match) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
