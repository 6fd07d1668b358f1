// Package fielddata models schemaless record field values and computes
// structural diffs between them. Values round-trip through JSON; numbers are
// compared as float64, mappings are order-insensitive, sequences are not.
package fielddata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one decoded field value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	seq  []Value
	m    map[string]Value
}

func Null() Value               { return Value{kind: KindNull} }
func Bool(v bool) Value         { return Value{kind: KindBool, b: v} }
func Number(v float64) Value    { return Value{kind: KindNumber, n: v} }
func String(v string) Value     { return Value{kind: KindString, s: v} }
func Sequence(v []Value) Value  { return Value{kind: KindSequence, seq: v} }
func Mapping(v map[string]Value) Value {
	return Value{kind: KindMapping, m: v}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) BoolValue() bool            { return v.b }
func (v Value) NumberValue() float64       { return v.n }
func (v Value) StringValue() string        { return v.s }
func (v Value) SequenceValue() []Value     { return v.seq }
func (v Value) MappingValue() map[string]Value { return v.m }

// FromJSON decodes a raw JSON document into a Value tree.
func FromJSON(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var any interface{}
	if err := dec.Decode(&any); err != nil {
		return Value{}, fmt.Errorf("fielddata.FromJSON.Decode: %w", err)
	}
	return fromAny(any)
}

func fromAny(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("fielddata.fromAny.Float64: %w", err)
		}
		return Number(f), nil
	case string:
		return String(v), nil
	case []interface{}:
		seq := make([]Value, 0, len(v))
		for _, item := range v {
			iv, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			seq = append(seq, iv)
		}
		return Sequence(seq), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(v))
		for key, item := range v {
			iv, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[key] = iv
		}
		return Mapping(m), nil
	default:
		return Value{}, fmt.Errorf("fielddata.fromAny: unsupported type %T", raw)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindSequence:
		if v.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.seq)
	case KindMapping:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("fielddata.MarshalJSON: unknown kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(raw []byte) error {
	parsed, err := FromJSON(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// DeepEqual reports structural equality. Mapping key order is irrelevant,
// sequence element order is significant.
func DeepEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !DeepEqual(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.m) != len(b.m) {
			return false
		}
		for key, av := range a.m {
			bv, ok := b.m[key]
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsFilled reports whether a value counts toward required-field completeness.
// false and 0 are filled; null, empty strings, empty sequences and empty
// mappings are not.
func (v Value) IsFilled() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindString:
		return strings.TrimSpace(v.s) != ""
	case KindSequence:
		return len(v.seq) > 0
	case KindMapping:
		return len(v.m) > 0
	default:
		return true
	}
}

// Keys returns the mapping keys in sorted order, nil for non-mappings.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for key := range v.m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Field looks up a top-level mapping key. The second return is false for
// missing keys and non-mapping receivers.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	fv, ok := v.m[name]
	return fv, ok
}

// Set returns a copy of v with the value at a dotted path replaced. The
// final key may be new, but every intermediate segment must already exist
// as a mapping. Bracket indices are not supported for writes.
func (v Value) Set(path string, next Value) (Value, bool) {
	return v.setSegments(strings.Split(path, "."), next)
}

func (v Value) setSegments(segments []string, next Value) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}

	name := segments[0]
	m := make(map[string]Value, len(v.m)+1)
	for k, val := range v.m {
		m[k] = val
	}

	if len(segments) == 1 {
		m[name] = next
		return Mapping(m), true
	}

	child, ok := v.m[name]
	if !ok {
		return Value{}, false
	}
	updated, ok := child.setSegments(segments[1:], next)
	if !ok {
		return Value{}, false
	}
	m[name] = updated
	return Mapping(m), true
}

// Resolve walks a dotted path with optional bracket indices, e.g.
// "contacts[0].email". A missing segment returns false.
func (v Value) Resolve(path string) (Value, bool) {
	current := v
	for _, segment := range strings.Split(path, ".") {
		name := segment
		var indices []int
		for {
			open := strings.IndexByte(name, '[')
			if open < 0 {
				break
			}
			close := strings.IndexByte(name[open:], ']')
			if close < 0 {
				return Value{}, false
			}
			idx, err := strconv.Atoi(name[open+1 : open+close])
			if err != nil {
				return Value{}, false
			}
			indices = append(indices, idx)
			name = name[:open] + name[open+close+1:]
		}
		if name != "" {
			next, ok := current.Field(name)
			if !ok {
				return Value{}, false
			}
			current = next
		}
		for _, idx := range indices {
			if current.kind != KindSequence || idx < 0 || idx >= len(current.seq) {
				return Value{}, false
			}
			current = current.seq[idx]
		}
	}
	return current, true
}
