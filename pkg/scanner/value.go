package scanner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the shapes a populate value can take.
type ValueKind int

const (
	// ValueNone leaves every parameter unresolved
	ValueNone ValueKind = iota
	// ValueString fills the template's only parameter
	ValueString
	// ValueList fills the template's only parameter with segments joined by "/"
	ValueList
	// ValueRecord fills parameters by name
	ValueRecord
)

// Value is the value of a populate entry: a single string, a list of
// segments, or a record keyed by parameter name whose fields are strings or
// lists.
type Value struct {
	kind   ValueKind
	str    string
	list   []string
	record map[string]Value
}

// String returns a value holding a single string.
func String(s string) Value {
	return Value{kind: ValueString, str: s}
}

// List returns a value holding path segments. An empty list is a present
// value that collapses the parameter to nothing.
func List(segments ...string) Value {
	if segments == nil {
		segments = []string{}
	}
	return Value{kind: ValueList, list: segments}
}

// Record returns a value filling parameters by name. Nested records are
// not allowed and are ignored on lookup.
func Record(fields map[string]Value) Value {
	return Value{kind: ValueRecord, record: fields}
}

// Kind returns the shape of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsSingle reports whether the value fills one unnamed parameter.
func (v Value) IsSingle() bool {
	return v.kind == ValueString || v.kind == ValueList
}

// Field returns the named field of a record value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != ValueRecord {
		return Value{}, false
	}
	f, ok := v.record[name]
	if !ok || !f.IsSingle() {
		return Value{}, false
	}
	return f, true
}

// segment renders a single value as URL text. It reports false for an empty
// string, which leaves the parameter unresolved.
func (v Value) segment() (string, bool) {
	switch v.kind {
	case ValueString:
		return v.str, v.str != ""
	case ValueList:
		return strings.Join(v.list, "/"), true
	default:
		return "", false
	}
}

// ValueOf converts decoded JSON/YAML data into a Value.
func ValueOf(data any) (Value, error) {
	switch d := data.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return d, nil
	case string:
		return String(d), nil
	case []string:
		return List(d...), nil
	case []any:
		list := make([]string, 0, len(d))
		for _, item := range d {
			s, ok := scalarString(item)
			if !ok {
				return Value{}, fmt.Errorf("populate value list items must be strings, got %T", item)
			}
			list = append(list, s)
		}
		return List(list...), nil
	case map[string]any:
		fields := make(map[string]Value, len(d))
		for name, raw := range d {
			f, err := ValueOf(raw)
			if err != nil {
				return Value{}, fmt.Errorf("param %q: %w", name, err)
			}
			if !f.IsSingle() {
				return Value{}, fmt.Errorf("param %q: expected a string or a list of strings", name)
			}
			fields[name] = f
		}
		return Record(fields), nil
	case map[string]string:
		fields := make(map[string]Value, len(d))
		for name, s := range d {
			fields[name] = String(s)
		}
		return Record(fields), nil
	default:
		if s, ok := scalarString(data); ok {
			return String(s), nil
		}
		return Value{}, fmt.Errorf("unsupported populate value type %T", data)
	}
}

// scalarString renders YAML/JSON scalars; numbers appear in slugs such as years.
func scalarString(data any) (string, bool) {
	switch d := data.(type) {
	case string:
		return d, true
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(d), true
	default:
		return "", false
	}
}

// MarshalJSON encodes the value in its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueList:
		return json.Marshal(v.list)
	case ValueRecord:
		return json.Marshal(v.record)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a string, a string array, or an object.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML encodes the value in its natural YAML shape.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case ValueString:
		return v.str, nil
	case ValueList:
		return v.list, nil
	case ValueRecord:
		return v.record, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML decodes a scalar, a sequence of scalars, or a mapping.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// GoString renders the value for test failure messages.
func (v Value) GoString() string {
	switch v.kind {
	case ValueString:
		return fmt.Sprintf("String(%q)", v.str)
	case ValueList:
		return fmt.Sprintf("List(%q)", v.list)
	case ValueRecord:
		names := make([]string, 0, len(v.record))
		for name := range v.record {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+v.record[name].GoString())
		}
		return "Record{" + strings.Join(parts, ", ") + "}"
	default:
		return "None"
	}
}
