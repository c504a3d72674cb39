package model

import "strconv"

// ValueKind is the closed enumeration backing Value, the common JSON-like
// tree every data-source format (json/toml/yaml/kdl/ini/text) parses into.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueArray
	ValueObject
)

// Value is a single node of the JSON-like value tree backing DataContext.
// It is a concrete tagged struct rather than a bare interface{}, so callers
// get typed accessors instead of type switches scattered through client
// code.
type Value struct {
	Kind ValueKind

	boolVal   bool
	numberVal float64
	stringVal string
	arrayVal  []Value
	objectVal map[string]Value
	// objectOrder preserves insertion order for deterministic re-emission
	// (not required for ordinary reads, but keeps doctor/debug output stable).
	objectOrder []string
}

func Null() Value { return Value{Kind: ValueNull} }

func Bool(b bool) Value { return Value{Kind: ValueBool, boolVal: b} }

func Number(n float64) Value { return Value{Kind: ValueNumber, numberVal: n} }

func String(s string) Value { return Value{Kind: ValueString, stringVal: s} }

func Array(items []Value) Value { return Value{Kind: ValueArray, arrayVal: items} }

func Object() Value {
	return Value{Kind: ValueObject, objectVal: map[string]Value{}}
}

// Set inserts or overwrites a key on an object value. Set is a no-op if v is
// not ValueObject.
func (v *Value) Set(key string, val Value) {
	if v.Kind != ValueObject {
		return
	}
	if _, exists := v.objectVal[key]; !exists {
		v.objectOrder = append(v.objectOrder, key)
	}
	v.objectVal[key] = val
}

// Keys returns object keys in insertion order; nil for non-objects.
func (v Value) Keys() []string {
	if v.Kind != ValueObject {
		return nil
	}
	return v.objectOrder
}

// Field looks up a key on an object value. The second return is false when v
// is not an object or the key is absent — both are "undefined".
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != ValueObject {
		return Value{}, false
	}
	val, ok := v.objectVal[key]
	return val, ok
}

// Index looks up a position in an array value. The second return is false
// when v is not an array or i is out of range. String-key subscripting
// (`{{ x["y"] }}`) goes through Field, not Index.
func (v Value) Index(i int) (Value, bool) {
	if v.Kind != ValueArray {
		return Value{}, false
	}
	if i < 0 || i >= len(v.arrayVal) {
		return Value{}, false
	}
	return v.arrayVal[i], true
}

func (v Value) Len() int {
	switch v.Kind {
	case ValueArray:
		return len(v.arrayVal)
	case ValueObject:
		return len(v.objectOrder)
	case ValueString:
		return len(v.stringVal)
	}
	return 0
}

func (v Value) Items() []Value {
	if v.Kind != ValueArray {
		return nil
	}
	return v.arrayVal
}

func (v Value) AsBool() bool   { return v.boolVal }
func (v Value) AsNumber() float64 { return v.numberVal }
func (v Value) AsString() string  { return v.stringVal }

// Equal reports deep, kind-exact equality (used by the "==" / "!=" template
// operators); values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueNull:
		return true
	case ValueBool:
		return v.boolVal == other.boolVal
	case ValueNumber:
		return v.numberVal == other.numberVal
	case ValueString:
		return v.stringVal == other.stringVal
	case ValueArray:
		if len(v.arrayVal) != len(other.arrayVal) {
			return false
		}
		for i := range v.arrayVal {
			if !v.arrayVal[i].Equal(other.arrayVal[i]) {
				return false
			}
		}
		return true
	case ValueObject:
		if len(v.objectOrder) != len(other.objectOrder) {
			return false
		}
		for k, val := range v.objectVal {
			ov, ok := other.objectVal[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Truthy implements the `if` transformer / template-conditional truthiness
// definition: non-null, non-false, non-empty, non-zero.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValueNull:
		return false
	case ValueBool:
		return v.boolVal
	case ValueNumber:
		return v.numberVal != 0
	case ValueString:
		return v.stringVal != ""
	case ValueArray:
		return len(v.arrayVal) > 0
	case ValueObject:
		return len(v.objectOrder) > 0
	}
	return false
}

// String renders a Value for `{{ expr }}` interpolation: scalars render as
// plain text, containers render as a compact JSON-ish form (used rarely —
// templates are expected to index into containers, not print them whole).
func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return ""
	case ValueBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case ValueNumber:
		return formatNumber(v.numberVal)
	case ValueString:
		return v.stringVal
	case ValueArray:
		out := "["
		for i, item := range v.arrayVal {
			if i > 0 {
				out += ", "
			}
			out += strconv.Quote(item.String())
		}
		return out + "]"
	case ValueObject:
		out := "{"
		for i, k := range v.objectOrder {
			if i > 0 {
				out += ", "
			}
			out += strconv.Quote(k) + ": " + strconv.Quote(v.objectVal[k].String())
		}
		return out + "}"
	}
	return ""
}

// DataContext is the namespaced tree constructed from the [data] config
// section: namespace name -> parsed Value (object/array/string/number/bool).
type DataContext struct {
	namespaces map[string]Value
}

func NewDataContext() *DataContext {
	return &DataContext{namespaces: map[string]Value{}}
}

func (d *DataContext) Set(namespace string, v Value) {
	d.namespaces[namespace] = v
}

func (d *DataContext) Get(namespace string) (Value, bool) {
	v, ok := d.namespaces[namespace]
	return v, ok
}

func (d *DataContext) Namespaces() []string {
	names := make([]string, 0, len(d.namespaces))
	for n := range d.namespaces {
		names = append(names, n)
	}
	return names
}
