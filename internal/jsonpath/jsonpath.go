// Package jsonpath resolves dotted paths against JSON documents.
//
// Only objects are descended into. A path that runs into a scalar, an
// array or a missing key before it is exhausted resolves to an absent
// Value rather than an error.
package jsonpath

import (
	"strings"

	"github.com/tidwall/gjson"
)

// AbsentText is how an absent value renders inside a message.
const AbsentText = "<nil>"

// Value is the result of a lookup. The zero Value is absent.
type Value struct {
	res   gjson.Result
	found bool
}

// Lookup parses body and resolves path against it.
func Lookup(body []byte, path string) Value {
	return Get(gjson.ParseBytes(body), path)
}

// Get resolves path ("a.b.c") against root.
func Get(root gjson.Result, path string) Value {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		if !cur.IsObject() {
			return Value{}
		}
		cur = cur.Get(gjson.Escape(seg))
		if !cur.Exists() {
			return Value{}
		}
	}
	return Value{res: cur, found: true}
}

// Absent reports whether the path could not be resolved.
func (v Value) Absent() bool {
	return !v.found
}

// Interface returns the Go value, or nil when absent.
func (v Value) Interface() any {
	if !v.found {
		return nil
	}
	return v.res.Value()
}

// String renders the value for a message: strings unquoted, JSON null as
// "null", objects, arrays and numbers as their raw JSON, absent as AbsentText.
func (v Value) String() string {
	if !v.found {
		return AbsentText
	}
	switch v.res.Type {
	case gjson.String:
		return v.res.Str
	case gjson.Null:
		return "null"
	}
	return v.res.Raw
}
