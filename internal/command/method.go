package command

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is the HTTP verb used for the primary service call.
type Method int

const (
	Get Method = iota + 1
	Post
	Put
	Delete
	Patch
)

var methodNames = map[string]Method{
	"get":    Get,
	"post":   Post,
	"put":    Put,
	"delete": Delete,
	"patch":  Patch,
}

// ParseMethod accepts a verb name in any case. Anything outside the
// allowed set, including the empty string, is rejected.
func ParseMethod(s string) (Method, error) {
	m, ok := methodNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unsupported method %q", s)
	}
	return m, nil
}

func (m Method) String() string {
	switch m {
	case Get:
		return "get"
	case Post:
		return "post"
	case Put:
		return "put"
	case Delete:
		return "delete"
	case Patch:
		return "patch"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// HTTP returns the request verb for m. The second value is false for the
// zero Method or any value not produced by ParseMethod.
func (m Method) HTTP() (string, bool) {
	switch m {
	case Get:
		return http.MethodGet, true
	case Post:
		return http.MethodPost, true
	case Put:
		return http.MethodPut, true
	case Delete:
		return http.MethodDelete, true
	case Patch:
		return http.MethodPatch, true
	}
	return "", false
}
