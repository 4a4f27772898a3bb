package engine

import (
	"io"

	"github.com/valyala/fasttemplate"

	"homevox/internal/jsonpath"
)

// Render substitutes {name} placeholders with bindings. Placeholders
// without a binding are kept verbatim; absent bindings render as
// jsonpath.AbsentText.
//
// A tag runs from a "{" to the next "}", so a placeholder nested inside
// literal braces, as in `{"x": {t}}`, is part of a larger unbound tag
// and stays unsubstituted.
func Render(tmpl string, bindings map[string]jsonpath.Value) string {
	out, err := fasttemplate.ExecuteFuncStringWithErr(tmpl, "{", "}", func(w io.Writer, tag string) (int, error) {
		v, ok := bindings[tag]
		if !ok {
			return io.WriteString(w, "{"+tag+"}")
		}
		return io.WriteString(w, v.String())
	})
	if err != nil {
		return tmpl
	}
	return out
}
