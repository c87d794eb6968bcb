package http

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Field struct {
	Name, Value string
}

// Headers is an ordered list of header fields. Names are compared
// case-insensitively but written exactly as they were added, and repeated
// fields keep their relative order.
type Headers []Field

func (h *Headers) Add(name, value string) {
	*h = append(*h, Field{name, value})
}

// Set replaces the first field named name and removes the others. The
// field keeps its original position when it was already present.
func (h *Headers) Set(name, value string) {
	out := (*h)[:0]
	set := false
	for _, f := range *h {
		if !strcomp.EqualFold(f.Name, name) {
			out = append(out, f)
		} else if !set {
			out = append(out, Field{name, value})
			set = true
		}
	}
	if !set {
		out = append(out, Field{name, value})
	}
	clear((*h)[len(out):])
	*h = out
}

func (h *Headers) Del(name string) {
	out := (*h)[:0]
	for _, f := range *h {
		if !strcomp.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	clear((*h)[len(out):])
	*h = out
}

// Get returns the first value of name, or "" when absent.
func (h Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

func (h Headers) Lookup(name string) (string, bool) {
	for _, f := range h {
		if strcomp.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

func (h Headers) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Values returns every value of name in order of appearance.
func (h Headers) Values(name string) []string {
	var vs []string
	for v := range h.Iter(name) {
		vs = append(vs, v)
	}
	return vs
}

// Iter yields the values of name in order of appearance.
func (h Headers) Iter(name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range h {
			if strcomp.EqualFold(f.Name, name) && !yield(f.Value) {
				return
			}
		}
	}
}

// All yields every field in order.
func (h Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, f := range h {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	return append(Headers(nil), h...)
}
