package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Writer streams markup to an io.Writer and keeps the first error, so
// component bodies can be written without checking every call.
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewWriter wraps w for a single render call.
func NewWriter(ctx context.Context, w io.Writer) *Writer {
	return &Writer{ctx: ctx, w: w}
}

// Raw writes trusted markup.
func (h *Writer) Raw(parts ...string) {
	for _, part := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

// Text writes escaped text.
func (h *Writer) Text(value string) {
	h.Raw(templ.EscapeString(value))
}

// Attr writes ` name="value"` with the value escaped.
func (h *Writer) Attr(name, value string) {
	h.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// Flag writes a boolean attribute when set.
func (h *Writer) Flag(name string, set bool) {
	if set {
		h.Raw(" ", name)
	}
}

// Render writes a nested component.
func (h *Writer) Render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// Err returns the first write error.
func (h *Writer) Err() error {
	return h.err
}

// Func adapts a body writing through Writer into a templ.Component.
func Func(body func(h *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewWriter(ctx, w)
		body(h)
		return h.Err()
	})
}
