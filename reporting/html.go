package reporting

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts a Markdown report to an HTML fragment.
func RenderHTML(w io.Writer, src []byte) error {
	if err := markdown.Convert(src, w); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

// HTMLReport buffers a MarkdownReport and writes it as HTML on Flush.
type HTMLReport struct {
	*MarkdownReport
	buf bytes.Buffer
	out io.Writer
}

// NewHTMLReport creates a report whose Markdown sections are rendered to w
// as HTML when Flush is called.
func NewHTMLReport(w io.Writer) *HTMLReport {
	r := &HTMLReport{out: w}
	r.MarkdownReport = NewMarkdownReport(&r.buf)
	return r
}

// Flush renders everything written so far and resets the buffer.
func (r *HTMLReport) Flush() error {
	defer r.buf.Reset()
	return RenderHTML(r.out, r.buf.Bytes())
}
