package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// Printer writes generated text to a sink in emission order. It prefixes
// every non-empty line with one tab per indentation level. The first write
// error is kept and every later write becomes a no-op, so emitters can
// write freely and check Err once.
type Printer struct {
	w     io.Writer
	depth int
	bol   bool
	err   error
	n     int64
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, bol: true}
}

// Write implements io.Writer, applying indentation.
func (p *Printer) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	total := len(b)
	for len(b) > 0 {
		if p.bol && b[0] != '\n' {
			p.emit([]byte(strings.Repeat("\t", p.depth)))
		}
		i := 0
		for i < len(b) && b[i] != '\n' {
			i++
		}
		if i < len(b) {
			i++ // newline included
			p.bol = true
		} else {
			p.bol = false
		}
		p.emit(b[:i])
		b = b[i:]
		if p.err != nil {
			return 0, p.err
		}
	}
	return total, nil
}

func (p *Printer) emit(b []byte) {
	if p.err != nil || len(b) == 0 {
		return
	}
	n, err := p.w.Write(b)
	p.n += int64(n)
	p.err = err
}

// WriteString writes s with indentation.
func (p *Printer) WriteString(s string) (int, error) {
	return p.Write([]byte(s))
}

// Writef writes formatted text with indentation.
func (p *Printer) Writef(format string, args ...any) {
	fmt.Fprintf(p, format, args...)
}

// Line writes the parts followed by a newline.
func (p *Printer) Line(parts ...string) {
	for _, s := range parts {
		_, _ = p.WriteString(s)
	}
	_, _ = p.WriteString("\n")
}

// Raw writes s as is, without indentation. Used for multi-line literals
// whose content must not change, e.g. raw string diagnostics.
func (p *Printer) Raw(s string) {
	if s == "" {
		return
	}
	p.emit([]byte(s))
	p.bol = strings.HasSuffix(s, "\n")
}

// Indent increases the indentation by one level and returns the function
// restoring the previous level:
//
//	defer p.Indent()()
func (p *Printer) Indent() (restore func()) {
	prev := p.depth
	p.depth++
	return func() { p.depth = prev }
}

// Block writes head, runs body one level deeper, then writes tail at the
// original level. Head and tail are written as full lines.
func (p *Printer) Block(head string, body func(), tail string) {
	p.Line(head)
	func() {
		defer p.Indent()()
		body()
	}()
	p.Line(tail)
}

// Depth returns the current indentation level.
func (p *Printer) Depth() int { return p.depth }

// Err returns the first write error.
func (p *Printer) Err() error { return p.err }

// Written returns the number of bytes written to the sink.
func (p *Printer) Written() int64 { return p.n }

// Prepend inserts prefix at the start of every line of s.
func Prepend(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// Wrap word-wraps s at the given column width.
func Wrap(s string, width uint) string {
	return wordwrap.WrapString(s, width)
}
