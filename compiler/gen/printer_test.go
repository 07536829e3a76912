package gen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterIndentation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Line("struct A {")
	restore := p.Indent()
	p.Line("int x;")
	p.Line()
	p.Writef("int %s;\nint z;\n", "y")
	restore()
	p.Line("};")

	require.NoError(t, p.Err())
	assert.Equal(t, "struct A {\n\tint x;\n\n\tint y;\n\tint z;\n};\n", buf.String())
	assert.Equal(t, int64(buf.Len()), p.Written())
}

func TestPrinterBlock(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Block("namespace a {", func() {
		p.Block("struct B {", func() {
			assert.Equal(t, 2, p.Depth())
			p.Line("int c;")
		}, "};")
	}, "}// namespace a")

	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, "namespace a {\n\tstruct B {\n\t\tint c;\n\t};\n}// namespace a\n", buf.String())
}

func TestPrinterIndentRestoredOnPanic(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{})
	assert.Panics(t, func() {
		defer p.Indent()()
		panic("boom")
	})
	assert.Equal(t, 0, p.Depth())
}

func TestPrinterRaw(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	defer p.Indent()()
	p.WriteString("x(R\"(")
	p.Raw("line one\nline two")
	p.Line(")\");")
	p.Line("y;")

	assert.Equal(t, "\tx(R\"(line one\nline two)\");\n\ty;\n", buf.String())
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(b []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("sink closed")
	}
	w.n--
	return len(b), nil
}

func TestPrinterStickyError(t *testing.T) {
	p := NewPrinter(&failingWriter{n: 1})
	p.Line("ok")
	p.Line("fails")
	p.Line("ignored")

	require.Error(t, p.Err())
	assert.Equal(t, "sink closed", p.Err().Error())
	assert.Equal(t, int64(2), p.Written())
}

func TestPrepend(t *testing.T) {
	assert.Equal(t, "| a\n| b", Prepend("a\nb", "| "))
	assert.Equal(t, "> ", Prepend("", "> "))
}

func TestWrap(t *testing.T) {
	got := Wrap("one two three four five six", 10)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
	assert.Equal(t, "one two three four five six", strings.ReplaceAll(got, "\n", " "))
}
