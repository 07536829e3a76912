package gen

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/tools/imports"
)

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	GenerateTime   int64 // nanoseconds
	FormatTime     int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// fileWriter writes plugin output atomically: the plugin streams into a
// temporary file next to the destination, which is renamed into place
// only once the plugin succeeded.
type fileWriter struct {
	outDir string

	mu      sync.Mutex
	metrics WriterMetrics
	written map[string]bool
}

func newFileWriter(outDir string) *fileWriter {
	return &fileWriter{outDir: outDir, written: make(map[string]bool)}
}

// fileSink is the buffered temporary file a plugin streams into.
type fileSink struct {
	*bufio.Writer
}

// Metrics returns a copy of the metrics collected so far.
func (w *fileWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

func (w *fileWriter) wrote(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written[path]
}

// write runs emit against a temporary file and moves it to path. Go
// sources are passed through goimports, and plugins implementing Formatter
// through their own formatter.
func (w *fileWriter) write(path string, p Plugin, emit func(*fileSink) ([]Notice, error)) (notices []Notice, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	started := time.Now()
	sink := &fileSink{Writer: bufio.NewWriter(tmp)}
	notices, err = emit(sink)
	if err != nil {
		return notices, err
	}
	if err = sink.Flush(); err != nil {
		return notices, err
	}
	generated := time.Since(started)

	var formatTime time.Duration
	if f, ok := p.(Formatter); ok || strings.HasSuffix(path, ".go") {
		formatStart := time.Now()
		src, err := os.ReadFile(tmp.Name())
		if err != nil {
			return notices, err
		}
		var out []byte
		if ok {
			out, err = f.Format(path, src)
		} else {
			out, err = imports.Process(path, src, nil)
		}
		if err != nil {
			return notices, fmt.Errorf("format %s: %w", path, err)
		}
		if err := rewrite(tmp, out); err != nil {
			return notices, err
		}
		formatTime = time.Since(formatStart)
	}

	writeStart := time.Now()
	info, err := tmp.Stat()
	if err != nil {
		return notices, err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return notices, err
	}
	if err = tmp.Close(); err != nil {
		return notices, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return notices, err
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += info.Size()
	w.metrics.GenerateTime += int64(generated)
	w.metrics.FormatTime += int64(formatTime)
	w.metrics.WriteTime += int64(time.Since(writeStart))
	w.written[path] = true
	w.mu.Unlock()
	return notices, nil
}

func rewrite(f *os.File, content []byte) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := f.Write(content)
	return err
}
