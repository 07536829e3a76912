// Package load decodes Ecsact package snapshots from YAML, JSON or msgpack
// files into [schema.Package] values.
package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

// Format is a snapshot encoding.
type Format string

// Supported snapshot encodings.
const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ErrUnknownFormat is returned for files whose extension maps to no format.
var ErrUnknownFormat = errors.New("load: unknown snapshot format")

// packageExt is the extension of Ecsact source files. Generated file names
// are derived from it, e.g. game.ecsact -> game.ecsact.hh.
const packageExt = ".ecsact"

// FormatOf returns the format for the file extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// File reads, decodes and validates the snapshot at path. A missing
// FilePath is derived from the snapshot file name, and missing field
// offsets are computed from the natural layout. Enums and index fields
// that refer to other packages can only be sized by Files.
func File(path string) (*schema.Package, error) {
	pkg, err := read(path)
	if err != nil {
		return nil, err
	}
	Layout(pkg)
	return pkg, nil
}

// Files loads every path in order. Packages are returned in argument order.
// Layout runs once every snapshot is decoded, so fields may take their
// size from enums or composites declared in any of the loaded packages.
func Files(paths ...string) ([]*schema.Package, error) {
	pkgs := make([]*schema.Package, 0, len(paths))
	for _, p := range paths {
		pkg, err := read(p)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	Layout(pkgs...)
	return pkgs, nil
}

func read(path string) (*schema.Package, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	pkg, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if pkg.FilePath == "" {
		pkg.FilePath = sourcePath(path)
	}
	return pkg, nil
}

// Decode decodes and validates a snapshot. Field ids and offsets are left
// as encoded; see Layout.
func Decode(r io.Reader, format Format) (*schema.Package, error) {
	pkg := &schema.Package{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(pkg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(pkg); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(pkg); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := Validate(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Encode writes pkg in the given format.
func Encode(w io.Writer, pkg *schema.Package, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pkg); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pkg)
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetOmitEmpty(true)
		if err := enc.Encode(pkg); err != nil {
			return fmt.Errorf("encode msgpack: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// sourcePath maps a snapshot file name to the Ecsact source it was
// produced from: game.ecsact.yaml -> game.ecsact, game.yaml -> game.ecsact.
func sourcePath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if !strings.HasSuffix(base, packageExt) {
		base += packageExt
	}
	return base
}
