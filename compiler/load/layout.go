package load

import (
	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

// Layout fills in field ids and byte offsets that the snapshots left out.
// Ids default to the declaration index. Offsets are computed with natural
// alignment when every field of a composite reports offset 0; explicit
// layouts are kept as they are. Enum and index fields are sized from the
// declarations of all given packages, so a package should be laid out
// together with its dependencies.
func Layout(pkgs ...*schema.Package) {
	l := &layouter{
		enums:      make(map[ecsact.ID]*schema.Enum),
		composites: make(map[ecsact.ID]*schema.Composite),
	}
	var composites []*schema.Composite
	for _, pkg := range pkgs {
		for _, e := range pkg.Enums {
			l.enums[e.ID] = e
		}
		composites = append(composites, pkg.Components...)
		composites = append(composites, pkg.Transients...)
		for _, a := range pkg.Actions {
			composites = append(composites, &a.Composite)
		}
	}
	for _, c := range composites {
		l.composites[c.ID] = c
		assignFieldIDs(c)
	}
	for _, c := range composites {
		l.offsets(c)
	}
}

func assignFieldIDs(c *schema.Composite) {
	for _, f := range c.Fields {
		if f.ID != 0 {
			return
		}
	}
	for i, f := range c.Fields {
		f.ID = ecsact.FieldID(i)
	}
}

type layouter struct {
	enums      map[ecsact.ID]*schema.Enum
	composites map[ecsact.ID]*schema.Composite
}

func (l *layouter) offsets(c *schema.Composite) {
	for _, f := range c.Fields {
		if f.Offset != 0 {
			return
		}
	}
	offset := 0
	for _, f := range c.Fields {
		size := l.size(f, 0)
		if rem := offset % size; rem != 0 {
			offset += size - rem
		}
		f.Offset = offset
		offset += size * f.Len()
	}
}

// size returns the scalar storage size of a field. Index redirects are
// followed a bounded number of times; unresolvable ones fall back to 4
// bytes, the size of every id-like builtin.
func (l *layouter) size(f *schema.Field, depth int) int {
	switch f.Kind() {
	case ecsact.TypeKindEnum:
		if e, ok := l.enums[*f.Enum]; ok {
			return e.Storage.Size()
		}
	case ecsact.TypeKindFieldIndex:
		if depth > 8 {
			break
		}
		if c, ok := l.composites[f.Index.Composite]; ok {
			for _, target := range c.Fields {
				if target.ID == f.Index.Field {
					return l.size(target, depth+1)
				}
			}
		}
	default:
		if n := f.Type.Size(); n > 0 {
			return n
		}
	}
	return 4
}
