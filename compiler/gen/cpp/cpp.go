// Package cpp holds the plugins emitting the C++ bindings of an Ecsact
// package: the type declarations (hh), the reflection header (meta.hh), the
// per system-like execution contexts (systems.hh), the C dispatch shims
// (systems.cc) and their C declarations (systems.h).
package cpp

import (
	"path/filepath"
	"slices"
	"strings"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// Plugins returns every C++ plugin in emission order.
func Plugins() []gen.Plugin {
	return []gen.Plugin{
		HeaderPlugin{},
		MetaPlugin{},
		SystemsPlugin{},
		SourcePlugin{},
		CHeaderPlugin{},
	}
}

// Lookup returns the C++ plugin with the given name.
func Lookup(name string) (gen.Plugin, bool) {
	i := slices.IndexFunc(Plugins(), func(p gen.Plugin) bool { return p.Name() == name })
	if i < 0 {
		return nil, false
	}
	return Plugins()[i], true
}

// diagnosticWidth is the column the misuse diagnostics are wrapped at.
const diagnosticWidth = 72

func writeDisclaimer(ctx *gen.Context) {
	ctx.Line("// ", ctx.HeaderLine())
}

// include writes an #include directive. Names ending in ".h" or ".hh"
// that are not bracketed are quoted.
func include(ctx *gen.Context, file string) {
	if strings.HasPrefix(file, "<") {
		ctx.Line("#include ", file)
		return
	}
	ctx.Line(`#include "`, file, `"`)
}

// includeName returns the file name a generated file of pkg is included
// by, e.g. "game.ecsact.hh".
func includeName(acc meta.Accessor, pkg ecsact.PackageID, ext string) string {
	return gen.OutputName(filepath.Base(acc.PackageFilePath(pkg)), ext)
}

// namespace writes body inside a C++ namespace. Declarations written by
// body are expected to end with a blank line.
func namespace(ctx *gen.Context, name string, body func()) {
	ns := gen.CppIdentifier(name)
	ctx.Line("namespace ", ns, " {")
	ctx.Line()
	body()
	ctx.Line("}// namespace ", ns)
}

// typeName returns how a declaration is referenced from the namespace of
// pkg: by its short path when it belongs to pkg, fully qualified otherwise.
func typeName(acc meta.Accessor, pkg ecsact.PackageID, id ecsact.ID) string {
	if acc.DeclPackage(id) != pkg {
		return gen.QualifiedType(acc, id)
	}
	full := gen.QualifiedType(acc, id)
	prefix := "::" + gen.CppIdentifier(acc.PackageName(pkg)) + "::"
	return strings.TrimPrefix(full, prefix)
}

// fieldType returns the C++ type of a field. Field index redirects resolve
// to the type of the indexed field; a redirect chain is followed until it
// reaches a builtin or an enum.
func fieldType(acc meta.Accessor, pkg ecsact.PackageID, f meta.FieldInfo) string {
	t := f.Type
	for seen := 0; t.Kind == ecsact.TypeKindFieldIndex; seen++ {
		if seen > 16 {
			return ecsact.Entity.CppType()
		}
		t = acc.Field(t.Composite, t.Field).Type
	}
	if t.Kind == ecsact.TypeKindEnum {
		return typeName(acc, pkg, t.Enum)
	}
	return t.Builtin.CppType()
}

// storageType returns the ecsact_builtin_type enumerator a field is stored
// as. Enum fields report their underlying storage.
func storageType(acc meta.Accessor, f meta.FieldInfo) string {
	t := f.Type
	for seen := 0; t.Kind == ecsact.TypeKindFieldIndex; seen++ {
		if seen > 16 {
			break
		}
		t = acc.Field(t.Composite, t.Field).Type
	}
	switch t.Kind {
	case ecsact.TypeKindEnum:
		return acc.EnumStorage(t.Enum).CEnum()
	case ecsact.TypeKindFieldIndex:
		return ecsact.Entity.CEnum()
	default:
		return t.Builtin.CEnum()
	}
}

// idType returns the C id type of a declaration kind.
func idType(kind ecsact.DeclKind) string {
	switch kind {
	case ecsact.KindComponent:
		return "ecsact_component_id"
	case ecsact.KindTransient:
		return "ecsact_transient_id"
	case ecsact.KindAction:
		return "ecsact_action_id"
	case ecsact.KindSystem:
		return "ecsact_system_id"
	case ecsact.KindEnum:
		return "ecsact_enum_id"
	default:
		return "ecsact_decl_id"
	}
}

// typeList renders an ::ecsact::mp_list of the qualified types of ids.
func typeList(acc meta.Accessor, ids []ecsact.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = gen.QualifiedType(acc, id)
	}
	return "::ecsact::mp_list<" + strings.Join(names, ", ") + ">"
}

// fullNames renders the dotted full names of ids for diagnostics.
func fullNames(acc meta.Accessor, ids []ecsact.ID) string {
	if len(ids) == 0 {
		return "(none)"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = acc.DeclFullName(id)
	}
	return strings.Join(names, ", ")
}

// hasFields reports whether a composite declares at least one field.
func hasFields(acc meta.Accessor, id ecsact.ID) bool {
	return len(acc.FieldIDs(id)) > 0
}

// relationalFields returns the fields relating an entity to another one.
func relationalFields(acc meta.Accessor, id ecsact.ID) []meta.FieldInfo {
	var out []meta.FieldInfo
	for _, fid := range acc.FieldIDs(id) {
		if f := acc.Field(id, fid); f.Relational() {
			out = append(out, f)
		}
	}
	return out
}

// namedSystemLikes returns the system-likes of the tree that get a
// context, in pre-order.
func namedSystemLikes(acc meta.Accessor, tree *gen.SystemTree) []*gen.SystemNode {
	var out []*gen.SystemNode
	for _, n := range tree.PreOrder() {
		if !gen.Anonymous(acc, n.ID) {
			out = append(out, n)
		}
	}
	return out
}
