// Package golang emits Go mirrors of the data declarations of an Ecsact
// package, for tools that read or write component data outside of C++.
package golang

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// EntityType is the Go type emitted for entity fields.
const EntityType = "EntityID"

// Plugin emits one Go file per package.
type Plugin struct{}

var (
	_ gen.Plugin      = Plugin{}
	_ gen.OutputNamer = Plugin{}
	_ gen.Describer   = Plugin{}
)

// New returns the Go declarations plugin.
func New() Plugin { return Plugin{} }

// Name implements gen.Plugin.
func (Plugin) Name() string { return "go" }

// Description implements gen.Describer.
func (Plugin) Description() string {
	return "Go enums, component, transient and action structs and declaration ids"
}

// OutputPath implements gen.OutputNamer.
func (Plugin) OutputPath(pkgFilePath string) string {
	return gen.OutputName(pkgFilePath, "go")
}

// Generate implements gen.Plugin.
func (Plugin) Generate(ctx *gen.Context) error {
	g := &goWriter{acc: ctx.Accessor, pkg: ctx.Package}
	f := jen.NewFile(PackageName(ctx.PackageName()))
	f.HeaderComment(ctx.HeaderLine())

	if g.usesEntity() {
		f.Comment(EntityType + " identifies an entity.")
		f.Type().Id(EntityType).Int32()
	}
	for _, id := range g.acc.EnumIDs(g.pkg) {
		g.enum(f, id)
	}
	for _, id := range g.composites() {
		g.composite(f, id)
	}
	g.systemIDs(f)
	return f.Render(ctx)
}

// PackageName derives a Go package name from the last segment of a dotted
// Ecsact package name.
func PackageName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "pkg" + name
	}
	return name
}

// Identifier returns the exported Go name of a declaration path relative
// to its package, e.g. "Shoot.Recoil" gives "ShootRecoil".
func Identifier(path string) string {
	var b strings.Builder
	for _, seg := range strings.Split(path, ".") {
		b.WriteString(inflect.Camelize(seg))
	}
	return b.String()
}

type goWriter struct {
	acc meta.Accessor
	pkg ecsact.PackageID
}

func (g *goWriter) composites() []ecsact.ID {
	var ids []ecsact.ID
	ids = append(ids, g.acc.ComponentIDs(g.pkg)...)
	ids = append(ids, g.acc.TransientIDs(g.pkg)...)
	ids = append(ids, g.acc.ActionIDs(g.pkg)...)
	return ids
}

func (g *goWriter) name(id ecsact.ID) string {
	full := g.acc.DeclFullName(id)
	if g.acc.DeclKind(id).SystemLike() {
		full = gen.SystemLikeFullName(g.acc, id)
	}
	return Identifier(strings.TrimPrefix(full, g.acc.PackageName(g.acc.DeclPackage(id))+"."))
}

func (g *goWriter) usesEntity() bool {
	for _, id := range g.composites() {
		for _, fid := range g.acc.FieldIDs(id) {
			if g.resolve(g.acc.Field(id, fid).Type).Builtin == ecsact.Entity {
				return true
			}
		}
	}
	return false
}

// resolve follows field index redirects to a builtin or enum type.
func (g *goWriter) resolve(t meta.FieldType) meta.FieldType {
	for seen := 0; t.Kind == ecsact.TypeKindFieldIndex && seen < 16; seen++ {
		t = g.acc.Field(t.Composite, t.Field).Type
	}
	return t
}

func (g *goWriter) fieldType(t meta.FieldType) jen.Code {
	t = g.resolve(t)
	if t.Kind == ecsact.TypeKindEnum {
		if p := g.acc.DeclPackage(t.Enum); p != g.pkg {
			// Enums of dependencies are mirrored by their storage type.
			return builtin(g.acc.EnumStorage(t.Enum))
		}
		return jen.Id(g.name(t.Enum))
	}
	return builtin(t.Builtin)
}

func builtin(b ecsact.Builtin) *jen.Statement {
	switch b {
	case ecsact.Bool:
		return jen.Bool()
	case ecsact.I8:
		return jen.Int8()
	case ecsact.U8:
		return jen.Uint8()
	case ecsact.I16:
		return jen.Int16()
	case ecsact.U16:
		return jen.Uint16()
	case ecsact.I32:
		return jen.Int32()
	case ecsact.U32:
		return jen.Uint32()
	case ecsact.F32:
		return jen.Float32()
	case ecsact.Entity:
		return jen.Id(EntityType)
	default:
		return jen.Any()
	}
}

func (g *goWriter) enum(f *jen.File, id ecsact.ID) {
	name := g.name(id)
	f.Comment(name + " mirrors the enum " + g.acc.DeclFullName(id) + ".")
	f.Type().Id(name).Add(builtin(g.acc.EnumStorage(id)))
	values := g.acc.EnumValues(id)
	if len(values) == 0 {
		return
	}
	f.Const().DefsFunc(func(grp *jen.Group) {
		for _, v := range values {
			grp.Id(name + inflect.Camelize(v.Name)).Id(name).Op("=").Lit(int(v.Value))
		}
	})
}

func (g *goWriter) composite(f *jen.File, id ecsact.ID) {
	name := g.name(id)
	kind := g.acc.DeclKind(id)
	f.Commentf("%s mirrors the %s %s.", name, kind, g.acc.DeclFullName(id))
	f.Type().Id(name).StructFunc(func(grp *jen.Group) {
		for _, fid := range g.acc.FieldIDs(id) {
			field := g.acc.Field(id, fid)
			s := grp.Id(Identifier(field.Name))
			if field.Length > 1 {
				s.Index(jen.Lit(field.Length))
			}
			s.Add(g.fieldType(field.Type)).Tag(map[string]string{"json": field.Name})
		}
	})
	f.Line()
	f.Const().Id(name + "ID").Op("=").Lit(int(id))
	f.Line()
	f.Commentf("ID returns the %s id of %s.", kind, name)
	f.Func().Params(jen.Id(name)).Id("ID").Params().Int32().Block(
		jen.Return(jen.Id(name + "ID")),
	)
	if kind.ComponentLike() {
		f.Line()
		f.Commentf("Transient reports whether %s is a transient.", name)
		f.Func().Params(jen.Id(name)).Id("Transient").Params().Bool().Block(
			jen.Return(jen.Lit(kind == ecsact.KindTransient)),
		)
	}
}

// systemIDs writes one constant per system. Action ids are written with
// their struct.
func (g *goWriter) systemIDs(f *jen.File) {
	ids := g.acc.SystemIDs(g.pkg)
	if len(ids) == 0 {
		return
	}
	f.Comment("System ids.")
	f.Const().DefsFunc(func(grp *jen.Group) {
		for _, id := range ids {
			grp.Id(g.name(id) + "SystemID").Op("=").Lit(int(id))
		}
	})
}
