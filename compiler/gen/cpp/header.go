package cpp

import (
	"strconv"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// HeaderPlugin emits the type declarations of a package.
type HeaderPlugin struct{}

var (
	_ gen.Plugin    = HeaderPlugin{}
	_ gen.Describer = HeaderPlugin{}
)

// Name implements gen.Plugin.
func (HeaderPlugin) Name() string { return "hh" }

// Description implements gen.Describer.
func (HeaderPlugin) Description() string {
	return "enum, component, transient, action and system declarations"
}

// Generate implements gen.Plugin.
func (HeaderPlugin) Generate(ctx *gen.Context) error {
	acc, pkg := ctx.Accessor, ctx.Package
	writeDisclaimer(ctx)
	ctx.Line("#pragma once")
	ctx.Line()
	include(ctx, "<cstdint>")
	include(ctx, "<compare>")
	include(ctx, "ecsact/runtime/common.h")
	for _, dep := range acc.Dependencies(pkg) {
		include(ctx, includeName(acc, dep, "hh"))
	}
	ctx.Line()

	h := &headerWriter{ctx: ctx, acc: acc, pkg: pkg}
	namespace(ctx, ctx.PackageName(), func() {
		for _, id := range acc.EnumIDs(pkg) {
			h.enum(id)
		}
		for _, id := range acc.ComponentIDs(pkg) {
			h.componentLike(id)
		}
		for _, id := range acc.TransientIDs(pkg) {
			h.componentLike(id)
		}
		h.systemLikes()
	})
	return nil
}

type headerWriter struct {
	ctx *gen.Context
	acc meta.Accessor
	pkg ecsact.PackageID
}

func (h *headerWriter) enum(id ecsact.ID) {
	storage := h.acc.EnumStorage(id).CppType()
	h.ctx.Block("enum class "+h.acc.DeclName(id)+" : "+storage+" {", func() {
		for _, v := range h.acc.EnumValues(id) {
			h.ctx.Line(v.Name, " = ", strconv.Itoa(int(v.Value)), ",")
		}
	}, "};")
	h.ctx.Line()
}

func (h *headerWriter) componentLike(id ecsact.ID) {
	name := h.acc.DeclName(id)
	h.ctx.Block("struct "+name+" {", func() {
		h.id(id)
		h.ctx.Line("static constexpr bool transient = ", strconv.FormatBool(h.acc.DeclKind(id) == ecsact.KindTransient), ";")
		h.ctx.Line("static constexpr bool has_assoc_fields = ", strconv.FormatBool(len(relationalFields(h.acc, id)) > 0), ";")
		h.fields(id)
		h.operators(name)
	}, "};")
	h.ctx.Line()
}

func (h *headerWriter) id(id ecsact.ID) {
	h.ctx.Line("static constexpr auto id = static_cast<", idType(h.acc.DeclKind(id)), ">(", strconv.Itoa(int(id)), ");")
}

func (h *headerWriter) fields(id ecsact.ID) {
	for _, fid := range h.acc.FieldIDs(id) {
		f := h.acc.Field(id, fid)
		decl := fieldType(h.acc, h.pkg, f) + " " + f.Name
		if f.Length > 1 {
			decl += "[" + strconv.Itoa(f.Length) + "]"
		}
		h.ctx.Line(decl, ";")
	}
}

func (h *headerWriter) operators(name string) {
	h.ctx.Line("auto operator<=>(const ", name, "&) const = default;")
	h.ctx.Line("bool operator==(const ", name, "&) const = default;")
}

// systemLikes writes actions and systems as nested structs. Anonymous
// systems do not open a scope: their children land in the enclosing one
// and their own struct is written at namespace scope afterwards.
func (h *headerWriter) systemLikes() {
	var (
		restores []func()
		hoisted  []ecsact.ID
	)
	tree := gen.NewSystemTree(h.acc, h.pkg)
	tree.Walk(func(n *gen.SystemNode) {
		kind := h.acc.DeclKind(n.ID)
		name := h.acc.DeclName(n.ID)
		if name == "" {
			if kind == ecsact.KindAction {
				h.ctx.Invariant(n.ID, "action has no name")
			}
			hoisted = append(hoisted, n.ID)
			return
		}
		h.ctx.Line("struct ", name, " {")
		restores = append(restores, h.ctx.Indent())
		h.id(n.ID)
		if kind == ecsact.KindAction {
			h.fields(n.ID)
		}
	}, func(n *gen.SystemNode) {
		name := h.acc.DeclName(n.ID)
		if name == "" {
			return
		}
		h.ctx.Line("struct context;")
		h.ctx.Line("static void impl(context&);")
		if h.acc.DeclKind(n.ID) == ecsact.KindAction {
			h.operators(name)
		}
		restores[len(restores)-1]()
		restores = restores[:len(restores)-1]
		h.ctx.Line("};")
		if len(restores) == 0 {
			h.ctx.Line()
		}
	})

	for _, id := range hoisted {
		h.ctx.Block("struct "+gen.AnonymousSystemName(id)+" {", func() {
			h.id(id)
		}, "};")
		h.ctx.Line()
	}
}
