package cpp

import (
	"strconv"
	"strings"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// MetaPlugin emits the compile-time reflection header of a package.
type MetaPlugin struct{}

var (
	_ gen.Plugin    = MetaPlugin{}
	_ gen.Describer = MetaPlugin{}
)

// Name implements gen.Plugin.
func (MetaPlugin) Name() string { return "meta.hh" }

// Description implements gen.Describer.
func (MetaPlugin) Description() string {
	return "package type lists, field layout, capability and scheduling traits"
}

// Generate implements gen.Plugin.
func (MetaPlugin) Generate(ctx *gen.Context) error {
	acc, pkg := ctx.Accessor, ctx.Package
	writeDisclaimer(ctx)
	ctx.Line("#pragma once")
	ctx.Line()
	include(ctx, "<array>")
	include(ctx, "<cstddef>")
	include(ctx, "<type_traits>")
	include(ctx, "ecsact/cpp/type_info.hh")
	include(ctx, includeName(acc, pkg, "hh"))
	for _, dep := range acc.Dependencies(pkg) {
		include(ctx, includeName(acc, dep, "meta.hh"))
	}
	ctx.Line()

	m := &metaWriter{ctx: ctx, acc: acc, pkg: pkg, tree: gen.NewSystemTree(acc, pkg)}
	namespace(ctx, ctx.PackageName(), m.packageStruct)
	ctx.Line()
	namespace(ctx, "ecsact", func() {
		if ctx.Enabled(gen.FeatureMetaFields) {
			for _, id := range m.composites() {
				m.fieldsInfo(id)
			}
		}
		for _, n := range m.tree.PreOrder() {
			m.traits(n.ID)
			m.capabilities(n.ID)
			if ctx.Enabled(gen.FeatureMetaSchedule) {
				m.schedule(n.ID)
			}
		}
	})
	return nil
}

type metaWriter struct {
	ctx  *gen.Context
	acc  meta.Accessor
	pkg  ecsact.PackageID
	tree *gen.SystemTree
}

func (m *metaWriter) composites() []ecsact.ID {
	var ids []ecsact.ID
	ids = append(ids, m.acc.ComponentIDs(m.pkg)...)
	ids = append(ids, m.acc.TransientIDs(m.pkg)...)
	ids = append(ids, m.acc.ActionIDs(m.pkg)...)
	return ids
}

func (m *metaWriter) packageStruct() {
	acc, ctx := m.acc, m.ctx
	deps := make([]string, 0, len(acc.Dependencies(m.pkg)))
	for _, dep := range acc.Dependencies(m.pkg) {
		deps = append(deps, "::"+gen.CppIdentifier(acc.PackageName(dep))+"::package")
	}
	systems := make([]ecsact.ID, 0, len(m.tree.Nodes))
	for _, n := range m.tree.PreOrder() {
		if acc.DeclKind(n.ID) == ecsact.KindSystem {
			systems = append(systems, n.ID)
		}
	}

	ctx.Block("struct package {", func() {
		ctx.Block("static constexpr auto name() {", func() {
			ctx.Line(`return "`, acc.PackageName(m.pkg), `";`)
		}, "}")
		ctx.Line("using dependencies = ::ecsact::mp_list<", strings.Join(deps, ", "), ">;")
		ctx.Line("using components = ", typeList(acc, acc.ComponentIDs(m.pkg)), ";")
		ctx.Line("using transients = ", typeList(acc, acc.TransientIDs(m.pkg)), ";")
		ctx.Line("using systems = ", typeList(acc, systems), ";")
		ctx.Line("using actions = ", typeList(acc, acc.ActionIDs(m.pkg)), ";")
		m.executionOrder()
	}, "};")
	ctx.Line()
}

// executionOrder writes the system hierarchy as nested
// mp_list<system-like, mp_list<children...>> nodes.
func (m *metaWriter) executionOrder() {
	ctx := m.ctx
	if len(m.tree.Roots) == 0 {
		ctx.Line("using execution_order = ::ecsact::mp_list<>;")
		return
	}
	last := func(n *gen.SystemNode) bool {
		siblings := m.tree.Roots
		if n.Parent >= 0 {
			siblings = m.tree.Nodes[n.Parent].Children
		}
		return siblings[len(siblings)-1] == n.Index
	}
	sep := func(n *gen.SystemNode) string {
		if last(n) {
			return ""
		}
		return ","
	}

	var restores []func()
	ctx.Line("using execution_order = ::ecsact::mp_list<")
	restores = append(restores, ctx.Indent())
	m.tree.Walk(func(n *gen.SystemNode) {
		node := "::ecsact::mp_list<" + gen.QualifiedType(m.acc, n.ID) + ", ::ecsact::mp_list<"
		if len(n.Children) == 0 {
			ctx.Line(node, ">>", sep(n))
			return
		}
		ctx.Line(node)
		restores = append(restores, ctx.Indent())
	}, func(n *gen.SystemNode) {
		if len(n.Children) == 0 {
			return
		}
		restores[len(restores)-1]()
		restores = restores[:len(restores)-1]
		ctx.Line(">>", sep(n))
	})
	restores[0]()
	ctx.Line(">;")
}

func (m *metaWriter) fieldsInfo(id ecsact.ID) {
	ctx, acc := m.ctx, m.acc
	t := gen.QualifiedType(acc, id)
	fields := acc.FieldIDs(id)
	ctx.Line("template<>")
	ctx.Line("constexpr std::size_t fields_count<", t, "> = ", strconv.Itoa(len(fields)), ";")
	ctx.Line()
	ctx.Line("template<>")
	ctx.Block("constexpr auto fields_info<"+t+">() -> std::array<field_info, fields_count<"+t+">> {", func() {
		if len(fields) == 0 {
			ctx.Line("return {};")
			return
		}
		ctx.Block("return {", func() {
			for _, fid := range fields {
				f := acc.Field(id, fid)
				ctx.Line(
					"field_info{.offset = ", strconv.Itoa(f.Offset),
					", .storage_type = ", storageType(acc, f),
					", .length = ", strconv.Itoa(max(f.Length, 1)), "},",
				)
			}
		}, "};")
	}, "}")
	ctx.Line()
}

func (m *metaWriter) traits(id ecsact.ID) {
	t := gen.QualifiedType(m.acc, id)
	trait := "is_system"
	if m.acc.DeclKind(id) == ecsact.KindAction {
		trait = "is_action"
	}
	for _, name := range []string{trait, "is_system_like"} {
		m.ctx.Line("template<>")
		m.ctx.Line("struct ", name, "<", t, "> : std::bool_constant<true> {};")
		m.ctx.Line()
	}
}

func (m *metaWriter) capabilities(id ecsact.ID) {
	ctx, acc := m.ctx, m.acc
	sc := gen.ClassifySystem(acc, id)
	ctx.Line("template<>")
	ctx.Block("struct system_capabilities_info<"+gen.QualifiedType(acc, id)+"> {", func() {
		m.capabilityLists(sc.Capabilities)

		groups := acc.GenerateGroups(id)
		names := make([]string, len(groups))
		for i, group := range groups {
			names[i] = "generates_" + strconv.Itoa(i)
			var required, optional []ecsact.ID
			for _, e := range group {
				if e.Mode == ecsact.GenerateOptional {
					optional = append(optional, e.Component)
				} else {
					required = append(required, e.Component)
				}
			}
			ctx.Block("struct "+names[i]+" {", func() {
				ctx.Line("using required_components = ", typeList(acc, required), ";")
				ctx.Line("using optional_components = ", typeList(acc, optional), ";")
			}, "};")
		}
		ctx.Line("using generates = ::ecsact::mp_list<", strings.Join(names, ", "), ">;")

		names = make([]string, len(sc.Associations))
		for i, assoc := range sc.Associations {
			names[i] = "association_" + strconv.Itoa(i)
			ctx.Block("struct "+names[i]+" {", func() {
				ctx.Line("using component_type = ", gen.QualifiedType(acc, assoc.Association.Component), ";")
				ctx.Line("static constexpr auto field_id = static_cast<ecsact_field_id>(", strconv.Itoa(int(assoc.Association.Field)), ");")
				m.capabilityLists(assoc.Capabilities)
			}, "};")
		}
		ctx.Line("using associations = ::ecsact::mp_list<", strings.Join(names, ", "), ">;")
	}, "};")
	ctx.Line()
}

func (m *metaWriter) capabilityLists(c *gen.Capabilities) {
	lists := []struct {
		name string
		ids  []ecsact.ID
	}{
		{"readonly_components", c.Readonly},
		{"readwrite_components", c.Readwrite},
		{"writeonly_components", c.Writeonly},
		{"optional_components", c.Optional},
		{"adds_components", c.Adds},
		{"removes_components", c.Removes},
		{"include_components", c.Include},
		{"exclude_components", c.Exclude},
		{"stream_toggle_components", c.Stream},
	}
	for _, l := range lists {
		m.ctx.Line("using ", l.name, " = ", typeList(m.acc, l.ids), ";")
	}
}

func (m *metaWriter) schedule(id ecsact.ID) {
	t := gen.QualifiedType(m.acc, id)
	if rate := m.acc.LazyIterationRate(id); rate > 0 {
		m.ctx.Line("template<>")
		m.ctx.Line("constexpr auto system_lazy_execution_iteration_rate_v<", t, "> = ", strconv.Itoa(int(rate)), ";")
		m.ctx.Line()
	}
	if m.acc.Parallel(id) {
		m.ctx.Line("template<>")
		m.ctx.Line("constexpr bool system_parallel_execution_v<", t, "> = true;")
		m.ctx.Line()
	}
}
