package cpp

import (
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
)

// SourcePlugin emits the C callable trampolines wrapping each impl.
type SourcePlugin struct{}

// CHeaderPlugin emits the C declarations of the trampolines and of the
// association id constants.
type CHeaderPlugin struct{}

var (
	_ gen.Plugin    = SourcePlugin{}
	_ gen.Describer = SourcePlugin{}
	_ gen.Plugin    = CHeaderPlugin{}
	_ gen.Describer = CHeaderPlugin{}
)

// Name implements gen.Plugin.
func (SourcePlugin) Name() string { return "systems.cc" }

// Description implements gen.Describer.
func (SourcePlugin) Description() string {
	return "dispatch functions constructing each context and calling impl"
}

// Generate implements gen.Plugin.
func (SourcePlugin) Generate(ctx *gen.Context) error {
	acc, pkg := ctx.Accessor, ctx.Package
	writeDisclaimer(ctx)
	include(ctx, includeName(acc, pkg, "systems.hh"))
	for _, n := range namedSystemLikes(acc, gen.NewSystemTree(acc, pkg)) {
		full := acc.DeclFullName(n.ID)
		cpp := gen.CppIdentifier(full)
		ctx.Line()
		ctx.Block("void "+gen.CIdentifier(full)+"(struct ecsact_system_execution_context* cctx) {", func() {
			ctx.Line(cpp, "::context ctx{cctx};")
			ctx.Line(cpp, "::impl(ctx);")
		}, "}")
	}
	return nil
}

// Name implements gen.Plugin.
func (CHeaderPlugin) Name() string { return "systems.h" }

// Description implements gen.Describer.
func (CHeaderPlugin) Description() string {
	return "C declarations of the dispatch functions and association ids"
}

// Generate implements gen.Plugin.
func (CHeaderPlugin) Generate(ctx *gen.Context) error {
	acc, pkg := ctx.Accessor, ctx.Package
	guard := gen.IncludeGuard(ctx.PackageName(), "SYSTEMS_H")

	writeDisclaimer(ctx)
	ctx.Line("#ifndef ", guard)
	ctx.Line("#define ", guard)
	ctx.Line()
	include(ctx, "ecsact/runtime/common.h")
	ctx.Line()
	ctx.Line("#ifdef __cplusplus")
	ctx.Line(`#	define ECSACT_SYSTEM_EXTERN extern "C"`)
	ctx.Line("#else")
	ctx.Line("#	define ECSACT_SYSTEM_EXTERN extern")
	ctx.Line("#endif")
	ctx.Line()
	ctx.Line("struct ecsact_system_execution_context;")
	ctx.Line()

	named := namedSystemLikes(acc, gen.NewSystemTree(acc, pkg))
	for _, n := range named {
		ctx.Line("ECSACT_SYSTEM_EXTERN void ", gen.CIdentifier(acc.DeclFullName(n.ID)), "(struct ecsact_system_execution_context*);")
	}
	for _, n := range named {
		for i := range acc.AssociationCount(n.ID) {
			ctx.Line("ECSACT_SYSTEM_EXTERN const ecsact_system_assoc_id ", AssociationID(acc, n.ID, i), ";")
		}
	}
	ctx.Line()
	ctx.Line("#undef ECSACT_SYSTEM_EXTERN")
	ctx.Line()
	ctx.Line("#endif//", guard)
	return nil
}
