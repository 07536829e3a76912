package cpp

import (
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
)

// SystemsPlugin emits the execution context of every named system-like.
type SystemsPlugin struct{}

var (
	_ gen.Plugin    = SystemsPlugin{}
	_ gen.Describer = SystemsPlugin{}
)

// Name implements gen.Plugin.
func (SystemsPlugin) Name() string { return "systems.hh" }

// Description implements gen.Describer.
func (SystemsPlugin) Description() string {
	return "capability gated execution contexts of actions and systems"
}

// Generate implements gen.Plugin.
func (SystemsPlugin) Generate(ctx *gen.Context) error {
	acc, pkg := ctx.Accessor, ctx.Package
	writeDisclaimer(ctx)
	ctx.Line("#pragma once")
	ctx.Line()
	include(ctx, "<type_traits>")
	include(ctx, "ecsact/cpp/execution_context.hh")
	include(ctx, includeName(acc, pkg, "hh"))
	include(ctx, includeName(acc, pkg, "systems.h"))
	ctx.Line()
	ctx.Line("struct ecsact_system_execution_context;")
	ctx.Line()

	// Pre-order puts every parent context before the parent() accessors of
	// its children.
	for _, n := range gen.NewSystemTree(acc, pkg).PreOrder() {
		if gen.Anonymous(acc, n.ID) {
			ctx.Notify(gen.NoticeInfo, n.ID, "%s %s has no name; no execution context is generated",
				acc.DeclKind(n.ID), gen.SystemLikeName(acc, n.ID))
			continue
		}
		newContextWriter(ctx, n.ID).write()
	}
	return nil
}
