package cpp

import (
	"strconv"
	"strings"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// noPackage makes typeName qualify every declaration. Contexts are
// defined at global scope.
const noPackage ecsact.PackageID = -1

// contextWriter synthesizes the context struct of one named system-like.
type contextWriter struct {
	ctx  *gen.Context
	acc  meta.Accessor
	id   ecsact.ID
	full string // dotted full name
	sc   *gen.SystemCapabilities
}

func newContextWriter(ctx *gen.Context, id ecsact.ID) *contextWriter {
	return &contextWriter{
		ctx:  ctx,
		acc:  ctx.Accessor,
		id:   id,
		full: ctx.Accessor.DeclFullName(id),
		sc:   gen.ClassifySystem(ctx.Accessor, id),
	}
}

// AssociationID returns the name of the C constant holding the runtime id
// of an association, e.g. "game__Chase__0".
func AssociationID(acc meta.Accessor, system ecsact.ID, index int) string {
	return gen.CIdentifier(acc.DeclFullName(system)) + "__" + strconv.Itoa(index)
}

func (w *contextWriter) write() {
	ctx := w.ctx
	ctx.Block("struct "+gen.CppIdentifier(w.full)+"::context {", func() {
		handle(ctx)
		w.surface(w.sc.Capabilities, w.full)
		if len(w.sc.Associations) > 0 {
			w.otherContexts()
			w.other()
		}
		if w.acc.DeclKind(w.id) == ecsact.KindAction {
			t := gen.QualifiedType(w.acc, w.id)
			ctx.Block("auto action() const -> "+t+" {", func() {
				ctx.Line("return _ctx.action<", t, ">();")
			}, "}")
			ctx.Line()
		}
		entity(ctx)
		if parent := w.acc.ParentSystemID(w.id); parent.Valid() && !gen.Anonymous(w.acc, parent) {
			pt := gen.QualifiedType(w.acc, parent) + "::context"
			ctx.Line()
			ctx.Block("auto parent() const -> const "+pt+" {", func() {
				ctx.Line("return ", pt, "{_ctx.parent()};")
			}, "}")
		}
	}, "};")
	ctx.Line()
}

func handle(ctx *gen.Context) {
	ctx.Line("[[no_unique_address]]")
	ctx.Line("::ecsact::execution_context _ctx;")
	ctx.Line()
}

func entity(ctx *gen.Context) {
	ctx.Block("auto entity() const -> ::ecsact_entity_id {", func() {
		ctx.Line("return _ctx.entity();")
	}, "}")
}

// surface writes the capability gated accessors of a context or of an
// association context. Every operation kind with at least one allowed
// component gets a generic overload that fails to compile plus one
// specialization per allowed component.
func (w *contextWriter) surface(c *gen.Capabilities, owner string) {
	if ids := c.Readable(); len(ids) > 0 {
		w.get(ids, owner)
	}
	if ids := c.Writable(); len(ids) > 0 {
		w.update(ids, owner)
	}
	if len(c.Adds) > 0 {
		w.add(c.Adds, owner)
	}
	if len(c.Removes) > 0 {
		w.simple("remove", "void", c.Removes, owner, "removes")
	}
	if len(c.Optional) > 0 {
		w.has(c.Optional, owner)
	}
	if len(c.Stream) > 0 {
		w.streamToggle(c.Stream, owner)
	}
}

func (w *contextWriter) get(ids []ecsact.ID, owner string) {
	ctx, acc := w.ctx, w.acc
	ctx.Line("template<typename T, typename... AssocFieldsT>")
	ctx.Block("auto get(AssocFieldsT... assoc_fields) -> T {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] get<T>() is only allowed for components "+owner+" can read: "+fullNames(acc, ids)+
				". Declare a readonly or readwrite capability for T in "+owner+" to read it.")
	}, "}")
	ctx.Line()

	forward := ctx.Enabled(gen.FeatureAssocForwarding)
	for _, id := range ids {
		t := gen.QualifiedType(acc, id)
		ctx.Line("template<>")
		ctx.Block("auto get<"+t+">() -> "+t+" {", func() {
			ctx.Line("return _ctx.get<", t, ">();")
		}, "}")
		ctx.Line()

		rel := relationalFields(acc, id)
		if !forward || len(rel) == 0 {
			continue
		}
		var (
			types  = make([]string, len(rel))
			params = make([]string, len(rel))
			args   = make([]string, len(rel))
		)
		for i, f := range rel {
			types[i] = fieldType(acc, noPackage, f)
			params[i] = types[i] + " " + f.Name
			args[i] = f.Name
		}
		ctx.Line("template<>")
		ctx.Block("auto get<"+t+", "+strings.Join(types, ", ")+">("+strings.Join(params, ", ")+") -> "+t+" {", func() {
			ctx.Line("return _ctx.get<", t, ">(", strings.Join(args, ", "), ");")
		}, "}")
		ctx.Line()
	}
}

func (w *contextWriter) update(ids []ecsact.ID, owner string) {
	ctx, acc := w.ctx, w.acc
	ctx.Line("template<typename T>")
	ctx.Block("auto update(const T& updated_component) -> void {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] update<T>() is only allowed for components "+owner+" can write: "+fullNames(acc, ids)+
				". Declare a writeonly or readwrite capability for T in "+owner+" to update it.")
	}, "}")
	ctx.Line()
	for _, id := range ids {
		t := gen.QualifiedType(acc, id)
		ctx.Line("template<>")
		ctx.Block("auto update<"+t+">(const "+t+"& updated_component) -> void {", func() {
			ctx.Line("_ctx.update<", t, ">(updated_component);")
		}, "}")
		ctx.Line()
	}
}

// add writes both generic overloads, by value and without argument, so a
// call of either arity with a disallowed type reaches a diagnostic. Each
// one names the types that may be added through it.
func (w *contextWriter) add(ids []ecsact.ID, owner string) {
	ctx, acc := w.ctx, w.acc
	var withFields, empty []ecsact.ID
	for _, id := range ids {
		if hasFields(acc, id) {
			withFields = append(withFields, id)
		} else {
			empty = append(empty, id)
		}
	}

	ctx.Line("template<typename T>")
	ctx.Block("auto add(const T& new_component) -> void {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] add<T>(new_component) is only allowed for components with fields "+owner+" adds: "+
				fullNames(acc, withFields)+". Declare an adds capability for T in "+owner+
				" to add it. Components without fields are added with add<T>().")
	}, "}")
	ctx.Line()
	ctx.Line("template<typename T>")
	ctx.Block("auto add() -> void {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] add<T>() is only allowed for components without fields "+owner+" adds: "+
				fullNames(acc, empty)+". Declare an adds capability for T in "+owner+
				" to add it. Components with fields are added by value.")
	}, "}")
	ctx.Line()

	for _, id := range ids {
		t := gen.QualifiedType(acc, id)
		ctx.Line("template<>")
		if hasFields(acc, id) {
			ctx.Block("auto add<"+t+">(const "+t+"& new_component) -> void {", func() {
				ctx.Line("_ctx.add<", t, ">(new_component);")
			}, "}")
		} else {
			ctx.Block("auto add<"+t+">() -> void {", func() {
				ctx.Line("_ctx.add<", t, ">();")
			}, "}")
		}
		ctx.Line()
	}
}

// simple writes a parameterless operation forwarded as is.
func (w *contextWriter) simple(op, ret string, ids []ecsact.ID, owner, capability string) {
	ctx, acc := w.ctx, w.acc
	ctx.Line("template<typename T>")
	ctx.Block("auto "+op+"() -> "+ret+" {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] "+op+"<T>() is only allowed for components "+owner+" "+capability+": "+fullNames(acc, ids)+
				". Declare a "+capability+" capability for T in "+owner+" to "+op+" it.")
	}, "}")
	ctx.Line()
	for _, id := range ids {
		t := gen.QualifiedType(acc, id)
		ctx.Line("template<>")
		ctx.Block("auto "+op+"<"+t+">() -> "+ret+" {", func() {
			ctx.Line("_ctx.", op, "<", t, ">();")
		}, "}")
		ctx.Line()
	}
}

// has specializations are declared only. The runtime binding provides
// them.
func (w *contextWriter) has(ids []ecsact.ID, owner string) {
	ctx, acc := w.ctx, w.acc
	ctx.Line("template<typename T>")
	ctx.Block("auto has() -> bool {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] has<T>() is only allowed for components "+owner+" optionally accesses: "+fullNames(acc, ids)+
				". Mark the capability of T in "+owner+" as optional to check for it.")
	}, "}")
	ctx.Line()
	for _, id := range ids {
		t := gen.QualifiedType(acc, id)
		ctx.Line("template<>")
		ctx.Line("auto has<", t, ">() -> bool;")
		ctx.Line()
	}
}

func (w *contextWriter) streamToggle(ids []ecsact.ID, owner string) {
	ctx, acc := w.ctx, w.acc
	ctx.Line("template<typename T>")
	ctx.Block("auto stream_toggle(bool streaming_enabled) -> void {", func() {
		misuse(ctx, "!std::is_same_v<T, T>",
			"[Ecsact] stream_toggle<T>() is only allowed for components "+owner+" may toggle streaming of: "+
				fullNames(acc, ids)+". Declare a stream_toggle capability for T in "+owner+".")
	}, "}")
	ctx.Line()
	for _, id := range ids {
		t := gen.QualifiedType(acc, id)
		ctx.Line("template<>")
		ctx.Block("auto stream_toggle<"+t+">(bool streaming_enabled) -> void {", func() {
			ctx.Line("_ctx.stream_toggle<", t, ">(streaming_enabled);")
		}, "}")
		ctx.Line()
	}
}

// otherContexts writes one other_context specialization per association.
// Each has the accessors of the association's own capability map.
func (w *contextWriter) otherContexts() {
	ctx, acc := w.ctx, w.acc
	ctx.Line("template<std::size_t Index>")
	ctx.Line("struct other_context;")
	ctx.Line()
	for _, assoc := range w.sc.Associations {
		if assoc.Association.Nested > 0 {
			ctx.Notify(gen.NoticeWarn, w.id,
				"association %d declares %d nested associations; only one level is generated",
				assoc.Index, assoc.Association.Nested)
		}
		comp := assoc.Association.Component
		owner := w.full + " association " + strconv.Itoa(assoc.Index) +
			" (" + acc.DeclFullName(comp) + "." + acc.Field(comp, assoc.Association.Field).Name + ")"
		ctx.Line("template<>")
		ctx.Block("struct other_context<"+strconv.Itoa(assoc.Index)+"> {", func() {
			handle(ctx)
			w.surface(assoc.Capabilities, owner)
			entity(ctx)
		}, "};")
		ctx.Line()
	}
}

// other writes the bounds checked accessor of the association contexts.
// With a single association the index defaults to 0.
func (w *contextWriter) other() {
	ctx := w.ctx
	n := len(w.sc.Associations)
	indices := make([]string, n)
	for i := range indices {
		indices[i] = strconv.Itoa(i)
	}
	if n == 1 {
		ctx.Line("template<std::size_t Index = 0>")
	} else {
		ctx.Line("template<std::size_t Index>")
	}
	ctx.Block("auto other() {", func() {
		misuse(ctx, "Index != Index",
			"[Ecsact] other<Index>() was called with an association index "+w.full+
				" does not declare. Valid indices: "+strings.Join(indices, ", ")+".")
	}, "}")
	ctx.Line()
	for i := range n {
		idx := strconv.Itoa(i)
		ctx.Line("template<>")
		ctx.Block("auto other<"+idx+">() {", func() {
			ctx.Line("return other_context<", idx, ">{_ctx.other(", AssociationID(w.acc, w.id, i), ")};")
		}, "}")
		ctx.Line()
	}
}

// misuse writes a static_assert that fails whenever the enclosing generic
// overload is instantiated. The message is word-wrapped into a raw string
// with every line prefixed by "| ".
func misuse(ctx *gen.Context, cond, message string) {
	ctx.Line("static_assert(", cond, `, R"(`)
	ctx.Raw(gen.Prepend(gen.Wrap(message, diagnosticWidth), "| ") + "\n)\");\n")
}
