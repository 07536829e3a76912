package meta

import (
	"errors"
	"fmt"
	"slices"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

// Registry is an in-memory Accessor over a set of package snapshots.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	pkgs   []*pkgEntry
	byName map[string]ecsact.PackageID
	decls  map[ecsact.ID]*decl
	// full names of named declarations, checked for collisions while indexing
	names map[string]*decl
}

var _ Accessor = (*Registry)(nil)

type pkgEntry struct {
	src        *schema.Package
	deps       []ecsact.PackageID
	enums      []ecsact.ID
	components []ecsact.ID
	transients []ecsact.ID
	actions    []ecsact.ID
	systems    []ecsact.ID
}

type decl struct {
	id        ecsact.ID
	kind      ecsact.DeclKind
	pkg       ecsact.PackageID
	name      string
	fullName  string
	parent    ecsact.ID
	children  []ecsact.ID
	enum      *schema.Enum
	composite *schema.Composite
	system    *schema.SystemLike
}

func (d *decl) label() string {
	if d.fullName != "" {
		return d.kind.String() + " " + d.fullName
	}
	return "anonymous " + d.kind.String() + fmt.Sprintf(" %d", d.id)
}

// NewRegistry indexes the given packages and resolves every cross
// reference. Dependencies must be part of the same call.
func NewRegistry(pkgs ...*schema.Package) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]ecsact.PackageID, len(pkgs)),
		decls:  make(map[ecsact.ID]*decl),
		names:  make(map[string]*decl),
	}
	var errs []error
	for _, p := range pkgs {
		if _, ok := r.byName[p.Name]; ok {
			errs = append(errs, ecsact.NewDuplicateError("package", p.Name, p.FilePath, p.FilePath))
			continue
		}
		r.byName[p.Name] = ecsact.PackageID(len(r.pkgs))
		r.pkgs = append(r.pkgs, &pkgEntry{src: p})
	}
	for pid := range r.pkgs {
		errs = append(errs, r.index(ecsact.PackageID(pid))...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	for pid := range r.pkgs {
		errs = append(errs, r.resolve(ecsact.PackageID(pid))...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(pkgs ...*schema.Package) *Registry {
	r, err := NewRegistry(pkgs...)
	if err != nil {
		panic(err)
	}
	return r
}

// index registers every declaration of a package. System trees are walked
// with an explicit stack, pushed in reverse so ids come out in pre-order.
// Two named declarations may not share a full name; anonymous systems pass
// their prefix on, so their named children can collide.
func (r *Registry) index(pid ecsact.PackageID) []error {
	var (
		errs []error
		p    = r.pkgs[pid]
		name = p.src.Name
	)
	add := func(id ecsact.ID, d *decl) {
		d.id, d.pkg = id, pid
		if prev, ok := r.decls[id]; ok {
			errs = append(errs, ecsact.NewDuplicateError("declaration id", id, prev.label(), d.label()))
			return
		}
		r.decls[id] = d
		if d.fullName == "" {
			return
		}
		if prev, ok := r.names[d.fullName]; ok {
			errs = append(errs, ecsact.NewDuplicateError("declaration name", d.fullName, fmt.Sprintf("%s %d", prev.kind, prev.id), fmt.Sprintf("%s %d", d.kind, d.id)))
			return
		}
		r.names[d.fullName] = d
	}
	for _, e := range p.src.Enums {
		p.enums = append(p.enums, e.ID)
		add(e.ID, &decl{kind: ecsact.KindEnum, name: e.Name, fullName: name + "." + e.Name, parent: ecsact.NoID, enum: e})
	}
	for _, c := range p.src.Components {
		p.components = append(p.components, c.ID)
		add(c.ID, &decl{kind: ecsact.KindComponent, name: c.Name, fullName: name + "." + c.Name, parent: ecsact.NoID, composite: c})
	}
	for _, c := range p.src.Transients {
		p.transients = append(p.transients, c.ID)
		add(c.ID, &decl{kind: ecsact.KindTransient, name: c.Name, fullName: name + "." + c.Name, parent: ecsact.NoID, composite: c})
	}
	for _, a := range p.src.Actions {
		p.actions = append(p.actions, a.ID)
		add(a.ID, &decl{
			kind:      ecsact.KindAction,
			name:      a.Name,
			fullName:  name + "." + a.Name,
			parent:    ecsact.NoID,
			children:  childIDs(a.Children),
			composite: &a.Composite,
			system:    &a.SystemLike,
		})
	}

	type frame struct {
		sys    *schema.System
		parent ecsact.ID
		prefix string
	}
	var stack []frame
	push := func(children []*schema.System, parent ecsact.ID, prefix string) {
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], parent, prefix})
		}
	}
	walk := func() {
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			full, prefix := "", f.prefix
			if f.sys.Name != "" {
				full = f.prefix + "." + f.sys.Name
				prefix = full
			}
			p.systems = append(p.systems, f.sys.ID)
			add(f.sys.ID, &decl{
				kind:     ecsact.KindSystem,
				name:     f.sys.Name,
				fullName: full,
				parent:   f.parent,
				children: childIDs(f.sys.Children),
				system:   &f.sys.SystemLike,
			})
			push(f.sys.Children, f.sys.ID, prefix)
		}
	}
	push(p.src.Systems, ecsact.NoID, name)
	walk()
	for _, a := range p.src.Actions {
		push(a.Children, a.ID, name+"."+a.Name)
		walk()
	}
	return errs
}

func childIDs(children []*schema.System) []ecsact.ID {
	if len(children) == 0 {
		return nil
	}
	ids := make([]ecsact.ID, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	return ids
}

// resolve checks every reference a package makes: dependencies, field
// types, capability maps, associations and generation groups. Each problem
// is reported as an [ecsact.SchemaError].
func (r *Registry) resolve(pid ecsact.PackageID) []error {
	var (
		errs []error
		p    = r.pkgs[pid]
	)
	fail := func(owner, field, msg string, cause error) {
		errs = append(errs, ecsact.NewSchemaError(owner, field, msg, cause))
	}
	for _, dep := range p.src.Dependencies {
		id, ok := r.byName[dep]
		if !ok {
			fail("package "+p.src.Name, "", "dependency", ecsact.NewNotFoundErrorWithID("package", dep))
			continue
		}
		p.deps = append(p.deps, id)
	}

	composites := slices.Concat(p.components, p.transients, p.actions)
	for _, id := range composites {
		d := r.decls[id]
		for _, f := range d.composite.Fields {
			switch f.Kind() {
			case ecsact.TypeKindEnum:
				if !r.is(*f.Enum, ecsact.KindEnum) {
					fail(d.label(), f.Name, "", ecsact.NewNotFoundErrorWithID("enum", *f.Enum))
				}
			case ecsact.TypeKindFieldIndex:
				if _, ok := r.field(f.Index.Composite, f.Index.Field); !ok {
					fail(d.label(), f.Name, "", ecsact.NewNotFoundErrorWithID("indexed field", fmt.Sprintf("%d.%d", f.Index.Composite, f.Index.Field)))
				}
			}
		}
	}

	for _, id := range slices.Concat(p.actions, p.systems) {
		d := r.decls[id]
		owner := d.label()
		caps := make(map[ecsact.ID]bool, len(d.system.Capabilities))
		for _, c := range d.system.Capabilities {
			caps[c.Component] = true
			if !r.componentLike(c.Component) {
				fail(owner, "", "", ecsact.NewNotFoundErrorWithID("component", c.Component))
			}
		}
		for i, a := range d.system.Associations {
			assoc := fmt.Sprintf("association %d", i)
			f, ok := r.field(a.Component, a.Field)
			switch {
			case !ok:
				fail(owner, "", assoc, ecsact.NewNotFoundErrorWithID("field", fmt.Sprintf("%d.%d", a.Component, a.Field)))
			case !f.Relational():
				fail(owner, f.Name, assoc+": not an entity or indexed field", nil)
			case !caps[a.Component]:
				fail(owner, "", fmt.Sprintf("%s: component %d is not in the capability map", assoc, a.Component), nil)
			}
			for _, c := range a.Capabilities {
				if !r.componentLike(c.Component) {
					fail(owner, "", assoc, ecsact.NewNotFoundErrorWithID("component", c.Component))
				}
			}
		}
		for _, g := range d.system.Generates {
			for _, c := range g.Components {
				if !r.is(c.Component, ecsact.KindComponent) {
					fail(owner, "", "generates", ecsact.NewNotFoundErrorWithID("component", c.Component))
				}
			}
		}
	}
	return errs
}

func (r *Registry) is(id ecsact.ID, kind ecsact.DeclKind) bool {
	d, ok := r.decls[id]
	return ok && d.kind == kind
}

func (r *Registry) componentLike(id ecsact.ID) bool {
	d, ok := r.decls[id]
	return ok && d.kind.ComponentLike()
}

func (r *Registry) field(composite ecsact.ID, field ecsact.FieldID) (*schema.Field, bool) {
	d, ok := r.decls[composite]
	if !ok || d.composite == nil {
		return nil, false
	}
	for _, f := range d.composite.Fields {
		if f.ID == field {
			return f, true
		}
	}
	return nil, false
}

func (r *Registry) pkg(pid ecsact.PackageID) *pkgEntry {
	if pid < 0 || int(pid) >= len(r.pkgs) {
		return &pkgEntry{src: &schema.Package{}}
	}
	return r.pkgs[pid]
}

func (r *Registry) decl(id ecsact.ID) *decl {
	if d, ok := r.decls[id]; ok {
		return d
	}
	return &decl{id: id, parent: ecsact.NoID, pkg: -1}
}

// Package returns the snapshot a package was registered from.
func (r *Registry) Package(pid ecsact.PackageID) *schema.Package { return r.pkg(pid).src }

func (r *Registry) PackageIDs() []ecsact.PackageID {
	ids := make([]ecsact.PackageID, len(r.pkgs))
	for i := range r.pkgs {
		ids[i] = ecsact.PackageID(i)
	}
	return ids
}

func (r *Registry) PackageByName(name string) (ecsact.PackageID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

func (r *Registry) PackageName(pid ecsact.PackageID) string     { return r.pkg(pid).src.Name }
func (r *Registry) PackageFilePath(pid ecsact.PackageID) string { return r.pkg(pid).src.FilePath }

func (r *Registry) Dependencies(pid ecsact.PackageID) []ecsact.PackageID {
	return slices.Clone(r.pkg(pid).deps)
}

func (r *Registry) EnumIDs(pid ecsact.PackageID) []ecsact.ID      { return slices.Clone(r.pkg(pid).enums) }
func (r *Registry) ComponentIDs(pid ecsact.PackageID) []ecsact.ID { return slices.Clone(r.pkg(pid).components) }
func (r *Registry) TransientIDs(pid ecsact.PackageID) []ecsact.ID { return slices.Clone(r.pkg(pid).transients) }
func (r *Registry) ActionIDs(pid ecsact.PackageID) []ecsact.ID    { return slices.Clone(r.pkg(pid).actions) }
func (r *Registry) SystemIDs(pid ecsact.PackageID) []ecsact.ID    { return slices.Clone(r.pkg(pid).systems) }

func (r *Registry) TopLevelSystemLikeIDs(pid ecsact.PackageID) []ecsact.ID {
	p := r.pkg(pid)
	ids := slices.Clone(p.actions)
	for _, id := range p.systems {
		if r.decls[id].parent == ecsact.NoID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) AllSystemLikeIDs(pid ecsact.PackageID) []ecsact.ID {
	p := r.pkg(pid)
	return slices.Concat(p.actions, p.systems)
}

func (r *Registry) DeclKind(id ecsact.ID) ecsact.DeclKind      { return r.decl(id).kind }
func (r *Registry) DeclPackage(id ecsact.ID) ecsact.PackageID { return r.decl(id).pkg }
func (r *Registry) DeclName(id ecsact.ID) string              { return r.decl(id).name }
func (r *Registry) DeclFullName(id ecsact.ID) string          { return r.decl(id).fullName }
func (r *Registry) ParentSystemID(id ecsact.ID) ecsact.ID     { return r.decl(id).parent }

func (r *Registry) ChildSystemIDs(id ecsact.ID) []ecsact.ID {
	return slices.Clone(r.decl(id).children)
}

func (r *Registry) Capabilities(id ecsact.ID) []CapabilityEntry {
	d := r.decl(id)
	if d.system == nil {
		return nil
	}
	return capabilityEntries(d.system.Capabilities)
}

func capabilityEntries(caps []*schema.Capability) []CapabilityEntry {
	out := make([]CapabilityEntry, len(caps))
	for i, c := range caps {
		out[i] = CapabilityEntry{Component: c.Component, Flags: c.Flags}
	}
	return out
}

func (r *Registry) AssociationCount(id ecsact.ID) int {
	d := r.decl(id)
	if d.system == nil {
		return 0
	}
	return len(d.system.Associations)
}

func (r *Registry) Association(id ecsact.ID, index int) Association {
	d := r.decl(id)
	if d.system == nil || index < 0 || index >= len(d.system.Associations) {
		return Association{Component: ecsact.NoID}
	}
	a := d.system.Associations[index]
	return Association{
		Component:    a.Component,
		Field:        a.Field,
		Capabilities: capabilityEntries(a.Capabilities),
		Nested:       len(a.Associations),
	}
}

func (r *Registry) GenerateGroups(id ecsact.ID) [][]GenerateEntry {
	d := r.decl(id)
	if d.system == nil {
		return nil
	}
	out := make([][]GenerateEntry, 0, len(d.system.Generates))
	for _, g := range d.system.Generates {
		group := make([]GenerateEntry, len(g.Components))
		for i, c := range g.Components {
			group[i] = GenerateEntry{Component: c.Component, Mode: c.Mode}
		}
		out = append(out, group)
	}
	return out
}

func (r *Registry) LazyIterationRate(id ecsact.ID) int32 {
	if d := r.decl(id); d.system != nil {
		return d.system.LazyRate
	}
	return 0
}

func (r *Registry) Parallel(id ecsact.ID) bool {
	d := r.decl(id)
	return d.system != nil && d.system.Parallel
}

func (r *Registry) FieldIDs(composite ecsact.ID) []ecsact.FieldID {
	d := r.decl(composite)
	if d.composite == nil {
		return nil
	}
	ids := make([]ecsact.FieldID, len(d.composite.Fields))
	for i, f := range d.composite.Fields {
		ids[i] = f.ID
	}
	return ids
}

func (r *Registry) Field(composite ecsact.ID, field ecsact.FieldID) FieldInfo {
	f, ok := r.field(composite, field)
	if !ok {
		return FieldInfo{ID: field}
	}
	info := FieldInfo{
		ID:     f.ID,
		Name:   f.Name,
		Length: f.Len(),
		Offset: f.Offset,
		Type:   FieldType{Kind: f.Kind(), Builtin: f.Type, Enum: ecsact.NoID, Composite: ecsact.NoID},
	}
	switch info.Type.Kind {
	case ecsact.TypeKindEnum:
		info.Type.Enum = *f.Enum
	case ecsact.TypeKindFieldIndex:
		info.Type.Composite = f.Index.Composite
		info.Type.Field = f.Index.Field
	}
	return info
}

func (r *Registry) EnumStorage(enum ecsact.ID) ecsact.Builtin {
	if d := r.decl(enum); d.enum != nil {
		return d.enum.Storage
	}
	return ecsact.BuiltinInvalid
}

func (r *Registry) EnumValues(enum ecsact.ID) []EnumValue {
	d := r.decl(enum)
	if d.enum == nil {
		return nil
	}
	out := make([]EnumValue, len(d.enum.Values))
	for i, v := range d.enum.Values {
		out[i] = EnumValue{Name: v.Name, Value: v.Value}
	}
	return out
}
