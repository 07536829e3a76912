package schema

import (
	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

// Package is the snapshot of one Ecsact package.
type Package struct {
	Name         string       `json:"name" yaml:"name" msgpack:"name"`
	FilePath     string       `json:"file_path,omitempty" yaml:"file_path,omitempty" msgpack:"file_path,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty" yaml:"dependencies,omitempty" msgpack:"dependencies,omitempty"`
	Enums        []*Enum      `json:"enums,omitempty" yaml:"enums,omitempty" msgpack:"enums,omitempty"`
	Components   []*Composite `json:"components,omitempty" yaml:"components,omitempty" msgpack:"components,omitempty"`
	Transients   []*Composite `json:"transients,omitempty" yaml:"transients,omitempty" msgpack:"transients,omitempty"`
	Actions      []*Action    `json:"actions,omitempty" yaml:"actions,omitempty" msgpack:"actions,omitempty"`
	Systems      []*System    `json:"systems,omitempty" yaml:"systems,omitempty" msgpack:"systems,omitempty"`
}

// Enum is an enum declaration backed by an integral builtin.
type Enum struct {
	ID      ecsact.ID      `json:"id" yaml:"id" msgpack:"id"`
	Name    string         `json:"name" yaml:"name" msgpack:"name"`
	Storage ecsact.Builtin `json:"storage" yaml:"storage" msgpack:"storage"`
	Values  []*EnumValue   `json:"values,omitempty" yaml:"values,omitempty" msgpack:"values,omitempty"`
}

// EnumValue is one enumerator.
type EnumValue struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value int32  `json:"value" yaml:"value" msgpack:"value"`
}

// Composite is a component, transient or the data part of an action.
type Composite struct {
	ID     ecsact.ID `json:"id" yaml:"id" msgpack:"id"`
	Name   string    `json:"name" yaml:"name" msgpack:"name"`
	Fields []*Field  `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
}

// Field is a field of a composite. Exactly one of Type, Enum and Index
// describes its type.
type Field struct {
	ID     ecsact.FieldID `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Name   string         `json:"name" yaml:"name" msgpack:"name"`
	Type   ecsact.Builtin `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Enum   *ecsact.ID     `json:"enum,omitempty" yaml:"enum,omitempty" msgpack:"enum,omitempty"`
	Index  *FieldIndex    `json:"index,omitempty" yaml:"index,omitempty" msgpack:"index,omitempty"`
	Length int            `json:"length,omitempty" yaml:"length,omitempty" msgpack:"length,omitempty"`
	Offset int            `json:"offset,omitempty" yaml:"offset,omitempty" msgpack:"offset,omitempty"`
}

// FieldIndex redirects a field's type to another field of a composite. Such
// fields (and entity fields) relate one entity to another.
type FieldIndex struct {
	Composite ecsact.ID      `json:"composite" yaml:"composite" msgpack:"composite"`
	Field     ecsact.FieldID `json:"field" yaml:"field" msgpack:"field"`
}

// Kind returns the field's type kind.
func (f *Field) Kind() ecsact.TypeKind {
	switch {
	case f.Index != nil:
		return ecsact.TypeKindFieldIndex
	case f.Enum != nil:
		return ecsact.TypeKindEnum
	default:
		return ecsact.TypeKindBuiltin
	}
}

// Len returns the array length, 1 for scalars.
func (f *Field) Len() int {
	if f.Length < 1 {
		return 1
	}
	return f.Length
}

// Relational reports whether the field relates its entity to another one.
func (f *Field) Relational() bool {
	return f.Kind() == ecsact.TypeKindFieldIndex || (f.Kind() == ecsact.TypeKindBuiltin && f.Type == ecsact.Entity)
}

// Capability is one entry of a capability map.
type Capability struct {
	Component ecsact.ID         `json:"component" yaml:"component" msgpack:"component"`
	Flags     ecsact.Capability `json:"flags" yaml:"flags" msgpack:"flags"`
}

// Association scopes a nested capability map to the entities reachable
// through a relational field of a component the system-like accesses.
type Association struct {
	Component    ecsact.ID      `json:"component" yaml:"component" msgpack:"component"`
	Field        ecsact.FieldID `json:"field" yaml:"field" msgpack:"field"`
	Capabilities []*Capability  `json:"capabilities,omitempty" yaml:"capabilities,omitempty" msgpack:"capabilities,omitempty"`
	Associations []*Association `json:"associations,omitempty" yaml:"associations,omitempty" msgpack:"associations,omitempty"`
}

// GenerateGroup is a set of components a system-like may attach to a new
// entity.
type GenerateGroup struct {
	Components []*GenerateComponent `json:"components" yaml:"components" msgpack:"components"`
}

// GenerateComponent is one entry of a generation group.
type GenerateComponent struct {
	Component ecsact.ID           `json:"component" yaml:"component" msgpack:"component"`
	Mode      ecsact.GenerateMode `json:"mode,omitempty" yaml:"mode,omitempty" msgpack:"mode,omitempty"`
}

// SystemLike holds what systems and actions have in common.
type SystemLike struct {
	Capabilities []*Capability    `json:"capabilities,omitempty" yaml:"capabilities,omitempty" msgpack:"capabilities,omitempty"`
	Associations []*Association   `json:"associations,omitempty" yaml:"associations,omitempty" msgpack:"associations,omitempty"`
	Generates    []*GenerateGroup `json:"generates,omitempty" yaml:"generates,omitempty" msgpack:"generates,omitempty"`
	Children     []*System        `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
	LazyRate     int32            `json:"lazy,omitempty" yaml:"lazy,omitempty" msgpack:"lazy,omitempty"`
	Parallel     bool             `json:"parallel,omitempty" yaml:"parallel,omitempty" msgpack:"parallel,omitempty"`
}

// System is a system declaration. An empty Name marks an anonymous system.
type System struct {
	ID         ecsact.ID `json:"id" yaml:"id" msgpack:"id"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	SystemLike `yaml:",inline" msgpack:",inline"`
}

// Action is an action declaration: a composite that also behaves like a
// system.
type Action struct {
	Composite  `yaml:",inline" msgpack:",inline"`
	SystemLike `yaml:",inline" msgpack:",inline"`
}

// Builtin returns a builtin-typed field.
func Builtin(name string, t ecsact.Builtin) *Field {
	return &Field{Name: name, Type: t}
}

// Array returns a fixed-length builtin-typed field.
func Array(name string, t ecsact.Builtin, length int) *Field {
	return &Field{Name: name, Type: t, Length: length}
}

// EnumField returns a field typed by the enum with the given id.
func EnumField(name string, enum ecsact.ID) *Field {
	return &Field{Name: name, Enum: &enum}
}

// IndexField returns a field typed by another composite's field.
func IndexField(name string, composite ecsact.ID, field ecsact.FieldID) *Field {
	return &Field{Name: name, Index: &FieldIndex{Composite: composite, Field: field}}
}

// Cap returns a capability map entry.
func Cap(component ecsact.ID, flags ecsact.Capability) *Capability {
	return &Capability{Component: component, Flags: flags}
}
