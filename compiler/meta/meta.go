// Package meta answers the metadata queries the generators issue against a
// set of loaded package snapshots: ordered id enumerations per package and
// per-declaration accessors for names, hierarchy, capabilities,
// associations, fields, enums and generation groups.
//
// All enumerations are returned in declaration order, which is what keeps
// generated output deterministic.
package meta

import (
	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

// Accessor is the read-only metadata surface consumed by the generators.
// Lookups of unknown ids return zero values; Registry construction rejects
// snapshots with dangling references, so well-formed callers never see them.
type Accessor interface {
	// PackageIDs returns every registered package in registration order.
	PackageIDs() []ecsact.PackageID
	// PackageByName returns the package with the given dotted name.
	PackageByName(name string) (ecsact.PackageID, bool)
	PackageName(pkg ecsact.PackageID) string
	// PackageFilePath returns the Ecsact source path of the package, used to
	// name generated files.
	PackageFilePath(pkg ecsact.PackageID) string
	Dependencies(pkg ecsact.PackageID) []ecsact.PackageID

	EnumIDs(pkg ecsact.PackageID) []ecsact.ID
	ComponentIDs(pkg ecsact.PackageID) []ecsact.ID
	TransientIDs(pkg ecsact.PackageID) []ecsact.ID
	ActionIDs(pkg ecsact.PackageID) []ecsact.ID
	// SystemIDs returns every system of the package, nested ones included,
	// in pre-order.
	SystemIDs(pkg ecsact.PackageID) []ecsact.ID
	// TopLevelSystemLikeIDs returns actions and parentless systems ordered
	// by id.
	TopLevelSystemLikeIDs(pkg ecsact.PackageID) []ecsact.ID
	// AllSystemLikeIDs returns actions followed by SystemIDs.
	AllSystemLikeIDs(pkg ecsact.PackageID) []ecsact.ID

	DeclKind(id ecsact.ID) ecsact.DeclKind
	DeclPackage(id ecsact.ID) ecsact.PackageID
	// DeclName returns the declared (short) name, empty for anonymous
	// systems.
	DeclName(id ecsact.ID) string
	// DeclFullName returns the dotted path of a declaration: the package
	// name, the names of named enclosing system-likes, then the declared
	// name. Anonymous systems have an empty full name.
	DeclFullName(id ecsact.ID) string

	// ParentSystemID returns the enclosing system-like or ecsact.NoID.
	ParentSystemID(id ecsact.ID) ecsact.ID
	ChildSystemIDs(id ecsact.ID) []ecsact.ID
	Capabilities(id ecsact.ID) []CapabilityEntry
	AssociationCount(id ecsact.ID) int
	Association(id ecsact.ID, index int) Association
	GenerateGroups(id ecsact.ID) [][]GenerateEntry
	LazyIterationRate(id ecsact.ID) int32
	Parallel(id ecsact.ID) bool

	FieldIDs(composite ecsact.ID) []ecsact.FieldID
	Field(composite ecsact.ID, field ecsact.FieldID) FieldInfo

	EnumStorage(enum ecsact.ID) ecsact.Builtin
	EnumValues(enum ecsact.ID) []EnumValue
}

// CapabilityEntry is one pair of a capability map.
type CapabilityEntry struct {
	Component ecsact.ID
	Flags     ecsact.Capability
}

// Association is a nested capability map scoped by a relational field.
type Association struct {
	Component    ecsact.ID
	Field        ecsact.FieldID
	Capabilities []CapabilityEntry
	// Nested counts associations declared inside this one. Only a single
	// level of nesting is part of the generated bindings.
	Nested int
}

// FieldType is the resolved type of a field.
type FieldType struct {
	Kind      ecsact.TypeKind
	Builtin   ecsact.Builtin
	Enum      ecsact.ID
	Composite ecsact.ID
	Field     ecsact.FieldID
}

// FieldInfo describes one field of a composite.
type FieldInfo struct {
	ID     ecsact.FieldID
	Name   string
	Type   FieldType
	Length int
	Offset int
}

// Relational reports whether the field relates its entity to another one.
func (f FieldInfo) Relational() bool {
	return f.Type.Kind == ecsact.TypeKindFieldIndex ||
		(f.Type.Kind == ecsact.TypeKindBuiltin && f.Type.Builtin == ecsact.Entity)
}

// EnumValue is one enumerator.
type EnumValue struct {
	Name  string
	Value int32
}

// GenerateEntry is one component of a generation group.
type GenerateEntry struct {
	Component ecsact.ID
	Mode      ecsact.GenerateMode
}
