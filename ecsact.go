// Package ecsact holds the identifiers, capability flags and builtin type
// table shared by the schema snapshot, the metadata accessor and the code
// generators.
package ecsact

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a declaration (enum, component, transient, action or
// system). Declaration ids share one id space across all loaded packages.
type ID int32

// NoID is the sentinel for an absent declaration, e.g. a system without a
// parent system-like.
const NoID ID = -1

// Valid reports whether the id refers to a declaration.
func (id ID) Valid() bool { return id >= 0 }

// PackageID identifies a loaded package.
type PackageID int32

// FieldID identifies a field within its composite.
type FieldID int32

// DeclKind is the kind of a declaration.
type DeclKind uint8

// Declaration kinds.
const (
	KindUnknown DeclKind = iota
	KindEnum
	KindComponent
	KindTransient
	KindAction
	KindSystem
)

var declKindNames = [...]string{
	KindUnknown:   "unknown",
	KindEnum:      "enum",
	KindComponent: "component",
	KindTransient: "transient",
	KindAction:    "action",
	KindSystem:    "system",
}

// String implements fmt.Stringer.
func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "DeclKind(" + strconv.Itoa(int(k)) + ")"
}

// ComponentLike reports whether the kind is a component or a transient.
func (k DeclKind) ComponentLike() bool {
	return k == KindComponent || k == KindTransient
}

// SystemLike reports whether the kind is a system or an action.
func (k DeclKind) SystemLike() bool {
	return k == KindSystem || k == KindAction
}

// Composite reports whether declarations of this kind carry fields.
func (k DeclKind) Composite() bool {
	return k == KindComponent || k == KindTransient || k == KindAction
}

// Capability is the bitset a system-like declares over a component-like.
type Capability uint16

// Capability bits. READWRITE is the union of READONLY and WRITEONLY.
const (
	CapReadonly     Capability = 1 << 0
	CapWriteonly    Capability = 1 << 1
	CapReadwrite               = CapReadonly | CapWriteonly
	CapOptional     Capability = 1 << 2
	CapInclude      Capability = 1 << 3
	CapExclude      Capability = 1 << 4
	CapAdds         Capability = 1 << 5
	CapRemoves      Capability = 1 << 6
	CapStreamToggle Capability = 1 << 7
)

// capabilityNames is ordered so that the composite readwrite name is tried
// before its two halves when formatting.
var capabilityNames = []struct {
	bit  Capability
	name string
}{
	{CapReadwrite, "readwrite"},
	{CapReadonly, "readonly"},
	{CapWriteonly, "writeonly"},
	{CapOptional, "optional"},
	{CapInclude, "include"},
	{CapExclude, "exclude"},
	{CapAdds, "adds"},
	{CapRemoves, "removes"},
	{CapStreamToggle, "stream_toggle"},
}

// Has reports whether all bits of cap are set, i.e. (c & cap) == cap.
func (c Capability) Has(cap Capability) bool {
	return c&cap == cap
}

// String returns the flags joined with "|", e.g. "readwrite|optional".
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var (
		parts []string
		rest  = c
	)
	for _, n := range capabilityNames {
		if rest.Has(n.bit) {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts a decimal
// bitset or names joined with "|" or ",".
func (c *Capability) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		*c = Capability(n)
		return nil
	}
	var out Capability
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "none" {
			continue
		}
		bit, ok := capabilityByName(part)
		if !ok {
			return fmt.Errorf("ecsact: unknown capability %q", part)
		}
		out |= bit
	}
	*c = out
	return nil
}

func capabilityByName(name string) (Capability, bool) {
	for _, n := range capabilityNames {
		if n.name == name {
			return n.bit, true
		}
	}
	if name == "stream" {
		return CapStreamToggle, true
	}
	return 0, false
}

// TypeKind discriminates a field type.
type TypeKind uint8

// Field type kinds.
const (
	TypeKindBuiltin TypeKind = iota
	TypeKindEnum
	TypeKindFieldIndex
)

// String implements fmt.Stringer.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBuiltin:
		return "builtin"
	case TypeKindEnum:
		return "enum"
	case TypeKindFieldIndex:
		return "field_index"
	default:
		return "TypeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Builtin is a scalar field or enum storage type.
type Builtin uint8

// Builtin types.
const (
	BuiltinInvalid Builtin = iota
	Bool
	I8
	U8
	I16
	U16
	I32
	U32
	F32
	Entity
)

type builtinInfo struct {
	name  string // schema spelling
	cpp   string
	c     string
	cenum string
	size  int
}

var builtins = [...]builtinInfo{
	BuiltinInvalid: {"invalid", "", "", "", 0},
	Bool:           {"bool", "bool", "bool", "ECSACT_BOOL", 1},
	I8:             {"i8", "int8_t", "int8_t", "ECSACT_I8", 1},
	U8:             {"u8", "uint8_t", "uint8_t", "ECSACT_U8", 1},
	I16:            {"i16", "int16_t", "int16_t", "ECSACT_I16", 2},
	U16:            {"u16", "uint16_t", "uint16_t", "ECSACT_U16", 2},
	I32:            {"i32", "int32_t", "int32_t", "ECSACT_I32", 4},
	U32:            {"u32", "uint32_t", "uint32_t", "ECSACT_U32", 4},
	F32:            {"f32", "float", "float", "ECSACT_F32", 4},
	Entity:         {"entity", "::ecsact_entity_id", "ecsact_entity_id", "ECSACT_ENTITY_TYPE", 4},
}

func (b Builtin) info() builtinInfo {
	if int(b) < len(builtins) {
		return builtins[b]
	}
	return builtins[BuiltinInvalid]
}

// Valid reports whether b is a known builtin.
func (b Builtin) Valid() bool { return b > BuiltinInvalid && int(b) < len(builtins) }

// String returns the schema spelling, e.g. "i32".
func (b Builtin) String() string { return b.info().name }

// CppType returns the C++ spelling, e.g. "int32_t".
func (b Builtin) CppType() string { return b.info().cpp }

// CType returns the C spelling.
func (b Builtin) CType() string { return b.info().c }

// CEnum returns the ecsact_builtin_type enumerator, e.g. "ECSACT_I32".
func (b Builtin) CEnum() string { return b.info().cenum }

// Size returns the storage size in bytes.
func (b Builtin) Size() int { return b.info().size }

// Integral reports whether the builtin can back an enum.
func (b Builtin) Integral() bool {
	switch b {
	case I8, U8, I16, U16, I32, U32:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (b Builtin) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("ecsact: invalid builtin type %d", b)
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Builtin) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, info := range builtins {
		if i != int(BuiltinInvalid) && (info.name == s || info.cpp == s) {
			*b = Builtin(i)
			return nil
		}
	}
	return fmt.Errorf("ecsact: unknown builtin type %q", s)
}

// GenerateMode marks a component of a generation group as required or
// optional.
type GenerateMode uint8

// Generation modes.
const (
	GenerateRequired GenerateMode = iota
	GenerateOptional
)

// CEnum returns the ecsact_system_generate enumerator.
func (m GenerateMode) CEnum() string {
	if m == GenerateOptional {
		return "ECSACT_SYS_GEN_OPTIONAL"
	}
	return "ECSACT_SYS_GEN_REQUIRED"
}

// MarshalText implements encoding.TextMarshaler.
func (m GenerateMode) MarshalText() ([]byte, error) {
	if m == GenerateOptional {
		return []byte("optional"), nil
	}
	return []byte("required"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *GenerateMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "required":
		*m = GenerateRequired
	case "optional":
		*m = GenerateOptional
	default:
		return fmt.Errorf("ecsact: unknown generate mode %q", text)
	}
	return nil
}
