package gen

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// AnonymousSystemPrefix starts the synthesized name of unnamed systems.
const AnonymousSystemPrefix = "AnonymousSystem_"

var upper = cases.Upper(language.Und)

// joinPath replaces every run of consecutive dots in path with a single
// sep. Leading and trailing runs are replaced too, so ".a" becomes sep+"a".
func joinPath(path, sep string) string {
	var b strings.Builder
	b.Grow(len(path))
	dot := false
	for _, r := range path {
		if r == '.' {
			if !dot {
				b.WriteString(sep)
			}
			dot = true
			continue
		}
		dot = false
		b.WriteRune(r)
	}
	return b.String()
}

// CppIdentifier qualifies a dotted path for C++: "a.b.c" becomes "a::b::c".
func CppIdentifier(path string) string {
	return joinPath(path, "::")
}

// CIdentifier flattens a dotted path into one C identifier: "a.b.c" becomes
// "a__b__c".
func CIdentifier(path string) string {
	return joinPath(path, "__")
}

// AnonymousSystemName returns the synthesized name of an unnamed system.
func AnonymousSystemName(id ecsact.ID) string {
	return AnonymousSystemPrefix + strconv.Itoa(int(id))
}

// SystemLikeName returns the declared name of a system-like, or the
// synthesized one for anonymous systems.
func SystemLikeName(acc meta.Accessor, id ecsact.ID) string {
	if name := acc.DeclName(id); name != "" {
		return name
	}
	return AnonymousSystemName(id)
}

// SystemLikeFullName returns the dotted full name of a system-like.
// Anonymous systems are qualified by their package name only, matching the
// namespace scope their declarations are hoisted to.
func SystemLikeFullName(acc meta.Accessor, id ecsact.ID) string {
	if full := acc.DeclFullName(id); full != "" {
		return full
	}
	return acc.PackageName(acc.DeclPackage(id)) + "." + AnonymousSystemName(id)
}

// Anonymous reports whether the system-like has no declared name.
func Anonymous(acc meta.Accessor, id ecsact.ID) bool {
	return acc.DeclName(id) == ""
}

// QualifiedType returns the globally qualified C++ name of a declaration,
// e.g. "::game::Position".
func QualifiedType(acc meta.Accessor, id ecsact.ID) string {
	if acc.DeclKind(id).SystemLike() {
		return "::" + CppIdentifier(SystemLikeFullName(acc, id))
	}
	return "::" + CppIdentifier(acc.DeclFullName(id))
}

// IncludeGuard returns an upper-cased C include guard for a package, e.g.
// IncludeGuard("game.core", "SYSTEMS_H") is "GAME__CORE_SYSTEMS_H".
func IncludeGuard(pkgName, suffix string) string {
	guard := upper.String(CIdentifier(pkgName))
	if suffix != "" {
		guard += "_" + suffix
	}
	return guard
}

// OutputName returns the generated file name of a package for a plugin
// extension, e.g. "game.ecsact" and "hh" give "game.ecsact.hh".
func OutputName(pkgFilePath, ext string) string {
	return pkgFilePath + "." + ext
}
