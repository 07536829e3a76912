package cpp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/load"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

// movePackage is the smallest package with a system: one component and one
// system reading and writing it.
func movePackage() *schema.Package {
	return &schema.Package{
		Name:     "game",
		FilePath: "game.ecsact",
		Components: []*schema.Composite{
			{ID: 1, Name: "Position", Fields: []*schema.Field{schema.Builtin("x", ecsact.I32), schema.Builtin("y", ecsact.I32)}},
		},
		Systems: []*schema.System{
			{ID: 5, Name: "Move", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite)},
			}},
		},
	}
}

func utilPackage() *schema.Package {
	return &schema.Package{
		Name:     "util",
		FilePath: "pkgs/util.ecsact",
		Components: []*schema.Composite{
			{ID: 50, Name: "Score", Fields: []*schema.Field{schema.Builtin("points", ecsact.I32)}},
		},
	}
}

// worldPackage covers enums, empty components, relations, associations,
// actions with children and anonymous systems.
func worldPackage() *schema.Package {
	return &schema.Package{
		Name:         "world",
		FilePath:     "world.ecsact",
		Dependencies: []string{"util"},
		Enums: []*schema.Enum{{
			ID: 100, Name: "Direction", Storage: ecsact.U8,
			Values: []*schema.EnumValue{{Name: "North", Value: 0}, {Name: "South", Value: 1}},
		}},
		Components: []*schema.Composite{
			{ID: 1, Name: "Position", Fields: []*schema.Field{schema.Builtin("x", ecsact.I32), schema.Builtin("y", ecsact.I32)}},
			{ID: 2, Name: "Facing", Fields: []*schema.Field{schema.EnumField("dir", 100)}},
			{ID: 3, Name: "Marker"},
			{ID: 4, Name: "Link", Fields: []*schema.Field{schema.Builtin("target", ecsact.Entity)}},
			{ID: 5, Name: "Health", Fields: []*schema.Field{schema.Builtin("value", ecsact.F32)}},
			{ID: 9, Name: "Owner", Fields: []*schema.Field{schema.Builtin("owner", ecsact.Entity)}},
			{ID: 13, Name: "Path", Fields: []*schema.Field{schema.Array("steps", ecsact.U16, 4)}},
		},
		Transients: []*schema.Composite{{ID: 6, Name: "Hit"}},
		Actions: []*schema.Action{{
			Composite: schema.Composite{ID: 20, Name: "Shoot", Fields: []*schema.Field{schema.Builtin("power", ecsact.U16)}},
			SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{schema.Cap(5, ecsact.CapReadwrite)},
				Children: []*schema.System{{ID: 21, Name: "Recoil", SystemLike: schema.SystemLike{
					Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite)},
				}}},
			},
		}},
		Systems: []*schema.System{
			{ID: 7, Name: "AddEmpty", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{schema.Cap(3, ecsact.CapAdds)},
			}},
			{ID: 8, Name: "AddValue", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{schema.Cap(5, ecsact.CapAdds|ecsact.CapRemoves)},
			}},
			{ID: 10, Name: "Pair", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{
					schema.Cap(4, ecsact.CapReadonly),
					schema.Cap(9, ecsact.CapReadonly),
				},
				Associations: []*schema.Association{
					{Component: 4, Field: 0, Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite)}},
					{Component: 9, Field: 0, Capabilities: []*schema.Capability{schema.Cap(5, ecsact.CapReadonly|ecsact.CapOptional)}},
				},
			}},
			{ID: 11, SystemLike: schema.SystemLike{
				Children: []*schema.System{{ID: 12, Name: "Step", SystemLike: schema.SystemLike{
					Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadonly)},
				}}},
			}},
			{ID: 14, Name: "Follow", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{
					schema.Cap(4, ecsact.CapReadwrite),
					schema.Cap(2, ecsact.CapReadonly|ecsact.CapStreamToggle),
				},
				Associations: []*schema.Association{{
					Component:    4,
					Field:        0,
					Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadonly)},
					Associations: []*schema.Association{{Component: 4, Field: 0}},
				}},
				Generates: []*schema.GenerateGroup{{Components: []*schema.GenerateComponent{
					{Component: 1},
					{Component: 2, Mode: ecsact.GenerateOptional},
				}}},
				LazyRate: 24,
				Parallel: true,
			}},
		},
	}
}

func registry(t *testing.T, pkgs ...*schema.Package) *meta.Registry {
	t.Helper()
	load.Layout(pkgs...)
	r, err := meta.NewRegistry(pkgs...)
	require.NoError(t, err)
	return r
}

func packageID(t *testing.T, acc meta.Accessor, name string) ecsact.PackageID {
	t.Helper()
	pkg, ok := acc.PackageByName(name)
	require.True(t, ok)
	return pkg
}

// generate runs one plugin and returns its output.
func generate(t *testing.T, p gen.Plugin, acc meta.Accessor, pkgName string, opts ...gen.Option) (string, []gen.Notice) {
	t.Helper()
	var buf bytes.Buffer
	notices, err := gen.Run(p, acc, packageID(t, acc, pkgName), &buf, opts...)
	require.NoError(t, err)
	return buf.String(), notices
}

// contextOf cuts the context struct of a system-like out of a systems.hh
// output.
func contextOf(t *testing.T, out, cppName string) string {
	t.Helper()
	start := strings.Index(out, "struct "+cppName+"::context {\n")
	require.GreaterOrEqual(t, start, 0, "no context for %s", cppName)
	end := strings.Index(out[start:], "\n};\n")
	require.Greater(t, end, 0)
	return out[start : start+end+len("\n};\n")]
}

// unwrap undoes the word-wrapping of misuse diagnostics.
func unwrap(s string) string {
	return strings.ReplaceAll(s, "\n| ", " ")
}
