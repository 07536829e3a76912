package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/load"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

// gamePackage is a small package exercising nesting, anonymous systems and
// associations.
func gamePackage() *schema.Package {
	return &schema.Package{
		Name:     "game",
		FilePath: "game.ecsact",
		Components: []*schema.Composite{
			{ID: 1, Name: "Position", Fields: []*schema.Field{schema.Builtin("x", ecsact.I32), schema.Builtin("y", ecsact.I32)}},
			{ID: 2, Name: "Target", Fields: []*schema.Field{schema.Builtin("entity", ecsact.Entity)}},
			{ID: 3, Name: "Tag"},
		},
		Actions: []*schema.Action{{
			Composite: schema.Composite{ID: 20, Name: "Jump"},
			SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite)},
				Children:     []*schema.System{{ID: 21, Name: "Land"}},
			},
		}},
		Systems: []*schema.System{
			{ID: 5, Name: "Move", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite)},
			}},
			{ID: 7, SystemLike: schema.SystemLike{
				Children: []*schema.System{
					{ID: 8, Name: "Tick"},
					{ID: 9, Name: "Tock", SystemLike: schema.SystemLike{
						Children: []*schema.System{{ID: 10, Name: "Deep"}},
					}},
				},
			}},
			{ID: 6, Name: "Chase", SystemLike: schema.SystemLike{
				Capabilities: []*schema.Capability{
					schema.Cap(2, ecsact.CapReadonly),
					schema.Cap(3, ecsact.CapAdds|ecsact.CapRemoves),
				},
				Associations: []*schema.Association{{
					Component:    2,
					Field:        0,
					Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadwrite|ecsact.CapOptional)},
				}},
			}},
		},
	}
}

func gameRegistry(t *testing.T) (*meta.Registry, ecsact.PackageID) {
	t.Helper()
	p := gamePackage()
	load.Layout(p)
	r, err := meta.NewRegistry(p)
	require.NoError(t, err)
	pkg, ok := r.PackageByName("game")
	require.True(t, ok)
	return r, pkg
}
