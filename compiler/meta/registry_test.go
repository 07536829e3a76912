package meta

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/load"
	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

func loadGame(t *testing.T) (*Registry, ecsact.PackageID) {
	t.Helper()
	pkgs, err := load.Files(
		filepath.Join("..", "load", "testdata", "game.ecsact.yaml"),
		filepath.Join("..", "load", "testdata", "util.ecsact.json"),
	)
	require.NoError(t, err)
	r, err := NewRegistry(pkgs...)
	require.NoError(t, err)
	game, ok := r.PackageByName("game")
	require.True(t, ok)
	return r, game
}

func TestRegistryPackages(t *testing.T) {
	r, game := loadGame(t)
	util, ok := r.PackageByName("util")
	require.True(t, ok)

	assert.Equal(t, []ecsact.PackageID{game, util}, r.PackageIDs())
	assert.Equal(t, "game.ecsact", r.PackageFilePath(game))
	assert.Equal(t, []ecsact.PackageID{util}, r.Dependencies(game))
	assert.Empty(t, r.Dependencies(util))
	assert.Equal(t, []ecsact.ID{50}, r.ComponentIDs(util))
}

func TestRegistryEnumerations(t *testing.T) {
	r, game := loadGame(t)

	assert.Equal(t, []ecsact.ID{100}, r.EnumIDs(game))
	assert.Equal(t, []ecsact.ID{1, 2, 3, 4}, r.ComponentIDs(game))
	assert.Equal(t, []ecsact.ID{10}, r.TransientIDs(game))
	assert.Equal(t, []ecsact.ID{20}, r.ActionIDs(game))
	assert.Equal(t, []ecsact.ID{5, 6, 7, 8, 21}, r.SystemIDs(game))
	assert.Equal(t, []ecsact.ID{5, 6, 7, 20}, r.TopLevelSystemLikeIDs(game))
	assert.Equal(t, []ecsact.ID{20, 5, 6, 7, 8, 21}, r.AllSystemLikeIDs(game))
}

func TestRegistryNames(t *testing.T) {
	r, game := loadGame(t)

	tests := []struct {
		id       ecsact.ID
		kind     ecsact.DeclKind
		name     string
		fullName string
		parent   ecsact.ID
	}{
		{1, ecsact.KindComponent, "Position", "game.Position", ecsact.NoID},
		{10, ecsact.KindTransient, "Hit", "game.Hit", ecsact.NoID},
		{20, ecsact.KindAction, "Jump", "game.Jump", ecsact.NoID},
		{21, ecsact.KindSystem, "Land", "game.Jump.Land", 20},
		{7, ecsact.KindSystem, "", "", ecsact.NoID},
		{8, ecsact.KindSystem, "Tick", "game.Tick", 7},
		{100, ecsact.KindEnum, "Direction", "game.Direction", ecsact.NoID},
	}
	for _, tt := range tests {
		t.Run(tt.fullName, func(t *testing.T) {
			assert.Equal(t, tt.kind, r.DeclKind(tt.id))
			assert.Equal(t, game, r.DeclPackage(tt.id))
			assert.Equal(t, tt.name, r.DeclName(tt.id))
			assert.Equal(t, tt.fullName, r.DeclFullName(tt.id))
			assert.Equal(t, tt.parent, r.ParentSystemID(tt.id))
		})
	}
	assert.Equal(t, []ecsact.ID{8}, r.ChildSystemIDs(7))
	assert.Equal(t, []ecsact.ID{21}, r.ChildSystemIDs(20))
}

func TestRegistrySystemLikes(t *testing.T) {
	r, _ := loadGame(t)

	assert.Equal(t, []CapabilityEntry{
		{Component: 4, Flags: ecsact.CapReadonly},
		{Component: 3, Flags: ecsact.CapAdds | ecsact.CapRemoves},
	}, r.Capabilities(6))
	require.Equal(t, 1, r.AssociationCount(6))
	assert.Equal(t, Association{
		Component:    4,
		Field:        0,
		Capabilities: []CapabilityEntry{{Component: 1, Flags: ecsact.CapReadwrite}},
	}, r.Association(6, 0))
	assert.Equal(t, ecsact.NoID, r.Association(6, 1).Component)
	assert.Equal(t, [][]GenerateEntry{{
		{Component: 1, Mode: ecsact.GenerateRequired},
		{Component: 2, Mode: ecsact.GenerateOptional},
	}}, r.GenerateGroups(6))
	assert.Equal(t, int32(24), r.LazyIterationRate(6))
	assert.True(t, r.Parallel(6))
	assert.False(t, r.Parallel(5))
	assert.Zero(t, r.AssociationCount(1))
}

func TestRegistryFields(t *testing.T) {
	r, _ := loadGame(t)

	assert.Equal(t, []ecsact.FieldID{0, 1}, r.FieldIDs(2))
	dir := r.Field(2, 0)
	assert.Equal(t, ecsact.TypeKindEnum, dir.Type.Kind)
	assert.Equal(t, ecsact.ID(100), dir.Type.Enum)
	assert.Equal(t, ecsact.U8, r.EnumStorage(dir.Type.Enum))

	weights := r.Field(2, 1)
	assert.Equal(t, "weights", weights.Name)
	assert.Equal(t, 3, weights.Length)
	assert.Equal(t, 4, weights.Offset)
	assert.False(t, weights.Relational())

	assert.True(t, r.Field(4, 0).Relational())
	assert.Equal(t, []EnumValue{{"North", 0}, {"South", 1}}, r.EnumValues(100))
	assert.Empty(t, r.FieldIDs(3))
	assert.Equal(t, []ecsact.FieldID{0}, r.FieldIDs(20))
}

func TestRegistryUnknownIDs(t *testing.T) {
	r, _ := loadGame(t)

	assert.Equal(t, ecsact.KindUnknown, r.DeclKind(999))
	assert.Equal(t, ecsact.NoID, r.ParentSystemID(999))
	assert.Empty(t, r.Capabilities(999))
	assert.Equal(t, ecsact.BuiltinInvalid, r.EnumStorage(1))
	assert.Empty(t, r.PackageName(42))
}

func TestRegistryErrors(t *testing.T) {
	comp := func(id ecsact.ID, name string, fields ...*schema.Field) *schema.Composite {
		return &schema.Composite{ID: id, Name: name, Fields: fields}
	}
	tests := []struct {
		name    string
		pkgs    []*schema.Package
		is      error
		wantErr string
	}{
		{
			name: "duplicate id across packages",
			pkgs: []*schema.Package{
				{Name: "a", Components: []*schema.Composite{comp(1, "A")}},
				{Name: "b", Components: []*schema.Composite{comp(1, "B")}},
			},
			is:      ecsact.ErrDuplicate,
			wantErr: "component a.A and component b.B",
		},
		{
			name: "duplicate name through anonymous systems",
			pkgs: []*schema.Package{{
				Name: "world",
				Systems: []*schema.System{
					{ID: 1, SystemLike: schema.SystemLike{Children: []*schema.System{{ID: 2, Name: "Step"}}}},
					{ID: 3, SystemLike: schema.SystemLike{Children: []*schema.System{{ID: 4, Name: "Step"}}}},
				},
			}},
			is:      ecsact.ErrDuplicate,
			wantErr: "duplicate declaration name world.Step (system 2 and system 4)",
		},
		{
			name: "system named like a component",
			pkgs: []*schema.Package{{
				Name:       "a",
				Components: []*schema.Composite{comp(1, "A")},
				Systems:    []*schema.System{{ID: 2, Name: "A"}},
			}},
			is:      ecsact.ErrDuplicate,
			wantErr: "duplicate declaration name a.A (component 1 and system 2)",
		},
		{
			name:    "duplicate package",
			pkgs:    []*schema.Package{{Name: "a"}, {Name: "a"}},
			is:      ecsact.ErrDuplicate,
			wantErr: "duplicate package",
		},
		{
			name:    "missing dependency",
			pkgs:    []*schema.Package{{Name: "a", Dependencies: []string{"b"}}},
			is:      ecsact.ErrNotFound,
			wantErr: "package not found (id=b)",
		},
		{
			name: "unknown enum",
			pkgs: []*schema.Package{{
				Name:       "a",
				Components: []*schema.Composite{comp(1, "A", schema.EnumField("e", 9))},
			}},
			is:      ecsact.ErrNotFound,
			wantErr: "enum not found",
		},
		{
			name: "capability on a system",
			pkgs: []*schema.Package{{
				Name: "a",
				Systems: []*schema.System{
					{ID: 1, Name: "S", SystemLike: schema.SystemLike{Capabilities: []*schema.Capability{schema.Cap(2, ecsact.CapReadonly)}}},
					{ID: 2, Name: "T"},
				},
			}},
			is:      ecsact.ErrNotFound,
			wantErr: "system a.S: ecsact: component not found (id=2)",
		},
		{
			name: "association on a plain field",
			pkgs: []*schema.Package{{
				Name:       "a",
				Components: []*schema.Composite{comp(1, "A", schema.Builtin("n", ecsact.I32))},
				Systems: []*schema.System{{ID: 2, Name: "S", SystemLike: schema.SystemLike{
					Capabilities: []*schema.Capability{schema.Cap(1, ecsact.CapReadonly)},
					Associations: []*schema.Association{{Component: 1, Field: 0}},
				}}},
			}},
			is:      ecsact.ErrInvalidSchema,
			wantErr: "on system a.S field n: association 0: not an entity or indexed field",
		},
		{
			name: "association outside the capability map",
			pkgs: []*schema.Package{{
				Name:       "a",
				Components: []*schema.Composite{comp(1, "A", schema.Builtin("e", ecsact.Entity))},
				Systems: []*schema.System{{ID: 2, SystemLike: schema.SystemLike{
					Associations: []*schema.Association{{Component: 1, Field: 0}},
				}}},
			}},
			is:      ecsact.ErrInvalidSchema,
			wantErr: "anonymous system 2: association 0: component 1 is not in the capability map",
		},
		{
			name: "generates a transient",
			pkgs: []*schema.Package{{
				Name:       "a",
				Transients: []*schema.Composite{comp(1, "T")},
				Systems: []*schema.System{{ID: 2, Name: "S", SystemLike: schema.SystemLike{
					Generates: []*schema.GenerateGroup{{Components: []*schema.GenerateComponent{{Component: 1}}}},
				}}},
			}},
			is:      ecsact.ErrNotFound,
			wantErr: "generates",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.pkgs...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is))
			}
		})
	}
}

func TestRegistryAnonymousSiblingsDistinctChildren(t *testing.T) {
	r, err := NewRegistry(&schema.Package{
		Name: "world",
		Systems: []*schema.System{
			{ID: 1, SystemLike: schema.SystemLike{Children: []*schema.System{{ID: 2, Name: "Step"}}}},
			{ID: 3, SystemLike: schema.SystemLike{Children: []*schema.System{{ID: 4, Name: "Walk"}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "world.Step", r.DeclFullName(2))
	assert.Equal(t, "world.Walk", r.DeclFullName(4))
	assert.Empty(t, r.DeclFullName(1))
	assert.Empty(t, r.DeclFullName(3))
}

func TestRegistrySchemaErrors(t *testing.T) {
	_, err := NewRegistry(&schema.Package{
		Name:       "a",
		Components: []*schema.Composite{{ID: 1, Name: "A", Fields: []*schema.Field{schema.EnumField("e", 9)}}},
	})
	require.Error(t, err)
	assert.True(t, ecsact.IsSchemaError(err))
	assert.True(t, errors.Is(err, ecsact.ErrInvalidSchema))
	assert.True(t, ecsact.IsNotFound(err))

	var serr *ecsact.SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "component a.A", serr.Decl)
	assert.Equal(t, "e", serr.Field)
	assert.Equal(t, "ecsact: schema error on component a.A field e: ecsact: enum not found (id=9)", serr.Error())
}

func TestMustNewRegistryPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewRegistry(&schema.Package{Name: "a", Dependencies: []string{"missing"}})
	})
}
