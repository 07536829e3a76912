package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

func TestCppIdentifier(t *testing.T) {
	tests := []struct {
		in, cpp, c string
	}{
		{"a.b.c", "a::b::c", "a__b__c"},
		{"game", "game", "game"},
		{"game.Move", "game::Move", "game__Move"},
		{"a..b", "a::b", "a__b"},
		{".a", "::a", "__a"},
		{"a.", "a::", "a__"},
		{"..a...b..", "::a::b::", "__a__b__"},
		{".", "::", "__"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.cpp, CppIdentifier(tt.in))
			assert.Equal(t, tt.c, CIdentifier(tt.in))
		})
	}
}

func TestQualifyKeepsSegments(t *testing.T) {
	for _, sep := range []func(string) string{CppIdentifier, CIdentifier} {
		out := sep("a.b.c")
		var segments []string
		if strings.Contains(out, "::") {
			segments = strings.Split(out, "::")
		} else {
			segments = strings.Split(out, "__")
		}
		assert.Equal(t, []string{"a", "b", "c"}, segments)
	}
}

func TestSystemLikeNames(t *testing.T) {
	r, _ := gameRegistry(t)

	tests := []struct {
		id       ecsact.ID
		name     string
		fullName string
		qual     string
	}{
		{5, "Move", "game.Move", "::game::Move"},
		{7, "AnonymousSystem_7", "game.AnonymousSystem_7", "::game::AnonymousSystem_7"},
		{8, "Tick", "game.Tick", "::game::Tick"},
		{10, "Deep", "game.Tock.Deep", "::game::Tock::Deep"},
		{21, "Land", "game.Jump.Land", "::game::Jump::Land"},
	}
	for _, tt := range tests {
		t.Run(tt.fullName, func(t *testing.T) {
			assert.Equal(t, tt.name, SystemLikeName(r, tt.id))
			assert.Equal(t, tt.fullName, SystemLikeFullName(r, tt.id))
			assert.Equal(t, tt.qual, QualifiedType(r, tt.id))
		})
	}

	anon := SystemLikeFullName(r, 7)
	assert.Contains(t, anon, "game")
	assert.Contains(t, anon, "7")
	assert.True(t, Anonymous(r, 7))
	assert.False(t, Anonymous(r, 8))
	assert.Equal(t, "::game::Position", QualifiedType(r, 1))
}

func TestIncludeGuard(t *testing.T) {
	assert.Equal(t, "GAME_SYSTEMS_H", IncludeGuard("game", "SYSTEMS_H"))
	assert.Equal(t, "EXAMPLE__CORE_SYSTEMS_H", IncludeGuard("example.core", "SYSTEMS_H"))
	assert.Equal(t, "GAME", IncludeGuard("game", ""))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "game.ecsact.hh", OutputName("game.ecsact", "hh"))
}
