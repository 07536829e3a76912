package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

func TestSystemTree(t *testing.T) {
	r, pkg := gameRegistry(t)
	tree := NewSystemTree(r, pkg)

	require.Len(t, tree.Nodes, 8)
	var roots []ecsact.ID
	for _, i := range tree.Roots {
		roots = append(roots, tree.Nodes[i].ID)
	}
	assert.Equal(t, []ecsact.ID{5, 6, 7, 20}, roots)

	deep, ok := tree.Node(10)
	require.True(t, ok)
	assert.Equal(t, 2, deep.Depth)
	assert.Equal(t, ecsact.ID(9), tree.Nodes[deep.Parent].ID)

	_, ok = tree.Node(1)
	assert.False(t, ok)
}

func TestSystemTreeWalk(t *testing.T) {
	r, pkg := gameRegistry(t)
	tree := NewSystemTree(r, pkg)

	var events []string
	tree.Walk(
		func(n *SystemNode) { events = append(events, "+"+SystemLikeName(r, n.ID)) },
		func(n *SystemNode) { events = append(events, "-"+SystemLikeName(r, n.ID)) },
	)
	assert.Equal(t, []string{
		"+Move", "-Move",
		"+Chase", "-Chase",
		"+AnonymousSystem_7",
		"+Tick", "-Tick",
		"+Tock", "+Deep", "-Deep", "-Tock",
		"-AnonymousSystem_7",
		"+Jump", "+Land", "-Land", "-Jump",
	}, events)

	var order []ecsact.ID
	for _, n := range tree.PreOrder() {
		order = append(order, n.ID)
	}
	assert.Equal(t, []ecsact.ID{5, 6, 7, 8, 9, 10, 20, 21}, order)
}

func TestSystemTreeWalkNilCallbacks(t *testing.T) {
	r, pkg := gameRegistry(t)
	assert.NotPanics(t, func() { NewSystemTree(r, pkg).Walk(nil, nil) })
}
