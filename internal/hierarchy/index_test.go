package hierarchy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds:
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
//	    └── b1
//	        └── b1x
func testTree() (map[string]uuid.UUID, *Index) {
	ids := map[string]uuid.UUID{}
	for _, name := range []string{"root", "a", "a1", "a2", "b", "b1", "b1x"} {
		ids[name] = uuid.New()
	}

	idx := BuildFromEntities([]FolderNode{
		{ID: ids["root"], ParentID: uuid.Nil, Name: "root", Revision: 1},
		{ID: ids["a"], ParentID: ids["root"], Name: "a", Revision: 1},
		{ID: ids["a1"], ParentID: ids["a"], Name: "a1", Revision: 1},
		{ID: ids["a2"], ParentID: ids["a"], Name: "a2", Revision: 1},
		{ID: ids["b"], ParentID: ids["root"], Name: "b", Revision: 1},
		{ID: ids["b1"], ParentID: ids["b"], Name: "b1", Revision: 1},
		{ID: ids["b1x"], ParentID: ids["b1"], Name: "b1x", Revision: 1},
	})
	return ids, idx
}

func TestSubtreeIDs_DepthBounds(t *testing.T) {
	ids, idx := testTree()

	tests := []struct {
		name     string
		maxDepth int
		want     []string
	}{
		{name: "depth 0 is root only", maxDepth: 0, want: []string{"root"}},
		{name: "depth 1", maxDepth: 1, want: []string{"root", "a", "b"}},
		{name: "depth 2", maxDepth: 2, want: []string{"root", "a", "b", "a1", "a2", "b1"}},
		{name: "depth 3 covers everything", maxDepth: 3, want: []string{"root", "a", "b", "a1", "a2", "b1", "b1x"}},
		{name: "depth beyond the tree", maxDepth: 100, want: []string{"root", "a", "b", "a1", "a2", "b1", "b1x"}},
		{name: "negative depth behaves like 0", maxDepth: -1, want: []string{"root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]uuid.UUID, 0, len(tt.want))
			for _, name := range tt.want {
				want = append(want, ids[name])
			}
			assert.Equal(t, want, idx.SubtreeIDs(ids["root"], tt.maxDepth))
		})
	}
}

func TestSubtreeIDs_FromInnerNode(t *testing.T) {
	ids, idx := testTree()

	got := idx.SubtreeIDs(ids["b"], 5)
	assert.Equal(t, []uuid.UUID{ids["b"], ids["b1"], ids["b1x"]}, got)
}

func TestSubtreeIDs_UnknownRootIsJustTheRoot(t *testing.T) {
	_, idx := testTree()

	stranger := uuid.New()
	assert.Equal(t, []uuid.UUID{stranger}, idx.SubtreeIDs(stranger, 10))
}

func TestSubtreeIDs_TerminatesOnCycle(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	// Malformed input: a and b claim each other as parent.
	idx := BuildFromEntities([]FolderNode{
		{ID: a, ParentID: b, Name: "a", Revision: 1},
		{ID: b, ParentID: a, Name: "b", Revision: 1},
	})

	got := idx.SubtreeIDs(a, 1000)
	assert.Equal(t, []uuid.UUID{a, b}, got)
}

func TestBuildFromEntities_LatestRevisionWins(t *testing.T) {
	root, child := uuid.New(), uuid.New()

	idx := BuildFromEntities([]FolderNode{
		{ID: root, ParentID: uuid.Nil, Name: "root", Revision: 1},
		{ID: child, ParentID: root, Name: "old-name", Revision: 10},
		{ID: child, ParentID: root, Name: "new-name", Revision: 20},
	})

	node, ok := idx.Node(child)
	require.True(t, ok)
	assert.Equal(t, "new-name", node.Name)

	// The duplicate did not produce a second child entry.
	assert.Equal(t, []uuid.UUID{child}, idx.Children(root))
}

func TestBuildFromEntities_RevisionCanMoveFolder(t *testing.T) {
	root, a, b, moved := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	idx := BuildFromEntities([]FolderNode{
		{ID: root, ParentID: uuid.Nil, Name: "root", Revision: 1},
		{ID: a, ParentID: root, Name: "a", Revision: 1},
		{ID: b, ParentID: root, Name: "b", Revision: 1},
		{ID: moved, ParentID: a, Name: "moved", Revision: 5},
		{ID: moved, ParentID: b, Name: "moved", Revision: 9},
	})

	assert.Empty(t, idx.Children(a))
	assert.Equal(t, []uuid.UUID{moved}, idx.Children(b))
}

func TestChildWithName(t *testing.T) {
	ids, idx := testTree()

	node, ok := idx.ChildWithName(ids["root"], "a")
	require.True(t, ok)
	assert.Equal(t, ids["a"], node.ID)

	_, ok = idx.ChildWithName(ids["root"], "a1")
	assert.False(t, ok, "a1 is a grandchild, not a direct child")

	_, ok = idx.ChildWithName(ids["root"], "nope")
	assert.False(t, ok)
}
