// Package hierarchy reconstructs a folder tree from a flat,
// revision-bearing list of folder entities and answers depth-bounded
// subtree queries over it.
package hierarchy

import "github.com/google/uuid"

// FolderNode is one folder entity revision.
type FolderNode struct {
	ID       uuid.UUID
	ParentID uuid.UUID // uuid.Nil marks a root folder
	Name     string
	Revision int64 // unix time of the entity revision
}

// Index is a parent→children view over folder nodes. It is built once
// and read-only afterward, so it is safe to share across concurrent
// readers.
type Index struct {
	nodes    map[uuid.UUID]FolderNode
	children map[uuid.UUID][]uuid.UUID
}

// BuildFromEntities indexes the given folders. When the same id appears
// more than once, the node with the highest revision wins; callers that
// need stricter revision semantics pre-filter the input themselves.
// Child order follows first appearance in the input, so traversal over
// the same input is deterministic.
func BuildFromEntities(folders []FolderNode) *Index {
	latest := make(map[uuid.UUID]FolderNode, len(folders))
	order := make([]uuid.UUID, 0, len(folders))
	for _, f := range folders {
		cur, seen := latest[f.ID]
		if !seen {
			order = append(order, f.ID)
			latest[f.ID] = f
			continue
		}
		if f.Revision >= cur.Revision {
			latest[f.ID] = f
		}
	}

	idx := &Index{
		nodes:    latest,
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, id := range order {
		f := latest[id]
		idx.children[f.ParentID] = append(idx.children[f.ParentID], f.ID)
	}
	return idx
}

// Node returns the indexed folder with the given id.
func (x *Index) Node(id uuid.UUID) (FolderNode, bool) {
	f, ok := x.nodes[id]
	return f, ok
}

// Children returns the direct child ids of the given folder. The slice
// is shared with the index; callers treat it as read-only.
func (x *Index) Children(id uuid.UUID) []uuid.UUID {
	return x.children[id]
}

// ChildWithName returns the direct child of parentID carrying the given
// name, for name-conflict detection before creating a sibling.
func (x *Index) ChildWithName(parentID uuid.UUID, name string) (FolderNode, bool) {
	for _, id := range x.children[parentID] {
		if f, ok := x.nodes[id]; ok && f.Name == name {
			return f, true
		}
	}
	return FolderNode{}, false
}

// SubtreeIDs returns rootID plus every descendant reachable within
// maxDepth parent→child edges, in breadth-first order. maxDepth 0 (or
// less) returns the root alone. A visited set guards the walk, so even
// malformed input containing a cycle terminates.
func (x *Index) SubtreeIDs(rootID uuid.UUID, maxDepth int) []uuid.UUID {
	ids := []uuid.UUID{rootID}
	visited := map[uuid.UUID]bool{rootID: true}
	frontier := []uuid.UUID{rootID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []uuid.UUID
		for _, id := range frontier {
			for _, child := range x.children[id] {
				if visited[child] {
					continue
				}
				visited[child] = true
				ids = append(ids, child)
				next = append(next, child)
			}
		}
		frontier = next
	}
	return ids
}
