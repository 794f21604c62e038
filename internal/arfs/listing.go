package arfs

import (
	"context"

	"github.com/google/uuid"

	"github.com/permavault/permavault/internal/gateway"
	"github.com/permavault/permavault/internal/hierarchy"
	"github.com/permavault/permavault/internal/logging"
)

// folderQuery lists every folder entity transaction of one drive. The
// "after" variable is threaded by the pagination loop.
const folderQuery = `query($driveID: String!, $after: String) {
  transactions(
    tags: [
      { name: "Entity-Type", values: ["folder"] }
      { name: "Drive-Id", values: [$driveID] }
    ]
    first: 100
    after: $after
  ) {
    pageInfo { hasNextPage }
    edges { cursor node { id tags { name value } } }
  }
}`

// Lister reads file system entities out of the ledger's GraphQL index.
type Lister struct {
	client *gateway.Client
	log    logging.Logger
}

type ListerOption func(*Lister)

func WithLogger(l logging.Logger) ListerOption {
	return func(ls *Lister) { ls.log = l }
}

func NewLister(client *gateway.Client, opts ...ListerOption) *Lister {
	ls := &Lister{client: client, log: logging.Noop()}
	for _, opt := range opts {
		opt(ls)
	}
	return ls
}

// ListFolders returns every folder entity revision of the drive, paging
// through the index until it reports no next page. Transactions whose
// tags do not decode as folder entities are skipped with a warning.
func (l *Lister) ListFolders(ctx context.Context, driveID uuid.UUID) ([]Entity, error) {
	edges, err := l.client.QueryAllTransactions(ctx, folderQuery, map[string]any{
		"driveID": driveID.String(),
	})
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(edges))
	for _, edge := range edges {
		e, err := EntityFromNode(edge.Node)
		if err != nil {
			l.log.Warn(ctx, "skipping malformed entity", "tx", edge.Node.ID, "err", err)
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// BuildFolderTree lists the drive's folders, reduces them to their
// latest revisions and builds the current-state hierarchy index.
func (l *Lister) BuildFolderTree(ctx context.Context, driveID uuid.UUID) (*hierarchy.Index, error) {
	folders, err := l.ListFolders(ctx, driveID)
	if err != nil {
		return nil, err
	}
	return hierarchy.BuildFromEntities(FolderNodes(LatestRevisions(folders))), nil
}

// SubtreeFolderIDs returns the folder ids under rootID within maxDepth
// levels of the drive's current-state tree.
func (l *Lister) SubtreeFolderIDs(ctx context.Context, driveID, rootID uuid.UUID, maxDepth int) ([]uuid.UUID, error) {
	tree, err := l.BuildFolderTree(ctx, driveID)
	if err != nil {
		return nil, err
	}
	return tree.SubtreeIDs(rootID, maxDepth), nil
}
