// Package arfs models the drive/folder/file entities of the versioned
// file system and lists them from the ledger's GraphQL index.
package arfs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/permavault/permavault/internal/crypto"
	"github.com/permavault/permavault/internal/gateway"
	"github.com/permavault/permavault/internal/hierarchy"
)

// EntityType classifies a file system entity.
type EntityType string

const (
	EntityTypeDrive  EntityType = "drive"
	EntityTypeFolder EntityType = "folder"
	EntityTypeFile   EntityType = "file"
)

// Transaction tag names of the file system protocol.
const (
	TagEntityType     = "Entity-Type"
	TagDriveID        = "Drive-Id"
	TagFolderID       = "Folder-Id"
	TagFileID         = "File-Id"
	TagParentFolderID = "Parent-Folder-Id"
	TagEntityName     = "Entity-Name"
	TagUnixTime       = "Unix-Time"
	TagCipher         = "Cipher"
	TagCipherIV       = "Cipher-IV"
)

var ErrMalformedEntity = errors.New("malformed entity transaction")

// Entity is one revision of a drive, folder or file, decoded from the
// tags of an indexed transaction. Root folders have a nil ParentFolderID.
// Private entities carry the cipher name and iv their data was sealed
// with; public entities leave both empty.
type Entity struct {
	TxID           string
	Type           EntityType
	EntityID       uuid.UUID
	DriveID        uuid.UUID
	ParentFolderID uuid.UUID
	Name           string
	Revision       int64
	Cipher         string
	CipherIV       []byte
}

// IsPrivate reports whether the entity's data payload is encrypted.
func (e Entity) IsPrivate() bool {
	return e.Cipher != ""
}

// OpenData returns the entity's data payload in the clear. Public entity
// data passes through untouched; private data is opened with the drive
// key through the given cipher provider.
func (e Entity) OpenData(cp crypto.CipherProvider, key, data []byte) ([]byte, error) {
	if !e.IsPrivate() {
		return data, nil
	}
	return cp.Decrypt(e.CipherIV, key, data)
}

// EntityFromNode decodes a file system entity from an indexed
// transaction's tags.
func EntityFromNode(node gateway.TransactionNode) (Entity, error) {
	tags := make(map[string]string, len(node.Tags))
	for _, t := range node.Tags {
		tags[t.Name] = t.Value
	}

	e := Entity{TxID: node.ID, Name: tags[TagEntityName]}

	switch EntityType(tags[TagEntityType]) {
	case EntityTypeDrive:
		e.Type = EntityTypeDrive
	case EntityTypeFolder:
		e.Type = EntityTypeFolder
	case EntityTypeFile:
		e.Type = EntityTypeFile
	default:
		return Entity{}, fmt.Errorf("%w: unknown entity type %q in tx %s", ErrMalformedEntity, tags[TagEntityType], node.ID)
	}

	var err error
	if e.DriveID, err = parseID(tags[TagDriveID]); err != nil {
		return Entity{}, fmt.Errorf("%w: drive id in tx %s: %v", ErrMalformedEntity, node.ID, err)
	}

	idTag := TagFolderID
	switch e.Type {
	case EntityTypeDrive:
		e.EntityID = e.DriveID
	case EntityTypeFile:
		idTag = TagFileID
		fallthrough
	case EntityTypeFolder:
		if e.EntityID, err = parseID(tags[idTag]); err != nil {
			return Entity{}, fmt.Errorf("%w: entity id in tx %s: %v", ErrMalformedEntity, node.ID, err)
		}
	}

	// Absent for root folders and drives.
	if v, ok := tags[TagParentFolderID]; ok {
		if e.ParentFolderID, err = parseID(v); err != nil {
			return Entity{}, fmt.Errorf("%w: parent folder id in tx %s: %v", ErrMalformedEntity, node.ID, err)
		}
	}

	if v, ok := tags[TagUnixTime]; ok {
		if e.Revision, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Entity{}, fmt.Errorf("%w: unix time in tx %s: %v", ErrMalformedEntity, node.ID, err)
		}
	}

	e.Cipher = tags[TagCipher]
	if v, ok := tags[TagCipherIV]; ok {
		if e.CipherIV, err = base64.RawURLEncoding.DecodeString(v); err != nil {
			return Entity{}, fmt.Errorf("%w: cipher iv in tx %s: %v", ErrMalformedEntity, node.ID, err)
		}
	}

	return e, nil
}

func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, errors.New("missing id tag")
	}
	return uuid.Parse(s)
}

// LatestRevisions keeps only the most recent revision of each entity id,
// preserving first-seen order.
func LatestRevisions(entities []Entity) []Entity {
	latest := make(map[uuid.UUID]Entity, len(entities))
	order := make([]uuid.UUID, 0, len(entities))
	for _, e := range entities {
		cur, seen := latest[e.EntityID]
		if !seen {
			order = append(order, e.EntityID)
			latest[e.EntityID] = e
			continue
		}
		if e.Revision >= cur.Revision {
			latest[e.EntityID] = e
		}
	}

	out := make([]Entity, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out
}

// FolderNodes converts folder entities into hierarchy nodes. Non-folder
// entities are skipped.
func FolderNodes(entities []Entity) []hierarchy.FolderNode {
	out := make([]hierarchy.FolderNode, 0, len(entities))
	for _, e := range entities {
		if e.Type != EntityTypeFolder {
			continue
		}
		out = append(out, hierarchy.FolderNode{
			ID:       e.EntityID,
			ParentID: e.ParentFolderID,
			Name:     e.Name,
			Revision: e.Revision,
		})
	}
	return out
}
